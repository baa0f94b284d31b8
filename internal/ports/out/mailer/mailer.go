package mailer

import "context"

// Email is one outbound message with both HTML and plain-text bodies.
type Email struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer delivers a single email through an external transport. Send is a
// bounded-time call: adapters apply their own timeout and do not retry.
// What a delivery failure means is decided by the calling workflow.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}
