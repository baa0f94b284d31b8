package mailer

import "errors"

// ErrDeliveryFailed indicates the transport rejected the message or the call
// failed outright. It wraps the transport-specific cause.
var ErrDeliveryFailed = errors.New("email delivery failed")
