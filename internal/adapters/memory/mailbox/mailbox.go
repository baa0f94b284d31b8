package mailbox

import (
	"context"
	"sync"

	"github.com/lettersmith/newsletter-api/internal/ports/out/mailer"
)

// Mailbox is an in-memory mailer that records every sent message. It backs
// tests that assert on outbound email without a transport. FailFor makes
// delivery to specific addresses fail, for exercising per-recipient failure
// isolation.
type Mailbox struct {
	mu      sync.Mutex
	sent    []mailer.Email
	failFor map[string]error
}

func New() *Mailbox {
	return &Mailbox{failFor: make(map[string]error)}
}

func (m *Mailbox) Send(ctx context.Context, e mailer.Email) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[e.To]; ok {
		return err
	}
	m.sent = append(m.sent, e)
	return nil
}

// FailFor makes every Send to addr return err.
func (m *Mailbox) FailFor(addr string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failFor[addr] = err
}

// Sent returns a copy of all recorded messages in send order.
func (m *Mailbox) Sent() []mailer.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Email(nil), m.sent...)
}

// SentTo returns the messages delivered to addr.
func (m *Mailbox) SentTo(addr string) []mailer.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []mailer.Email
	for _, e := range m.sent {
		if e.To == addr {
			out = append(out, e)
		}
	}
	return out
}
