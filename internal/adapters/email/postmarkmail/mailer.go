package postmarkmail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mrz1836/postmark"

	"github.com/lettersmith/newsletter-api/internal/domain"
	"github.com/lettersmith/newsletter-api/internal/ports/out/mailer"
)

// defaultSendTimeout bounds one outbound delivery call. The workflow above
// decides what a timeout means; the adapter never retries.
const defaultSendTimeout = 10 * time.Second

type Config struct {
	ServerToken  string
	AccountToken string
	// Sender is the address every message is sent from.
	Sender string
	// MessageStream selects the Postmark stream; empty uses the account default.
	MessageStream string
	// SendTimeout overrides the default 10s per-send deadline.
	SendTimeout time.Duration
}

// Mailer delivers email through Postmark's transactional API.
type Mailer struct {
	client  *postmark.Client
	sender  string
	stream  string
	timeout time.Duration
}

func New(cfg Config) (*Mailer, error) {
	if cfg.ServerToken == "" {
		return nil, errors.New("postmark server token is required")
	}
	if _, err := domain.NewSubscriberEmail(cfg.Sender); err != nil {
		return nil, fmt.Errorf("sender address: %w", err)
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &Mailer{
		client:  postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		sender:  cfg.Sender,
		stream:  cfg.MessageStream,
		timeout: timeout,
	}, nil
}

// SetTransportForTest points the client at a stand-in Postmark server.
// It should not be used in production code.
func (m *Mailer) SetTransportForTest(baseURL string, hc *http.Client) {
	m.client.BaseURL = baseURL
	if hc != nil {
		m.client.HTTPClient = hc
	}
}

func (m *Mailer) Send(ctx context.Context, e mailer.Email) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	resp, err := m.client.SendEmail(ctx, postmark.Email{
		From:          m.sender,
		To:            e.To,
		Subject:       e.Subject,
		HTMLBody:      e.HTMLBody,
		TextBody:      e.TextBody,
		MessageStream: m.stream,
	})
	if err != nil {
		return errors.Join(mailer.ErrDeliveryFailed, err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w: postmark error %d: %s", mailer.ErrDeliveryFailed, resp.ErrorCode, resp.Message)
	}
	return nil
}
