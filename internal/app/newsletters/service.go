package newsletters

import (
	"context"
	"log/slog"

	"github.com/lettersmith/newsletter-api/internal/domain"
	"github.com/lettersmith/newsletter-api/internal/ports/out/mailer"
	"github.com/lettersmith/newsletter-api/internal/ports/out/subscriberrepo"
)

// Service implements the broadcast workflow: one issue, delivered to every
// confirmed subscriber, with per-recipient failure isolation.
type Service struct {
	subscribers subscriberrepo.Repository
	mail        mailer.Mailer
	log         *slog.Logger
}

func NewService(subscribers subscriberrepo.Repository, mail mailer.Mailer, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{subscribers: subscribers, mail: mail, log: log}
}

// Publish sends the issue to every confirmed subscriber. A failed or skipped
// recipient is logged and does not abort delivery to the rest; the call only
// fails when the confirmed subscribers cannot be enumerated at all.
func (s *Service) Publish(ctx context.Context, issue domain.Issue) error {
	if issue.Title == "" {
		return &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "issue title must not be empty"}
	}
	if issue.HTML == "" || issue.Text == "" {
		return &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "issue content must include html and text bodies"}
	}

	recipients, err := s.subscribers.ListConfirmed(ctx)
	if err != nil {
		return err
	}

	for _, r := range recipients {
		// Stored addresses predate current validation rules; re-check on read
		// and treat a bad row like any other per-recipient failure.
		email, err := domain.NewSubscriberEmail(r.Email)
		if err != nil {
			s.log.WarnContext(ctx, "skipping confirmed subscriber with invalid stored email",
				"subscriber_id", string(r.ID), "error", err)
			continue
		}
		if err := s.mail.Send(ctx, mailer.Email{
			To:       email.String(),
			Subject:  issue.Title,
			HTMLBody: issue.HTML,
			TextBody: issue.Text,
		}); err != nil {
			s.log.WarnContext(ctx, "newsletter delivery failed for subscriber",
				"subscriber_id", string(r.ID), "error", err)
			continue
		}
	}
	return nil
}
