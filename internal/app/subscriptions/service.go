package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/lettersmith/newsletter-api/internal/domain"
	"github.com/lettersmith/newsletter-api/internal/ports/out/clock"
	"github.com/lettersmith/newsletter-api/internal/ports/out/mailer"
	"github.com/lettersmith/newsletter-api/internal/ports/out/subscriberrepo"
	"github.com/lettersmith/newsletter-api/internal/ports/out/tokenrepo"
	"github.com/lettersmith/newsletter-api/internal/ports/out/unitofwork"
)

// Service implements the subscription and confirmation workflows.
type Service struct {
	uow         unitofwork.Runner
	subscribers subscriberrepo.Repository
	tokens      tokenrepo.Repository
	mail        mailer.Mailer
	clk         clock.Clock
	log         *slog.Logger

	// baseURL is the externally reachable root of this service, used to build
	// confirmation links.
	baseURL string

	newSubscriberID func() domain.SubscriberID
	newToken        func() (string, error)
}

func NewService(
	uow unitofwork.Runner,
	subscribers subscriberrepo.Repository,
	tokens tokenrepo.Repository,
	mail mailer.Mailer,
	clk clock.Clock,
	baseURL string,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{
		uow:         uow,
		subscribers: subscribers,
		tokens:      tokens,
		mail:        mail,
		clk:         clk,
		log:         log,
		baseURL:     strings.TrimRight(baseURL, "/"),
		newSubscriberID: func() domain.SubscriberID {
			return domain.SubscriberID(uuid.NewString())
		},
		newToken: newSubscriptionToken,
	}
}

// SetTokenSourceForTest overrides token generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetTokenSourceForTest(fn func() (string, error)) {
	if fn != nil {
		s.newToken = fn
	}
}

type SubscribeInput struct {
	Name  string
	Email string
}

type Subscribed struct {
	ID domain.SubscriberID
}

// Subscribe runs the sign-up workflow: validate, persist subscriber and
// confirmation token in one atomic unit, then send the confirmation email.
// The email step is deliberately outside the storage unit: a delivery failure
// leaves the committed rows in place (the confirmation can be re-sent out of
// band) and is surfaced to the caller as an unexpected failure.
func (s *Service) Subscribe(ctx context.Context, in SubscribeInput) (Subscribed, error) {
	name, err := domain.NewSubscriberName(in.Name)
	if err != nil {
		return Subscribed{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: err.Error()}
	}
	email, err := domain.NewSubscriberEmail(in.Email)
	if err != nil {
		return Subscribed{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: err.Error()}
	}

	id := s.newSubscriberID()
	var token string

	// A caller disconnect must not abandon the commit halfway; detach the
	// storage unit from request cancellation.
	storeCtx := context.WithoutCancel(ctx)
	err = s.uow.Run(storeCtx, func(ctx context.Context, st unitofwork.Stores) error {
		if err := st.Subscribers.Insert(ctx, subscriberrepo.Subscriber{
			ID:           id,
			Name:         name.String(),
			Email:        email.String(),
			Status:       domain.StatusPendingConfirmation,
			SubscribedAt: s.clk.Now().UTC(),
		}); err != nil {
			return err
		}
		tok, err := s.newToken()
		if err != nil {
			return err
		}
		token = tok
		return st.Tokens.Store(ctx, token, id)
	})
	if err != nil {
		if errors.Is(err, subscriberrepo.ErrEmailTaken) {
			return Subscribed{}, &Error{Status: 409, Code: "EMAIL_TAKEN", Message: "a subscriber already exists for this email address"}
		}
		return Subscribed{}, err
	}

	if err := s.sendConfirmationEmail(ctx, email, token); err != nil {
		s.log.ErrorContext(ctx, "confirmation email not delivered",
			"subscriber_id", string(id), "error", err)
		return Subscribed{}, err
	}

	return Subscribed{ID: id}, nil
}

// ConfirmSubscription resolves the token and flips the subscriber to
// confirmed. Replaying a token is idempotent: re-confirming an already
// confirmed subscriber succeeds.
func (s *Service) ConfirmSubscription(ctx context.Context, token string) error {
	id, ok, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		// An unknown token is expected adversarial input, not a server fault.
		return &Error{Status: 401, Code: "INVALID_TOKEN", Message: "unknown subscription token"}
	}
	return s.subscribers.Confirm(context.WithoutCancel(ctx), id)
}

func (s *Service) sendConfirmationEmail(ctx context.Context, to domain.SubscriberEmail, token string) error {
	link := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", s.baseURL, token)
	return s.mail.Send(ctx, mailer.Email{
		To:      to.String(),
		Subject: "Welcome!",
		HTMLBody: fmt.Sprintf(
			"Welcome to our newsletter!<br />Click <a href=%q>here</a> to confirm your subscription.",
			link,
		),
		TextBody: fmt.Sprintf(
			"Welcome to our newsletter!\nVisit %s to confirm your subscription.",
			link,
		),
	})
}
