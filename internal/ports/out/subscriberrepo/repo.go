package subscriberrepo

import (
	"context"
	"time"

	"github.com/lettersmith/newsletter-api/internal/domain"
)

// Subscriber is the persistence shape used by the subscriber repository.
// It is an internal record, not an HTTP DTO; name and email are stored as
// plain strings and re-validated on the way out where it matters.
type Subscriber struct {
	ID           domain.SubscriberID
	Name         string
	Email        string
	Status       domain.SubscriberStatus
	SubscribedAt time.Time
}

// ConfirmedSubscriber is the projection used by the broadcast workflow.
type ConfirmedSubscriber struct {
	ID    domain.SubscriberID
	Email string
}

// Repository provides read and status-transition access to persisted
// subscribers. Inserts go through the unit of work (see ports/out/unitofwork)
// because a subscriber row must never exist without its confirmation token.
type Repository interface {
	// Confirm sets the subscriber's status to confirmed. Confirming an
	// already-confirmed subscriber is a no-op success.
	Confirm(ctx context.Context, id domain.SubscriberID) error

	// ListConfirmed returns the current snapshot of confirmed subscribers.
	ListConfirmed(ctx context.Context) ([]ConfirmedSubscriber, error)

	GetByID(ctx context.Context, id domain.SubscriberID) (Subscriber, error)
}
