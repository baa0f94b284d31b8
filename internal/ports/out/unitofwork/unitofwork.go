package unitofwork

import (
	"context"

	"github.com/lettersmith/newsletter-api/internal/domain"
	"github.com/lettersmith/newsletter-api/internal/ports/out/subscriberrepo"
)

// SubscriberWriter inserts subscriber rows inside a unit of work.
type SubscriberWriter interface {
	// Insert persists a new subscriber. It returns
	// subscriberrepo.ErrEmailTaken when a subscriber already exists for the
	// email address.
	Insert(ctx context.Context, s subscriberrepo.Subscriber) error
}

// TokenWriter inserts confirmation tokens inside a unit of work.
type TokenWriter interface {
	// Store persists the token -> subscriber association. It returns
	// tokenrepo.ErrDuplicateToken when the token value is already in use.
	Store(ctx context.Context, token string, id domain.SubscriberID) error
}

// Stores are the write-side views handed to a unit-of-work function.
type Stores struct {
	Subscribers SubscriberWriter
	Tokens      TokenWriter
}

// Runner executes fn as one atomic unit: every write fn performs through the
// provided Stores commits together, or none of them persists. This is the
// invariant that keeps a subscriber row from existing without a resolvable
// confirmation token.
type Runner interface {
	Run(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}
