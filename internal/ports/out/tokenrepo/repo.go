package tokenrepo

import (
	"context"

	"github.com/lettersmith/newsletter-api/internal/domain"
)

// Repository resolves confirmation tokens to subscriber ids. Tokens are
// written once through the unit of work and never updated; a token may be
// resolved any number of times.
type Repository interface {
	// Resolve returns the subscriber id the token was issued for.
	// An unknown token reports ok=false with a nil error; that is an
	// expected outcome, not a storage fault.
	Resolve(ctx context.Context, token string) (id domain.SubscriberID, ok bool, err error)
}
