package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lettersmith/newsletter-api/internal/domain"
	subscriberrepoport "github.com/lettersmith/newsletter-api/internal/ports/out/subscriberrepo"
	tokenrepoport "github.com/lettersmith/newsletter-api/internal/ports/out/tokenrepo"
	unitofworkport "github.com/lettersmith/newsletter-api/internal/ports/out/unitofwork"
)

type CleanupFunc = func()

// SubscriptionStore is the combined storage surface an adapter must provide:
// subscriber reads and status transitions, token resolution, and the atomic
// unit of work spanning both tables.
type SubscriptionStore interface {
	subscriberrepoport.Repository
	tokenrepoport.Repository
	unitofworkport.Runner
}

type StoreFactory func(t *testing.T) (SubscriptionStore, CleanupFunc)

// RunSubscriptionStore exercises the storage contract against any adapter.
// Both the in-memory and the Postgres implementations must pass it.
func RunSubscriptionStore(t *testing.T, newStore StoreFactory) {
	t.Helper()
	ctx := context.Background()

	signUp := func(t *testing.T, store SubscriptionStore, email, token string) domain.SubscriberID {
		t.Helper()
		id := domain.SubscriberID(uuid.NewString())
		err := store.Run(ctx, func(ctx context.Context, st unitofworkport.Stores) error {
			if err := st.Subscribers.Insert(ctx, subscriberrepoport.Subscriber{
				ID:           id,
				Name:         "le guin",
				Email:        email,
				Status:       domain.StatusPendingConfirmation,
				SubscribedAt: time.Unix(1000, 0).UTC(),
			}); err != nil {
				return err
			}
			return st.Tokens.Store(ctx, token, id)
		})
		if err != nil {
			t.Fatalf("sign-up unit of work: %v", err)
		}
		return id
	}

	t.Run("insert then read back", func(t *testing.T) {
		store, cleanup := newStore(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		id := signUp(t, store, "ursula@example.com", "tok-read-back")
		got, err := store.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Email != "ursula@example.com" || got.Name != "le guin" {
			t.Fatalf("unexpected subscriber: %+v", got)
		}
		if got.Status != domain.StatusPendingConfirmation {
			t.Fatalf("status=%q, want pending_confirmation", got.Status)
		}
		if !got.SubscribedAt.Equal(time.Unix(1000, 0).UTC()) {
			t.Fatalf("subscribedAt=%v", got.SubscribedAt)
		}

		resolved, ok, err := store.Resolve(ctx, "tok-read-back")
		if err != nil || !ok {
			t.Fatalf("Resolve: ok=%v err=%v", ok, err)
		}
		if resolved != id {
			t.Fatalf("resolved=%q, want %q", resolved, id)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		store, cleanup := newStore(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		signUp(t, store, "dup@example.com", "tok-dup-1")
		err := store.Run(ctx, func(ctx context.Context, st unitofworkport.Stores) error {
			return st.Subscribers.Insert(ctx, subscriberrepoport.Subscriber{
				ID:           domain.SubscriberID(uuid.NewString()),
				Name:         "someone else",
				Email:        "dup@example.com",
				Status:       domain.StatusPendingConfirmation,
				SubscribedAt: time.Unix(2000, 0).UTC(),
			})
		})
		if !errors.Is(err, subscriberrepoport.ErrEmailTaken) {
			t.Fatalf("err=%v, want ErrEmailTaken", err)
		}
	})

	t.Run("duplicate token is rejected", func(t *testing.T) {
		store, cleanup := newStore(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		id := signUp(t, store, "first@example.com", "tok-same")
		err := store.Run(ctx, func(ctx context.Context, st unitofworkport.Stores) error {
			return st.Tokens.Store(ctx, "tok-same", id)
		})
		if !errors.Is(err, tokenrepoport.ErrDuplicateToken) {
			t.Fatalf("err=%v, want ErrDuplicateToken", err)
		}
	})

	t.Run("failed unit of work leaves nothing behind", func(t *testing.T) {
		store, cleanup := newStore(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		id := domain.SubscriberID(uuid.NewString())
		boom := errors.New("boom")
		err := store.Run(ctx, func(ctx context.Context, st unitofworkport.Stores) error {
			if err := st.Subscribers.Insert(ctx, subscriberrepoport.Subscriber{
				ID:           id,
				Name:         "ghost",
				Email:        "ghost@example.com",
				Status:       domain.StatusPendingConfirmation,
				SubscribedAt: time.Unix(1000, 0).UTC(),
			}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("err=%v, want boom", err)
		}

		if _, err := store.GetByID(ctx, id); !errors.Is(err, subscriberrepoport.ErrNotFound) {
			t.Fatalf("subscriber visible after rollback: err=%v", err)
		}
		// The email must be free for a retry of the whole sign-up.
		signUp(t, store, "ghost@example.com", "tok-ghost-retry")
	})

	t.Run("confirm is idempotent", func(t *testing.T) {
		store, cleanup := newStore(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		id := signUp(t, store, "confirm@example.com", "tok-confirm")
		for range 2 {
			if err := store.Confirm(ctx, id); err != nil {
				t.Fatalf("Confirm: %v", err)
			}
		}
		got, err := store.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Status != domain.StatusConfirmed {
			t.Fatalf("status=%q, want confirmed", got.Status)
		}
	})

	t.Run("confirm unknown subscriber", func(t *testing.T) {
		store, cleanup := newStore(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		err := store.Confirm(ctx, domain.SubscriberID(uuid.NewString()))
		if !errors.Is(err, subscriberrepoport.ErrNotFound) {
			t.Fatalf("err=%v, want ErrNotFound", err)
		}
	})

	t.Run("list confirmed filters and snapshots", func(t *testing.T) {
		store, cleanup := newStore(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		confirmed := signUp(t, store, "a-confirmed@example.com", "tok-list-a")
		signUp(t, store, "b-pending@example.com", "tok-list-b")
		if err := store.Confirm(ctx, confirmed); err != nil {
			t.Fatalf("Confirm: %v", err)
		}

		got, err := store.ListConfirmed(ctx)
		if err != nil {
			t.Fatalf("ListConfirmed: %v", err)
		}
		if len(got) != 1 || got[0].Email != "a-confirmed@example.com" {
			t.Fatalf("confirmed list=%+v", got)
		}

		// Re-querying reflects the current state, not a historical snapshot.
		second := signUp(t, store, "c-late@example.com", "tok-list-c")
		if err := store.Confirm(ctx, second); err != nil {
			t.Fatalf("Confirm second: %v", err)
		}
		got, err = store.ListConfirmed(ctx)
		if err != nil {
			t.Fatalf("ListConfirmed again: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("confirmed list after second confirm=%+v", got)
		}
	})

	t.Run("resolve unknown token is not an error", func(t *testing.T) {
		store, cleanup := newStore(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		id, ok, err := store.Resolve(ctx, "never-issued")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if ok || id != "" {
			t.Fatalf("ok=%v id=%q, want miss", ok, id)
		}
	})
}
