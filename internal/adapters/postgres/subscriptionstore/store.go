package subscriptionstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lettersmith/newsletter-api/internal/adapters/postgres"
	"github.com/lettersmith/newsletter-api/internal/domain"
	"github.com/lettersmith/newsletter-api/internal/ports/out/subscriberrepo"
	"github.com/lettersmith/newsletter-api/internal/ports/out/tokenrepo"
	"github.com/lettersmith/newsletter-api/internal/ports/out/unitofwork"
)

// Store is the Postgres implementation of the subscriber repository, the
// token repository, and the unit-of-work runner. Units of work map directly
// onto database transactions, so two concurrent sign-ups for distinct emails
// proceed without blocking each other.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Run executes fn inside one pgx transaction.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, st unitofwork.Stores) error) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		w := &txWriter{tx: tx}
		return fn(ctx, unitofwork.Stores{Subscribers: w, Tokens: w})
	})
}

func (s *Store) Confirm(ctx context.Context, id domain.SubscriberID) error {
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return fmt.Errorf("invalid subscriber id: %w", err)
	}
	// Setting an already-confirmed row to confirmed again is harmless, which
	// is exactly the idempotence the confirmation workflow relies on.
	ct, err := s.pool.Exec(ctx, `
		UPDATE subscriptions
		SET status = $2
		WHERE id = $1
	`, uid, string(domain.StatusConfirmed))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return subscriberrepo.ErrNotFound
	}
	return nil
}

func (s *Store) ListConfirmed(ctx context.Context) ([]subscriberrepo.ConfirmedSubscriber, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, email
		FROM subscriptions
		WHERE status = $1
		ORDER BY email
	`, string(domain.StatusConfirmed))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]subscriberrepo.ConfirmedSubscriber, 0)
	for rows.Next() {
		var (
			id    uuid.UUID
			email string
		)
		if err := rows.Scan(&id, &email); err != nil {
			return nil, err
		}
		out = append(out, subscriberrepo.ConfirmedSubscriber{
			ID:    domain.SubscriberID(id.String()),
			Email: email,
		})
	}
	return out, rows.Err()
}

func (s *Store) GetByID(ctx context.Context, id domain.SubscriberID) (subscriberrepo.Subscriber, error) {
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return subscriberrepo.Subscriber{}, fmt.Errorf("invalid subscriber id: %w", err)
	}
	var sub subscriberrepo.Subscriber
	var rowID uuid.UUID
	var status string
	err = s.pool.QueryRow(ctx, `
		SELECT id, name, email, status, subscribed_at
		FROM subscriptions
		WHERE id = $1
	`, uid).Scan(&rowID, &sub.Name, &sub.Email, &status, &sub.SubscribedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return subscriberrepo.Subscriber{}, subscriberrepo.ErrNotFound
		}
		return subscriberrepo.Subscriber{}, err
	}
	sub.ID = domain.SubscriberID(rowID.String())
	sub.Status = domain.SubscriberStatus(status)
	return sub, nil
}

func (s *Store) Resolve(ctx context.Context, token string) (domain.SubscriberID, bool, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT subscriber_id
		FROM subscription_tokens
		WHERE subscription_token = $1
	`, token).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return domain.SubscriberID(id.String()), true, nil
}

// txWriter provides the unit-of-work write surface on top of one transaction.
type txWriter struct {
	tx pgx.Tx
}

func (w *txWriter) Insert(ctx context.Context, sub subscriberrepo.Subscriber) error {
	uid, err := uuid.Parse(string(sub.ID))
	if err != nil {
		return fmt.Errorf("invalid subscriber id: %w", err)
	}
	_, err = w.tx.Exec(ctx, `
		INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`, uid, sub.Email, sub.Name, sub.SubscribedAt.UTC(), string(sub.Status))
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			if pe.ConstraintName == "subscriptions_email_unique" {
				return subscriberrepo.ErrEmailTaken
			}
		}
		return err
	}
	return nil
}

func (w *txWriter) Store(ctx context.Context, token string, id domain.SubscriberID) error {
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return fmt.Errorf("invalid subscriber id: %w", err)
	}
	_, err = w.tx.Exec(ctx, `
		INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		VALUES ($1, $2)
	`, token, uid)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return tokenrepo.ErrDuplicateToken
		}
		return err
	}
	return nil
}
