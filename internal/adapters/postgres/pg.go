package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UniqueViolationCode is the PostgreSQL SQLSTATE for unique constraint violations.
const UniqueViolationCode = "23505"

// ErrConnect indicates the pool could not be established within the
// configured retry budget.
var ErrConnect = errors.New("failed to open postgres connection")

// PoolOptions tune the pgx pool. Zero values fall back to defaults suited
// for a single small service instance.
type PoolOptions struct {
	MaxConns      int32
	MinConns      int32
	RetryAttempts int
	RetryInterval time.Duration
}

// NewPool parses dsn and establishes a connection pool, retrying with a
// linear backoff so a service restart does not lose the race against its
// database coming up.
func NewPool(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty connection string, set DATABASE_URL", ErrConnect)
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}

	attempts := opts.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	interval := opts.RetryInterval
	if interval <= 0 {
		interval = time.Second
	}

	var lastErr error
	for i := range attempts {
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnect, ctx.Err())
		case <-time.After(time.Duration(i+1) * interval):
		}
	}
	return nil, errors.Join(ErrConnect, lastErr)
}

// Healthcheck returns a readiness probe bound to the pool.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}

// AsPgError unwraps a *pgconn.PgError for SQLSTATE and constraint inspection.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
