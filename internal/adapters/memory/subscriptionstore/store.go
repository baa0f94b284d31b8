package subscriptionstore

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/lettersmith/newsletter-api/internal/domain"
	"github.com/lettersmith/newsletter-api/internal/ports/out/subscriberrepo"
	"github.com/lettersmith/newsletter-api/internal/ports/out/tokenrepo"
	"github.com/lettersmith/newsletter-api/internal/ports/out/unitofwork"
)

// Store is an in-memory implementation of the subscriber repository, the
// token repository, and the unit-of-work runner. It is safe for concurrent
// use. Units of work hold the write lock for their whole duration, so a
// failed unit leaves no trace and concurrent sign-ups never observe each
// other's partial writes.
type Store struct {
	mu        sync.RWMutex
	subs      map[domain.SubscriberID]subscriberrepo.Subscriber
	idByEmail map[string]domain.SubscriberID
	tokens    map[string]domain.SubscriberID
}

func New() *Store {
	return &Store{
		subs:      make(map[domain.SubscriberID]subscriberrepo.Subscriber),
		idByEmail: make(map[string]domain.SubscriberID),
		tokens:    make(map[string]domain.SubscriberID),
	}
}

// Run executes fn against staged writes and applies them only when fn
// succeeds, mirroring a database transaction commit.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, st unitofwork.Stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stg := &stage{store: s, tokens: make(map[string]domain.SubscriberID)}
	if err := fn(ctx, unitofwork.Stores{Subscribers: stg, Tokens: stg}); err != nil {
		return err
	}

	for _, sub := range stg.subs {
		s.subs[sub.ID] = sub
		s.idByEmail[sub.Email] = sub.ID
	}
	for token, id := range stg.tokens {
		s.tokens[token] = id
	}
	return nil
}

func (s *Store) Confirm(ctx context.Context, id domain.SubscriberID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return subscriberrepo.ErrNotFound
	}
	// Re-confirming is a no-op success.
	sub.Status = domain.StatusConfirmed
	s.subs[id] = sub
	return nil
}

func (s *Store) ListConfirmed(ctx context.Context) ([]subscriberrepo.ConfirmedSubscriber, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]subscriberrepo.ConfirmedSubscriber, 0)
	for _, sub := range s.subs {
		if sub.Status == domain.StatusConfirmed {
			out = append(out, subscriberrepo.ConfirmedSubscriber{ID: sub.ID, Email: sub.Email})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id domain.SubscriberID) (subscriberrepo.Subscriber, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[id]
	if !ok {
		return subscriberrepo.Subscriber{}, subscriberrepo.ErrNotFound
	}
	return sub, nil
}

func (s *Store) Resolve(ctx context.Context, token string) (domain.SubscriberID, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.tokens[token]
	if !ok {
		return "", false, nil
	}
	return id, true, nil
}

// stage buffers writes for one unit of work. Uniqueness is checked against
// both committed state and earlier staged writes, under the store lock held
// by Run.
type stage struct {
	store  *Store
	subs   []subscriberrepo.Subscriber
	tokens map[string]domain.SubscriberID
}

func (st *stage) Insert(ctx context.Context, sub subscriberrepo.Subscriber) error {
	_ = ctx
	if sub.ID == "" {
		return errors.New("subscriber id must not be empty")
	}
	if _, ok := st.store.idByEmail[sub.Email]; ok {
		return subscriberrepo.ErrEmailTaken
	}
	for _, staged := range st.subs {
		if staged.Email == sub.Email {
			return subscriberrepo.ErrEmailTaken
		}
	}
	st.subs = append(st.subs, sub)
	return nil
}

func (st *stage) Store(ctx context.Context, token string, id domain.SubscriberID) error {
	_ = ctx
	if _, ok := st.store.tokens[token]; ok {
		return tokenrepo.ErrDuplicateToken
	}
	if _, ok := st.tokens[token]; ok {
		return tokenrepo.ErrDuplicateToken
	}
	st.tokens[token] = id
	return nil
}
