package subscriptionstore_test

import (
	"testing"

	"github.com/lettersmith/newsletter-api/internal/adapters/contracttest"
	"github.com/lettersmith/newsletter-api/internal/adapters/postgres/subscriptionstore"
	"github.com/lettersmith/newsletter-api/internal/adapters/postgres/testutil"
)

func TestSubscriptionStoreContract(t *testing.T) {
	contracttest.RunSubscriptionStore(t, func(t *testing.T) (contracttest.SubscriptionStore, contracttest.CleanupFunc) {
		pool := testutil.NewPool(t)
		return subscriptionstore.New(pool), nil
	})
}
