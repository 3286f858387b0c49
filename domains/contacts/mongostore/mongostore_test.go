package mongostore_test

import (
	"context"
	"os"
	"testing"

	"github.com/soldatov-s/go-contacts/domains/contacts"
	"github.com/soldatov-s/go-contacts/domains/contacts/cachestore"
	"github.com/soldatov-s/go-contacts/domains/contacts/mongostore"
	"github.com/soldatov-s/go-contacts/providers/mongo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestConfig_SetDefault(t *testing.T) {
	cfg := &mongostore.Config{}
	assert.Equal(t, "contacts", cfg.SetDefault().Collection)
	assert.Empty(t, cfg.Collection)
}

func TestNew_Transactor(t *testing.T) {
	testCases := []struct {
		testName     string
		transactions bool
	}{
		{testName: "transactions disabled", transactions: false},
		{testName: "transactions enabled", transactions: true},
	}

	for _, tt := range testCases {
		tt := tt
		t.Run(tt.testName, func(t *testing.T) {
			store := mongostore.New(nil, &mongostore.Config{Transactions: tt.transactions})
			_, ok := store.(contacts.Transactor)
			assert.Equal(t, tt.transactions, ok)

			_, ok = cachestore.New(store, nil).(contacts.Transactor)
			assert.Equal(t, tt.transactions, ok)
		})
	}
}

// TestStore runs against a real mongo when MONGO_TEST_DSN is set.
func TestStore(t *testing.T) {
	dsn := os.Getenv("MONGO_TEST_DSN")
	if dsn == "" {
		t.Skip("MONGO_TEST_DSN is not set")
	}

	ctx := context.Background()
	enity, err := mongo.NewEnity(ctx, "test", &mongo.Config{DSN: dsn})
	require.NoError(t, err)

	g, ctx := errgroup.WithContext(ctx)
	require.NoError(t, enity.Start(ctx, g))
	defer func() {
		require.NoError(t, enity.Shutdown(ctx))
	}()

	store := mongostore.New(enity, &mongostore.Config{Collection: "contacts_test", Transactions: os.Getenv("MONGO_TEST_TX") != ""})
	defer func() {
		_ = enity.Database().Collection("contacts_test").Drop(ctx)
	}()

	require.NoError(t, store.Put(ctx, "Jane", contacts.Record{Phone: "(555) 123-4567"}))
	require.NoError(t, store.Put(ctx, "Jane", contacts.Record{Phone: "(555) 000-0000"}))

	rec, err := store.Get(ctx, "Jane")
	require.NoError(t, err)
	assert.Equal(t, "(555) 000-0000", rec.Phone)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]contacts.Record{"Jane": {Phone: "(555) 000-0000"}}, list)

	rename := func(ctx context.Context, tx contacts.Store) error {
		if err := tx.Delete(ctx, "Jane"); err != nil {
			return err
		}
		return tx.Put(ctx, "Janet", contacts.Record{Phone: "(555) 000-0000"})
	}
	if txStore, ok := store.(contacts.Transactor); ok {
		require.NoError(t, txStore.WithinTransaction(ctx, rename))
	} else {
		require.NoError(t, rename(ctx, store))
	}

	_, err = store.Get(ctx, "Jane")
	assert.ErrorIs(t, err, contacts.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "Jane"), contacts.ErrNotFound)
	require.NoError(t, store.Delete(ctx, "Janet"))
}
