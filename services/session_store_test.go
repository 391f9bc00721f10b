package services

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStores(t *testing.T) {
	factories := map[string]StoreFactory{
		"memory": NewMemoryStore(),
		"badger": NewBadgerStore(openTestBadger(t)),
	}

	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := factory.ForSession("a")
			b := factory.ForSession("b")

			_, ok, err := a.Get(ctx, KeyLocation)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, a.Set(ctx, KeyLocation, `"Paris"`))
			require.NoError(t, a.Set(ctx, KeyPrice, `"$"`))
			require.NoError(t, b.Set(ctx, KeyLocation, `"Rome"`))

			v, ok, err := a.Get(ctx, KeyLocation)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `"Paris"`, v)

			require.NoError(t, a.Set(ctx, KeyLocation, `"Lyon"`))
			v, _, _ = a.Get(ctx, KeyLocation)
			assert.Equal(t, `"Lyon"`, v)

			require.NoError(t, a.Clear(ctx))
			_, ok, err = a.Get(ctx, KeyPrice)
			require.NoError(t, err)
			assert.False(t, ok)

			// other sessions are untouched
			v, ok, err = b.Get(ctx, KeyLocation)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `"Rome"`, v)
		})
	}
}
