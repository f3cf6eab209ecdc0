// Package kvtest holds the behavior every kv.Store must honor.
package kvtest

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/storage/kv"
)

// RunStoreContract runs the kv.Store contract against store. store must be empty.
func RunStoreContract(t *testing.T, store kv.Store) {
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "cid-1:user", `{"schoolId":{"_id":"abc123"}}`))

		val, err := store.Get(ctx, "cid-1:user")
		require.NoError(t, err)
		assert.Equal(t, `{"schoolId":{"_id":"abc123"}}`, val)
	})

	t.Run("Set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "cid-1:theme", `"dark"`))
		require.NoError(t, store.Set(ctx, "cid-1:theme", `"light"`))

		val, err := store.Get(ctx, "cid-1:theme")
		require.NoError(t, err)
		assert.Equal(t, `"light"`, val)
	})

	t.Run("Get non-existent", func(t *testing.T) {
		_, err := store.Get(ctx, "cid-404:user")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("Keys", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "cid-2:user", `{}`))

		keys, err := store.Keys(ctx, "cid-1:")
		require.NoError(t, err)
		sort.Strings(keys)
		assert.Equal(t, []string{"cid-1:theme", "cid-1:user"}, keys)
	})

	t.Run("Del", func(t *testing.T) {
		require.NoError(t, store.Del(ctx, "cid-1:user", "cid-1:theme"))
		require.NoError(t, store.Del(ctx, "cid-404:user")) // deleting nothing is fine

		_, err := store.Get(ctx, "cid-1:user")
		assert.ErrorIs(t, err, kv.ErrNotFound)

		keys, err := store.Keys(ctx, "cid-1:")
		require.NoError(t, err)
		assert.Empty(t, keys)

		val, err := store.Get(ctx, "cid-2:user")
		require.NoError(t, err)
		assert.Equal(t, `{}`, val)
	})
}
