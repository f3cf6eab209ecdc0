package rediskv_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/storage/kv"
	"github.com/trezcool/masomo-dashboard/storage/kv/kvtest"
	"github.com/trezcool/masomo-dashboard/storage/kv/redis"
)

func setup(t *testing.T, opts ...rediskv.Option) (*miniredis.Miniredis, *rediskv.Store) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := rediskv.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return mr, store
}

func TestStore_Contract(t *testing.T) {
	_, store := setup(t)
	kvtest.RunStoreContract(t, store)
}

func TestStore_Prefix(t *testing.T) {
	mr, store := setup(t, rediskv.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cid:user", `{}`))
	assert.True(t, mr.Exists("test:cid:user"))

	keys, err := store.Keys(ctx, "cid:")
	require.NoError(t, err)
	assert.Equal(t, []string{"cid:user"}, keys)
}

func TestStore_TTL(t *testing.T) {
	mr, store := setup(t, rediskv.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cid:user", `{}`))
	assert.Equal(t, time.Minute, mr.TTL("masomo:session:cid:user"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, "cid:user")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStore_Unreachable(t *testing.T) {
	mr, store := setup(t)
	ctx := context.Background()
	mr.Close()

	assert.Error(t, store.Ping(ctx))
	_, err := store.Get(ctx, "cid:user")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, kv.ErrNotFound)
}
