package session

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/storage/kv"
)

var (
	// ErrNoEntry is returned by Backend.Read when the key has no entry.
	ErrNoEntry = errors.New("session: no entry")
	// ErrCorrupt is returned (wrapped) by Backend.Read when the entry exists but cannot be decoded.
	ErrCorrupt = errors.New("session: corrupt entry")
)

// Backend is one of the two client-side stores replicating session values.
// Values are passed around serialized.
type Backend interface {
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, raw string) error
	Delete(ctx context.Context, key string) error
}

// KVBackend is a client's volatile store: the shared kv.Store namespaced by client id.
type KVBackend struct {
	store    kv.Store
	clientID string
}

var _ Backend = (*KVBackend)(nil)

func NewKVBackend(store kv.Store, clientID string) *KVBackend {
	return &KVBackend{store: store, clientID: clientID}
}

// KVKey returns the kv.Store key holding key for the client.
func KVKey(clientID, key string) string {
	return clientID + ":" + key
}

func (b *KVBackend) Read(ctx context.Context, key string) (string, error) {
	val, err := b.store.Get(ctx, KVKey(b.clientID, key))
	if errors.Is(err, kv.ErrNotFound) {
		return "", ErrNoEntry
	}
	return val, err
}

func (b *KVBackend) Write(ctx context.Context, key, raw string) error {
	return b.store.Set(ctx, KVKey(b.clientID, key), raw)
}

func (b *KVBackend) Delete(ctx context.Context, key string) error {
	return b.store.Del(ctx, KVKey(b.clientID, key))
}
