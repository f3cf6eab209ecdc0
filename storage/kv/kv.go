// Package kv defines the shared key-value store backing every client's volatile session store.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when the key has no entry.
var ErrNotFound = errors.New("kv: key not found")

// Store is a process wide key-value store. Keys are opaque; callers namespace them.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
	// Keys lists the keys starting with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
