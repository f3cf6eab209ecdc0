package rediskv

import (
	"context"

	"github.com/pkg/errors"
	backend "github.com/redis/go-redis/v9"

	"github.com/trezcool/masomo-dashboard/storage/kv"
)

const scanCount = 100

// Store implements kv.Store using Redis.
type Store struct {
	client *backend.Client
	opts   options
}

var _ kv.Store = (*Store)(nil) // interface compliance check

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		opts:   options{prefix: defaultPrefix},
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

func (s *Store) key(k string) string {
	return s.opts.prefix + k
}

// Ping checks that the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return errors.Wrap(s.client.Ping(ctx).Err(), "pinging redis")
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if err == backend.Nil {
			return "", kv.ErrNotFound
		}
		return "", errors.Wrap(err, "getting from redis")
	}
	return val, nil
}

// Set writes the value, expiring it after the configured TTL (if any).
func (s *Store) Set(ctx context.Context, key, value string) error {
	return errors.Wrap(s.client.Set(ctx, s.key(key), value, s.opts.ttl).Err(), "setting to redis")
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.key(k)
	}
	return errors.Wrap(s.client.Del(ctx, prefixed...).Err(), "deleting from redis")
}

// Keys scans (SCAN, not KEYS) the keys starting with prefix. The store prefix is stripped.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	pattern := s.key(prefix) + "*"
	for {
		batch, next, err := s.client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return nil, errors.Wrap(err, "scanning redis")
		}
		for _, k := range batch {
			keys = append(keys, k[len(s.opts.prefix):])
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
