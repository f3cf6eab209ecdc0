// Package storage opens the configured session backend.
package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/storage/kv"
	"github.com/trezcool/masomo-dashboard/storage/kv/inmem"
	"github.com/trezcool/masomo-dashboard/storage/kv/redis"
)

var errUnknownBackend = errors.New("unknown session backend")

// Open returns the kv.Store selected by conf.Session.Backend.
// The redis backend is pinged until it is ready.
func Open(conf *core.Config) (kv.Store, error) {
	switch conf.Session.Backend {
	case core.BackendMemory, "":
		return inmemkv.Open(), nil
	case core.BackendRedis:
		store := rediskv.New(
			conf.Redis.Address,
			conf.Redis.Password,
			conf.Redis.DB,
			rediskv.WithPrefix(conf.Redis.Prefix),
			rediskv.WithTTL(conf.Redis.TTL),
		)
		if err := ping(store); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, errors.Wrapf(errUnknownBackend, "%q", conf.Session.Backend)
	}
}

// ping waits for redis to be ready. Waits 100ms longer between each attempt.
func ping(store *rediskv.Store) error {
	var err error
	maxAttempts := 10
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err = store.Ping(ctx)
		cancel()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "redis ping timeout")
	}
	return nil
}
