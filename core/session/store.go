// Package session replicates named values across a client's two stores:
// a volatile key-value store (primary) and its cookies (secondary).
//
// Reads prefer the primary store and fall back to the cookies when the primary has
// no usable entry. Writes go to both. The two stores are not kept transactionally
// consistent: concurrent writers race and the last write wins.
//
// The Store never fails: corrupt entries and backend errors are logged and
// handled as if the value was absent.
package session

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
)

type Store struct {
	primary   Backend
	secondary Backend
	logger    core.Logger
	metrics   *Metrics
}

type Option func(*Store)

func WithLogger(logger core.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// New returns a Store over the given backends. Either may be nil;
// with none, every operation is a no-op (no client context).
func New(primary, secondary Backend, opts ...Option) *Store {
	s := &Store{
		primary:   primary,
		secondary: secondary,
		logger:    core.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type roleBackend struct {
	role string
	b    Backend
}

// backends returns the available backends, primary first.
func (s *Store) backends() []roleBackend {
	if s == nil {
		return nil
	}
	bs := make([]roleBackend, 0, 2)
	if s.primary != nil {
		bs = append(bs, roleBackend{rolePrimary, s.primary})
	}
	if s.secondary != nil {
		bs = append(bs, roleBackend{roleSecondary, s.secondary})
	}
	return bs
}

// Get returns the value stored under key, or nil if no backend holds a usable one.
func (s *Store) Get(ctx context.Context, key string) Payload {
	bs := s.backends()
	if len(bs) == 0 {
		return nil
	}
	for _, rb := range bs {
		if p, ok := s.read(ctx, rb, key); ok {
			s.metrics.served(rb.role)
			return p
		}
	}
	s.metrics.served(roleNone)
	return nil
}

func (s *Store) read(ctx context.Context, rb roleBackend, key string) (Payload, bool) {
	raw, err := rb.b.Read(ctx, key)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoEntry):
		case errors.Is(err, ErrCorrupt):
			s.metrics.corrupted(rb.role)
			s.logger.Warn("session: ignoring corrupt "+rb.role+" entry", err, map[string]interface{}{"key": key})
		default:
			s.logger.Error("session: reading "+rb.role+" backend", errors.Wrapf(err, "key %q", key))
		}
		return nil, false
	}
	if !json.Valid([]byte(raw)) {
		s.metrics.corrupted(rb.role)
		s.logger.Warn(
			"session: ignoring corrupt "+rb.role+" entry",
			errors.Wrapf(ErrCorrupt, "key %q: not valid JSON", key),
			map[string]interface{}{"key": key},
		)
		return nil, false
	}
	return Payload(raw), true
}

// GetInto decodes the value stored under key into v.
// It reports false if there is no value or if it does not fit v (the failure is logged).
func (s *Store) GetInto(ctx context.Context, key string, v interface{}) bool {
	p := s.Get(ctx, key)
	if p == nil {
		return false
	}
	if err := p.Decode(v); err != nil {
		s.logger.Warn("session: decoding value", errors.Wrapf(err, "key %q", key))
		return false
	}
	return true
}

// Set serializes value once and writes it to every backend.
// Failures are logged, never returned: the value may end up in one backend only.
func (s *Store) Set(ctx context.Context, key string, value interface{}) {
	bs := s.backends()
	if len(bs) == 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("session: serializing value", errors.Wrapf(err, "key %q", key))
		return
	}
	raw := string(data)

	for _, rb := range bs {
		if err := rb.b.Write(ctx, key, raw); err != nil {
			s.logger.Error("session: writing "+rb.role+" backend", errors.Wrapf(err, "key %q", key))
			continue
		}
		s.metrics.written(rb.role)
	}
}

// Remove deletes the value from every backend.
func (s *Store) Remove(ctx context.Context, key string) {
	for _, rb := range s.backends() {
		if err := rb.b.Delete(ctx, key); err != nil {
			s.logger.Error("session: removing from "+rb.role+" backend", errors.Wrapf(err, "key %q", key))
			continue
		}
		s.metrics.written(rb.role)
	}
}
