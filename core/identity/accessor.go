// Package identity derives the current user's school id from the Session Record.
package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/session"
)

// DefaultKey is the key the authentication flow stores the Session Record under.
const DefaultKey = "user"

// Reader reads session values. *session.Store is one.
type Reader interface {
	Get(ctx context.Context, key string) session.Payload
}

type Option func(*Accessor)

func WithKey(key string) Option {
	return func(a *Accessor) {
		if key != "" {
			a.key = key
		}
	}
}

// WithObserver registers fn to be called with every new state, until Detach.
func WithObserver(fn func(State)) Option {
	return func(a *Accessor) {
		a.observer = fn
	}
}

func WithLogger(logger core.Logger) Option {
	return func(a *Accessor) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Accessor resolves the school id of one consumer (eg: a page) once.
// There is no retry: a fresh Accessor is needed to resolve again.
type Accessor struct {
	reader Reader
	key    string
	logger core.Logger
	once   sync.Once

	mu       sync.Mutex
	state    State
	observer func(State)
	detached bool
}

func NewAccessor(reader Reader, opts ...Option) *Accessor {
	a := &Accessor{
		reader: reader,
		key:    DefaultKey,
		logger: core.NopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Resolve runs the resolution on first call and returns the resulting state.
// Later calls return the current state without reading the session again.
func (a *Accessor) Resolve(ctx context.Context) State {
	a.once.Do(func() {
		a.apply(Started)
		a.apply(a.lookup(ctx))
	})
	return a.State()
}

func (a *Accessor) lookup(ctx context.Context) (ev Event) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("identity: reading session record", errors.New(fmt.Sprint(r)))
			ev = Failed
		}
	}()

	if id, ok := SchoolIDOf(a.reader.Get(ctx, a.key)); ok {
		return Found(id)
	}
	return Missing
}

func (a *Accessor) apply(ev Event) {
	a.mu.Lock()
	a.state = Transition(a.state, ev)
	state, notify := a.state, a.observer
	if a.detached {
		notify = nil
	}
	a.mu.Unlock()

	if notify != nil {
		notify(state)
	}
}

// State returns the current state.
func (a *Accessor) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Detach stops notifying the observer. A resolution in flight still completes.
func (a *Accessor) Detach() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detached = true
}
