package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core/session"
	"github.com/trezcool/masomo-dashboard/storage/kv/inmem"
)

// newStore returns a session store over a fresh volatile store and an empty cookie jar.
func newStore() *session.Store {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return session.New(
		session.NewKVBackend(inmemkv.Open(), "cid"),
		session.NewCookieBackend(req, httptest.NewRecorder()),
	)
}

// readerFunc adapts a func to Reader.
type readerFunc func(ctx context.Context, key string) session.Payload

func (f readerFunc) Get(ctx context.Context, key string) session.Payload { return f(ctx, key) }

func TestAccessor_Resolve(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		record interface{} // nil: no record
		want   State
	}{
		{
			name:   "school id present",
			record: map[string]interface{}{"schoolId": map[string]interface{}{"_id": "abc123"}},
			want:   State{Status: Resolved, SchoolID: "abc123"},
		},
		{
			name: "full record",
			record: map[string]interface{}{
				"_id":      "u1",
				"name":     "Admin",
				"role":     "Admin",
				"schoolId": map[string]interface{}{"_id": "sch-42", "name": "Lycée Wima"},
			},
			want: State{Status: Resolved, SchoolID: "sch-42"},
		},
		{name: "empty record", record: map[string]interface{}{}, want: State{Status: Errored, Err: ErrMsgNotFound}},
		{name: "no record", want: State{Status: Errored, Err: ErrMsgNotFound}},
		{
			name:   "schoolId without _id",
			record: map[string]interface{}{"schoolId": map[string]interface{}{"name": "Lycée Wima"}},
			want:   State{Status: Errored, Err: ErrMsgNotFound},
		},
		{
			name:   "empty _id",
			record: map[string]interface{}{"schoolId": map[string]interface{}{"_id": ""}},
			want:   State{Status: Errored, Err: ErrMsgNotFound},
		},
		{
			name:   "schoolId is a string",
			record: map[string]interface{}{"schoolId": "abc123"},
			want:   State{Status: Errored, Err: ErrMsgNotFound},
		},
		{
			name:   "schoolId is null",
			record: map[string]interface{}{"schoolId": nil},
			want:   State{Status: Errored, Err: ErrMsgNotFound},
		},
		{name: "record is an array", record: []string{"abc123"}, want: State{Status: Errored, Err: ErrMsgNotFound}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore()
			if tt.record != nil {
				store.Set(ctx, DefaultKey, tt.record)
			}

			got := NewAccessor(store).Resolve(ctx)
			assert.Equal(t, tt.want, got)
			assert.False(t, got.Result().IsLoading)
			if got.Status == Errored {
				assert.Nil(t, got.Result().SchoolID)
			}
		})
	}
}

func TestAccessor_Resolve_readerPanics(t *testing.T) {
	reader := readerFunc(func(context.Context, string) session.Payload {
		panic("storage exploded")
	})

	got := NewAccessor(reader).Resolve(context.Background())

	assert.Equal(t, State{Status: Errored, Err: ErrMsgRetrieval}, got)
	res := got.Result()
	assert.Nil(t, res.SchoolID)
	assert.False(t, res.IsLoading)
	require.NotNil(t, res.Error)
	assert.Equal(t, "Error retrieving school ID", *res.Error)
}

func TestAccessor_Resolve_once(t *testing.T) {
	ctx := context.Background()
	var reads int
	store := newStore()
	store.Set(ctx, DefaultKey, map[string]interface{}{"schoolId": map[string]interface{}{"_id": "abc123"}})
	reader := readerFunc(func(ctx context.Context, key string) session.Payload {
		reads++
		return store.Get(ctx, key)
	})

	a := NewAccessor(reader)
	first := a.Resolve(ctx)

	// the record changes: no re-fetch
	store.Set(ctx, DefaultKey, map[string]interface{}{"schoolId": map[string]interface{}{"_id": "other"}})
	second := a.Resolve(ctx)

	assert.Equal(t, first, second)
	assert.Equal(t, "abc123", second.SchoolID)
	assert.Equal(t, 1, reads)
}

func TestAccessor_WithKey(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	store.Set(ctx, "admin", map[string]interface{}{"schoolId": map[string]interface{}{"_id": "abc123"}})

	assert.Equal(t, Errored, NewAccessor(store).Resolve(ctx).Status)
	assert.Equal(t, "abc123", NewAccessor(store, WithKey("admin")).Resolve(ctx).SchoolID)
}

func TestAccessor_observer(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	store.Set(ctx, DefaultKey, map[string]interface{}{"schoolId": map[string]interface{}{"_id": "abc123"}})

	var (
		mu     sync.Mutex
		states []State
	)
	a := NewAccessor(store, WithObserver(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s)
	}))
	assert.Equal(t, State{}, a.State(), "idle before Resolve")

	a.Resolve(ctx)

	assert.Equal(t, []State{
		{Status: Loading},
		{Status: Resolved, SchoolID: "abc123"},
	}, states)
}

func TestAccessor_Detach(t *testing.T) {
	ctx := context.Background()
	var notified int
	var a *Accessor
	reader := readerFunc(func(context.Context, string) session.Payload {
		a.Detach() // unmounted mid-resolution
		return nil
	})
	a = NewAccessor(reader, WithObserver(func(State) { notified++ }))

	got := a.Resolve(ctx)

	assert.Equal(t, 1, notified, "only Loading is observed")
	assert.Equal(t, Errored, got.Status, "resolution still completes")
	assert.Equal(t, got, a.State())
}
