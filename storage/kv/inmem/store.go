package inmemkv

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/trezcool/masomo-dashboard/storage/kv"
)

var errClosed = errors.New("inmemkv: store closed")

// Store is a volatile kv.Store living in the process memory.
// Everything is lost on restart, like a browser's storage on profile clearing.
type Store struct {
	sync.RWMutex
	table  map[string]string
	closed bool
}

var _ kv.Store = (*Store)(nil) // interface compliance check

func Open() *Store {
	return &Store{table: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.RLock()
	defer s.RUnlock()

	if val, ok := s.table[key]; ok {
		return val, nil
	}
	return "", kv.ErrNotFound
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.Lock()
	defer s.Unlock()

	if s.closed {
		return errClosed
	}
	s.table[key] = value
	return nil
}

func (s *Store) Del(_ context.Context, keys ...string) error {
	s.Lock()
	defer s.Unlock()

	for _, key := range keys {
		delete(s.table, key)
	}
	return nil
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.RLock()
	defer s.RUnlock()

	keys := make([]string, 0)
	for key := range s.table {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Close drops every entry. Later writes fail.
func (s *Store) Close() error {
	s.Lock()
	defer s.Unlock()

	s.closed = true
	s.table = make(map[string]string)
	return nil
}
