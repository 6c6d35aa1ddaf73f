package memory

import (
	"context"
	"sync"
)

// Store keeps values in a map. It is used by tests and by the API when no
// durable store is configured.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Get implements domain.KeyValueStore.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

// Set implements domain.KeyValueStore.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete implements domain.KeyValueStore.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
