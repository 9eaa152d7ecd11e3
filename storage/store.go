// Package storage provides the key-value store stand-in backing
// localStorage and sessionStorage in the simulated environment.
//
// The store is a plain in-memory map with insertion order preserved, so
// key(i) enumeration behaves the way storage-backed UI code expects.
// Operations never fail: reading an absent key reports absence rather
// than an error. Contents survive across test cases; the per-test reset
// hook deliberately leaves this store alone.
package storage

import "sync"

// Store is an insertion-ordered string key-value store.
type Store struct {
	mu    sync.RWMutex
	items map[string]string
	order []string
}

var (
	defaultStore *Store
	once         sync.Once
)

// Default returns the process-wide store shared by every environment.
// It is created once and never cleared between tests.
func Default() *Store {
	once.Do(func() {
		defaultStore = New()
	})
	return defaultStore
}

// New creates an empty store.
func New() *Store {
	return &Store{
		items: make(map[string]string),
	}
}

// Get returns the value for key. The second result is false when the key
// is absent; absence is not an error.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.items[key]
	return val, ok
}

// Set stores value under key. A new key is appended to the insertion
// order; an existing key keeps its original position.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[key]; !exists {
		s.order = append(s.order, key)
	}
	s.items[key] = value
}

// Remove deletes key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[key]; !exists {
		return
	}
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]string)
	s.order = s.order[:0]
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Key returns the i-th key in insertion order. The second result is
// false when i is out of range.
func (s *Store) Key(i int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.order) {
		return "", false
	}
	return s.order[i], true
}

// Keys returns a snapshot of all keys in insertion order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}
