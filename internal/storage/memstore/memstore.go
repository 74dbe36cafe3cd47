// Package memstore is an in-memory key-value store.
package memstore

import "sync"

// Store keeps values in a map. Values are copied on the way in and out.
type Store struct {
	mu       sync.RWMutex
	data     map[string][]byte
	writes   int
	writeErr error
}

// New creates an empty Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get returns the value stored under key. Returns nil, nil if the key doesn't exist.
func (s *Store) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte{}, v...), nil
}

// Set stores a copy of value under key, or returns the error installed by FailWrites.
func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	s.data[key] = append([]byte{}, value...)
	s.writes++
	return nil
}

// FailWrites makes every subsequent Set return err. Pass nil to recover.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// Writes returns the number of successful Set calls.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
