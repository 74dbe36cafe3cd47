package secrets

import (
	"fmt"

	"filippo.io/age"
)

// Backend is the key-value capability a SealedStore wraps.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// SealedStore encrypts every value before handing it to the wrapped backend.
// Values written before encryption was enabled are read back unchanged.
type SealedStore struct {
	inner    Backend
	identity *age.X25519Identity
}

// NewSealedStore wraps inner so values are sealed for identity's recipient.
func NewSealedStore(inner Backend, identity *age.X25519Identity) *SealedStore {
	return &SealedStore{inner: inner, identity: identity}
}

// Get reads and decrypts the value stored under key.
func (s *SealedStore) Get(key string) ([]byte, error) {
	raw, err := s.inner.Get(key)
	if err != nil || raw == nil {
		return raw, err
	}
	if !IsSealed(raw) {
		return raw, nil
	}
	plain, err := Open(raw, s.identity)
	if err != nil {
		return nil, fmt.Errorf("unseal %s: %w", key, err)
	}
	return plain, nil
}

// Set encrypts value and stores it under key.
func (s *SealedStore) Set(key string, value []byte) error {
	sealed, err := Seal(value, s.identity.Recipient())
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return s.inner.Set(key, sealed)
}

// Close closes the wrapped backend.
func (s *SealedStore) Close() error {
	return s.inner.Close()
}
