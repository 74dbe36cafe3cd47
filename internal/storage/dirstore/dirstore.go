// Package dirstore is a key-value store keeping each key in its own file
// under a base directory.
package dirstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrInvalidKey is returned for keys that cannot be mapped to a file name.
var ErrInvalidKey = errors.New("invalid key")

const fileExt = ".json"

// DirStore keeps one file per key: <baseDir>/<key>.json.
// Writes go through a temp file + rename so a crash never leaves a torn value.
type DirStore struct {
	mu      sync.RWMutex
	baseDir string
}

// New creates a DirStore rooted at baseDir. The directory is created lazily
// on the first write.
func New(baseDir string) *DirStore {
	return &DirStore{baseDir: baseDir}
}

// Dir returns the base directory.
func (ds *DirStore) Dir() string {
	return ds.baseDir
}

// FilePath returns the file holding key.
func (ds *DirStore) FilePath(key string) string {
	return filepath.Join(ds.baseDir, key+fileExt)
}

// Get returns the value stored under key. Returns nil, nil if the key doesn't exist.
func (ds *DirStore) Get(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	data, err := os.ReadFile(ds.FilePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set atomically replaces the value stored under key.
func (ds *DirStore) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := os.MkdirAll(ds.baseDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	path := ds.FilePath(key)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return fmt.Errorf("write %s tmp: %w", key, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", key, err)
	}

	return nil
}

// Keys lists the keys currently stored.
func (ds *DirStore) Keys() ([]string, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	entries, err := os.ReadDir(ds.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list data dir: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExt))
	}
	return keys, nil
}

// Close is a no-op; files are closed after every operation.
func (ds *DirStore) Close() error { return nil }

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
