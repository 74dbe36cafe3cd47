// Package storage defines the key-value capability the task store persists
// through, and opens the backend selected by configuration.
package storage

import (
	"fmt"
	"log/slog"

	"github.com/dohr-michael/listo/internal/config"
	"github.com/dohr-michael/listo/internal/secrets"
	"github.com/dohr-michael/listo/internal/storage/dirstore"
	"github.com/dohr-michael/listo/internal/storage/memstore"
	"github.com/dohr-michael/listo/internal/storage/sqlitestore"
)

// Store is a durable key-value medium. Get returns nil, nil for absent keys.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// Open returns the backend described by cfg, sealed with age when cfg.Encrypt is set.
func Open(cfg config.StorageConfig) (Store, error) {
	var s Store
	switch cfg.Driver {
	case config.DriverFile, "":
		s = dirstore.New(cfg.Path)
	case config.DriverSQLite:
		db, err := sqlitestore.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		s = db
	case config.DriverMemory:
		s = memstore.New()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	if !cfg.Encrypt {
		return s, nil
	}

	created, err := secrets.GenerateIdentity(cfg.KeyFile)
	if err != nil {
		s.Close()
		return nil, err
	}
	if created {
		slog.Info("generated storage key", "path", cfg.KeyFile)
	}
	identity, err := secrets.LoadIdentity(cfg.KeyFile)
	if err != nil {
		s.Close()
		return nil, err
	}
	return secrets.NewSealedStore(s, identity), nil
}
