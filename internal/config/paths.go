package config

import (
	"os"
	"path/filepath"
)

// ListoPath returns the root directory for listo data.
// It uses $LISTO_PATH if set, otherwise defaults to ~/.listo.
func ListoPath() string {
	if v := os.Getenv("LISTO_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".listo")
	}
	return filepath.Join(home, ".listo")
}

// ConfigPath returns the path to the listo config file.
func ConfigPath() string {
	return filepath.Join(ListoPath(), "config.jsonc")
}

// DotenvPath returns the path to the listo .env file.
func DotenvPath() string {
	return filepath.Join(ListoPath(), ".env")
}

// KeyPath returns the default age identity path.
func KeyPath() string {
	return filepath.Join(ListoPath(), ".age-key")
}
