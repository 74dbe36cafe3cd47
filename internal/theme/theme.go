// Package theme stores the light/dark display preference.
package theme

import (
	"errors"
	"fmt"
	"strings"
)

// StorageKey is the key the preference is persisted under.
const StorageKey = "theme"

// Theme is a display theme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Default is used when nothing valid is stored.
const Default = Light

// ErrInvalidTheme is returned by Parse for unknown names.
var ErrInvalidTheme = errors.New("invalid theme")

// KV is the persistence capability the preference is read from and written to.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// Parse parses "light" or "dark".
func Parse(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case Light, Dark:
		return t, nil
	default:
		return "", fmt.Errorf("%w %q (want light or dark)", ErrInvalidTheme, s)
	}
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Icon is the glyph of the toggle button: it shows the theme a click switches to.
func (t Theme) Icon() string {
	if t == Dark {
		return "☀"
	}
	return "☾"
}

// Load reads the stored preference. Absent or unknown values yield Default.
func Load(kv KV) (Theme, error) {
	data, err := kv.Get(StorageKey)
	if err != nil {
		return Default, fmt.Errorf("load theme: %w", err)
	}
	t, err := Parse(string(data))
	if err != nil {
		return Default, nil
	}
	return t, nil
}

// Save persists t.
func Save(kv KV, t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	if err := kv.Set(StorageKey, []byte(t)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	return nil
}

// Toggle flips the stored preference and returns the new theme.
func Toggle(kv KV) (Theme, error) {
	current, err := Load(kv)
	if err != nil {
		return current, err
	}
	next := current.Opposite()
	if err := Save(kv, next); err != nil {
		return current, err
	}
	return next, nil
}
