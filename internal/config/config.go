// Package config loads listo's configuration and resolves its data paths.
package config

// Config is the root configuration for listo.
type Config struct {
	Storage StorageConfig `json:"storage"`
	Server  ServerConfig  `json:"server"`
	Log     LogConfig     `json:"log"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Driver  string `json:"driver"`   // "file" | "sqlite" | "memory"
	Path    string `json:"path"`     // data dir (file) or database file (sqlite)
	Encrypt bool   `json:"encrypt"`  // seal stored values with age
	KeyFile string `json:"key_file"` // age identity (default: $LISTO_PATH/.age-key)
}

// ServerConfig holds the web gateway settings.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level"` // "debug" | "info" | "warn" | "error"
}

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)
