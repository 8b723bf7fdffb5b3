// Package config defines service configuration and its loading.
package config

import "context"

// Storage backends.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// Storage selects the result store: memory or sqlite.
	Storage string `koanf:"storage" validate:"oneof=memory sqlite"`

	// DatabasePath is the SQLite file or DSN used when Storage is sqlite.
	DatabasePath string `koanf:"database_path" validate:"required_if=Storage sqlite"`

	// MaxOptionScore is the per-question maximum used when scoring.
	MaxOptionScore int `koanf:"max_option_score" validate:"gt=0"`

	// CatalogFile optionally points at a YAML competency catalog.
	CatalogFile string `koanf:"catalog_file"`

	// SeedQuestions writes the built-in questionnaire into an empty store.
	SeedQuestions bool `koanf:"seed_questions"`

	// DedupeSize bounds the submission id cache. Zero or less keeps every id.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRequestBytes caps request bodies.
	MaxRequestBytes int64 `koanf:"max_request_bytes" validate:"gt=0"`

	// ShutdownTimeoutSec bounds graceful shutdown.
	ShutdownTimeoutSec int `koanf:"shutdown_timeout_sec" validate:"gte=0"`
}

// New returns a Config with defaults. The context is reserved for loaders
// that need it.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		Storage:            StorageMemory,
		DatabasePath:       "competencies.db",
		MaxOptionScore:     4,
		SeedQuestions:      true,
		DedupeSize:         10_000,
		MaxRequestBytes:    1 << 20,
		ShutdownTimeoutSec: 10,
	}
}
