// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - Errors returned by Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import "time"

// DefaultDatabaseURL points at a local MongoDB. Suitable for local development only.
const DefaultDatabaseURL = "mongodb://localhost:27017/portfolio"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// DatabaseURL is the backing store connection string. Its scheme selects
	// the backend: mongodb, mongodb+srv, postgres, postgresql, sqlite, file or memory.
	DatabaseURL string `koanf:"database_url"`

	// StoreTimeoutMS bounds every store read and write.
	StoreTimeoutMS int `koanf:"store_timeout_ms"`

	// DialTimeoutMS bounds a single connection establishment attempt.
	DialTimeoutMS int `koanf:"dial_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":3000",
		DatabaseURL:    DefaultDatabaseURL,
		StoreTimeoutMS: 5_000,
		DialTimeoutMS:  10_000,
	}
}

// StoreTimeout returns StoreTimeoutMS as a duration.
func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutMS) * time.Millisecond
}

// DialTimeout returns DialTimeoutMS as a duration.
func (c *Config) DialTimeout() time.Duration {
	return time.Duration(c.DialTimeoutMS) * time.Millisecond
}
