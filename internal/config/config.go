// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Errors returned from this package wrap ErrInvalidConfig or ErrLoadConfig.
package config

import (
	"fmt"
	"time"
)

// Data source kinds.
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceHTTP     = "http"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataSource selects where standards come from: embedded, dir or http.
	DataSource string `koanf:"data_source"`

	// DataDir is the root directory when DataSource is "dir".
	DataDir string `koanf:"data_dir"`

	// DataURL is the base URL when DataSource is "http".
	DataURL string `koanf:"data_url"`

	// ManifestFile is the manifest path relative to the data root.
	ManifestFile string `koanf:"manifest_file"`

	// LoadTimeoutMS bounds a single manifest or table fetch.
	LoadTimeoutMS int `koanf:"load_timeout_ms"`

	// MinAge and MaxAge clamp the age of every query.
	MinAge int `koanf:"min_age"`
	MaxAge int `koanf:"max_age"`

	// DefaultEdition is used when a query names none; empty defers to the manifest.
	DefaultEdition string `koanf:"default_edition"`

	// DefaultEvent is preferred when a query names no event.
	DefaultEvent string `koanf:"default_event"`

	// DefaultAgeTable lists the ages shown by the age_table target.
	DefaultAgeTable []int `koanf:"default_age_table"`

	// DebounceMS is the recomputation delay for interactive sessions.
	DebounceMS int `koanf:"debounce_ms"`

	// Locale formats grade percentages, e.g. "en" or "de".
	Locale string `koanf:"locale"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		DataSource:      SourceEmbedded,
		ManifestFile:    "manifest.json",
		LoadTimeoutMS:   10_000,
		MinAge:          5,
		MaxAge:          110,
		DefaultEvent:    "5 km",
		DefaultAgeTable: []int{20, 30, 40, 50, 60, 70, 80},
		DebounceMS:      250,
		Locale:          "en",
	}
}

// LoadTimeout returns LoadTimeoutMS as a duration.
func (c *Config) LoadTimeout() time.Duration {
	return time.Duration(c.LoadTimeoutMS) * time.Millisecond
}

// Debounce returns DebounceMS as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MinAge < 1:
		return fmt.Errorf("%w: min_age must be at least 1", ErrInvalidConfig)
	case c.MaxAge < c.MinAge:
		return fmt.Errorf("%w: max_age must not be below min_age", ErrInvalidConfig)
	case c.LoadTimeoutMS <= 0:
		return fmt.Errorf("%w: load_timeout_ms must be positive", ErrInvalidConfig)
	case c.DebounceMS < 0:
		return fmt.Errorf("%w: debounce_ms must not be negative", ErrInvalidConfig)
	case c.ManifestFile == "":
		return fmt.Errorf("%w: manifest_file must not be empty", ErrInvalidConfig)
	}

	switch c.DataSource {
	case SourceEmbedded:
	case SourceDir:
		if c.DataDir == "" {
			return fmt.Errorf("%w: data_dir is required for the dir source", ErrInvalidConfig)
		}
	case SourceHTTP:
		if c.DataURL == "" {
			return fmt.Errorf("%w: data_url is required for the http source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown data_source %q", ErrInvalidConfig, c.DataSource)
	}
	return nil
}
