// Package repository holds the standards cache: manifest, tables and peak
// tables, populated on demand from a data source.
package repository

import (
	"time"

	"github.com/okian/agegrade/pkg/logger"
)

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithManifestPath sets the manifest location relative to the data root.
func WithManifestPath(path string) Option {
	return func(c *Cache) {
		if path != "" {
			c.manifestPath = path
		}
	}
}

// WithLoadTimeout bounds every individual fetch.
func WithLoadTimeout(timeout time.Duration) Option {
	return func(c *Cache) {
		if timeout > 0 {
			c.loadTimeout = timeout
		}
	}
}

// WithLogger sets a custom logger for the cache.
func WithLogger(l logger.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}
