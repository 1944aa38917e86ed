package service

import (
	"fmt"
	"os"

	"github.com/okian/agegrade/data"
	"github.com/okian/agegrade/internal/adapters/repository"
	"github.com/okian/agegrade/internal/adapters/source"
	"github.com/okian/agegrade/internal/config"
)

// NewFromConfig builds the data source, the standards cache and a Service
// as described by cfg. opts are applied after the config-derived options.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Service, *repository.Cache, error) {
	src, err := NewSource(cfg)
	if err != nil {
		return nil, nil, err
	}

	cache := repository.NewCache(src,
		repository.WithManifestPath(cfg.ManifestFile),
		repository.WithLoadTimeout(cfg.LoadTimeout()),
	)

	base := []Option{
		WithAgeRange(cfg.MinAge, cfg.MaxAge),
		WithDefaultEvent(cfg.DefaultEvent),
		WithDefaultEdition(cfg.DefaultEdition),
		WithAgeTable(cfg.DefaultAgeTable),
		WithLocale(cfg.Locale),
	}
	return New(cache, append(base, opts...)...), cache, nil
}

// NewSource returns the standards source selected by cfg.
func NewSource(cfg *config.Config) (source.Source, error) {
	switch cfg.DataSource {
	case config.SourceEmbedded, "":
		return source.NewFSSource(data.FS()), nil
	case config.SourceDir:
		return source.NewFSSource(os.DirFS(cfg.DataDir)), nil
	case config.SourceHTTP:
		return source.NewHTTPSource(cfg.DataURL)
	default:
		return nil, fmt.Errorf("%w: unknown data_source %q", config.ErrInvalidConfig, cfg.DataSource)
	}
}
