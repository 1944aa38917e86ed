package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/agegrade/internal/adapters/source"
	"github.com/okian/agegrade/internal/domain/agegrade"
	"github.com/okian/agegrade/internal/domain/standards"
	"github.com/okian/agegrade/pkg/logger"
	"github.com/okian/agegrade/pkg/metrics"
)

// Default cache configuration constants.
const (
	defaultManifestPath = "manifest.json"
	defaultLoadTimeout  = 10 * time.Second
	manifestKey         = "manifest"
	kindManifest        = "manifest"
	kindTable           = "table"
	kindPeaks           = "peaks"
)

// Store provides read access to the standards data.
type Store interface {
	// Manifest returns the list of editions.
	Manifest(ctx context.Context) (*standards.Manifest, error)

	// Table returns the standards of one edition for one sex.
	// Returns ErrUnknownEdition if the manifest does not list the edition.
	Table(ctx context.Context, edition string, sex standards.Sex) (*standards.Table, error)

	// Peaks returns the peak table derived from Table.
	Peaks(ctx context.Context, edition string, sex standards.Sex) (agegrade.PeakTable, error)
}

// Stats describes the cache contents.
type Stats struct {
	Editions int   `json:"editions"`
	Tables   int   `json:"tables"`
	Peaks    int   `json:"peaks"`
	Fetches  int64 `json:"fetches"`
	Failures int64 `json:"failures"`
}

type tableKey struct {
	edition string
	sex     standards.Sex
}

func (k tableKey) String() string { return k.edition + "/" + string(k.sex) }

// Cache is a Store that loads lazily from a source and keeps everything for
// its lifetime. Concurrent loads of the same key share one fetch. Failed
// loads are not cached.
type Cache struct {
	src          source.Source
	manifestPath string
	loadTimeout  time.Duration
	logger       logger.Logger

	group singleflight.Group

	mu       sync.RWMutex
	manifest *standards.Manifest
	tables   map[tableKey]*standards.Table
	peaks    map[tableKey]agegrade.PeakTable

	fetches  atomic.Int64
	failures atomic.Int64
}

// NewCache creates an empty cache over src.
func NewCache(src source.Source, opts ...Option) *Cache {
	c := &Cache{
		src:          src,
		manifestPath: defaultManifestPath,
		loadTimeout:  defaultLoadTimeout,
		tables:       make(map[tableKey]*standards.Table),
		peaks:        make(map[tableKey]agegrade.PeakTable),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logger.Named("repository")
	}

	return c
}

// Manifest returns the cached manifest, loading it on first use.
func (c *Cache) Manifest(ctx context.Context) (*standards.Manifest, error) {
	if m := c.cachedManifest(); m != nil {
		metrics.RecordCacheHit(kindManifest)
		return m, nil
	}
	metrics.RecordCacheMiss(kindManifest)

	v, err := c.load(ctx, manifestKey, func(lctx context.Context) (any, error) {
		if m := c.cachedManifest(); m != nil {
			return m, nil
		}
		data, err := c.fetch(lctx, kindManifest, c.manifestPath)
		if err != nil {
			return nil, err
		}
		m, err := standards.ParseManifest(data)
		if err != nil {
			c.failed(lctx, kindManifest, c.manifestPath, err)
			return nil, fmt.Errorf("%w: %w", ErrLoad, err)
		}

		c.mu.Lock()
		c.manifest = m
		c.mu.Unlock()

		metrics.UpdateCachedEditions(len(m.Editions))
		c.logger.Info(lctx, "manifest loaded", logger.Int("editions", len(m.Editions)))
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*standards.Manifest), nil
}

// Table returns the cached table for (edition, sex), loading it on first use.
func (c *Cache) Table(ctx context.Context, edition string, sex standards.Sex) (*standards.Table, error) {
	if !sex.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSex, sex)
	}
	key := tableKey{edition: edition, sex: sex}
	if t := c.cachedTable(key); t != nil {
		metrics.RecordCacheHit(kindTable)
		return t, nil
	}
	metrics.RecordCacheMiss(kindTable)

	m, err := c.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := m.Edition(edition)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEdition, edition)
	}

	v, err := c.load(ctx, key.String(), func(lctx context.Context) (any, error) {
		if t := c.cachedTable(key); t != nil {
			return t, nil
		}
		file := e.File(sex)
		data, err := c.fetch(lctx, kindTable, file)
		if err != nil {
			return nil, err
		}
		t, err := standards.ParseTable(e.ID, sex, data)
		if err != nil {
			c.failed(lctx, kindTable, file, err)
			return nil, fmt.Errorf("%w: %w", ErrLoad, err)
		}

		c.mu.Lock()
		c.tables[key] = t
		n := len(c.tables)
		c.mu.Unlock()

		metrics.UpdateCachedTables(n)
		c.logger.Info(lctx, "standards table loaded",
			logger.String("edition", e.ID),
			logger.String("sex", string(sex)),
			logger.Int("events", len(t.Events())),
			logger.Int("standards", t.Len()),
		)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*standards.Table), nil
}

// Peaks returns the peak table of (edition, sex), deriving it on first use.
func (c *Cache) Peaks(ctx context.Context, edition string, sex standards.Sex) (agegrade.PeakTable, error) {
	key := tableKey{edition: edition, sex: sex}
	c.mu.RLock()
	p, ok := c.peaks[key]
	c.mu.RUnlock()
	if ok {
		metrics.RecordCacheHit(kindPeaks)
		return p, nil
	}
	metrics.RecordCacheMiss(kindPeaks)

	t, err := c.Table(ctx, edition, sex)
	if err != nil {
		return nil, err
	}
	derived := agegrade.ComputePeakTable(t)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.peaks[key]; ok {
		return existing, nil
	}
	c.peaks[key] = derived
	return derived, nil
}

// Warm loads the manifest and every table sequentially.
func (c *Cache) Warm(ctx context.Context) error {
	m, err := c.Manifest(ctx)
	if err != nil {
		return err
	}
	for _, e := range m.Editions {
		for _, sex := range []standards.Sex{standards.Male, standards.Female} {
			if _, err := c.Peaks(ctx, e.ID, sex); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stats returns a snapshot of the cache contents.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{
		Tables:   len(c.tables),
		Peaks:    len(c.peaks),
		Fetches:  c.fetches.Load(),
		Failures: c.failures.Load(),
	}
	if c.manifest != nil {
		s.Editions = len(c.manifest.Editions)
	}
	return s
}

// load runs fn once per key among concurrent callers. fn gets a context
// detached from the caller's cancellation and bounded by the load timeout,
// so one impatient caller cannot fail the shared fetch for the others.
func (c *Cache) load(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		return fn(lctx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.RecordCoalescedLoad()
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrLoad, ctx.Err())
	}
}

func (c *Cache) fetch(ctx context.Context, kind, path string) ([]byte, error) {
	start := time.Now()
	c.fetches.Add(1)

	data, err := c.src.Fetch(ctx, path)
	metrics.RecordStandardsLoadLatency(kind, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		c.failed(ctx, kind, path, err)
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	metrics.RecordStandardsLoad(kind, "ok")
	return data, nil
}

func (c *Cache) failed(ctx context.Context, kind, path string, err error) {
	c.failures.Add(1)
	metrics.RecordStandardsLoad(kind, "error")
	metrics.RecordErrorByComponent("repository", kind)
	c.logger.Warn(ctx, "standards load failed",
		logger.String("kind", kind),
		logger.String("path", path),
		logger.Error(err),
	)
}

func (c *Cache) cachedManifest() *standards.Manifest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.manifest
}

func (c *Cache) cachedTable(key tableKey) *standards.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tables[key]
}
