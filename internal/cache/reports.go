package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/dataset"
)

// Reports keeps loaded report tables in memory for a limited time. Entries
// are keyed by dataset reference; concurrent misses on the same key share one
// load.
type Reports struct {
	source dataset.Source
	lru    *expirable.LRU[string, []dataset.Report]
	group  singleflight.Group
}

// NewReports wraps source with a cache holding at most size tables, each for
// ttl. A size of zero means unbounded.
func NewReports(source dataset.Source, size int, ttl time.Duration) *Reports {
	return &Reports{
		source: source,
		lru:    expirable.NewLRU[string, []dataset.Report](size, nil, ttl),
	}
}

// Reports implements dataset.Source. Returned rows are shared between callers
// and must not be modified.
func (c *Reports) Reports(ctx context.Context, ref dataset.Ref) ([]dataset.Report, error) {
	key := ref.Key()
	if rows, ok := c.lru.Get(key); ok {
		return rows, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), ref)
	})
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "dataset cache miss", "dataset", key, "shared", shared)
	return v.([]dataset.Report), nil
}

// Refresh reloads ref from the source and replaces the cached entry. The old
// entry stays in place if the reload fails.
func (c *Reports) Refresh(ctx context.Context, ref dataset.Ref) error {
	_, err, _ := c.group.Do(ref.Key(), func() (any, error) {
		return c.load(ctx, ref)
	})
	return err
}

// Len returns the number of cached tables.
func (c *Reports) Len() int {
	return c.lru.Len()
}

func (c *Reports) load(ctx context.Context, ref dataset.Ref) ([]dataset.Report, error) {
	start := time.Now()
	rows, err := c.source.Reports(ctx, ref)
	if err != nil {
		return nil, err
	}
	c.lru.Add(ref.Key(), rows)
	slog.InfoContext(ctx, "dataset cached", "dataset", ref.Key(), "rows", len(rows), "duration", time.Since(start))
	return rows, nil
}
