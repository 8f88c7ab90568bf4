package sheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/reefgenomics/reefkb/internal/logger"
	"github.com/reefgenomics/reefkb/internal/sheet/cache"
)

// CacheObserver is notified of cache lookups, e.g. by import metrics.
type CacheObserver interface {
	CacheLookup(sheet string, hit bool)
}

// CachedSource wraps a Source with a parsed-sheet cache. Entries are keyed
// by the source checksum, the sheet name and its layout, so a changed
// workbook or template never hits a stale entry. Cache failures are logged
// and otherwise ignored.
type CachedSource struct {
	src      Source
	cache    cache.Cache
	identity Identity
	layouts  map[Name]Layout
	observer CacheObserver
	log      logger.Logger
}

// CachedOption configures a CachedSource.
type CachedOption func(*CachedSource)

// WithLayouts sets the layouts that are part of the cache key. It must match
// the layouts of the wrapped source.
func WithLayouts(layouts map[Name]Layout) CachedOption {
	return func(c *CachedSource) {
		c.layouts = layouts
	}
}

// WithObserver reports every lookup to o.
func WithObserver(o CacheObserver) CachedOption {
	return func(c *CachedSource) {
		c.observer = o
	}
}

// NewCachedSource wraps src. When c is nil or src cannot identify its
// content, src is returned unchanged.
func NewCachedSource(src Source, c cache.Cache, opts ...CachedOption) Source {
	identified, ok := src.(Identified)
	if c == nil || !ok {
		return src
	}
	cs := &CachedSource{
		src:      src,
		cache:    c,
		identity: identified.Identity(),
		layouts:  DefaultLayouts,
		log:      GetLogger(),
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// Identity implements Identified.
func (c *CachedSource) Identity() Identity {
	return c.identity
}

// Key returns the cache key of a sheet.
func (c *CachedSource) Key(name Name) string {
	l := LayoutFor(c.layouts, name)
	skips := make([]string, len(l.SkipRows))
	for i, s := range l.SkipRows {
		skips[i] = fmt.Sprint(s)
	}
	return fmt.Sprintf("%s:%s:h%d:s%s", c.identity.Checksum, name, l.HeaderRow, strings.Join(skips, ","))
}

// Rows implements Source.
func (c *CachedSource) Rows(ctx context.Context, name Name) ([]Row, error) {
	key := c.Key(name)

	payload, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.Warn("sheet cache read failed", logger.String("sheet", string(name)), logger.Error(err))
	}
	if found {
		var rows []Row
		if err := json.Unmarshal(payload, &rows); err == nil {
			c.observe(name, true)
			return rows, nil
		}
		c.log.Warn("discarding undecodable cache entry", logger.String("sheet", string(name)))
	}
	c.observe(name, false)

	rows, err := c.src.Rows(ctx, name)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(rows); err != nil {
		c.log.Warn("sheet cache encode failed", logger.String("sheet", string(name)), logger.Error(err))
	} else if err := c.cache.Set(ctx, key, payload); err != nil {
		c.log.Warn("sheet cache write failed", logger.String("sheet", string(name)), logger.Error(err))
	}
	return rows, nil
}

func (c *CachedSource) observe(name Name, hit bool) {
	if c.observer != nil {
		c.observer.CacheLookup(string(name), hit)
	}
}
