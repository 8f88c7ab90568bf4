// Package cache stores parsed sheets between runs so an unchanged workbook
// is not parsed again. Payloads are opaque bytes; encoding is up to the caller.
//
// Correctness never depends on a cache: callers treat every error as a miss.
package cache

import (
	"context"
	"time"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/errors"
)

// Cache is a keyed byte store with expiry.
type Cache interface {
	// Get returns the payload stored under key. found is false on a miss.
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)
	// Set stores payload under key for the configured TTL.
	Set(ctx context.Context, key string, payload []byte) error
	// Close releases backend resources.
	Close() error
}

// DefaultTTL is used when the configured TTL is not positive.
const DefaultTTL = 24 * time.Hour

// New builds the cache selected in settings. It returns nil for conf.CacheNone.
func New(settings *conf.CacheSettings) (Cache, error) {
	ttl := settings.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	switch settings.Type {
	case conf.CacheNone, "":
		return nil, nil
	case conf.CacheMemory:
		return NewMemory(ttl), nil
	case conf.CacheRedis:
		return NewRedis(&settings.Redis, ttl), nil
	default:
		return nil, errors.Newf("unsupported cache type %q", settings.Type).
			Component("sheet").
			Category(errors.CategoryConfiguration).
			Build()
	}
}
