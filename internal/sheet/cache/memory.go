package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache. It only helps when one process imports
// the same workbook more than once, e.g. a dry run followed by the real run.
type Memory struct {
	c *gocache.Cache
}

// NewMemory creates a Memory cache whose entries expire after ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{c: gocache.New(ttl, ttl*2)}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, found := m.c.Get(key)
	if !found {
		return nil, false, nil
	}
	payload, ok := v.([]byte)
	return payload, ok, nil
}

// Set implements Cache. The payload is copied.
func (m *Memory) Set(_ context.Context, key string, payload []byte) error {
	m.c.Set(key, append([]byte(nil), payload...), gocache.DefaultExpiration)
	return nil
}

// Len returns the number of live entries.
func (m *Memory) Len() int {
	return m.c.ItemCount()
}

// Close flushes all entries.
func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
