package cache

import (
	"context"
	"sync/atomic"
	"time"
)

// NullCache stands in for a backend when artifact or font index caching is
// off. It stores nothing, counts the lookups it turned away and remembers
// why caching is off so callers can say so.
type NullCache struct {
	reason  string
	lookups atomic.Int64
}

// NewNullCache returns a cache that misses every lookup. reason describes
// why caching is off, for example "disabled in config".
func NewNullCache(reason string) *NullCache {
	return &NullCache{reason: reason}
}

// Reason returns why caching is off.
func (c *NullCache) Reason() string { return c.reason }

// Lookups returns how many Get calls were answered with a miss.
func (c *NullCache) Lookups() int64 { return c.lookups.Load() }

// Get records the lookup and misses.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) {
	c.lookups.Add(1)
	return nil, false, nil
}

// Set drops data.
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete is a no-op.
func (c *NullCache) Delete(context.Context, string) error { return nil }

// Close is a no-op.
func (c *NullCache) Close() error { return nil }

// Disabled reports whether c never stores anything, and why. A scoped cache
// reports on its backend.
func Disabled(c Cache) (reason string, disabled bool) {
	switch c := c.(type) {
	case nil:
		return "no cache configured", true
	case *NullCache:
		return c.reason, true
	case *ScopedCache:
		return Disabled(c.inner)
	}
	return "", false
}
