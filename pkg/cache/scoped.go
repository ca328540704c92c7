package cache

import (
	"context"
	"time"
)

// ScopedCache prefixes every key of an inner cache, so that several
// consumers can share one backend without colliding.
//
//	fonts := cache.NewScopedCache(shared, "fonts:")
type ScopedCache struct {
	inner  Cache
	prefix string
}

// NewScopedCache wraps inner with a key prefix. A nil inner behaves like
// [NullCache].
func NewScopedCache(inner Cache, prefix string) *ScopedCache {
	if inner == nil {
		inner = NewNullCache("no backend")
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

// Get retrieves the prefixed key from the inner cache.
func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores the value under the prefixed key.
func (c *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes the prefixed key.
func (c *ScopedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Close closes the inner cache.
func (c *ScopedCache) Close() error {
	return c.inner.Close()
}

var _ Cache = (*ScopedCache)(nil)
