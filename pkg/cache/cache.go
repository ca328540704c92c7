// Package cache provides a small key/value cache with pluggable backends.
//
// The cache persists data that is expensive to rebuild between runs, such as
// the index of local font faces. Backends:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the render service
//   - [NullCache]: disables caching
//
// Keys are namespaced with [NewScopedCache] and built with [Key].
//
// # Usage
//
//	c, err := cache.NewFileCache(cache.DefaultDir())
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	key := cache.Key("fonts", files)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    // use data
//	}
//	_ = c.Set(ctx, key, data, 24*time.Hour)
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// A miss is reported as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero stores the value without expiration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultDir returns the default cache directory: $XDG_CACHE_HOME/md2ifdam
// (or the platform equivalent), falling back to ~/.md2ifdam/cache.
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "md2ifdam")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".md2ifdam", "cache")
	}
	return filepath.Join(os.TempDir(), "md2ifdam-cache")
}
