// Package cache provides the render-artifact cache: rendered SVG, PNG, and
// PDF bytes keyed by a content hash of the diagram plus the render options
// that produced them.
//
// Backends implement the [Cache] interface:
//   - [FileCache]: on-disk cache for CLI usage
//   - [MemoryCache]: bounded in-process LRU for the server hot path
//   - [RedisCache]: shared cache for multi-instance deployments
//   - [NullCache]: no-op, for tests and --no-cache runs
//
// Keys are built with [RenderKey], which hashes the diagram content so that
// any structural change invalidates prior artifacts. [ScopedKeyer] adds a
// prefix for namespace isolation.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that require a hit when an item is
// not found in cache. [Cache.Get] itself reports misses via its bool result.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores opaque byte values under string keys with per-entry TTLs.
// A zero TTL means no expiration. Implementations are safe for concurrent
// use unless noted otherwise.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present
	// and unexpired; expired entries read as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
