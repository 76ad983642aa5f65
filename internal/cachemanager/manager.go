// Package cachemanager provides a small TTL cache used to memoize process
// metadata lookups between discovery passes.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is the cache surface the metadata resolver needs: point
// reads, TTL writes, and explicit invalidation.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
}
