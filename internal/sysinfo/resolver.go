package sysinfo

import (
	"context"
	"strconv"
	"time"

	"apiscout/internal/cachemanager"
)

// MetadataSource resolves a pid to process metadata.
type MetadataSource interface {
	Metadata(ctx context.Context, pid int32) (Metadata, error)
}

// Resolver caches metadata lookups so that repeated refresh cycles do not
// re-read /proc for pids that were already seen.
type Resolver struct {
	cache *cachemanager.ReadThroughCache[string, Metadata, int32]
	ttl   time.Duration
}

// NewResolver builds a resolver over src. When cacheEnabled is false every
// lookup goes straight to the source.
func NewResolver(src MetadataSource, cacheEnabled bool, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = cachemanager.DefaultExpiration
	}

	manager := cachemanager.NewInMemoryCacheManager[string, Metadata](
		"proc-metadata", ttl, cachemanager.DefaultCleanupInterval)

	return &Resolver{
		cache: cachemanager.NewReadThroughCache(manager, src.Metadata, !cacheEnabled),
		ttl:   ttl,
	}
}

// Resolve returns the metadata for pid, from cache when fresh.
func (r *Resolver) Resolve(ctx context.Context, pid int32) (Metadata, error) {
	return r.cache.Get(ctx, cacheKey(pid), pid, r.ttl)
}

// Invalidate drops the cached entry for pid. Called after a termination
// signal so the next cycle observes the process's real state.
func (r *Resolver) Invalidate(ctx context.Context, pid int32) {
	_ = r.cache.Invalidate(ctx, cacheKey(pid))
}

func cacheKey(pid int32) string {
	return "pid:" + strconv.FormatInt(int64(pid), 10)
}
