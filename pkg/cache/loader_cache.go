// Package cache provides a string-keyed loader cache combining LRU storage
// with singleflight to coalesce concurrent loads for the same key.
package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// LoaderCache caches values by string key and loads them on miss via a
// callback. Concurrent misses for the same key are coalesced through
// singleflight: one load runs, the rest wait for and share that result. The
// match service uses it for query embeddings, where a burst of identical
// searches would otherwise each pay an embedding-provider round trip.
type LoaderCache[V any] struct {
	lru   *lru.Cache[string, V]
	group singleflight.Group
}

// New creates a loader cache holding at most maxEntries values.
func New[V any](maxEntries int) (*LoaderCache[V], error) {
	lruCache, err := lru.New[string, V](maxEntries)
	if err != nil {
		return nil, err
	}

	return &LoaderCache[V]{lru: lruCache}, nil
}

// Get returns the value for key, loading it via load on cache miss. The
// second return reports whether the value came from cache (true) or was
// loaded (false), so callers can record hit/miss metrics without the cache
// knowing about them.
func (c *LoaderCache[V]) Get(ctx context.Context, key string, load func(context.Context, string) (V, error)) (V, bool, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, true, nil
	}

	val, err, _ := c.group.Do(key, func() (any, error) {
		loaded, loadErr := load(ctx, key)
		if loadErr != nil {
			return nil, loadErr
		}

		c.lru.Add(key, loaded)

		return loaded, nil
	})
	if err != nil {
		var zero V

		return zero, false, err
	}

	return val.(V), false, nil
}

// Len returns the number of entries in the cache.
func (c *LoaderCache[V]) Len() int {
	return c.lru.Len()
}

// Purge removes all entries. Called after a catalog reload, when the
// embedding space may have changed.
func (c *LoaderCache[V]) Purge() {
	c.lru.Purge()
}
