package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/golang/groupcache/singleflight"
)

// Cache is a bounded in-memory TTL cache whose loads are de-duplicated per key
type Cache[V any] struct {
	cache *ristretto.Cache[string, V]
	group singleflight.Group
	ttl   time.Duration
}

func (c *Cache[V]) Get(key string) (V, bool) {
	return c.cache.Get(key)
}

func (c *Cache[V]) Set(key string, value V) bool {
	ok := c.cache.SetWithTTL(key, value, 1, c.ttl)
	c.cache.Wait()
	return ok
}

// ComputeIfAbsent returns the cached value or runs f once for all concurrent
// callers of the same key. Errors are not cached.
func (c *Cache[V]) ComputeIfAbsent(key string, f func() (V, error)) (V, error) {
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	cv, err := c.group.Do(key, func() (any, error) {
		r, err := f()
		if err != nil {
			return nil, err
		}
		c.Set(key, r)
		return r, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return cv.(V), nil
}

type loadResult struct {
	value any
	err   error
}

// ComputeIfAbsentContext is ComputeIfAbsent for loads that block. The shared
// load runs on a context detached from any single caller's cancellation, and
// each caller stops waiting when its own ctx is done.
func (c *Cache[V]) ComputeIfAbsentContext(ctx context.Context, key string, f func(context.Context) (V, error)) (V, error) {
	var zero V
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	loadCtx := context.WithoutCancel(ctx)
	done := make(chan loadResult, 1)
	go func() {
		v, err := c.group.Do(key, func() (any, error) {
			r, err := f(loadCtx)
			if err != nil {
				return nil, err
			}
			c.Set(key, r)
			return r, nil
		})
		done <- loadResult{value: v, err: err}
	}()

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return zero, res.err
		}
		return res.value.(V), nil
	}
}

func (c *Cache[V]) Delete(key string) {
	c.cache.Del(key)
}

func (c *Cache[V]) Clear() {
	c.cache.Clear()
}

func (c *Cache[V]) Close() {
	c.cache.Close()
}

func New[V any](ttl time.Duration) *Cache[V] {
	cache, _ := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: 5000,
		MaxCost:     500,
		BufferItems: 64,
		// cost counts entries, not bytes
		IgnoreInternalCost: true,
	})
	return &Cache[V]{
		cache: cache,
		group: singleflight.Group{},
		ttl:   ttl,
	}
}
