// Package cache provides the bounded read-through cache the service layers
// own. Services invalidate it explicitly after every mutation.
package cache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"finance-manager/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultSize is the number of entries kept when no size is configured.
const DefaultSize = 256

// Cache is a goroutine-safe, size-bounded LRU cache.
type Cache[K comparable, V any] struct {
	lru    *lru.Cache[K, V]
	mu     sync.Mutex
	gen    uint64 // bumped by Purge
	hits   prometheus.Counter
	misses prometheus.Counter
}

// New creates a cache named name holding at most size entries.
func New[K comparable, V any](name string, size int) (*Cache[K, V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	l, err := lru.New[K, V](size)
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", name, err)
	}
	return &Cache[K, V]{
		lru:    l,
		hits:   metrics.CacheLookups.WithLabelValues(name, "hit"),
		misses: metrics.CacheLookups.WithLabelValues(name, "miss"),
	}, nil
}

// Get returns the cached value for key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}
	return v, ok
}

// Add stores value under key, evicting the least recently used entry when full.
func (c *Cache[K, V]) Add(key K, value V) {
	c.lru.Add(key, value)
}

// Purge drops every entry.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Purge()
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}

// GetOrLoad returns the cached value for key, calling load and caching its
// result on a miss. Errors are not cached, and neither is a result whose
// load overlapped a Purge: it may predate the mutation that purged.
func (c *Cache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	gen := c.generation()
	v, err := load()
	if err != nil {
		return v, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.lru.Add(key, v)
	}
	c.mu.Unlock()
	return v, nil
}

func (c *Cache[K, V]) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}
