// Package cache keeps recent team build results keyed by their inputs.
package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/golang/groupcache/lru"
)

// DefaultMaxEntries bounds a cache built without WithMaxEntries.
const DefaultMaxEntries = 1024

// Results maps a build key to the result produced for it.
type Results[V any] interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key Key) (V, bool)

	// Put stores v under key, evicting the least recently used entry once
	// the cache is full.
	Put(ctx context.Context, key Key, v V)

	// Purge drops every entry.
	Purge(ctx context.Context)

	Size() int64
}

// lruResults implements Results with a least recently used eviction policy.
// A non-positive maxEntries disables caching: Put is a no-op.
type lruResults[V any] struct {
	mu         sync.Mutex
	entries    *lru.Cache
	maxEntries int
	size       atomic.Int64
}

// NewLRU creates an in-memory results cache.
func NewLRU[V any](opts ...Option) Results[V] {
	cfg := options{maxEntries: DefaultMaxEntries}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &lruResults[V]{maxEntries: cfg.maxEntries}
	if c.maxEntries > 0 {
		c.entries = lru.New(c.maxEntries)
		c.entries.OnEvicted = func(lru.Key, interface{}) { c.size.Add(-1) }
	}
	return c
}

func (c *lruResults[V]) Get(_ context.Context, key Key) (V, bool) {
	var zero V
	if c.entries == nil {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries.Get(key)
	if !ok {
		return zero, false
	}
	return v.(V), true
}

func (c *lruResults[V]) Put(_ context.Context, key Key, v V) {
	if c.entries == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries.Get(key); !exists {
		c.size.Add(1)
	}
	c.entries.Add(key, v)
}

func (c *lruResults[V]) Purge(_ context.Context) {
	if c.entries == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Clear()
	c.size.Store(0)
}

func (c *lruResults[V]) Size() int64 {
	return c.size.Load()
}
