package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultLRUCapacity bounds the handle cache when no capacity is given.
const DefaultLRUCapacity = 100

// LRU is a bounded memoizing factory with least-recently-used eviction.
// Eviction merely drops the cached handle; it never touches whatever
// persisted data the handle points at. Used for per-collection
// vector-store handles, where the key space grows with tenant count.
type LRU[K comparable, V any] struct {
	mu      sync.Mutex
	entries *lru.Cache[K, *entry[V]]
	factory Factory[K, V]
}

// NewLRU creates a bounded memoizing cache around factory. A capacity
// below 1 falls back to DefaultLRUCapacity.
func NewLRU[K comparable, V any](capacity int, factory Factory[K, V]) (*LRU[K, V], error) {
	if capacity < 1 {
		capacity = DefaultLRUCapacity
	}

	entries, err := lru.New[K, *entry[V]](capacity)
	if err != nil {
		return nil, err
	}

	return &LRU[K, V]{
		entries: entries,
		factory: factory,
	}, nil
}

// Get returns the cached resource for key, constructing it on first
// access. Construction happens outside the cache lock so concurrent Gets
// on different keys proceed in parallel; concurrent Gets on the same key
// share a single factory invocation.
func (c *LRU[K, V]) Get(ctx context.Context, key K) (V, error) {
	c.mu.Lock()
	e, ok := c.entries.Get(key)
	if !ok {
		e = &entry[V]{}
		c.entries.Add(key, e)
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.value, e.err = c.factory(ctx, key)
		if e.err != nil {
			c.mu.Lock()
			if cur, ok := c.entries.Peek(key); ok && cur == e {
				c.entries.Remove(key)
			}
			c.mu.Unlock()
		}
	})

	return e.value, e.err
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Invalidate drops the entry for key, if present.
func (c *LRU[K, V]) Invalidate(key K) {
	c.mu.Lock()
	c.entries.Remove(key)
	c.mu.Unlock()
}
