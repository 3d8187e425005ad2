// Copyright 2026 Lattice Works
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package cache

import (
	"context"
	"sync"
)

// Factory constructs the resource for a key. It is invoked at most once
// per key for concurrent Get calls on an uninitialized key.
type Factory[K comparable, V any] func(ctx context.Context, key K) (V, error)

// entry holds the lazily constructed value for one key. Construction is
// serialized per entry, so Gets on different keys never block each other.
type entry[V any] struct {
	once  sync.Once
	value V
	err   error
}

// Map is an unbounded memoizing factory. Used for resources with a small,
// fixed key space, such as one embedder per provider configuration.
type Map[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*entry[V]
	factory Factory[K, V]
}

// NewMap creates an unbounded memoizing cache around factory.
func NewMap[K comparable, V any](factory Factory[K, V]) *Map[K, V] {
	return &Map[K, V]{
		entries: make(map[K]*entry[V]),
		factory: factory,
	}
}

// Get returns the cached resource for key, constructing it on first
// access. A factory error is returned to every waiter but is not cached;
// the next Get retries construction.
func (m *Map[K, V]) Get(ctx context.Context, key K) (V, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		m.mu.Lock()
		e, ok = m.entries[key]
		if !ok {
			e = &entry[V]{}
			m.entries[key] = e
		}
		m.mu.Unlock()
	}

	e.once.Do(func() {
		e.value, e.err = m.factory(ctx, key)
		if e.err != nil {
			m.mu.Lock()
			if m.entries[key] == e {
				delete(m.entries, key)
			}
			m.mu.Unlock()
		}
	})

	return e.value, e.err
}

// Len returns the number of constructed or in-flight entries.
func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Invalidate drops the entry for key, if present. The underlying resource
// is not closed; callers own resource lifecycle.
func (m *Map[K, V]) Invalidate(key K) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}
