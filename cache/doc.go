// Package cache provides memoizing factories for expensive process-wide
// resources.
//
// Two shapes are provided:
//   - Map: unbounded, for resources keyed by a small fixed configuration
//     space (one embedder per provider fingerprint).
//   - LRU: bounded with least-recently-used eviction, for resources keyed
//     by tenant data (one vector-store handle per collection).
//
// Both guarantee at-most-one factory invocation per key under concurrent
// Get calls, and Gets on distinct keys never serialize against each other.
package cache
