// Package cache provides a generic sharded concurrent map.
//
// Sharded[K, V] splits its entries across 16 RWMutex-guarded shards so that
// many goroutines scanning disjoint image rows can insert and look up keys
// with little contention. It backs both the unique-color table of the
// quantizers and the memoization layer of the color caches.
//
//	m := cache.NewSharded[uint32, int](cache.Uint32Hasher)
//	m.Set(0xFF0000, 3)
//	idx, ok := m.Get(0xFF0000)
//
// # Thread Safety
//
// All methods are safe for concurrent use. Sharded must not be copied after
// creation (it contains mutexes).
package cache
