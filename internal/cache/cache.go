// Package cache provides a sharded, size-bounded LRU cache.
//
// It backs the glyph advance cache of the canvas and the decoded image cache
// of the loader. Keys are spread over a fixed number of shards, each with its
// own lock, so concurrent lookups of unrelated keys do not contend.
package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const (
	// ShardCount is the number of shards. Must be a power of 2.
	ShardCount = 16

	// DefaultShardCapacity is used when a non-positive capacity is given.
	DefaultShardCapacity = 128

	shardMask = ShardCount - 1
)

// Hasher selects a shard for a key.
type Hasher[K any] func(K) uint64

// StringHasher hashes string keys with FNV-1a.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// Uint64Hasher uses the key as its own hash, folding the high bits in.
func Uint64Hasher(u uint64) uint64 {
	return u ^ u>>32
}

// LRU is a thread-safe sharded cache with least-recently-used eviction.
type LRU[K comparable, V any] struct {
	shards   [ShardCount]shard[K, V]
	hash     Hasher[K]
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*node[K, V]
	order   recency[K, V]
}

// New creates an LRU holding at most capacity entries per shard.
// A non-positive capacity selects DefaultShardCapacity.
func New[K comparable, V any](capacity int, hash Hasher[K]) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultShardCapacity
	}
	c := &LRU[K, V]{hash: hash, capacity: capacity}
	for i := range c.shards {
		c.shards[i].entries = make(map[K]*node[K, V])
	}
	return c
}

func (c *LRU[K, V]) shardFor(key K) *shard[K, V] {
	return &c.shards[c.hash(key)&shardMask]
}

// Get returns the cached value for key and marks it recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	nd, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.order.touch(nd)
	v := nd.value
	s.mu.Unlock()
	c.hits.Add(1)
	return v, true
}

// Put stores value under key, evicting the oldest entries of the shard
// if it is full.
func (c *LRU[K, V]) Put(key K, value V) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	c.putLocked(s, key, value)
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result. load runs with the shard locked, so concurrent callers for the same
// key load once. Errors are returned and not cached.
func (c *LRU[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if nd, ok := s.entries[key]; ok {
		s.order.touch(nd)
		c.hits.Add(1)
		return nd.value, nil
	}
	c.misses.Add(1)

	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.putLocked(s, key, v)
	return v, nil
}

func (c *LRU[K, V]) putLocked(s *shard[K, V], key K, value V) {
	if nd, ok := s.entries[key]; ok {
		nd.value = value
		s.order.touch(nd)
		return
	}
	for s.order.len() >= c.capacity {
		oldest, ok := s.order.popBack()
		if !ok {
			break
		}
		delete(s.entries, oldest.key)
		c.evictions.Add(1)
	}
	s.entries[key] = s.order.pushFront(key, value)
}

// Remove deletes key and reports whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, ok := s.entries[key]
	if !ok {
		return false
	}
	s.order.remove(nd)
	delete(s.entries, key)
	return true
}

// Purge drops every entry. Statistics are kept.
func (c *LRU[K, V]) Purge() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		s.entries = make(map[K]*node[K, V])
		s.order.reset()
		s.mu.Unlock()
	}
}

// Len returns the number of cached entries across all shards.
func (c *LRU[K, V]) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Stats is a point-in-time view of cache counters.
type Stats struct {
	Len       int
	Capacity  int // total across shards
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Stats returns the current counters.
func (c *LRU[K, V]) Stats() Stats {
	return Stats{
		Len:       c.Len(),
		Capacity:  c.capacity * ShardCount,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
