package gateway

import (
	"container/list"
	"sync"
	"time"
)

// CacheStats reports cache effectiveness counters.
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

type cacheEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe TTL cache with LRU eviction. It holds no domain
// knowledge; values are opaque. Expired entries behave as misses and are
// removed on the lookup that observes them.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	ll      *list.List
	maxSize int
	clock   func() time.Time
	hits    uint64
	misses  uint64
}

// NewCache builds a cache holding at most maxSize entries (default 1000).
// A nil clock means real time.
func NewCache[V any](maxSize int, clock func() time.Time) *Cache[V] {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Cache[V]{
		entries: make(map[string]*list.Element),
		ll:      list.New(),
		maxSize: maxSize,
		clock:   clock,
	}
}

// Get returns the value for key if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}

	entry := elem.Value.(*cacheEntry[V])
	if !c.clock().Before(entry.expiresAt) {
		c.removeElement(elem)
		c.misses++
		return zero, false
	}

	c.ll.MoveToFront(elem)
	c.hits++
	return entry.value, true
}

// Set stores value under key with the given TTL, replacing any prior entry.
// Non-positive TTLs are ignored.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock().Add(ttl)
	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry[V])
		entry.value = value
		entry.expiresAt = expiresAt
		c.ll.MoveToFront(elem)
		return
	}

	if c.ll.Len() >= c.maxSize {
		c.evictOldest()
	}

	elem := c.ll.PushFront(&cacheEntry[V]{key: key, value: value, expiresAt: expiresAt})
	c.entries[key] = elem
}

// Invalidate removes the entry for key, reporting whether one was present.
func (c *Cache[V]) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeElement(elem)
	return true
}

// Sweep removes every expired entry and returns how many were dropped.
// Callers may run it periodically to bound memory between lookups.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	removed := 0
	for elem := c.ll.Back(); elem != nil; {
		prev := elem.Prev()
		if !now.Before(elem.Value.(*cacheEntry[V]).expiresAt) {
			c.removeElement(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

// Stats returns hit/miss counters and the current entry count.
func (c *Cache[V]) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Size: c.ll.Len()}
}

func (c *Cache[V]) evictOldest() {
	if elem := c.ll.Back(); elem != nil {
		c.removeElement(elem)
	}
}

func (c *Cache[V]) removeElement(elem *list.Element) {
	c.ll.Remove(elem)
	delete(c.entries, elem.Value.(*cacheEntry[V]).key)
}
