// Package cache provides cache implementations for the application layer.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a thread-safe LRU (Least Recently Used) cache bounded both by entry
// count and by the sum of entry costs. It implements port.Cache[K, V].
//
// After every Set both bounds hold: least recently used entries are evicted
// until count <= maxCount and totalCost <= maxCost. Both Get and Set mark an
// entry as recently used.
type LRU[K comparable, V any] struct {
	maxCount  int
	maxCost   int64
	totalCost int64
	mu        sync.Mutex
	items     map[K]*list.Element
	order     *list.List // Front = most recent, Back = least recent
	onEvict   func(K, V)
	stats     Stats
}

// entry holds a key-value pair in the LRU cache.
type entry[K comparable, V any] struct {
	key   K
	value V
	cost  int64
}

// Stats counts cache activity since creation or the last Clear.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Rejected  uint64 // Entries whose own cost exceeded the cost bound
}

// NewLRU creates a new LRU cache with the given bounds.
// maxCount must be positive; if zero or negative, a count of 1 is used.
// A non-positive maxCost disables the cost bound.
func NewLRU[K comparable, V any](maxCount int, maxCost int64) *LRU[K, V] {
	if maxCount <= 0 {
		maxCount = 1
	}
	return &LRU[K, V]{
		maxCount: maxCount,
		maxCost:  maxCost,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// OnEvict registers a hook called, under the cache lock, for every entry
// removed to satisfy a bound. It must not call back into the cache.
func (c *LRU[K, V]) OnEvict(fn func(K, V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get retrieves a value by key and marks it as recently used.
// Returns the value and true if found, or the zero value and false if not found.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		c.stats.Hits++
		return elem.Value.(*entry[K, V]).value, true
	}
	c.stats.Misses++
	var zero V
	return zero, false
}

// Set adds or replaces a value in the cache.
// A replaced entry is removed and a fresh one inserted at the front.
// An entry whose cost alone exceeds the cost bound is not admitted, and any
// previous entry for the key is dropped.
func (c *LRU[K, V]) Set(key K, value V, cost int64) {
	if cost < 0 {
		cost = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}

	if c.maxCost > 0 && cost > c.maxCost {
		c.stats.Rejected++
		return
	}

	elem := c.order.PushFront(&entry[K, V]{key: key, value: value, cost: cost})
	c.items[key] = elem
	c.totalCost += cost

	for c.order.Len() > c.maxCount || (c.maxCost > 0 && c.totalCost > c.maxCost) {
		oldest := c.order.Back()
		if oldest == nil || oldest == elem {
			break
		}
		e := oldest.Value.(*entry[K, V])
		c.removeElement(oldest)
		c.stats.Evictions++
		if c.onEvict != nil {
			c.onEvict(e.key, e.value)
		}
	}
}

// Remove deletes a key from the cache.
// If the key doesn't exist, this is a no-op.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Len returns the number of items currently in the cache.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// TotalCost returns the sum of the costs of all cached entries.
func (c *LRU[K, V]) TotalCost() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalCost
}

// Stats returns a copy of the activity counters.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Keys returns the cached keys from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.order.Len())
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*entry[K, V]).key)
	}
	return keys
}

// Clear removes all items from the cache and resets its counters.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.order.Init()
	c.totalCost = 0
	c.stats = Stats{}
}

// removeElement unlinks elem. Caller must hold c.mu.
func (c *LRU[K, V]) removeElement(elem *list.Element) {
	e := elem.Value.(*entry[K, V])
	c.order.Remove(elem)
	delete(c.items, e.key)
	c.totalCost -= e.cost
}
