package cache

import (
	"github.com/bnema/artcache/internal/application/port"
	"github.com/bnema/artcache/internal/domain/entity"
)

const (
	// DefaultMaxCount is the entry-count ceiling of the artwork cache.
	DefaultMaxCount = 20
	// DefaultMaxTotalCost is the byte-budget ceiling of the artwork cache (10 MiB).
	DefaultMaxTotalCost int64 = 10 * 1024 * 1024
)

// Limits bounds an AssetCache.
type Limits struct {
	MaxCount     int
	MaxTotalCost int64
}

// DefaultLimits returns the stock 20 entries / 10 MiB budget.
func DefaultLimits() Limits {
	return Limits{
		MaxCount:     DefaultMaxCount,
		MaxTotalCost: DefaultMaxTotalCost,
	}
}

// AssetCache is the bounded in-memory artwork store.
// It is constructed once by the host and shared by reference.
type AssetCache struct {
	lru    *LRU[string, *entity.Artwork]
	limits Limits
}

// NewAssetCache creates an artwork cache. Zero fields in limits fall back to
// the defaults.
func NewAssetCache(limits Limits) *AssetCache {
	if limits.MaxCount <= 0 {
		limits.MaxCount = DefaultMaxCount
	}
	if limits.MaxTotalCost <= 0 {
		limits.MaxTotalCost = DefaultMaxTotalCost
	}
	return &AssetCache{
		lru:    NewLRU[string, *entity.Artwork](limits.MaxCount, limits.MaxTotalCost),
		limits: limits,
	}
}

// Lookup returns the artwork cached under key.
func (c *AssetCache) Lookup(key string) (*entity.Artwork, bool) {
	if key == "" {
		return nil, false
	}
	return c.lru.Get(key)
}

// Store inserts or replaces the artwork for key. Nil artwork and the
// placeholder sentinel are ignored.
func (c *AssetCache) Store(key string, art *entity.Artwork, cost int64) {
	if key == "" || art == nil || art.IsPlaceholder() {
		return
	}
	c.lru.Set(key, art, cost)
}

// Clear drops every entry.
func (c *AssetCache) Clear() {
	c.lru.Clear()
}

// Len returns the number of cached artworks.
func (c *AssetCache) Len() int {
	return c.lru.Len()
}

// TotalCost returns the bytes currently charged against the budget.
func (c *AssetCache) TotalCost() int64 {
	return c.lru.TotalCost()
}

// Limits returns the bounds the cache was built with.
func (c *AssetCache) Limits() Limits {
	return c.limits
}

// Stats returns hit, miss and eviction counters.
func (c *AssetCache) Stats() Stats {
	return c.lru.Stats()
}

var _ port.AssetStore = (*AssetCache)(nil)
var _ port.Cache[string, *entity.Artwork] = (*LRU[string, *entity.Artwork])(nil)
