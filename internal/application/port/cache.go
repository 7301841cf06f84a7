package port

import "github.com/bnema/artcache/internal/domain/entity"

// Cache is a generic cache interface for storing key-value pairs.
// Implementations should be thread-safe.
type Cache[K comparable, V any] interface {
	// Get retrieves a value by key. Returns the value and true if found,
	// or the zero value and false if not found.
	Get(key K) (V, bool)

	// Set stores a value for the given key with the given cost. Entries may
	// be evicted so that the cache stays within its bounds.
	Set(key K, value V, cost int64)

	// Remove deletes a key from the cache.
	Remove(key K)

	// Len returns the number of items currently in the cache.
	Len() int
}

// AssetStore is the bounded artwork store shared by fetchers and row bindings.
// Lookup never blocks on I/O; Store never fails.
type AssetStore interface {
	// Lookup returns the artwork stored under key, if any.
	Lookup(key string) (*entity.Artwork, bool)

	// Store inserts or replaces the artwork for key, evicting older
	// entries until the count and cost bounds hold.
	Store(key string, art *entity.Artwork, cost int64)

	// Clear drops every entry. Used for memory pressure only.
	Clear()
}
