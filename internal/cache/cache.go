package cache

// Cache defines a key-value cache API with a shared TTL and an entry cap.
// Implementations are goroutine-safe.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	Get(key K) (V, bool)

	// Put stores the value, replacing any previous entry for key and resetting its age.
	Put(key K, value V)

	// Delete removes a key if present.
	Delete(key K)

	// Has reports whether a key is present and not expired.
	Has(key K) bool

	// Len returns the number of non-expired items currently stored.
	Len() int

	// Clear removes all entries.
	Clear()

	// PurgeExpired scans and removes expired entries, returning how many were removed.
	PurgeExpired() int
}

// EvictionReason tells an OnEvicted callback why an entry left the cache.
type EvictionReason string

const (
	ReasonExpired  EvictionReason = "expired"
	ReasonCapacity EvictionReason = "capacity"
	ReasonDeleted  EvictionReason = "deleted"
)
