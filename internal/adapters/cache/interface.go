package cache

// Store is a string-keyed store with expiring entries. A miss is an explicit
// second return value, never an error. Implementations own their entries;
// callers must treat returned values as snapshots.
type Store[V any] interface {
	// Get returns the value if present and not expired. Expired entries are
	// treated as absent and removed lazily.
	Get(key string) (V, bool)
	// Set unconditionally overwrites the entry, restamping its age.
	Set(key string, value V)
	Delete(key string)
	// DeleteMatching removes every entry whose key satisfies the predicate.
	// Used to invalidate matches after a domain object is written.
	DeleteMatching(pred func(key string) bool)
	// Size is diagnostic only.
	Size() int
}
