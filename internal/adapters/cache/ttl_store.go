package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type ttlStore[V any] struct {
	cache *ttlcache.Cache[string, V]
}

func (s *ttlStore[V]) Get(key string) (V, bool) {
	item := s.cache.Get(key)
	if item == nil {
		var empty V
		return empty, false
	}
	return item.Value(), true
}

func (s *ttlStore[V]) Set(key string, value V) {
	s.cache.Set(key, value, ttlcache.DefaultTTL)
}

func (s *ttlStore[V]) Delete(key string) {
	s.cache.Delete(key)
}

func (s *ttlStore[V]) DeleteMatching(pred func(key string) bool) {
	for _, key := range s.cache.Keys() {
		if pred(key) {
			s.cache.Delete(key)
		}
	}
}

func (s *ttlStore[V]) Size() int {
	return s.cache.Len()
}

// NewTTLStore returns a Store backed by a ttlcache with the given
// time-to-live. Entry age is not refreshed on reads. The store holds at most
// maxEntries entries; the oldest entries are evicted once the bound is hit.
func NewTTLStore[V any](ttl time.Duration, maxEntries uint64) Store[V] {
	ttlCache := ttlcache.New[string, V](
		ttlcache.WithTTL[string, V](ttl),
		ttlcache.WithDisableTouchOnHit[string, V](),
		ttlcache.WithCapacity[string, V](maxEntries),
	)
	go ttlCache.Start()
	return &ttlStore[V]{cache: ttlCache}
}
