package cache

import (
	"sync"
	"time"
)

type basicEntry[V any] struct {
	value    V
	storedAt time.Time
}

// basicStore is a mutex-guarded map with lazy expiry and an injectable clock,
// used in tests where entry age must be controlled exactly.
type basicStore[V any] struct {
	entries map[string]basicEntry[V]
	lock    sync.Mutex
	ttl     time.Duration
	nowFunc func() time.Time
}

func (s *basicStore[V]) Get(key string) (V, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		var empty V
		return empty, false
	}

	if s.nowFunc().Sub(entry.storedAt) > s.ttl {
		delete(s.entries, key)
		var empty V
		return empty, false
	}

	return entry.value, true
}

func (s *basicStore[V]) Set(key string, value V) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.entries[key] = basicEntry[V]{value: value, storedAt: s.nowFunc()}
}

func (s *basicStore[V]) Delete(key string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.entries, key)
}

func (s *basicStore[V]) DeleteMatching(pred func(key string) bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for key := range s.entries {
		if pred(key) {
			delete(s.entries, key)
		}
	}
}

func (s *basicStore[V]) Size() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return len(s.entries)
}

func NewBasicStore[V any](ttl time.Duration, nowFunc func() time.Time) Store[V] {
	return &basicStore[V]{
		entries: make(map[string]basicEntry[V]),
		ttl:     ttl,
		nowFunc: nowFunc,
	}
}
