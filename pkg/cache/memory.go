package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const layerMemory = "memory"

// MemoryStore is a bounded in-process cache with least-recently-used eviction
// and a fixed time-to-live. It is safe for concurrent use.
type MemoryStore struct {
	lru *expirable.LRU[string, *Entry]
	ttl time.Duration
}

// NewMemoryStore creates a store holding at most capacity live entries,
// each served for at most ttl after it was stored.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity <= 0 {
		panic("cache capacity must be positive")
	}
	if ttl <= 0 {
		panic("cache ttl must be positive")
	}

	onEvict := func(_ string, _ *Entry) {
		CacheEvictions.Inc()
	}

	return &MemoryStore{
		lru: expirable.NewLRU[string, *Entry](capacity, onEvict, ttl),
		ttl: ttl,
	}
}

// Get retrieves a cache entry by key and marks it as recently used.
// Returns ErrCacheMiss if the key doesn't exist or the entry is expired.
func (s *MemoryStore) Get(_ context.Context, key Key) (*Entry, error) {
	entry, ok := s.lru.Get(key.String())
	if !ok || entry.IsExpired() {
		CacheMisses.WithLabelValues(layerMemory).Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues(layerMemory).Inc()
	return entry, nil
}

// Set stores a cache entry, evicting the least recently used entry when the
// store is full. Entries expire after the store TTL or entry.Expires,
// whichever comes first.
func (s *MemoryStore) Set(_ context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return errNilEntry
	}
	if entry.TTL() <= 0 {
		return nil
	}

	s.lru.Add(key.String(), entry)
	CacheEntries.WithLabelValues(layerMemory).Set(float64(s.lru.Len()))

	return nil
}

// Len returns the number of entries currently held, including expired
// entries that have not been reaped yet.
func (s *MemoryStore) Len() int {
	return s.lru.Len()
}

// TTL returns the store's time-to-live.
func (s *MemoryStore) TTL() time.Duration {
	return s.ttl
}
