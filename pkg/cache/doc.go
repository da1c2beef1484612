// Package cache stores parsed upstream payloads for a bounded time.
//
// The package provides:
//
// - Deterministic cache keys built from an upstream URL and its query parameters
// - A bounded in-memory store with least-recently-used eviction and a fixed TTL
// - An optional Redis store so several proxy replicas can share fetched payloads
// - A layered store combining both (memory first, Redis second)
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	store := cache.NewMemoryStore(100, time.Hour)
//
//	key := cache.Key{
//		URL:    "http://202.72.235.218:8082/api/v1/employee/list",
//		Params: map[string]any{"eiinNo": "108234", "page": 1, "size": 50},
//	}
//
//	entry, err := store.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// Cache miss - fetch from upstream, then:
//		_ = store.Set(ctx, key, cache.NewEntry(payload, time.Hour))
//	}
//
// # Shared Tier
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	store := cache.NewLayeredStore(
//		cache.NewMemoryStore(100, time.Hour),
//		cache.NewRedisStore(redisClient),
//	)
//
// Entries carry their own expiry, so an entry promoted from Redis into memory
// is never served past the moment it was first cached plus the TTL.
//
// # Metrics
//
//   - edu_cache_hits_total{layer} - Cache hits by layer (memory, redis)
//   - edu_cache_misses_total{layer} - Cache misses by layer
//   - edu_cache_evictions_total - Entries dropped from memory (capacity or expiry)
//   - edu_cache_entries{layer} - Live entries in the memory store
//   - edu_cache_errors_total{operation} - Cache operation errors
package cache
