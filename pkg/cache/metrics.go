package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by layer (memory, redis)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edu_cache_hits_total",
			Help: "Total number of payload cache hits",
		},
		[]string{"layer"},
	)

	// CacheMisses tracks cache misses by layer
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edu_cache_misses_total",
			Help: "Total number of payload cache misses",
		},
		[]string{"layer"},
	)

	// CacheEvictions tracks entries dropped from the memory store
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "edu_cache_evictions_total",
			Help: "Total number of entries evicted from the memory cache (capacity or expiry)",
		},
	)

	// CacheEntries tracks the number of entries held by layer
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "edu_cache_entries",
			Help: "Current number of entries in the payload cache",
		},
		[]string{"layer"}, // "memory"
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edu_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set"
	)
)
