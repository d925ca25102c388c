package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks reads served from a live entry.
	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "canvas_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// cacheMisses tracks reads of absent or expired keys.
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "canvas_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// cacheEvictions tracks expired entries removed on read or sweep.
	cacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "canvas_cache_evictions_total",
			Help: "Total number of expired entries evicted",
		},
	)

	// cacheInvalidations tracks entries removed by pattern invalidation.
	cacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "canvas_cache_invalidations_total",
			Help: "Total number of entries removed by pattern invalidation",
		},
	)
)
