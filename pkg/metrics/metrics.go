// Package metrics documents the Prometheus metrics exported by the Canvas
// client. All collectors are defined in their respective packages
// (client, cache, ratelimit) via promauto to keep registration next to use
// and avoid circular dependencies.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer used by the client.
// All metrics register themselves here via promauto.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - canvas_rate_limit_tokens (Gauge): Tokens currently available in the bucket
//   - canvas_rate_limit_waits_total (Counter): Poll sleeps while waiting for a token
//   - canvas_rate_limit_timeouts_total (Counter): Acquire attempts that exhausted their wait ceiling
//
// Cache Metrics (pkg/cache):
//   - canvas_cache_hits_total (Counter): Reads served from a live entry
//   - canvas_cache_misses_total (Counter): Reads of absent or expired keys
//   - canvas_cache_evictions_total (Counter): Expired entries removed on read or sweep
//   - canvas_cache_invalidations_total (Counter): Entries removed by pattern invalidation
//
// Request Metrics (pkg/client):
//   - canvas_requests_total{endpoint, status} (Counter): Requests by endpoint and outcome
//     (HTTP status, "rate_limited", or "network_error")
//   - canvas_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - canvas_pages_per_fetch (Histogram): Pages traversed per collection fetch
//
// Example Prometheus Queries:
//
//	# Cache Hit Rate
//	sum(rate(canvas_cache_hits_total[5m])) /
//	(sum(rate(canvas_cache_hits_total[5m])) + sum(rate(canvas_cache_misses_total[5m])))
//
//	# Requests blocked by the local limiter
//	rate(canvas_requests_total{status="rate_limited"}[5m])
//
//	# P95 Request Latency
//	histogram_quantile(0.95, rate(canvas_request_duration_seconds_bucket[5m]))
