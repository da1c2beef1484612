// Package metrics exposes the Prometheus registry shared by the proxy.
// Metrics are defined in their respective packages (client, cache, api,
// warmup) and registered via promauto; this package serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the proxy.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Handler returns the HTTP handler serving all registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - edu_cache_hits_total{layer} (Counter): Cache hits by layer (memory, redis)
//   - edu_cache_misses_total{layer} (Counter): Cache misses by layer
//   - edu_cache_evictions_total (Counter): Entries evicted from the memory layer
//   - edu_cache_entries{layer} (Gauge): Entries currently held
//   - edu_cache_errors_total{operation} (Counter): Shared cache operation errors
//
// Fetch Metrics (pkg/client):
//   - edu_upstream_requests_total{status} (Counter): Upstream GETs by HTTP status
//   - edu_upstream_request_duration_seconds (Histogram): Upstream GET duration
//   - edu_fetch_results_total{source} (Counter): Successful fetches (cache, upstream)
//   - edu_fetch_failures_total{kind} (Counter): Absent results by kind (transport, decode, parse, shape)
//
// HTTP API Metrics (internal/api):
//   - edu_api_requests_total{route, status} (Counter): API requests by route and status
//   - edu_api_request_duration_seconds{route} (Histogram): API request duration
//
// Warmup Metrics (pkg/warmup):
//   - edu_warmup_jobs_total{result} (Counter): Warmup jobs by result (loaded, absent, skipped)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(edu_fetch_results_total{source="cache"}[5m])) /
//   sum(rate(edu_fetch_results_total[5m]))
//
//   # Absent results by kind
//   sum by (kind) (rate(edu_fetch_failures_total[5m]))
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(edu_upstream_request_duration_seconds_bucket[5m]))
