package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Core request counters
	RPCRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpc_requests_total",
			Help: "Total number of JSON-RPC requests received, by chain",
		},
		[]string{"chain"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpc_cache_hits_total",
			Help: "Total number of requests served from the cache store",
		},
		[]string{"chain", "method"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpc_cache_misses_total",
			Help: "Total number of cacheable requests that missed the store",
		},
		[]string{"chain", "method"},
	)

	CacheBypass = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpc_cache_bypass_total",
			Help: "Total number of requests with no derivable cache key",
		},
		[]string{"chain", "method"},
	)

	CacheWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpc_cache_write_errors_total",
			Help: "Total number of swallowed cache write failures",
		},
		[]string{"chain"},
	)

	// Upstream batch counters
	UpstreamBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpc_upstream_batches_total",
			Help: "Total number of batches forwarded upstream",
		},
		[]string{"chain"},
	)

	UpstreamBatchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rpc_upstream_batch_size",
			Help:    "Number of requests per upstream batch",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
		[]string{"chain"},
	)

	// End-to-end request latency
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rpc_request_duration_seconds",
			Help:    "Duration of proxied JSON-RPC calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chain"},
	)
)

// RecordRPCRequest records one inbound proxy call.
func RecordRPCRequest(chain string) {
	RPCRequests.WithLabelValues(chain).Inc()
}

// RecordCacheHit records a request served from the store.
func RecordCacheHit(chain, method string) {
	CacheHits.WithLabelValues(chain, method).Inc()
}

// RecordCacheMiss records a cacheable request that missed the store.
func RecordCacheMiss(chain, method string) {
	CacheMisses.WithLabelValues(chain, method).Inc()
}

// RecordCacheBypass records a request with no derivable cache key.
func RecordCacheBypass(chain, method string) {
	CacheBypass.WithLabelValues(chain, method).Inc()
}

// RecordCacheWriteError records a swallowed cache write failure.
func RecordCacheWriteError(chain string) {
	CacheWriteErrors.WithLabelValues(chain).Inc()
}

// RecordUpstreamBatch records one forwarded batch and its size.
func RecordUpstreamBatch(chain string, size int) {
	UpstreamBatches.WithLabelValues(chain).Inc()
	UpstreamBatchSize.WithLabelValues(chain).Observe(float64(size))
}

// TimeRequest returns a timer function for measuring one proxied call.
func TimeRequest(chain string) func() {
	timer := prometheus.NewTimer(RequestDuration.WithLabelValues(chain))
	return func() {
		timer.ObserveDuration()
	}
}
