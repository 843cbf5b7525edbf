package specklia

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queryRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "specklia_requests_total",
		Help: "The total number of requests sent to the Specklia API",
	})
	queryRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "specklia_request_retries_total",
		Help: "The total number of retried Specklia API requests",
	})
	queryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "specklia_request_failures_total",
		Help: "The total number of Specklia API requests that exhausted their retries",
	})
	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "specklia_request_duration_seconds",
		Help:    "The duration of individual Specklia API requests",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
	queryCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "specklia_query_cache_hits_total",
		Help: "The total number of hits on the query result cache",
	})
	queryCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "specklia_query_cache_misses_total",
		Help: "The total number of misses on the query result cache",
	})
)
