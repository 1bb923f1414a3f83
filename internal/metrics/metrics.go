package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TMDBRequests counts upstream calls by endpoint and outcome
	TMDBRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinelist",
		Subsystem: "tmdb",
		Name:      "requests_total",
		Help:      "TMDB requests by endpoint and status.",
	}, []string{"endpoint", "status"})

	// TMDBLatency observes upstream latency including retries
	TMDBLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cinelist",
		Subsystem: "tmdb",
		Name:      "request_duration_seconds",
		Help:      "TMDB request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	// CacheLookups counts response cache hits and misses
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinelist",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Response cache lookups by result.",
	}, []string{"result"})

	// WatchlistOps counts watchlist mutations by operation and result
	WatchlistOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinelist",
		Subsystem: "watchlist",
		Name:      "operations_total",
		Help:      "Watchlist operations by name and result.",
	}, []string{"operation", "result"})

	// ActiveSessions is the number of live user sessions
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "cinelist",
		Name:      "active_sessions",
		Help:      "Live user sessions.",
	})

	// HTTPRequests counts API requests by route and status code
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinelist",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "API requests by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPLatency observes API latency per route
	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cinelist",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Result maps an error to the result label
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
