package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Routing metrics
	RequestsByTier = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_requests_total",
			Help: "Total number of routed requests by difficulty tier",
		},
		[]string{"tier"},
	)

	DispatchAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_dispatch_attempts_total",
			Help: "Provider calls made by the dispatcher",
		},
		[]string{"model", "mode", "outcome"}, // mode: live_search|standard; outcome: success|quota|error
	)

	Fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_fallbacks_total",
			Help: "Fallback transitions taken by the dispatcher",
		},
		[]string{"reason"}, // reason: quota|search_failed|candidate_failed|exhausted|missing_credentials|backend_error
	)

	SavingsUSD = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_savings_usd_total",
			Help: "Estimated savings versus the top-tier model in USD",
		},
		[]string{"tier"},
	)

	ActualCostUSD = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_actual_cost_usd_total",
			Help: "Estimated actual cost in USD",
		},
		[]string{"tier"},
	)

	// Storage metrics
	LogWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "router_log_write_failures_total",
			Help: "Request log rows that could not be persisted",
		},
	)

	// Cache metrics
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_cache_lookups_total",
			Help: "Response cache lookups",
		},
		[]string{"result"}, // result: hit|miss|error
	)

	// HTTP metrics
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "router_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsByTier,
		DispatchAttempts,
		Fallbacks,
		SavingsUSD,
		ActualCostUSD,
		LogWriteFailures,
		CacheLookups,
		HTTPDuration,
	)
}

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
