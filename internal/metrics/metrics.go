// Package metrics exposes Prometheus collectors for the gateway and the
// HTTP server. Collectors register on the default registry; /metrics is
// served by promhttp in server mode.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seichijunrei_gateway_requests_total",
		Help: "Upstream gateway calls by provider and outcome.",
	}, []string{"provider", "outcome"})

	gatewayRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seichijunrei_gateway_retries_total",
		Help: "Retry attempts by provider.",
	}, []string{"provider"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seichijunrei_gateway_cache_lookups_total",
		Help: "Response cache lookups by provider and result (hit/miss).",
	}, []string{"provider", "result"})

	rateLimitWait = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seichijunrei_gateway_ratelimit_wait_seconds",
		Help:    "Time spent waiting for a rate-limit token.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"provider"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seichijunrei_http_requests_total",
		Help: "HTTP requests by path and status class.",
	}, []string{"path", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seichijunrei_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})
)

// RecordGatewayRequest counts one finished upstream call.
// Outcome is "success" or the failure kind.
func RecordGatewayRequest(provider, outcome string) {
	gatewayRequests.WithLabelValues(provider, outcome).Inc()
}

// RecordGatewayRetry counts one retry attempt.
func RecordGatewayRetry(provider string) {
	gatewayRetries.WithLabelValues(provider).Inc()
}

// RecordCacheLookup counts one cache lookup result ("hit" or "miss").
func RecordCacheLookup(provider, result string) {
	cacheLookups.WithLabelValues(provider, result).Inc()
}

// ObserveRateLimitWait records time spent blocked on the token bucket.
func ObserveRateLimitWait(provider string, wait time.Duration) {
	rateLimitWait.WithLabelValues(provider).Observe(wait.Seconds())
}

// RecordHTTPRequest counts one served HTTP request.
func RecordHTTPRequest(path, status string) {
	httpRequests.WithLabelValues(path, status).Inc()
}

// ObserveHTTPDuration records HTTP handler latency.
func ObserveHTTPDuration(path string, elapsed time.Duration) {
	httpDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}
