// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Provider cache efficiency (hits/misses per catalog service)
// - Outbound provider call latency and failures
// - Enrichment outcomes
// - Versus match lifecycle
// - API endpoint latency and throughput
//
// These mirror the injectable provider.Collector for dashboarding; the
// collector remains the source of truth for the operator-facing hit-rate
// figures.

var (
	// Provider Cache Metrics
	ProviderCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_cache_hits_total",
			Help: "Total number of provider cache hits",
		},
		[]string{"service"},
	)

	ProviderCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_cache_misses_total",
			Help: "Total number of provider cache misses",
		},
		[]string{"service"},
	)

	ProviderCacheSweeps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "provider_cache_sweeps_total",
			Help: "Total number of expired-entry sweep operations",
		},
	)

	ProviderCacheSweptEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "provider_cache_swept_entries_total",
			Help: "Total number of expired entries removed by sweeps",
		},
	)

	// Outbound Provider Call Metrics
	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_call_duration_seconds",
			Help:    "Duration of outbound provider API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	ProviderCallErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_call_errors_total",
			Help: "Total number of failed outbound provider calls",
		},
		[]string{"service", "error_type"}, // "transport", "status", "decode", "rejected"
	)

	ProviderFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_fallbacks_total",
			Help: "Total number of times an adapter served fallback content",
		},
		[]string{"service"},
	)

	// Enrichment Metrics
	EnrichmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichments_total",
			Help: "Total number of enrichment attempts",
		},
		[]string{"category", "result"}, // result: "enriched", "fresh", "no_match", "error"
	)

	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_duration_seconds",
			Help:    "Duration of enrichment operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Versus Match Metrics
	VersusMatchesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "versus_matches_created_total",
			Help: "Total number of versus matches created",
		},
	)

	VersusMatchesCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "versus_matches_completed_total",
			Help: "Total number of versus matches completed",
		},
	)

	VersusChoicesSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "versus_choices_submitted_total",
			Help: "Total number of versus round choices recorded",
		},
	)

	VersusRoundsMatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "versus_rounds_matched_total",
			Help: "Total number of completed rounds where both users agreed",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordCacheHit records a provider cache hit for a service.
func RecordCacheHit(service string) {
	ProviderCacheHits.WithLabelValues(service).Inc()
}

// RecordCacheMiss records a provider cache miss for a service.
func RecordCacheMiss(service string) {
	ProviderCacheMisses.WithLabelValues(service).Inc()
}

// RecordCacheSweep records a sweep operation and the entries it removed.
func RecordCacheSweep(removed int) {
	ProviderCacheSweeps.Inc()
	ProviderCacheSweptEntries.Add(float64(removed))
}

// RecordProviderCall records an outbound provider call and its outcome.
// errorType is empty on success, one of "transport", "status", "decode",
// "rejected" otherwise.
func RecordProviderCall(service string, duration time.Duration, errorType string) {
	ProviderCallDuration.WithLabelValues(service).Observe(duration.Seconds())
	if errorType != "" {
		ProviderCallErrors.WithLabelValues(service, errorType).Inc()
	}
}

// RecordFallback records an adapter serving fallback content.
func RecordFallback(service string) {
	ProviderFallbacks.WithLabelValues(service).Inc()
}

// RecordEnrichment records an enrichment attempt and its result.
func RecordEnrichment(category, result string, duration time.Duration) {
	EnrichmentsTotal.WithLabelValues(category, result).Inc()
	EnrichmentDuration.Observe(duration.Seconds())
}

// RecordCircuitBreakerTransition records a breaker state change and
// updates the state gauge. state is 0=closed, 1=half-open, 2=open.
func RecordCircuitBreakerTransition(name, fromState, toState string, state float64) {
	CircuitBreakerTransitions.WithLabelValues(name, fromState, toState).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
