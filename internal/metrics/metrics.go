// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedrec_recommendations_total",
			Help: "Total number of recommendation requests served",
		},
		[]string{"crop", "mode"}, // mode: "suitability", "hybrid", "hybrid_fallback"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seedrec_recommendation_duration_seconds",
			Help:    "Recommendation latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	RecommendationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedrec_recommendation_errors_total",
			Help: "Total number of rejected recommendation requests",
		},
		[]string{"error_type"}, // "input", "config", "internal"
	)

	// Yield Model Metrics
	YieldPredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedrec_yield_predictions_total",
			Help: "Total number of yield predictions by outcome",
		},
		[]string{"crop", "outcome"}, // outcome: "available", "unavailable"
	)

	YieldModelLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedrec_yield_model_loads_total",
			Help: "Total number of yield model loads from disk",
		},
		[]string{"crop", "result"}, // result: "success", "missing", "error"
	)

	YieldModelLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seedrec_yield_model_load_duration_seconds",
			Help:    "Duration of yield model loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	YieldCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seedrec_yield_cache_hits_total",
			Help: "Total number of yield model cache hits",
		},
	)

	YieldCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seedrec_yield_cache_misses_total",
			Help: "Total number of yield model cache misses",
		},
	)

	YieldCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seedrec_yield_cache_entries",
			Help: "Current number of cached yield models",
		},
	)

	// Traits Metrics
	TraitsRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "seedrec_traits_rows",
			Help: "Rows of the live traits table by validation state",
		},
		[]string{"state"}, // "valid", "rejected"
	)

	TraitsReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedrec_traits_reloads_total",
			Help: "Total number of traits reload attempts",
		},
		[]string{"result"}, // "success", "schema_error", "error", "unchanged"
	)

	TraitsLastReload = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seedrec_traits_last_reload_timestamp_seconds",
			Help: "Unix timestamp of the last successful traits reload",
		},
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

	// API Metrics
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
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate-limited API requests",
		},
		[]string{"endpoint"},
	)
)

// RecordRecommendation records a served recommendation request.
func RecordRecommendation(crop, mode string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(strings.ToUpper(crop), mode).Inc()
	RecommendationDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordRecommendationError records a rejected recommendation request.
func RecordRecommendationError(errorType string) {
	RecommendationErrors.WithLabelValues(errorType).Inc()
}

// RecordYieldPrediction records the outcome of one yield prediction.
func RecordYieldPrediction(crop, outcome string) {
	YieldPredictions.WithLabelValues(strings.ToUpper(crop), outcome).Inc()
}

// RecordYieldModelLoad records a model load from disk.
func RecordYieldModelLoad(crop, result string, duration time.Duration) {
	YieldModelLoads.WithLabelValues(strings.ToUpper(crop), result).Inc()
	YieldModelLoadDuration.Observe(duration.Seconds())
}

// RecordYieldCache records a model cache lookup and the resulting size.
func RecordYieldCache(hit bool, size int) {
	if hit {
		YieldCacheHits.Inc()
	} else {
		YieldCacheMisses.Inc()
	}
	YieldCacheSize.Set(float64(size))
}

// RecordTraitsReload records a traits reload attempt. Row counts are only
// updated on success.
func RecordTraitsReload(result string, valid, rejected int) {
	TraitsReloads.WithLabelValues(result).Inc()
	if result != "success" {
		return
	}
	TraitsRows.WithLabelValues("valid").Set(float64(valid))
	TraitsRows.WithLabelValues("rejected").Set(float64(rejected))
	TraitsLastReload.Set(float64(time.Now().Unix()))
}

// SetCircuitBreakerState updates the gauge for a breaker state name:
// "closed", "half-open" or "open".
func SetCircuitBreakerState(name, state string) {
	var v float64
	switch state {
	case "half-open":
		v = 1
	case "open":
		v = 2
	}
	CircuitBreakerState.WithLabelValues(name).Set(v)
}

// RecordCircuitBreakerTransition records a breaker state change.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	SetCircuitBreakerState(name, to)
}

// RecordCircuitBreakerRequest records a request through a breaker.
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordAPIRequest records API request metrics.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rate-limited request.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}
