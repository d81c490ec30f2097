// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

// Package metrics defines the Prometheus metrics exported by seedrec.
//
// All collectors are registered with the default registry through promauto
// at package initialization and are exposed on /metrics by the API router.
//
// Metric families:
//
//   - seedrec_recommendations_*: request counts and latency by crop and mode
//   - seedrec_yield_*: yield model loads, predictions and cache efficiency
//   - seedrec_traits_*: traits table size and reload results
//   - circuit_breaker_*: yield model breaker state and transitions
//   - api_*: HTTP request counts, latency and rate-limit hits
//
// Use the Record* helpers rather than touching collectors directly so label
// values stay consistent:
//
//	metrics.RecordRecommendation("RICE", "hybrid", time.Since(start), usedYield)
package metrics
