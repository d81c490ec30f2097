// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

/*
Package middleware provides net/http middleware shared by the API router.

  - RequestID: accepts or generates X-Request-ID and stores it in the
    logging context
  - PrometheusMetrics: request count, latency and in-flight gauge labelled
    by chi route pattern
  - PerformanceMonitor: ring buffer of recent requests with per-endpoint
    latency percentiles, served by GET /api/v1/stats

All middleware has the func(http.Handler) http.Handler shape so it can be
passed to chi's Use.

Stack order in the API router:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)
*/
package middleware
