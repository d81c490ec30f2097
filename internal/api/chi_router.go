// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/seedrec/internal/middleware"
	"github.com/tomtom215/seedrec/internal/models"
)

// Endpoint-specific rate limits. Uploads parse up to 10 MiB of CSV and
// reloads hit the disk, so both get tighter budgets than the API default.
var (
	RateLimitHealth = rateBudget{Requests: 1000, Window: time.Minute}
	RateLimitTraits = rateBudget{Requests: 10, Window: time.Minute}
)

type rateBudget struct {
	Requests int
	Window   time.Duration
}

// Router wires handlers and middleware into a Chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	perfMon       *middleware.PerformanceMonitor
}

// NewRouter creates a router. perfMon may be nil.
func NewRouter(handler *Handler, mw *ChiMiddleware, perfMon *middleware.PerformanceMonitor) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw, perfMon: perfMon}
}

// Setup returns the HTTP handler for all routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(chimiddleware.Compress(5, "application/json", "text/plain"))
	r.Use(middleware.PrometheusMetrics)
	if router.perfMon != nil {
		r.Use(router.perfMon.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, models.CodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, models.CodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth.Requests, RateLimitHealth.Window))
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.Post("/recommend", router.handler.Recommend)
		r.Get("/crops", router.handler.Crops)
		r.Get("/models/available", router.handler.AvailableModels)
		r.Get("/stats", router.handler.Stats)

		r.Route("/traits", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitTraits.Requests, RateLimitTraits.Window))
			r.Post("/validate", router.handler.ValidateTraits)
			r.Post("/reload", router.handler.ReloadTraits)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
