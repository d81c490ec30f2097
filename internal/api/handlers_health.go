// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/seedrec/internal/middleware"
	"github.com/tomtom215/seedrec/internal/models"
	"github.com/tomtom215/seedrec/internal/seedrec"
)

// Health status values.
const (
	healthHealthy  = "healthy"
	healthDegraded = "degraded"
	healthStarting = "starting"
)

// Health handles GET /api/v1/health.
// It always answers 200 and reports the traits snapshot, the yield model
// cache and the engine counters. Status is "starting" before a table is
// loaded and "degraded" while the model breaker is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats := h.engine.Stats()

	health := models.HealthResponse{
		Status:         healthHealthy,
		Version:        h.config.Version,
		Uptime:         time.Since(h.startTime).Round(time.Second).String(),
		ModelsCached:   []string{},
		BreakerState:   "disabled",
		Requests:       stats.RequestCount,
		HybridRequests: stats.HybridCount,
		Fallbacks:      stats.FallbackCount,
	}

	if snap := h.traits.Current(); snap != nil {
		health.TraitsSource = snap.Source
		health.TraitsLoadedAt = snap.LoadedAt
		health.Varieties = snap.Len()
		health.RejectedRows = snap.RejectedRows
	} else {
		health.Status = healthStarting
	}

	if h.models != nil {
		health.BreakerState = h.models.BreakerState()
		if cached := h.models.CachedCrops(); cached != nil {
			health.ModelsCached = cached
		}
		if health.BreakerState == "open" && health.Status == healthHealthy {
			health.Status = healthDegraded
		}
	}

	respondSuccess(w, r, health, start)
}

// HealthLive handles GET /api/v1/health/live. It answers 200 while the
// process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady handles GET /api/v1/health/ready. It answers 503 until a
// traits table has been loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	snap := h.traits.Current()
	if snap == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.CodeUnavailable, "Traits table not loaded", nil)
		return
	}
	respondSuccess(w, r, map[string]interface{}{
		"ready":     true,
		"varieties": snap.Len(),
	}, time.Now())
}

// statsResponse is the body of GET /api/v1/stats.
type statsResponse struct {
	Engine    seedrec.Stats              `json:"engine"`
	Endpoints []middleware.EndpointStats `json:"endpoints"`
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resp := statsResponse{
		Engine:    h.engine.Stats(),
		Endpoints: []middleware.EndpointStats{},
	}
	if h.perfMon != nil {
		resp.Endpoints = h.perfMon.Stats()
	}
	respondSuccess(w, r, resp, start)
}
