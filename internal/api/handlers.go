// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package api

import (
	"context"
	"time"

	"github.com/tomtom215/seedrec/internal/middleware"
	"github.com/tomtom215/seedrec/internal/seedrec"
	"github.com/tomtom215/seedrec/internal/traits"
)

// Recommender is the engine surface used by the handlers.
// *seedrec.Engine implements it.
type Recommender interface {
	Recommend(ctx context.Context, q seedrec.QueryContext) (*seedrec.Result, error)
	Config() *seedrec.Config
	Stats() seedrec.Stats
}

// TraitsStore is the traits repository surface used by the handlers.
// *traits.Repository implements it.
type TraitsStore interface {
	Current() *traits.Snapshot
	Load() (*traits.Snapshot, bool, error)
}

// ModelCatalog reports which crops have yield models.
// *yield.Gateway implements it.
type ModelCatalog interface {
	AvailableCrops() ([]string, error)
	IsAvailable(crop string) bool
	BreakerState() string
	CachedCrops() []string
}

// HandlerConfig holds handler limits.
type HandlerConfig struct {
	Version        string
	MaxBodyBytes   int64
	MaxUploadBytes int64
}

// DefaultHandlerConfig returns 1 MiB JSON and 10 MiB CSV limits.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		Version:        "dev",
		MaxBodyBytes:   1 << 20,
		MaxUploadBytes: 10 << 20,
	}
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_recommend.go: POST /recommend
//   - handlers_traits.go: traits validate and reload
//   - handlers_catalog.go: crops and models listings
//   - handlers_health.go: health probes and stats
type Handler struct {
	engine  Recommender
	traits  TraitsStore
	models  ModelCatalog
	perfMon *middleware.PerformanceMonitor
	config  HandlerConfig

	startTime time.Time
}

// NewHandler creates a handler. models and perfMon may be nil; without a
// catalog no crop reports a yield model.
//
//nolint:gocritic // config is small and copied once
func NewHandler(engine Recommender, store TraitsStore, models ModelCatalog, perfMon *middleware.PerformanceMonitor, config HandlerConfig) *Handler {
	defaults := DefaultHandlerConfig()
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if config.Version == "" {
		config.Version = defaults.Version
	}
	return &Handler{
		engine:    engine,
		traits:    store,
		models:    models,
		perfMon:   perfMon,
		config:    config,
		startTime: time.Now(),
	}
}
