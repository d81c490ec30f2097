// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package models

import (
	"strings"
	"time"

	"github.com/tomtom215/seedrec/internal/seedrec"
)

// RecommendRequest is the body of POST /api/v1/recommend.
type RecommendRequest struct {
	Crop          string             `json:"crop" validate:"required,max=64,crop_code"`
	SoilPH        *float64           `json:"soil_ph" validate:"required,gte=0,lte=14"`
	SoilTexture   string             `json:"soil_texture" validate:"required,max=64"`
	SeasonLenDays int                `json:"season_len_days" validate:"required,gt=0"`
	ZoneCode      string             `json:"zone_code" validate:"max=32"`
	RiskFlags     seedrec.RiskFlags  `json:"risk_flags"`
	TopK          *int               `json:"top_k,omitempty" validate:"omitempty,gte=1"`
	UseHybrid     bool               `json:"use_hybrid"`
	Climate       map[string]float64 `json:"climate,omitempty" validate:"omitempty,max=32,dive,keys,required,max=64,endkeys"`
}

// ToQuery converts the request into an engine query. An omitted top_k
// becomes defaultK.
func (r *RecommendRequest) ToQuery(defaultK int) seedrec.QueryContext {
	q := seedrec.QueryContext{
		Crop:          strings.TrimSpace(r.Crop),
		SoilTexture:   r.SoilTexture,
		SeasonLenDays: r.SeasonLenDays,
		ZoneCode:      strings.TrimSpace(r.ZoneCode),
		Risk:          r.RiskFlags,
		TopK:          defaultK,
		UseHybrid:     r.UseHybrid,
		Climate:       r.Climate,
	}
	if r.SoilPH != nil {
		q.SoilPH = *r.SoilPH
	}
	if r.TopK != nil {
		q.TopK = *r.TopK
	}
	return q
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status         string    `json:"status"`
	Version        string    `json:"version"`
	Uptime         string    `json:"uptime"`
	TraitsSource   string    `json:"traits_source"`
	TraitsLoadedAt time.Time `json:"traits_loaded_at"`
	Varieties      int       `json:"varieties"`
	RejectedRows   int       `json:"rejected_rows"`
	ModelsCached   []string  `json:"models_cached"`
	BreakerState   string    `json:"breaker_state"`
	Requests       int64     `json:"requests"`
	HybridRequests int64     `json:"hybrid_requests"`
	Fallbacks      int64     `json:"fallbacks"`
}

// TraitsReloadResponse is the body of POST /api/v1/traits/reload.
type TraitsReloadResponse struct {
	Changed        bool      `json:"changed"`
	TotalVarieties int       `json:"total_varieties"`
	RejectedRows   int       `json:"rejected_rows"`
	Warnings       []string  `json:"warnings"`
	LoadedAt       time.Time `json:"loaded_at"`
	Checksum       string    `json:"checksum"`
	Message        string    `json:"message"`
}

// CropsResponse is the body of GET /api/v1/crops.
type CropsResponse struct {
	Crops []CropInfo `json:"crops"`
	Total int        `json:"total"`
}

// CropInfo is one crop of the live traits table.
type CropInfo struct {
	Crop          string `json:"crop"`
	Varieties     int    `json:"varieties"`
	HasYieldModel bool   `json:"has_yield_model"`
}

// ModelsResponse is the body of GET /api/v1/models/available.
type ModelsResponse struct {
	AvailableCrops []string `json:"available_crops"`
	TotalModels    int      `json:"total_models"`
	Message        string   `json:"message"`
}
