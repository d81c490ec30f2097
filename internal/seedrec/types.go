// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package seedrec

import (
	"math"
	"strings"
	"time"
)

// VarietyTrait describes one seed variety of a crop.
// Values are immutable once loaded; a reload replaces the whole set.
type VarietyTrait struct {
	// Crop is the crop name as it appears in the traits source.
	Crop string `json:"crop"`

	// Variety is unique within a crop (case-insensitive).
	Variety string `json:"variety"`

	// PHMin and PHMax bound the acceptable soil pH, both in [0, 14].
	PHMin float64 `json:"ph_min"`
	PHMax float64 `json:"ph_max"`

	// TexturesAllowed holds normalized texture tokens (see NormalizeTexture).
	TexturesAllowed []string `json:"textures_allowed"`

	// MaturityDays is the days from sowing to harvest.
	MaturityDays int `json:"maturity_days"`

	// ZoneCodes lists the agro-climatic zones the variety is suited to.
	ZoneCodes []string `json:"zone_codes"`

	HeatTol    bool `json:"heat_tol"`
	FloodTol   bool `json:"flood_tol"`
	DroughtTol bool `json:"drought_tol"`

	Notes string `json:"notes,omitempty"`
}

// RiskFlags marks the environmental risks present at the field.
type RiskFlags struct {
	Heat    bool `json:"heat_risk"`
	Flood   bool `json:"flood_risk"`
	Drought bool `json:"drought_risk"`
}

// QueryContext is a single recommendation request.
type QueryContext struct {
	Crop          string    `json:"crop"`
	SoilPH        float64   `json:"soil_ph"`
	SoilTexture   string    `json:"soil_texture"`
	SeasonLenDays int       `json:"season_len_days"`
	ZoneCode      string    `json:"zone_code"`
	Risk          RiskFlags `json:"risk_flags"`
	TopK          int       `json:"top_k"`
	UseHybrid     bool      `json:"use_hybrid"`

	// Climate overrides entries of the default climate feature row used for
	// yield prediction. Ignored unless UseHybrid is set.
	Climate map[string]float64 `json:"climate,omitempty"`
}

// Validate reports the first invalid field as an *InputError.
// An unknown crop is not an error; it simply has no candidates.
//
//nolint:gocritic // value receiver keeps QueryContext immutable for callers
func (q QueryContext) Validate() error {
	if strings.TrimSpace(q.Crop) == "" {
		return &InputError{Field: "crop", Value: q.Crop, Reason: "must not be empty"}
	}
	if math.IsNaN(q.SoilPH) || q.SoilPH < 0 {
		return &InputError{Field: "soil_ph", Value: q.SoilPH, Reason: "must be non-negative"}
	}
	if q.SoilPH > 14 {
		return &InputError{Field: "soil_ph", Value: q.SoilPH, Reason: "must be at most 14"}
	}
	if q.SeasonLenDays <= 0 {
		return &InputError{Field: "season_len_days", Value: q.SeasonLenDays, Reason: "must be positive"}
	}
	if q.TopK < 1 {
		return &InputError{Field: "top_k", Value: q.TopK, Reason: "must be at least 1"}
	}
	for name, v := range q.Climate {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InputError{Field: "climate." + name, Value: v, Reason: "must be a finite number"}
		}
	}
	return nil
}

// SubScores holds the four component suitability scores, each in [0, 1].
type SubScores struct {
	PH       float64 `json:"ph_score"`
	Texture  float64 `json:"texture_score"`
	Maturity float64 `json:"maturity_score"`
	Zone     float64 `json:"zone_score"`
}

// Adjustments holds the per-risk multipliers applied to suitability.
// Each value is one of RiskNeutral, RiskTolerant or RiskSensitive.
type Adjustments struct {
	Heat    float64 `json:"heat_adj"`
	Flood   float64 `json:"flood_adj"`
	Drought float64 `json:"drought_adj"`
}

// ScoreBreakdown is the scored result for one variety.
// It is created fresh per request and never persisted.
type ScoreBreakdown struct {
	Crop        string   `json:"crop"`
	Variety     string   `json:"variety"`
	FinalScore  float64  `json:"final_score"`
	Suitability float64  `json:"suitability"`
	YHat        *float64 `json:"yhat"`
	YStd        *float64 `json:"y_std"`

	PHScore       float64 `json:"ph_score"`
	TextureScore  float64 `json:"texture_score"`
	MaturityScore float64 `json:"maturity_score"`
	ZoneScore     float64 `json:"zone_score"`

	HeatAdj    float64 `json:"heat_adj"`
	FloodAdj   float64 `json:"flood_adj"`
	DroughtAdj float64 `json:"drought_adj"`

	Reasons string `json:"reasons"`
}

// Scores returns the component scores of the breakdown.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (b ScoreBreakdown) Scores() SubScores {
	return SubScores{PH: b.PHScore, Texture: b.TextureScore, Maturity: b.MaturityScore, Zone: b.ZoneScore}
}

// Metadata describes how a Result was produced.
type Metadata struct {
	RequestID      string       `json:"request_id,omitempty"`
	Crop           string       `json:"crop"`
	TotalVarieties int          `json:"total_varieties"`
	TopK           int          `json:"top_k"`
	UsedYieldModel bool         `json:"used_yield_model"`
	Weights        Weights      `json:"weights"`
	Tolerances     Tolerances   `json:"tolerances"`
	Context        QueryContext `json:"context"`
	Timestamp      time.Time    `json:"timestamp"`
}

// Result is the response to a recommendation request.
type Result struct {
	Recommendations []ScoreBreakdown `json:"recommendations"`

	// UsedYield is true when at least one recommendation was blended with a
	// yield prediction.
	UsedYield bool `json:"used_yield"`

	// TotalVarieties counts the candidates before truncation to top_k.
	TotalVarieties int `json:"total_varieties"`

	Message  string   `json:"message"`
	Metadata Metadata `json:"metadata"`
}
