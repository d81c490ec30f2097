// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package seedrec

import (
	"math"
	"time"
)

// WeightSumTolerance is the allowed deviation of a weight sum from 1.0.
const WeightSumTolerance = 1e-6

// Config contains all configuration for the scoring engine.
type Config struct {
	// Weights defines the contribution of each component score.
	// Weights must sum to 1.0; they are never renormalized.
	Weights Weights `json:"weights" koanf:"weights"`

	// Tolerances controls the falloff of the component scores.
	Tolerances Tolerances `json:"tolerances" koanf:"tolerances"`

	// Hybrid blends suitability with normalized yield in hybrid mode.
	Hybrid HybridWeights `json:"hybrid_weights" koanf:"hybrid_weights"`

	// TextureSynonyms maps a texture token to the tokens it partially
	// matches. The relation is made symmetric when the table is built.
	TextureSynonyms map[string][]string `json:"texture_synonyms" koanf:"texture_synonyms"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`
}

// Weights defines the relative contribution of each component score.
type Weights struct {
	PH       float64 `json:"ph" koanf:"ph"`
	Texture  float64 `json:"texture" koanf:"texture"`
	Maturity float64 `json:"maturity" koanf:"maturity"`
	Zone     float64 `json:"zone" koanf:"zone"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.PH + w.Texture + w.Maturity + w.Zone
}

// ToMap returns the weights as a string-keyed map.
func (w Weights) ToMap() map[string]float64 {
	return map[string]float64{
		"ph":       w.PH,
		"texture":  w.Texture,
		"maturity": w.Maturity,
		"zone":     w.Zone,
	}
}

// Combine returns the weighted sum of s, clamped to [0, 1].
func (w Weights) Combine(s SubScores) float64 {
	return clamp01(w.PH*s.PH + w.Texture*s.Texture + w.Maturity*s.Maturity + w.Zone*s.Zone)
}

// Tolerances controls where each component score starts its linear falloff.
type Tolerances struct {
	// PHFalloff is the pH distance beyond the range at which the pH score
	// reaches zero. Default: 0.5.
	PHFalloff float64 `json:"ph_falloff" koanf:"ph_falloff"`

	// MaturityWindow is the day distance within which maturity scores 1.0.
	// The score reaches zero at twice the window. Default: 60.
	MaturityWindow float64 `json:"maturity_window" koanf:"maturity_window"`

	// ZonePenalty is subtracted from 1.0 when the zone does not match.
	// Must be in [0, 1]. Default: 0.5.
	ZonePenalty float64 `json:"zone_penalty" koanf:"zone_penalty"`
}

// HybridWeights blends normalized yield and suitability.
type HybridWeights struct {
	Yield       float64 `json:"yield_weight" koanf:"yield_weight"`
	Suitability float64 `json:"suitability_weight" koanf:"suitability_weight"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is used by callers that omit top_k. Default: 5.
	DefaultK int `json:"default_k" koanf:"default_k"`

	// MaxK caps top_k. Default: 20.
	MaxK int `json:"max_k" koanf:"max_k"`

	// MaxConcurrentPredictions bounds the yield predictions run in
	// parallel for a single request. Default: 8.
	MaxConcurrentPredictions int `json:"max_concurrent_predictions" koanf:"max_concurrent_predictions"`

	// PredictionTimeout bounds all yield predictions of one request.
	// Default: 2s.
	PredictionTimeout time.Duration `json:"prediction_timeout" koanf:"prediction_timeout"`
}

// DefaultWeights returns the documented default component weights.
func DefaultWeights() Weights {
	return Weights{PH: 0.35, Texture: 0.25, Maturity: 0.25, Zone: 0.15}
}

// DefaultTolerances returns the documented default tolerances.
func DefaultTolerances() Tolerances {
	return Tolerances{PHFalloff: 0.5, MaturityWindow: 60, ZonePenalty: 0.5}
}

// DefaultHybridWeights returns the default 0.6 yield / 0.4 suitability split.
func DefaultHybridWeights() HybridWeights {
	return HybridWeights{Yield: 0.6, Suitability: 0.4}
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights:         DefaultWeights(),
		Tolerances:      DefaultTolerances(),
		Hybrid:          DefaultHybridWeights(),
		TextureSynonyms: DefaultTextureSynonyms(),
		Limits: LimitsConfig{
			DefaultK:                 5,
			MaxK:                     20,
			MaxConcurrentPredictions: 8,
			PredictionTimeout:        2 * time.Second,
		},
	}
}

// Validate checks the configuration and returns a *ConfigError naming the
// first offending field.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	weights := []struct {
		field string
		value float64
	}{
		{"weights.ph", c.Weights.PH},
		{"weights.texture", c.Weights.Texture},
		{"weights.maturity", c.Weights.Maturity},
		{"weights.zone", c.Weights.Zone},
		{"hybrid_weights.yield_weight", c.Hybrid.Yield},
		{"hybrid_weights.suitability_weight", c.Hybrid.Suitability},
	}
	for _, w := range weights {
		if math.IsNaN(w.value) || w.value < 0 || w.value > 1 {
			return &ConfigError{Field: w.field, Value: w.value, Reason: "must be in [0, 1]"}
		}
	}
	if sum := c.Weights.Sum(); math.Abs(sum-1.0) > WeightSumTolerance {
		return &ConfigError{Field: "weights", Value: sum, Reason: "must sum to 1.0"}
	}
	if sum := c.Hybrid.Yield + c.Hybrid.Suitability; math.Abs(sum-1.0) > WeightSumTolerance {
		return &ConfigError{Field: "hybrid_weights", Value: sum, Reason: "must sum to 1.0"}
	}

	if math.IsNaN(c.Tolerances.PHFalloff) || c.Tolerances.PHFalloff < 0 {
		return &ConfigError{Field: "tolerances.ph_falloff", Value: c.Tolerances.PHFalloff, Reason: "must be non-negative"}
	}
	if math.IsNaN(c.Tolerances.MaturityWindow) || c.Tolerances.MaturityWindow < 0 {
		return &ConfigError{Field: "tolerances.maturity_window", Value: c.Tolerances.MaturityWindow, Reason: "must be non-negative"}
	}
	if math.IsNaN(c.Tolerances.ZonePenalty) || c.Tolerances.ZonePenalty < 0 || c.Tolerances.ZonePenalty > 1 {
		return &ConfigError{Field: "tolerances.zone_penalty", Value: c.Tolerances.ZonePenalty, Reason: "must be in [0, 1]"}
	}

	for token, adjacent := range c.TextureSynonyms {
		if NormalizeTexture(token) == "" {
			return &ConfigError{Field: "texture_synonyms", Value: token, Reason: "texture token must not be empty"}
		}
		for _, a := range adjacent {
			if NormalizeTexture(a) == "" {
				return &ConfigError{Field: "texture_synonyms." + token, Value: a, Reason: "texture token must not be empty"}
			}
		}
	}

	if c.Limits.DefaultK < 1 {
		return &ConfigError{Field: "limits.default_k", Value: c.Limits.DefaultK, Reason: "must be positive"}
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return &ConfigError{Field: "limits.max_k", Value: c.Limits.MaxK, Reason: "must be >= limits.default_k"}
	}
	if c.Limits.MaxConcurrentPredictions < 1 {
		return &ConfigError{Field: "limits.max_concurrent_predictions", Value: c.Limits.MaxConcurrentPredictions, Reason: "must be positive"}
	}
	if c.Limits.PredictionTimeout <= 0 {
		return &ConfigError{Field: "limits.prediction_timeout", Value: c.Limits.PredictionTimeout, Reason: "must be positive"}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.TextureSynonyms != nil {
		clone.TextureSynonyms = make(map[string][]string, len(c.TextureSynonyms))
		for k, v := range c.TextureSynonyms {
			clone.TextureSynonyms[k] = append([]string(nil), v...)
		}
	}
	return &clone
}
