// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package seedrec

import (
	"math"
	"strings"
)

// Scorer computes the four component suitability scores of a variety.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	tolerances Tolerances
	textures   *TextureTable
}

// NewScorer creates a Scorer. A nil table means only exact texture matches.
func NewScorer(tol Tolerances, textures *TextureTable) *Scorer {
	if textures == nil {
		textures = NewTextureTable(nil)
	}
	return &Scorer{tolerances: tol, textures: textures}
}

// Score returns the component scores of trait for q.
func (s *Scorer) Score(trait *VarietyTrait, q *QueryContext) SubScores {
	return SubScores{
		PH:       ScorePH(q.SoilPH, trait.PHMin, trait.PHMax, s.tolerances.PHFalloff),
		Texture:  s.textures.Match(q.SoilTexture, trait.TexturesAllowed),
		Maturity: ScoreMaturity(q.SeasonLenDays, trait.MaturityDays, s.tolerances.MaturityWindow),
		Zone:     ScoreZone(q.ZoneCode, trait.ZoneCodes, s.tolerances.ZonePenalty),
	}
}

// ScorePH is 1.0 inside [lo, hi] and falls linearly to 0 over falloff pH
// units beyond the nearest bound.
func ScorePH(soil, lo, hi, falloff float64) float64 {
	var d float64
	switch {
	case soil < lo:
		d = lo - soil
	case soil > hi:
		d = soil - hi
	default:
		return 1.0
	}
	if falloff <= 0 {
		return 0
	}
	return clamp01(1 - d/falloff)
}

// ScoreMaturity is 1.0 while the season and maturity differ by at most
// window days, then falls linearly to 0 at twice the window.
func ScoreMaturity(seasonDays, maturityDays int, window float64) float64 {
	d := math.Abs(float64(seasonDays - maturityDays))
	if d <= window {
		return 1.0
	}
	if window <= 0 {
		return 0
	}
	return clamp01(1 - (d-window)/window)
}

// ScoreZone is 1.0 when zone is one of codes, otherwise 1 - penalty.
// Zone codes compare case-insensitively.
func ScoreZone(zone string, codes []string, penalty float64) float64 {
	z := strings.TrimSpace(zone)
	for _, c := range codes {
		if strings.EqualFold(z, strings.TrimSpace(c)) {
			return 1.0
		}
	}
	return clamp01(1 - penalty)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
