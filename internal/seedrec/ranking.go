// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package seedrec

import (
	"sort"
	"strings"
)

// Ranker scores, risk-adjusts and orders candidate varieties.
type Ranker struct {
	weights Weights
	scorer  *Scorer
}

// NewRanker creates a Ranker from a validated Config.
func NewRanker(cfg *Config) *Ranker {
	return &Ranker{
		weights: cfg.Weights,
		scorer:  NewScorer(cfg.Tolerances, NewTextureTable(cfg.TextureSynonyms)),
	}
}

// ScoreAll returns one breakdown per candidate with FinalScore equal to
// the risk-adjusted suitability. The result is not sorted.
func (r *Ranker) ScoreAll(candidates []VarietyTrait, q *QueryContext) []ScoreBreakdown {
	out := make([]ScoreBreakdown, 0, len(candidates))
	for i := range candidates {
		trait := &candidates[i]
		sub := r.scorer.Score(trait, q)
		suitability, adj := AdjustRisk(r.weights.Combine(sub), trait, q.Risk)
		out = append(out, ScoreBreakdown{
			Crop:          trait.Crop,
			Variety:       trait.Variety,
			FinalScore:    suitability,
			Suitability:   suitability,
			PHScore:       sub.PH,
			TextureScore:  sub.Texture,
			MaturityScore: sub.Maturity,
			ZoneScore:     sub.Zone,
			HeatAdj:       adj.Heat,
			FloodAdj:      adj.Flood,
			DroughtAdj:    adj.Drought,
		})
	}
	return out
}

// Rank scores candidates and returns at most topK breakdowns ordered by
// SortBreakdowns. Zero candidates yield an empty, non-nil slice.
func (r *Ranker) Rank(candidates []VarietyTrait, q *QueryContext, topK int) []ScoreBreakdown {
	scored := r.ScoreAll(candidates, q)
	SortBreakdowns(scored)
	return truncate(scored, topK)
}

// SortBreakdowns orders by FinalScore descending, then by case-insensitive
// variety name, then by raw variety name. The order is total, so the
// result does not depend on input order.
func SortBreakdowns(bs []ScoreBreakdown) {
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].FinalScore != bs[j].FinalScore {
			return bs[i].FinalScore > bs[j].FinalScore
		}
		li, lj := strings.ToLower(bs[i].Variety), strings.ToLower(bs[j].Variety)
		if li != lj {
			return li < lj
		}
		return bs[i].Variety < bs[j].Variety
	})
}

func truncate(bs []ScoreBreakdown, k int) []ScoreBreakdown {
	if k >= 0 && len(bs) > k {
		return bs[:k]
	}
	return bs
}
