// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package seedrec

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// OutcomeKind distinguishes a usable yield prediction from a missing one.
type OutcomeKind int

const (
	// OutcomeUnavailable means no prediction could be made.
	OutcomeUnavailable OutcomeKind = iota

	// OutcomeAvailable means YHat (and possibly YStd) are set.
	OutcomeAvailable
)

// String returns the metric label of the kind.
func (k OutcomeKind) String() string {
	if k == OutcomeAvailable {
		return "available"
	}
	return "unavailable"
}

// Outcome is the result of a yield gateway prediction.
type Outcome struct {
	Kind OutcomeKind

	// YHat is the point prediction. Valid only when Kind is OutcomeAvailable.
	YHat float64

	// YStd is the prediction uncertainty, nil when the model has none.
	YStd *float64

	// Err explains an unavailable outcome.
	Err *ModelUnavailableError
}

// Available returns an available outcome.
func Available(yhat float64, ystd *float64) Outcome {
	return Outcome{Kind: OutcomeAvailable, YHat: yhat, YStd: ystd}
}

// Unavailable returns an unavailable outcome for crop.
func Unavailable(crop, reason string, cause error) Outcome {
	return Outcome{
		Kind: OutcomeUnavailable,
		Err:  &ModelUnavailableError{Crop: crop, Reason: reason, Err: cause},
	}
}

// IsAvailable reports whether the outcome carries a prediction.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (o Outcome) IsAvailable() bool {
	return o.Kind == OutcomeAvailable && !math.IsNaN(o.YHat) && !math.IsInf(o.YHat, 0)
}

// Features is a named feature row passed to the yield model.
type Features map[string]float64

// Default climate feature values used when a request supplies none.
const (
	DefaultTemperature = 25.0
	DefaultRainfall    = 100.0
	DefaultHumidity    = 70.0
)

// DefaultClimate returns the default climate feature row.
func DefaultClimate() Features {
	return Features{
		"temperature": DefaultTemperature,
		"rainfall":    DefaultRainfall,
		"humidity":    DefaultHumidity,
	}
}

// BuildFeatures returns the feature row for predicting the yield of trait
// under q: the default climate overlaid with q.Climate, plus the field and
// variety descriptors. Models ignore names they do not use and read 0 for
// names missing here.
func BuildFeatures(trait *VarietyTrait, q *QueryContext) Features {
	f := DefaultClimate()
	for k, v := range q.Climate {
		f[k] = v
	}
	f["soil_ph"] = q.SoilPH
	f["season_len_days"] = float64(q.SeasonLenDays)
	f["maturity_days"] = float64(trait.MaturityDays)
	f["ph_min"] = trait.PHMin
	f["ph_max"] = trait.PHMax
	f["ph_mid"] = (trait.PHMin + trait.PHMax) / 2
	f["heat_tol"] = boolFeature(trait.HeatTol)
	f["flood_tol"] = boolFeature(trait.FloodTol)
	f["drought_tol"] = boolFeature(trait.DroughtTol)
	return f
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// YieldGateway predicts crop yield. Implementations must return an
// Unavailable outcome, never block past ctx, and be safe for concurrent use.
type YieldGateway interface {
	IsAvailable(crop string) bool
	Predict(ctx context.Context, crop string, features Features) Outcome
}

// Blender blends suitability with normalized yield predictions.
type Blender struct {
	weights HybridWeights
	gateway YieldGateway
	limit   int
}

// NewBlender creates a Blender running at most limit predictions at once.
func NewBlender(weights HybridWeights, gateway YieldGateway, limit int) *Blender {
	if limit < 1 {
		limit = 1
	}
	return &Blender{weights: weights, gateway: gateway, limit: limit}
}

// Predict runs one prediction per feature row. Outcomes are returned in
// input order. A nil gateway or a crop without a model yields all
// Unavailable outcomes without calling Predict.
func (b *Blender) Predict(ctx context.Context, crop string, rows []Features) []Outcome {
	outcomes := make([]Outcome, len(rows))
	if b.gateway == nil || !b.gateway.IsAvailable(crop) {
		for i := range outcomes {
			outcomes[i] = Unavailable(crop, "no model for crop", nil)
		}
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(b.limit)
	for i := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = Unavailable(crop, "prediction timed out", err)
				return nil
			}
			outcomes[i] = b.gateway.Predict(ctx, crop, rows[i])
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return an error
	return outcomes
}

// Apply blends outcomes into bs, which must be index-aligned, and reports
// whether any prediction was used. Normalization bounds come from the
// available outcomes of this set only; a degenerate range normalizes to 0.5.
// Breakdowns without a prediction keep FinalScore equal to Suitability.
func (b *Blender) Apply(bs []ScoreBreakdown, outcomes []Outcome) bool {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range outcomes {
		if !outcomes[i].IsAvailable() {
			continue
		}
		lo = math.Min(lo, outcomes[i].YHat)
		hi = math.Max(hi, outcomes[i].YHat)
	}

	used := false
	for i := range bs {
		o := outcomes[i]
		if !o.IsAvailable() {
			bs[i].FinalScore = bs[i].Suitability
			bs[i].YHat, bs[i].YStd = nil, nil
			continue
		}
		used = true
		norm := 0.5
		if hi > lo {
			norm = (o.YHat - lo) / (hi - lo)
		}
		yhat := o.YHat
		bs[i].YHat = &yhat
		if o.YStd != nil {
			ystd := *o.YStd
			bs[i].YStd = &ystd
		}
		bs[i].FinalScore = clamp01(b.weights.Yield*norm + b.weights.Suitability*bs[i].Suitability)
	}
	return used
}
