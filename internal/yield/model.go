// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package yield

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/seedrec/internal/seedrec"
)

// KindEnsemble is the only supported model kind.
const KindEnsemble = "ensemble"

// ErrInvalidModel is wrapped by every model decoding and compile error.
var ErrInvalidModel = errors.New("invalid yield model")

// Estimator is one linear member of an ensemble.
type Estimator struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// ModelFile is the on-disk model document.
type ModelFile struct {
	Crop       string      `json:"crop"`
	Kind       string      `json:"kind"`
	Estimators []Estimator `json:"estimators"`
}

// FeatureFile is the on-disk feature column list.
type FeatureFile struct {
	FeatureColumns []string `json:"feature_columns"`
}

// Predictor is a compiled model: estimator weights aligned with the
// feature columns. It is immutable and safe for concurrent use.
type Predictor struct {
	crop       string
	columns    []string
	intercepts []float64
	weights    [][]float64 // weights[i][j] is estimator i, column j
}

// Compile validates m against the feature columns and returns a Predictor.
// Every coefficient must name a declared column.
func Compile(crop string, m *ModelFile, f *FeatureFile) (*Predictor, error) {
	crop = strings.ToUpper(strings.TrimSpace(crop))
	if m.Kind != "" && m.Kind != KindEnsemble {
		return nil, fmt.Errorf("%w: unsupported kind %q", ErrInvalidModel, m.Kind)
	}
	if m.Crop != "" && !strings.EqualFold(strings.TrimSpace(m.Crop), crop) {
		return nil, fmt.Errorf("%w: model is for crop %q, not %q", ErrInvalidModel, m.Crop, crop)
	}
	if len(m.Estimators) == 0 {
		return nil, fmt.Errorf("%w: no estimators", ErrInvalidModel)
	}
	if len(f.FeatureColumns) == 0 {
		return nil, fmt.Errorf("%w: no feature columns", ErrInvalidModel)
	}

	index := make(map[string]int, len(f.FeatureColumns))
	for j, col := range f.FeatureColumns {
		if col == "" {
			return nil, fmt.Errorf("%w: empty feature column at position %d", ErrInvalidModel, j)
		}
		if _, dup := index[col]; dup {
			return nil, fmt.Errorf("%w: duplicate feature column %q", ErrInvalidModel, col)
		}
		index[col] = j
	}

	p := &Predictor{
		crop:       crop,
		columns:    append([]string(nil), f.FeatureColumns...),
		intercepts: make([]float64, len(m.Estimators)),
		weights:    make([][]float64, len(m.Estimators)),
	}
	for i, est := range m.Estimators {
		if !finite(est.Intercept) {
			return nil, fmt.Errorf("%w: estimator %d has a non-finite intercept", ErrInvalidModel, i)
		}
		row := make([]float64, len(p.columns))
		for name, w := range est.Coefficients {
			j, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("%w: estimator %d uses undeclared feature %q", ErrInvalidModel, i, name)
			}
			if !finite(w) {
				return nil, fmt.Errorf("%w: estimator %d has a non-finite weight for %q", ErrInvalidModel, i, name)
			}
			row[j] = w
		}
		p.intercepts[i] = est.Intercept
		p.weights[i] = row
	}
	return p, nil
}

// Crop returns the upper-case crop code.
func (p *Predictor) Crop() string { return p.crop }

// Columns returns a copy of the feature columns in model order.
func (p *Predictor) Columns() []string { return append([]string(nil), p.columns...) }

// Estimators returns the ensemble size.
func (p *Predictor) Estimators() int { return len(p.intercepts) }

// Vector lays out features in column order. Missing names read as 0.
func (p *Predictor) Vector(features seedrec.Features) []float64 {
	x := make([]float64, len(p.columns))
	for j, col := range p.columns {
		x[j] = features[col]
	}
	return x
}

// Predict returns the ensemble mean and, for more than one estimator, the
// population standard deviation.
func (p *Predictor) Predict(features seedrec.Features) (float64, *float64, error) {
	x := p.Vector(features)
	for j, v := range x {
		if !finite(v) {
			return 0, nil, fmt.Errorf("feature %s is not finite", p.columns[j])
		}
	}

	preds := make([]float64, len(p.intercepts))
	var sum float64
	for i := range p.intercepts {
		y := p.intercepts[i]
		for j, w := range p.weights[i] {
			y += w * x[j]
		}
		preds[i] = y
		sum += y
	}
	mean := sum / float64(len(preds))
	if !finite(mean) {
		return 0, nil, errors.New("prediction is not finite")
	}
	if len(preds) == 1 {
		return mean, nil, nil
	}

	var ss float64
	for _, y := range preds {
		d := y - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(preds)))
	return mean, &std, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
