// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package seedrec

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Note: This package imports no other internal package. TraitsSource and
// YieldGateway let the traits repository and yield model cache plug in
// without import cycles.

// TraitsSource returns the candidate varieties of a crop from the current
// snapshot. Implementations must match crop case-insensitively and must
// not mutate a returned slice afterwards.
type TraitsSource interface {
	VarietiesFor(crop string) []VarietyTrait
}

// Engine produces ranked variety recommendations. It is safe for
// concurrent use; SetConfig swaps the scoring configuration atomically.
type Engine struct {
	state   atomic.Pointer[engineState]
	traits  TraitsSource
	gateway YieldGateway
	logger  zerolog.Logger

	requestID func(context.Context) string
	now       func() time.Time

	requestCount  atomic.Int64
	hybridCount   atomic.Int64
	fallbackCount atomic.Int64
}

// engineState is replaced as a unit so a request never sees a config
// paired with a ranker built from a different config.
type engineState struct {
	config *Config
	ranker *Ranker
}

// Stats is a point-in-time snapshot of engine counters.
type Stats struct {
	RequestCount  int64 `json:"request_count"`
	HybridCount   int64 `json:"hybrid_count"`
	FallbackCount int64 `json:"fallback_count"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithRequestIDFunc sets how a request ID is taken from the context.
// An empty result falls back to a generated UUID.
func WithRequestIDFunc(fn func(context.Context) string) Option {
	return func(e *Engine) { e.requestID = fn }
}

// WithClock overrides the clock used for metadata timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine. gateway may be nil, in which case hybrid
// requests always fall back to suitability.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, traits TraitsSource, gateway YieldGateway, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if traits == nil {
		return nil, fmt.Errorf("traits source is required")
	}

	e := &Engine{
		traits:  traits,
		gateway: gateway,
		logger:  logger.With().Str("component", "seedrec").Logger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.SetConfig(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// SetConfig validates cfg and makes it the active configuration.
// An invalid cfg leaves the current configuration in place.
func (e *Engine) SetConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c := cfg.Clone()
	e.state.Store(&engineState{config: c, ranker: NewRanker(c)})
	e.logger.Info().
		Interface("weights", c.Weights).
		Interface("tolerances", c.Tolerances).
		Interface("hybrid_weights", c.Hybrid).
		Msg("scoring configuration applied")
	return nil
}

// Config returns a copy of the active configuration.
func (e *Engine) Config() *Config {
	return e.state.Load().config.Clone()
}

// Stats returns the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		RequestCount:  e.requestCount.Load(),
		HybridCount:   e.hybridCount.Load(),
		FallbackCount: e.fallbackCount.Load(),
	}
}

// Recommend ranks the varieties of q.Crop for q. It returns an *InputError
// for an invalid q. A crop without varieties and an unavailable yield
// model are not errors.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, q QueryContext) (*Result, error) {
	e.requestCount.Add(1)
	state := e.state.Load()

	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.TopK > state.config.Limits.MaxK {
		return nil, &InputError{Field: "top_k", Value: q.TopK, Reason: fmt.Sprintf("must be at most %d", state.config.Limits.MaxK)}
	}

	requestID := e.resolveRequestID(ctx)
	logger := e.logger.With().
		Str("request_id", requestID).
		Str("crop", q.Crop).
		Bool("hybrid", q.UseHybrid).
		Logger()

	candidates := e.traits.VarietiesFor(q.Crop)
	if len(candidates) == 0 {
		logger.Debug().Msg("no varieties for crop")
		return e.buildResult(state.config, &q, requestID, []ScoreBreakdown{}, 0, false), nil
	}

	ranked := state.ranker.Rank(candidates, &q, q.TopK)

	usedYield := false
	if q.UseHybrid {
		e.hybridCount.Add(1)
		usedYield = e.blend(ctx, state.config, &q, candidates, ranked, logger)
		if !usedYield {
			e.fallbackCount.Add(1)
		}
		SortBreakdowns(ranked)
	}

	for i := range ranked {
		ranked[i].Reasons = Explain(ranked[i])
	}

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(ranked)).
		Bool("used_yield", usedYield).
		Msg("recommendation complete")

	return e.buildResult(state.config, &q, requestID, ranked, len(candidates), usedYield), nil
}

// blend predicts yield for the ranked set and blends it in place.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) blend(ctx context.Context, cfg *Config, q *QueryContext, candidates []VarietyTrait, ranked []ScoreBreakdown, logger zerolog.Logger) bool {
	byVariety := make(map[string]*VarietyTrait, len(candidates))
	for i := range candidates {
		byVariety[strings.ToLower(candidates[i].Variety)] = &candidates[i]
	}

	rows := make([]Features, len(ranked))
	for i := range ranked {
		rows[i] = BuildFeatures(byVariety[strings.ToLower(ranked[i].Variety)], q)
	}

	predictCtx, cancel := context.WithTimeout(ctx, cfg.Limits.PredictionTimeout)
	defer cancel()

	blender := NewBlender(cfg.Hybrid, e.gateway, cfg.Limits.MaxConcurrentPredictions)
	outcomes := blender.Predict(predictCtx, q.Crop, rows)
	for i := range outcomes {
		if outcomes[i].Err != nil {
			logger.Warn().
				Err(outcomes[i].Err).
				Str("variety", ranked[i].Variety).
				Msg("yield prediction unavailable, using suitability")
		}
	}
	return blender.Apply(ranked, outcomes)
}

func (e *Engine) resolveRequestID(ctx context.Context) string {
	if e.requestID != nil {
		if id := e.requestID(ctx); id != "" {
			return id
		}
	}
	return uuid.NewString()
}

func (e *Engine) buildResult(cfg *Config, q *QueryContext, requestID string, recs []ScoreBreakdown, total int, usedYield bool) *Result {
	crop := strings.ToUpper(strings.TrimSpace(q.Crop))
	message := fmt.Sprintf("Found %d recommendations for %s", len(recs), crop)
	if total == 0 {
		message = fmt.Sprintf("No varieties found for crop %s", crop)
	}
	return &Result{
		Recommendations: recs,
		UsedYield:       usedYield,
		TotalVarieties:  total,
		Message:         message,
		Metadata: Metadata{
			RequestID:      requestID,
			Crop:           crop,
			TotalVarieties: total,
			TopK:           q.TopK,
			UsedYieldModel: usedYield,
			Weights:        cfg.Weights,
			Tolerances:     cfg.Tolerances,
			Context:        *q,
			Timestamp:      e.now().UTC(),
		},
	}
}
