// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package yield

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/seedrec/internal/cache"
	"github.com/tomtom215/seedrec/internal/metrics"
	"github.com/tomtom215/seedrec/internal/seedrec"
)

// BreakerName labels the model-load circuit breaker in metrics.
const BreakerName = "yield-models"

// Options tunes a Gateway. Zero fields take the DefaultOptions value.
type Options struct {
	// Timeout bounds one prediction, including any model load.
	Timeout time.Duration

	// CacheSize is the number of decoded models kept in memory.
	CacheSize int

	// CacheTTL forces a reload from disk after this long. Zero keeps
	// models until evicted.
	CacheTTL time.Duration

	// BreakerMaxFailures consecutive load failures open the breaker.
	BreakerMaxFailures uint32

	// BreakerOpenTimeout is how long the breaker stays open before
	// letting a trial load through.
	BreakerOpenTimeout time.Duration

	// PredictionRate is the sustained predictions per second per crop.
	// A negative value disables throttling.
	PredictionRate float64

	// PredictionBurst is the per-crop token bucket size.
	PredictionBurst int
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:            2 * time.Second,
		CacheSize:          8,
		BreakerMaxFailures: 5,
		BreakerOpenTimeout: 30 * time.Second,
		PredictionRate:     500,
		PredictionBurst:    100,
	}
}

func (o Options) withDefaults() Options { //nolint:gocritic // small options struct passed by value
	d := DefaultOptions()
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.CacheSize <= 0 {
		o.CacheSize = d.CacheSize
	}
	if o.CacheTTL < 0 {
		o.CacheTTL = 0
	}
	if o.BreakerMaxFailures == 0 {
		o.BreakerMaxFailures = d.BreakerMaxFailures
	}
	if o.BreakerOpenTimeout <= 0 {
		o.BreakerOpenTimeout = d.BreakerOpenTimeout
	}
	if o.PredictionRate == 0 {
		o.PredictionRate = d.PredictionRate
	}
	if o.PredictionBurst <= 0 {
		o.PredictionBurst = d.PredictionBurst
	}
	return o
}

// Gateway serves yield predictions from a Store.
type Gateway struct {
	store   *Store
	opts    Options
	models  *cache.LRU[string, *Predictor]
	group   singleflight.Group
	breaker *gobreaker.CircuitBreaker[*Predictor]
	logger  zerolog.Logger

	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter

	loads atomic.Int64
}

// NewGateway creates a Gateway over store.
func NewGateway(store *Store, opts Options, logger zerolog.Logger) *Gateway { //nolint:gocritic // options passed by value
	opts = opts.withDefaults()
	g := &Gateway{
		store:    store,
		opts:     opts,
		models:   cache.NewLRU[string, *Predictor](opts.CacheSize, opts.CacheTTL),
		logger:   logger.With().Str("component", "yield").Logger(),
		limiters: make(map[string]*rate.Limiter),
	}

	metrics.SetCircuitBreakerState(BreakerName, gobreaker.StateClosed.String())
	maxFailures := opts.BreakerMaxFailures
	g.breaker = gobreaker.NewCircuitBreaker[*Predictor](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: 1,
		Timeout:     opts.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Yield model circuit breaker state changed")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	})
	return g
}

// IsAvailable reports whether artifacts exist for crop.
func (g *Gateway) IsAvailable(crop string) bool {
	return g.store.Has(crop)
}

// AvailableCrops returns the sorted crops with artifacts on disk.
func (g *Gateway) AvailableCrops() ([]string, error) {
	return g.store.AvailableCrops()
}

// BreakerState returns the model-load breaker state name.
func (g *Gateway) BreakerState() string {
	return g.breaker.State().String()
}

// CachedCrops returns the crops whose models are in memory, most recently
// used first.
func (g *Gateway) CachedCrops() []string {
	return g.models.Keys()
}

// Loads returns how many times a model was read from disk.
func (g *Gateway) Loads() int64 {
	return g.loads.Load()
}

// Invalidate drops every cached model so the next prediction reloads from
// disk.
func (g *Gateway) Invalidate() {
	g.models.Purge()
	metrics.RecordYieldCache(false, 0)
}

// Predict returns the yield outcome for one feature row. It never blocks
// past the configured timeout or ctx.
func (g *Gateway) Predict(ctx context.Context, crop string, features seedrec.Features) seedrec.Outcome {
	crop = normalizeCrop(crop)
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	out := g.predict(ctx, crop, features)
	metrics.RecordYieldPrediction(crop, out.Kind.String())
	return out
}

func (g *Gateway) predict(ctx context.Context, crop string, features seedrec.Features) seedrec.Outcome {
	if !g.store.Has(crop) {
		return seedrec.Unavailable(crop, "no model for crop", ErrNoArtifacts)
	}
	if err := ctx.Err(); err != nil {
		return g.unavailable(crop, err)
	}
	if err := g.limiter(crop).Wait(ctx); err != nil {
		return seedrec.Unavailable(crop, "prediction throttled", err)
	}

	p, err := g.model(ctx, crop)
	if err != nil {
		return g.unavailable(crop, err)
	}

	yhat, ystd, err := p.Predict(features)
	if err != nil {
		return seedrec.Unavailable(crop, "prediction failed", err)
	}
	return seedrec.Available(yhat, ystd)
}

func (g *Gateway) unavailable(crop string, err error) seedrec.Outcome {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return seedrec.Unavailable(crop, "prediction timed out", err)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return seedrec.Unavailable(crop, "circuit open", err)
	case errors.Is(err, ErrInvalidModel):
		return seedrec.Unavailable(crop, "invalid model artifacts", err)
	default:
		return seedrec.Unavailable(crop, "model load failed", err)
	}
}

// model returns the cached Predictor for crop, loading it at most once
// across concurrent callers. The load itself is not bound to ctx, so a
// caller that times out still leaves the model cached for the next request.
func (g *Gateway) model(ctx context.Context, crop string) (*Predictor, error) {
	if p, ok := g.models.Get(crop); ok {
		metrics.RecordYieldCache(true, g.models.Len())
		return p, nil
	}
	metrics.RecordYieldCache(false, g.models.Len())

	ch := g.group.DoChan(crop, func() (any, error) {
		if p, ok := g.models.Get(crop); ok {
			return p, nil
		}
		p, err := g.breaker.Execute(func() (*Predictor, error) {
			return g.load(crop)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				metrics.RecordCircuitBreakerRequest(BreakerName, "rejected")
			} else {
				metrics.RecordCircuitBreakerRequest(BreakerName, "failure")
			}
			return nil, err
		}
		metrics.RecordCircuitBreakerRequest(BreakerName, "success")
		if evicted := g.models.Add(crop, p); evicted {
			g.logger.Debug().Str("crop", crop).Msg("Evicted least recently used yield model")
		}
		return p, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		p, ok := res.Val.(*Predictor)
		if !ok {
			return nil, errors.New("unexpected model type from loader")
		}
		return p, nil
	}
}

func (g *Gateway) load(crop string) (*Predictor, error) {
	start := time.Now()
	g.loads.Add(1)

	p, err := g.store.Load(crop)
	if err != nil {
		metrics.RecordYieldModelLoad(crop, "error", time.Since(start))
		g.logger.Warn().Err(err).Str("crop", crop).Msg("Failed to load yield model")
		return nil, err
	}
	metrics.RecordYieldModelLoad(crop, "success", time.Since(start))
	g.logger.Info().
		Str("crop", crop).
		Int("estimators", p.Estimators()).
		Int("features", len(p.columns)).
		Dur("duration", time.Since(start)).
		Msg("Loaded yield model")
	return p, nil
}

func (g *Gateway) limiter(crop string) *rate.Limiter {
	g.limitersMu.Lock()
	defer g.limitersMu.Unlock()

	l, ok := g.limiters[crop]
	if !ok {
		limit := rate.Limit(g.opts.PredictionRate)
		if g.opts.PredictionRate < 0 {
			limit = rate.Inf
		}
		l = rate.NewLimiter(limit, g.opts.PredictionBurst)
		g.limiters[crop] = l
	}
	return l
}
