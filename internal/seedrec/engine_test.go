// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package seedrec

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// staticTraits is a TraitsSource over a fixed slice.
type staticTraits []VarietyTrait

func (s staticTraits) VarietiesFor(crop string) []VarietyTrait {
	var out []VarietyTrait
	for _, t := range s {
		if strings.EqualFold(t.Crop, crop) {
			out = append(out, t)
		}
	}
	return out
}

func riceCatalog() staticTraits {
	return staticTraits{
		riceTrait("IR64", 6.7, 7.5, 100),
		riceTrait("Swarna", 5.5, 6.4, 150),
		riceTrait("Sahbhagi", 6.0, 7.0, 105),
		riceTrait("Pusa", 6.2, 6.8, 130),
		{Crop: "WHEAT", Variety: "HD2967", PHMin: 6, PHMax: 7.5, TexturesAllowed: []string{"loam"}, MaturityDays: 140, ZoneCodes: []string{"N1"}},
	}
}

func newTestEngine(t *testing.T, gw YieldGateway, opts ...Option) *Engine {
	t.Helper()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time { return fixed })}, opts...)
	e, err := NewEngine(DefaultConfig(), riceCatalog(), gw, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		e, err := NewEngine(nil, riceCatalog(), nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if e.Config().Weights != DefaultWeights() {
			t.Errorf("Config().Weights = %+v, want defaults", e.Config().Weights)
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights = Weights{PH: 0.4, Texture: 0.3, Maturity: 0.15, Zone: 0.2}
		_, err := NewEngine(cfg, riceCatalog(), nil, zerolog.Nop())
		if !errors.Is(err, ErrConfig) {
			t.Errorf("NewEngine() error = %v, want ErrConfig", err)
		}
	})

	t.Run("traits source required", func(t *testing.T) {
		if _, err := NewEngine(nil, nil, nil, zerolog.Nop()); err == nil {
			t.Error("NewEngine() with nil traits should fail")
		}
	})
}

func TestEngine_RecommendInputErrors(t *testing.T) {
	e := newTestEngine(t, nil)

	tests := []struct {
		name      string
		modify    func(*QueryContext)
		wantField string
	}{
		{"negative pH", func(q *QueryContext) { q.SoilPH = -1 }, "soil_ph"},
		{"pH above 14", func(q *QueryContext) { q.SoilPH = 14.5 }, "soil_ph"},
		{"zero season", func(q *QueryContext) { q.SeasonLenDays = 0 }, "season_len_days"},
		{"negative season", func(q *QueryContext) { q.SeasonLenDays = -30 }, "season_len_days"},
		{"zero top_k", func(q *QueryContext) { q.TopK = 0 }, "top_k"},
		{"top_k above limit", func(q *QueryContext) { q.TopK = 21 }, "top_k"},
		{"empty crop", func(q *QueryContext) { q.Crop = " " }, "crop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := riceQuery()
			tt.modify(&q)

			_, err := e.Recommend(context.Background(), q)
			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("Recommend() error = %v, want *InputError", err)
			}
			if inputErr.Field != tt.wantField {
				t.Errorf("InputError.Field = %q, want %q", inputErr.Field, tt.wantField)
			}
			if !errors.Is(err, ErrInput) {
				t.Error("error should match ErrInput")
			}
		})
	}
}

func TestEngine_RecommendUnknownCrop(t *testing.T) {
	e := newTestEngine(t, nil)
	q := riceQuery()
	q.Crop = "quinoa"

	res, err := e.Recommend(context.Background(), q)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(res.Recommendations) != 0 || res.TotalVarieties != 0 {
		t.Errorf("got %d recommendations, %d total; want none", len(res.Recommendations), res.TotalVarieties)
	}
	if res.Message != "No varieties found for crop QUINOA" {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestEngine_Recommend(t *testing.T) {
	e := newTestEngine(t, nil, WithRequestIDFunc(func(context.Context) string { return "req-1" }))
	q := riceQuery()
	q.Crop = "rice"
	q.TopK = 3

	res, err := e.Recommend(context.Background(), q)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.TotalVarieties != 4 {
		t.Errorf("TotalVarieties = %d, want 4", res.TotalVarieties)
	}
	if len(res.Recommendations) != 3 {
		t.Fatalf("len(Recommendations) = %d, want 3", len(res.Recommendations))
	}
	if res.UsedYield {
		t.Error("UsedYield = true outside hybrid mode")
	}
	if res.Message != "Found 3 recommendations for RICE" {
		t.Errorf("Message = %q", res.Message)
	}
	if res.Metadata.RequestID != "req-1" || res.Metadata.TopK != 3 || res.Metadata.Crop != "RICE" {
		t.Errorf("unexpected metadata: %+v", res.Metadata)
	}
	for _, r := range res.Recommendations {
		if r.Reasons == "" {
			t.Errorf("%s has no reasons", r.Variety)
		}
		if !strings.HasSuffix(r.Reasons, "heat-tolerant") {
			t.Errorf("%s reasons = %q, want heat clause last", r.Variety, r.Reasons)
		}
	}
}

func TestEngine_RecommendDeterministic(t *testing.T) {
	e := newTestEngine(t, nil)
	q := riceQuery()
	q.Risk = RiskFlags{Heat: true, Drought: true}

	first, err := e.Recommend(context.Background(), q)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.Recommend(context.Background(), q)
			if err != nil {
				errs <- err.Error()
				return
			}
			if !reflect.DeepEqual(first.Recommendations, res.Recommendations) {
				errs <- "recommendations differ between calls"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}

func TestEngine_HybridFallback(t *testing.T) {
	tests := []struct {
		name string
		gw   YieldGateway
	}{
		{"nil gateway", nil},
		{"no model for crop", &fakeGateway{models: map[string]bool{"WHEAT": true}}},
		{"every prediction fails", &fakeGateway{models: map[string]bool{"RICE": true}, fail: map[float64]bool{100: true, 150: true, 105: true, 130: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, tt.gw)
			q := riceQuery()
			q.UseHybrid = true

			res, err := e.Recommend(context.Background(), q)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if res.UsedYield || res.Metadata.UsedYieldModel {
				t.Error("UsedYield = true, want false")
			}
			for _, r := range res.Recommendations {
				if r.FinalScore != r.Suitability {
					t.Errorf("%s FinalScore = %v, want suitability %v exactly", r.Variety, r.FinalScore, r.Suitability)
				}
				if r.YHat != nil || r.YStd != nil {
					t.Errorf("%s yhat/y_std should be nil", r.Variety)
				}
			}
			if e.Stats().FallbackCount != 1 {
				t.Errorf("FallbackCount = %d, want 1", e.Stats().FallbackCount)
			}
		})
	}
}

func TestEngine_HybridBlendsAndReranks(t *testing.T) {
	gw := &fakeGateway{models: map[string]bool{"RICE": true}, std: floatPtr(0.2)}
	e := newTestEngine(t, gw)
	q := riceQuery()
	q.UseHybrid = true
	q.TopK = 4

	plain := riceQuery()
	plain.TopK = 4
	base, err := e.Recommend(context.Background(), plain)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	res, err := e.Recommend(context.Background(), q)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !res.UsedYield {
		t.Fatal("UsedYield = false, want true")
	}
	if got := gw.calls.Load(); got != 4 {
		t.Errorf("gateway Predict calls = %d, want 4", got)
	}

	// yhat = maturity/10 over {100, 150, 105, 130} gives min 10, max 15.
	suitability := make(map[string]float64, len(base.Recommendations))
	for _, r := range base.Recommendations {
		suitability[r.Variety] = r.Suitability
	}
	maturity := map[string]float64{"IR64": 100, "Swarna": 150, "Sahbhagi": 105, "Pusa": 130}
	for _, r := range res.Recommendations {
		if r.YHat == nil || !almostEqual(*r.YHat, maturity[r.Variety]/10) {
			t.Errorf("%s yhat = %v, want %v", r.Variety, r.YHat, maturity[r.Variety]/10)
			continue
		}
		if r.YStd == nil || *r.YStd != 0.2 {
			t.Errorf("%s y_std = %v, want 0.2", r.Variety, r.YStd)
		}
		norm := (*r.YHat - 10) / (15 - 10)
		want := 0.6*norm + 0.4*suitability[r.Variety]
		if !almostEqual(r.FinalScore, want) {
			t.Errorf("%s FinalScore = %v, want %v", r.Variety, r.FinalScore, want)
		}
	}
	for i := 1; i < len(res.Recommendations); i++ {
		if res.Recommendations[i-1].FinalScore < res.Recommendations[i].FinalScore {
			t.Errorf("hybrid results not sorted by final score at %d", i)
		}
	}
	if res.Recommendations[0].Variety != "Swarna" {
		t.Errorf("top hybrid variety = %s, want Swarna", res.Recommendations[0].Variety)
	}
}

func TestEngine_HybridTopOneIsDegenerate(t *testing.T) {
	gw := &fakeGateway{models: map[string]bool{"RICE": true}}
	e := newTestEngine(t, gw)
	q := riceQuery()
	q.UseHybrid = true
	q.TopK = 1

	res, err := e.Recommend(context.Background(), q)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	r := res.Recommendations[0]
	if want := 0.6*0.5 + 0.4*r.Suitability; !almostEqual(r.FinalScore, want) {
		t.Errorf("FinalScore = %v, want %v", r.FinalScore, want)
	}
}

func TestEngine_HybridTimeout(t *testing.T) {
	gw := &fakeGateway{models: map[string]bool{"RICE": true}, block: true}
	cfg := DefaultConfig()
	cfg.Limits.PredictionTimeout = 20 * time.Millisecond
	e, err := NewEngine(cfg, riceCatalog(), gw, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	q := riceQuery()
	q.UseHybrid = true

	start := time.Now()
	res, err := e.Recommend(context.Background(), q)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Recommend() blocked for %v", elapsed)
	}
	if res.UsedYield {
		t.Error("UsedYield = true after timeout")
	}
}

func TestEngine_SetConfig(t *testing.T) {
	e := newTestEngine(t, nil)

	bad := DefaultConfig()
	bad.Tolerances.ZonePenalty = 2
	if err := e.SetConfig(bad); !errors.Is(err, ErrConfig) {
		t.Fatalf("SetConfig(bad) = %v, want ErrConfig", err)
	}
	if e.Config().Tolerances.ZonePenalty != 0.5 {
		t.Error("invalid config replaced the active config")
	}

	good := DefaultConfig()
	good.Weights = Weights{PH: 1}
	if err := e.SetConfig(good); err != nil {
		t.Fatalf("SetConfig(good) = %v", err)
	}

	q := riceQuery()
	res, err := e.Recommend(context.Background(), q)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for _, r := range res.Recommendations {
		want := r.PHScore * r.HeatAdj
		if want > 1 {
			want = 1
		}
		if !almostEqual(r.Suitability, want) {
			t.Errorf("%s Suitability = %v, want pH-only %v", r.Variety, r.Suitability, want)
		}
	}
}
