// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package yield

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/seedrec/internal/seedrec"
)

const riceModelJSON = `{
  "crop": "RICE",
  "kind": "ensemble",
  "estimators": [
    {"intercept": 1.0, "coefficients": {"maturity_days": 0.02, "temperature": 0.04}},
    {"intercept": 2.0, "coefficients": {"maturity_days": 0.02, "temperature": 0.04}}
  ]
}`

const riceFeaturesJSON = `{"feature_columns": ["temperature", "rainfall", "humidity", "maturity_days"]}`

func writeArtifact(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func riceArtifacts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeArtifact(t, dir, "model_RICE.json", riceModelJSON)
	writeArtifact(t, dir, "RICE_features.json", riceFeaturesJSON)
	return dir
}

func newTestGateway(dir string, opts Options) *Gateway {
	return NewGateway(NewStore(dir), opts, zerolog.Nop())
}

func TestStore_AvailableCrops(t *testing.T) {
	dir := riceArtifacts(t)
	writeArtifact(t, dir, "rf_model_WHEAT.json", riceModelJSON)
	writeArtifact(t, dir, "WHEAT_features.json", riceFeaturesJSON)
	writeArtifact(t, dir, "model_MAIZE.json", riceModelJSON) // no features file
	writeArtifact(t, dir, "SORGHUM_features.json", riceFeaturesJSON)
	writeArtifact(t, dir, "notes.txt", "ignored")

	s := NewStore(dir)
	got, err := s.AvailableCrops()
	if err != nil {
		t.Fatalf("AvailableCrops() error = %v", err)
	}
	want := []string{"RICE", "WHEAT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AvailableCrops() = %v, want %v", got, want)
	}

	if !s.Has("rice") {
		t.Error("Has(rice) should be case-insensitive")
	}
	if s.Has("MAIZE") {
		t.Error("Has(MAIZE) without features should be false")
	}
}

func TestStore_PrefersPrimaryModelName(t *testing.T) {
	dir := riceArtifacts(t)
	writeArtifact(t, dir, "rf_model_RICE.json", `{"estimators": []}`)

	path, ok := NewStore(dir).ModelPath("RICE")
	if !ok || filepath.Base(path) != "model_RICE.json" {
		t.Errorf("ModelPath() = %q, %v", path, ok)
	}
}

func TestStore_MissingDirectory(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "absent"))
	crops, err := s.AvailableCrops()
	if err != nil {
		t.Fatalf("AvailableCrops() error = %v", err)
	}
	if len(crops) != 0 {
		t.Errorf("AvailableCrops() = %v, want empty", crops)
	}
	if _, err := s.Load("RICE"); !errors.Is(err, ErrNoArtifacts) {
		t.Errorf("Load() error = %v, want ErrNoArtifacts", err)
	}
}

func TestGateway_Predict(t *testing.T) {
	g := newTestGateway(riceArtifacts(t), Options{})

	out := g.Predict(context.Background(), "rice", seedrec.Features{"temperature": 25, "maturity_days": 100})
	if !out.IsAvailable() {
		t.Fatalf("Predict() = %+v, want available", out.Err)
	}
	// 1+2+1 = 4 and 2+2+1 = 5
	if math.Abs(out.YHat-4.5) > 1e-12 {
		t.Errorf("YHat = %v, want 4.5", out.YHat)
	}
	if out.YStd == nil || math.Abs(*out.YStd-0.5) > 1e-12 {
		t.Errorf("YStd = %v, want 0.5", out.YStd)
	}
	if got := g.CachedCrops(); !reflect.DeepEqual(got, []string{"RICE"}) {
		t.Errorf("CachedCrops() = %v", got)
	}
}

func TestGateway_UnavailableCrop(t *testing.T) {
	g := newTestGateway(riceArtifacts(t), Options{})

	if g.IsAvailable("WHEAT") {
		t.Error("IsAvailable(WHEAT) = true")
	}
	out := g.Predict(context.Background(), "WHEAT", seedrec.Features{})
	if out.IsAvailable() {
		t.Fatal("Predict() for a crop without artifacts should be unavailable")
	}
	if !errors.Is(out.Err, seedrec.ErrModelUnavailable) {
		t.Errorf("Err = %v, want ErrModelUnavailable", out.Err)
	}
	if g.Loads() != 0 {
		t.Errorf("Loads() = %d, want 0", g.Loads())
	}
}

func TestGateway_SingleFlightLoad(t *testing.T) {
	g := newTestGateway(riceArtifacts(t), Options{PredictionRate: -1})

	var wg sync.WaitGroup
	results := make([]seedrec.Outcome, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = g.Predict(context.Background(), "RICE", seedrec.Features{"maturity_days": float64(i)})
		}(i)
	}
	wg.Wait()

	for i, out := range results {
		if !out.IsAvailable() {
			t.Fatalf("result %d unavailable: %v", i, out.Err)
		}
	}
	if g.Loads() != 1 {
		t.Errorf("Loads() = %d, want 1", g.Loads())
	}
}

func TestGateway_InvalidModelOpensBreaker(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "model_RICE.json", `{"estimators": [`)
	writeArtifact(t, dir, "RICE_features.json", riceFeaturesJSON)

	g := newTestGateway(dir, Options{BreakerMaxFailures: 2, BreakerOpenTimeout: time.Hour})

	for i := 0; i < 2; i++ {
		out := g.Predict(context.Background(), "RICE", seedrec.Features{})
		if out.IsAvailable() {
			t.Fatal("corrupt model should be unavailable")
		}
		if out.Err.Reason != "invalid model artifacts" {
			t.Errorf("Reason = %q", out.Err.Reason)
		}
	}
	if g.BreakerState() != "open" {
		t.Fatalf("BreakerState() = %q, want open", g.BreakerState())
	}

	out := g.Predict(context.Background(), "RICE", seedrec.Features{})
	if out.IsAvailable() || out.Err.Reason != "circuit open" {
		t.Errorf("Predict() with open breaker = %+v", out.Err)
	}
	if g.Loads() != 2 {
		t.Errorf("Loads() = %d, want 2 (open breaker must skip disk)", g.Loads())
	}
}

func TestGateway_CancelledContext(t *testing.T) {
	g := newTestGateway(riceArtifacts(t), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := g.Predict(ctx, "RICE", seedrec.Features{})
	if out.IsAvailable() {
		t.Fatal("cancelled context should be unavailable")
	}
	if !errors.Is(out.Err, seedrec.ErrModelUnavailable) {
		t.Errorf("Err = %v", out.Err)
	}
}

func TestGateway_Throttled(t *testing.T) {
	g := newTestGateway(riceArtifacts(t), Options{PredictionRate: 0.001, PredictionBurst: 1})

	first := g.Predict(context.Background(), "RICE", seedrec.Features{})
	if !first.IsAvailable() {
		t.Fatalf("first prediction should pass: %v", first.Err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	second := g.Predict(ctx, "RICE", seedrec.Features{})
	if second.IsAvailable() {
		t.Fatal("second prediction should be throttled")
	}
	if second.Err.Reason != "prediction throttled" {
		t.Errorf("Reason = %q, want prediction throttled", second.Err.Reason)
	}

	// Throttling is per crop.
	dir := g.store.Dir()
	writeArtifact(t, dir, "model_WHEAT.json", `{"estimators": [{"intercept": 1, "coefficients": {}}]}`)
	writeArtifact(t, dir, "WHEAT_features.json", riceFeaturesJSON)
	if out := g.Predict(context.Background(), "WHEAT", seedrec.Features{}); !out.IsAvailable() {
		t.Errorf("other crop should not share the bucket: %v", out.Err)
	}
}

func TestGateway_Invalidate(t *testing.T) {
	g := newTestGateway(riceArtifacts(t), Options{PredictionRate: -1})

	g.Predict(context.Background(), "RICE", seedrec.Features{})
	g.Invalidate()
	if len(g.CachedCrops()) != 0 {
		t.Fatal("Invalidate should empty the cache")
	}
	g.Predict(context.Background(), "RICE", seedrec.Features{})
	if g.Loads() != 2 {
		t.Errorf("Loads() = %d, want 2", g.Loads())
	}
}

func TestGateway_ImplementsYieldGateway(t *testing.T) {
	var _ seedrec.YieldGateway = (*Gateway)(nil)
}
