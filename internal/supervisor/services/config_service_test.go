// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package services

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/seedrec/internal/config"
	"github.com/tomtom215/seedrec/internal/seedrec"
)

type recordingConfigurer struct {
	mu      sync.Mutex
	configs []seedrec.Config
}

func (r *recordingConfigurer) SetConfig(cfg *seedrec.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs = append(r.configs, *cfg)
	return nil
}

func (r *recordingConfigurer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.configs)
}

func (r *recordingConfigurer) last() seedrec.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configs[len(r.configs)-1]
}

func TestConfigWatchService_AppliesScoringChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	engine := &recordingConfigurer{}
	svc := NewConfigWatchService(path, engine, zerolog.Nop())
	runService(t, svc.Serve)
	time.Sleep(50 * time.Millisecond)

	good := "scoring:\n  weights: {ph: 0.4, texture: 0.3, maturity: 0.2, zone: 0.1}\n"
	if err := os.WriteFile(path, []byte(good), 0o600); err != nil {
		t.Fatal(err)
	}

	// A write can surface as several events; wait for the final content.
	want := seedrec.Weights{PH: 0.4, Texture: 0.3, Maturity: 0.2, Zone: 0.1}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-svc.Applied():
			if engine.last().Weights == want {
				return
			}
		case <-deadline:
			t.Fatal("new weights not applied within 5s")
		}
	}
}

func TestConfigWatchService_RejectsInvalidScoring(t *testing.T) {
	engine := &recordingConfigurer{}
	svc := NewConfigWatchService("config.yaml", engine, zerolog.Nop())

	cfg := &config.Config{Scoring: *seedrec.DefaultConfig()}
	cfg.Scoring.Weights = seedrec.Weights{PH: 0.4, Texture: 0.3, Maturity: 0.15, Zone: 0.2}
	svc.apply(cfg)

	if engine.count() != 0 {
		t.Errorf("invalid weights were applied: %+v", engine.last().Weights)
	}
	select {
	case <-svc.Applied():
		t.Error("Applied signaled for a rejected config")
	default:
	}
}
