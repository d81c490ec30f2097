// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/seedrec/internal/config"
	"github.com/tomtom215/seedrec/internal/logging"
	"github.com/tomtom215/seedrec/internal/seedrec"
)

// ScoringConfigurer accepts a new scoring configuration.
// *seedrec.Engine satisfies it.
type ScoringConfigurer interface {
	SetConfig(cfg *seedrec.Config) error
}

// ConfigWatchService applies edits to the config file without a restart.
//
// Only the scoring section and the log level are hot. Server, traits and
// yield settings are read once at startup.
type ConfigWatchService struct {
	path    string
	engine  ScoringConfigurer
	logger  zerolog.Logger
	applied chan struct{}
	name    string
}

// NewConfigWatchService watches path and pushes scoring changes to engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewConfigWatchService(path string, engine ScoringConfigurer, logger zerolog.Logger) *ConfigWatchService {
	return &ConfigWatchService{
		path:    path,
		engine:  engine,
		logger:  logger.With().Str("service", "config-watch").Str("path", path).Logger(),
		applied: make(chan struct{}, 1),
		name:    "config-watcher",
	}
}

// Serve implements suture.Service.
func (s *ConfigWatchService) Serve(ctx context.Context) error {
	stop, err := config.WatchConfigFile(s.path, s.apply, s.reject)
	if err != nil {
		return err
	}
	defer func() {
		if err := stop(); err != nil {
			s.logger.Debug().Err(err).Msg("unwatch config file")
		}
	}()

	s.logger.Info().Msg("config watcher started")
	<-ctx.Done()
	return ctx.Err()
}

func (s *ConfigWatchService) apply(cfg *config.Config) {
	if err := s.engine.SetConfig(&cfg.Scoring); err != nil {
		s.reject(err)
		return
	}
	logging.SetLevel(cfg.Logging.Level)

	s.logger.Info().
		Float64("w_ph", cfg.Scoring.Weights.PH).
		Float64("w_texture", cfg.Scoring.Weights.Texture).
		Float64("w_maturity", cfg.Scoring.Weights.Maturity).
		Float64("w_zone", cfg.Scoring.Weights.Zone).
		Str("log_level", cfg.Logging.Level).
		Msg("scoring config reloaded")

	select {
	case s.applied <- struct{}{}:
	default:
	}
}

func (s *ConfigWatchService) reject(err error) {
	s.logger.Error().Err(err).Msg("config reload rejected, keeping previous config")
}

// Applied signals after each accepted reload. It is buffered by one.
func (s *ConfigWatchService) Applied() <-chan struct{} {
	return s.applied
}

// String implements fmt.Stringer for suture's logs.
func (s *ConfigWatchService) String() string {
	return s.name
}
