// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/tomtom215/seedrec/internal/config"
	"github.com/tomtom215/seedrec/internal/traits"
)

// TraitsReloader is the part of traits.Repository the watcher drives.
type TraitsReloader interface {
	Path() string
	Load() (*traits.Snapshot, bool, error)
}

// TraitsWatchService reloads the traits table when its file changes.
//
// The parent directory is watched rather than the file so that editors and
// deploy tools that replace the file by rename are seen. Bursts of events
// are coalesced by Debounce. A failed reload keeps the live snapshot.
type TraitsWatchService struct {
	repo    TraitsReloader
	cfg     config.TraitsConfig
	logger  zerolog.Logger
	reloads atomic.Int64
	name    string
}

// NewTraitsWatchService creates the watcher. With Watch off and no
// PollInterval the service idles until canceled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTraitsWatchService(repo TraitsReloader, cfg config.TraitsConfig, logger zerolog.Logger) *TraitsWatchService {
	return &TraitsWatchService{
		repo:   repo,
		cfg:    cfg,
		logger: logger.With().Str("service", "traits-watch").Str("path", repo.Path()).Logger(),
		name:   "traits-watcher",
	}
}

// Serve implements suture.Service.
func (s *TraitsWatchService) Serve(ctx context.Context) error {
	var (
		events <-chan fsnotify.Event
		errs   <-chan error
		tick   <-chan time.Time
	)

	if s.cfg.Watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create traits watcher: %w", err)
		}
		defer watcher.Close()

		if err := watcher.Add(filepath.Dir(s.repo.Path())); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(s.repo.Path()), err)
		}
		events, errs = watcher.Events, watcher.Errors
	}

	if s.cfg.PollInterval > 0 {
		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	s.logger.Info().
		Bool("watch", s.cfg.Watch).
		Dur("debounce", s.cfg.Debounce).
		Dur("poll_interval", s.cfg.PollInterval).
		Msg("traits watcher started")

	target := filepath.Clean(s.repo.Path())
	var (
		debounce  *time.Timer
		debounceC <-chan time.Time
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return fmt.Errorf("traits watcher closed")
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if s.cfg.Debounce <= 0 {
				s.reload("watch")
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(s.cfg.Debounce)
			} else {
				debounce.Reset(s.cfg.Debounce)
			}
			debounceC = debounce.C

		case <-debounceC:
			debounceC = nil
			s.reload("watch")

		case err, ok := <-errs:
			if !ok {
				return fmt.Errorf("traits watcher closed")
			}
			// Events may have been dropped; reload to catch up.
			s.logger.Warn().Err(err).Msg("traits watcher error")
			s.reload("watch-error")

		case <-tick:
			s.reload("poll")
		}
	}
}

func (s *TraitsWatchService) reload(trigger string) {
	s.reloads.Add(1)
	snap, changed, err := s.repo.Load()
	if err != nil {
		s.logger.Error().Err(err).Str("trigger", trigger).Msg("traits reload failed, keeping previous table")
		return
	}
	if !changed {
		s.logger.Debug().Str("trigger", trigger).Msg("traits file unchanged")
		return
	}
	s.logger.Info().
		Str("trigger", trigger).
		Int("varieties", snap.Len()).
		Int("rejected_rows", snap.RejectedRows).
		Str("checksum", snap.Checksum).
		Msg("traits table reloaded")
}

// Reloads reports how many reloads the service has attempted.
func (s *TraitsWatchService) Reloads() int64 {
	return s.reloads.Load()
}

// String implements fmt.Stringer for suture's logs.
func (s *TraitsWatchService) String() string {
	return s.name
}
