// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package traits

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/seedrec/internal/metrics"
	"github.com/tomtom215/seedrec/internal/seedrec"
)

// Snapshot is an immutable, fully validated traits table.
type Snapshot struct {
	Source   string
	Checksum string
	LoadedAt time.Time
	Issues   []RowValidationIssue

	TotalRows    int
	RejectedRows int

	byCrop map[string][]seedrec.VarietyTrait
	count  int
}

func newSnapshot(source, checksum string, report *Report, loadedAt time.Time) *Snapshot {
	byCrop := make(map[string][]seedrec.VarietyTrait)
	for _, t := range report.Traits {
		key := cropKey(t.Crop)
		byCrop[key] = append(byCrop[key], t)
	}
	return &Snapshot{
		Source:       source,
		Checksum:     checksum,
		LoadedAt:     loadedAt,
		Issues:       report.Issues,
		TotalRows:    report.TotalRows,
		RejectedRows: report.RejectedRows,
		byCrop:       byCrop,
		count:        len(report.Traits),
	}
}

func cropKey(crop string) string {
	return strings.ToUpper(strings.TrimSpace(crop))
}

// Len returns the number of varieties in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return s.count
}

// VarietiesFor returns a copy of the varieties of crop in source order.
func (s *Snapshot) VarietiesFor(crop string) []seedrec.VarietyTrait {
	if s == nil {
		return nil
	}
	return slices.Clone(s.byCrop[cropKey(crop)])
}

// CropSummary counts the varieties of one crop.
type CropSummary struct {
	Crop      string `json:"crop"`
	Varieties int    `json:"varieties"`
}

// Crops returns the crops of the snapshot sorted by name.
func (s *Snapshot) Crops() []CropSummary {
	if s == nil {
		return nil
	}
	out := make([]CropSummary, 0, len(s.byCrop))
	for crop, vs := range s.byCrop {
		out = append(out, CropSummary{Crop: crop, Varieties: len(vs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Crop < out[j].Crop })
	return out
}

// Repository owns the live traits table loaded from a file.
// It is safe for concurrent use; reloads are serialized.
type Repository struct {
	path    string
	current atomic.Pointer[Snapshot]
	loadMu  sync.Mutex
	logger  zerolog.Logger
	now     func() time.Time
}

// NewRepository creates a repository for the CSV at path. Nothing is read
// until Load is called.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRepository(path string, logger zerolog.Logger) *Repository {
	return &Repository{
		path:   path,
		logger: logger.With().Str("component", "traits").Str("path", path).Logger(),
		now:    time.Now,
	}
}

// Path returns the source file path.
func (r *Repository) Path() string {
	return r.path
}

// Current returns the live snapshot, or nil before the first load.
func (r *Repository) Current() *Snapshot {
	return r.current.Load()
}

// VarietiesFor returns the varieties of crop from the live snapshot,
// matching crop case-insensitively.
func (r *Repository) VarietiesFor(crop string) []seedrec.VarietyTrait {
	return r.current.Load().VarietiesFor(crop)
}

// Load reads and validates the source file and swaps it in. On any error
// the previous snapshot stays live. Reloading an unchanged file keeps the
// current snapshot and reports changed as false.
func (r *Repository) Load() (snap *Snapshot, changed bool, err error) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		metrics.RecordTraitsReload("error", 0, 0)
		return nil, false, fmt.Errorf("read traits: %w", err)
	}

	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])
	if cur := r.current.Load(); cur != nil && cur.Checksum == checksum {
		metrics.RecordTraitsReload("unchanged", 0, 0)
		r.logger.Debug().Msg("traits source unchanged")
		return cur, false, nil
	}

	report, err := Parse(bytes.NewReader(data))
	if err != nil {
		result := "error"
		if errors.Is(err, ErrSchema) {
			result = "schema_error"
		}
		metrics.RecordTraitsReload(result, 0, 0)
		r.logger.Error().Err(err).Msg("traits load rejected")
		return nil, false, err
	}

	snap = newSnapshot(r.path, checksum, report, r.now())
	r.current.Store(snap)

	metrics.RecordTraitsReload("success", snap.Len(), report.RejectedRows)
	for _, issue := range report.Issues {
		r.logger.Warn().
			Int("row", issue.Row).
			Str("field", issue.Field).
			Str("value", issue.Value).
			Msg(issue.Reason)
	}
	r.logger.Info().
		Int("varieties", snap.Len()).
		Int("rejected_rows", report.RejectedRows).
		Int("crops", len(snap.byCrop)).
		Msg("traits loaded")

	return snap, true, nil
}
