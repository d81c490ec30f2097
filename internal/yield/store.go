// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package yield

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// ErrNoArtifacts is returned when a crop lacks a model or feature file.
var ErrNoArtifacts = errors.New("yield artifacts not found")

const (
	modelPrefix      = "model_"
	aliasModelPrefix = "rf_model_"
	featuresSuffix   = "_features.json"
	jsonExt          = ".json"
)

// Store locates and decodes model artifacts in one directory.
type Store struct {
	dir string
}

// NewStore returns a Store reading from dir. An empty dir yields a store
// with no models.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the artifacts directory.
func (s *Store) Dir() string { return s.dir }

func normalizeCrop(crop string) string {
	return strings.ToUpper(strings.TrimSpace(crop))
}

// ModelPath returns the model file for crop, preferring model_<CROP>.json
// over the rf_model_<CROP>.json alias, and whether either exists.
func (s *Store) ModelPath(crop string) (string, bool) {
	crop = normalizeCrop(crop)
	if s.dir == "" || crop == "" {
		return "", false
	}
	for _, prefix := range []string{modelPrefix, aliasModelPrefix} {
		p := filepath.Join(s.dir, prefix+crop+jsonExt)
		if isFile(p) {
			return p, true
		}
	}
	return "", false
}

// FeaturesPath returns the feature file for crop and whether it exists.
func (s *Store) FeaturesPath(crop string) (string, bool) {
	crop = normalizeCrop(crop)
	if s.dir == "" || crop == "" {
		return "", false
	}
	p := filepath.Join(s.dir, crop+featuresSuffix)
	return p, isFile(p)
}

// Has reports whether both artifact files exist for crop.
func (s *Store) Has(crop string) bool {
	_, okModel := s.ModelPath(crop)
	_, okFeatures := s.FeaturesPath(crop)
	return okModel && okFeatures
}

// AvailableCrops returns the sorted crops with both artifact files.
// A missing directory has no crops.
func (s *Store) AvailableCrops() ([]string, error) {
	if s.dir == "" {
		return []string{}, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read artifacts directory: %w", err)
	}

	models := make(map[string]bool)
	features := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, featuresSuffix):
			features[strings.TrimSuffix(name, featuresSuffix)] = true
		case strings.HasPrefix(name, aliasModelPrefix) && strings.HasSuffix(name, jsonExt):
			models[strings.TrimSuffix(strings.TrimPrefix(name, aliasModelPrefix), jsonExt)] = true
		case strings.HasPrefix(name, modelPrefix) && strings.HasSuffix(name, jsonExt):
			models[strings.TrimSuffix(strings.TrimPrefix(name, modelPrefix), jsonExt)] = true
		}
	}

	crops := make([]string, 0, len(models))
	for crop := range models {
		if crop != "" && crop == normalizeCrop(crop) && features[crop] {
			crops = append(crops, crop)
		}
	}
	sort.Strings(crops)
	return crops, nil
}

// Load reads and compiles the artifacts for crop.
func (s *Store) Load(crop string) (*Predictor, error) {
	crop = normalizeCrop(crop)
	modelPath, okModel := s.ModelPath(crop)
	featuresPath, okFeatures := s.FeaturesPath(crop)
	if !okModel || !okFeatures {
		return nil, fmt.Errorf("%w for crop %s", ErrNoArtifacts, crop)
	}

	var m ModelFile
	if err := readJSON(modelPath, &m); err != nil {
		return nil, err
	}
	var f FeatureFile
	if err := readJSON(featuresPath, &f); err != nil {
		return nil, err
	}
	return Compile(crop, &m, &f)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is built from the configured artifacts dir
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidModel, filepath.Base(path), err)
	}
	return nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
