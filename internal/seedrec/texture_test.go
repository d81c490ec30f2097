// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package seedrec

import (
	"reflect"
	"testing"
)

func TestNormalizeTexture(t *testing.T) {
	tests := map[string]string{
		"clay loam":      "clay_loam",
		"  Clay   Loam ": "clay_loam",
		"clay-loam":      "clay_loam",
		"CLAY_LOAM":      "clay_loam",
		"sand":           "sand",
		"   ":            "",
	}
	for in, want := range tests {
		if got := NormalizeTexture(in); got != want {
			t.Errorf("NormalizeTexture(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTextureTable_Match(t *testing.T) {
	table := NewTextureTable(DefaultTextureSynonyms())

	tests := []struct {
		name    string
		soil    string
		allowed []string
		want    float64
	}{
		{"exact", "clay loam", []string{"clay_loam", "loam"}, TextureExact},
		{"exact wins over partial", "loam", []string{"clay_loam", "loam"}, TextureExact},
		{"partial forward", "clay loam", []string{"clay"}, TexturePartial},
		{"partial reverse", "clay", []string{"clay_loam"}, TexturePartial},
		{"no relation", "sand", []string{"clay"}, TextureNone},
		{"substring is not a match", "silt", []string{"silty_clay"}, TextureNone},
		{"empty soil", "", []string{"clay"}, TextureNone},
		{"empty allowed", "clay", nil, TextureNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Match(tt.soil, tt.allowed); got != tt.want {
				t.Errorf("Match(%q, %v) = %v, want %v", tt.soil, tt.allowed, got, tt.want)
			}
		})
	}
}

func TestTextureTable_Symmetric(t *testing.T) {
	table := NewTextureTable(map[string][]string{"Peat": {"muck soil"}})

	if !table.Adjacent("peat", "muck_soil") || !table.Adjacent("muck_soil", "peat") {
		t.Error("adjacency should be recorded in both directions")
	}
	if got, want := table.Neighbors("muck soil"), []string{"peat"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Neighbors() = %v, want %v", got, want)
	}
}

func TestTextureTable_NilIsExactOnly(t *testing.T) {
	var table *TextureTable
	if got := table.Match("clay", []string{"clay_loam"}); got != TextureNone {
		t.Errorf("nil table Match() = %v, want %v", got, TextureNone)
	}
	if got := table.Match("clay", []string{"clay"}); got != TextureExact {
		t.Errorf("nil table Match() = %v, want %v", got, TextureExact)
	}
}
