// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package seedrec

import (
	"sort"
	"strings"
)

// Texture match scores.
const (
	TextureExact   = 1.0
	TexturePartial = 0.8
	TextureNone    = 0.0
)

// NormalizeTexture lowercases a texture token and joins its words with
// underscores, so "Clay Loam", "clay-loam" and "clay_loam" are equal.
func NormalizeTexture(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == '\t'
	})
	return strings.Join(fields, "_")
}

// DefaultTextureSynonyms returns the USDA texture-class adjacency table.
// Two classes are adjacent when they share a base soil class and border
// each other on the texture triangle.
func DefaultTextureSynonyms() map[string][]string {
	return map[string][]string{
		"clay":            {"clay_loam", "silty_clay", "sandy_clay"},
		"clay_loam":       {"loam", "silty_clay_loam", "sandy_clay_loam"},
		"silty_clay":      {"silty_clay_loam"},
		"sandy_clay":      {"sandy_clay_loam"},
		"loam":            {"silt_loam", "sandy_loam"},
		"silt_loam":       {"silt", "silty_clay_loam"},
		"sandy_loam":      {"loamy_sand", "sandy_clay_loam"},
		"loamy_sand":      {"sand"},
		"silty_clay_loam": {},
		"sandy_clay_loam": {},
		"silt":            {},
		"sand":            {},
	}
}

// TextureTable is an immutable symmetric adjacency relation over normalized
// texture tokens. The zero value has no adjacencies.
type TextureTable struct {
	adjacent map[string]map[string]struct{}
}

// NewTextureTable builds a table from a synonym map. Tokens are normalized
// and every pair is recorded in both directions.
func NewTextureTable(synonyms map[string][]string) *TextureTable {
	t := &TextureTable{adjacent: make(map[string]map[string]struct{})}
	for token, others := range synonyms {
		a := NormalizeTexture(token)
		if a == "" {
			continue
		}
		for _, other := range others {
			b := NormalizeTexture(other)
			if b == "" || b == a {
				continue
			}
			t.link(a, b)
			t.link(b, a)
		}
	}
	return t
}

func (t *TextureTable) link(a, b string) {
	set, ok := t.adjacent[a]
	if !ok {
		set = make(map[string]struct{})
		t.adjacent[a] = set
	}
	set[b] = struct{}{}
}

// Adjacent reports whether two normalized tokens partially match.
func (t *TextureTable) Adjacent(a, b string) bool {
	if t == nil || t.adjacent == nil {
		return false
	}
	_, ok := t.adjacent[a][b]
	return ok
}

// Neighbors returns the sorted tokens adjacent to token.
func (t *TextureTable) Neighbors(token string) []string {
	if t == nil {
		return nil
	}
	set := t.adjacent[NormalizeTexture(token)]
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Match scores soil against the allowed textures: TextureExact on an exact
// member, TexturePartial when any member is adjacent, otherwise TextureNone.
func (t *TextureTable) Match(soil string, allowed []string) float64 {
	s := NormalizeTexture(soil)
	if s == "" {
		return TextureNone
	}
	partial := false
	for _, a := range allowed {
		n := NormalizeTexture(a)
		if n == s {
			return TextureExact
		}
		if !partial && t.Adjacent(s, n) {
			partial = true
		}
	}
	if partial {
		return TexturePartial
	}
	return TextureNone
}
