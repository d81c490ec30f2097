// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package seedrec

import (
	"fmt"
	"strings"
)

// Explain renders a breakdown as semicolon-joined clauses in the fixed
// order pH, texture, maturity, zone, heat, flood, drought. Risk clauses
// appear only for risks that were active in the request.
//
//nolint:gocritic // hugeParam: b passed by value for immutability
func Explain(b ScoreBreakdown) string {
	clauses := make([]string, 0, 7)

	if b.PHScore >= 1.0 {
		clauses = append(clauses, "pH match ✓")
	} else {
		clauses = append(clauses, fmt.Sprintf("pH +%.2f", b.PHScore))
	}

	switch {
	case b.TextureScore >= TextureExact:
		clauses = append(clauses, "texture match ✓")
	case b.TextureScore >= TexturePartial:
		clauses = append(clauses, "texture partial ✓")
	default:
		clauses = append(clauses, "texture mismatch ✗")
	}

	if b.MaturityScore >= 1.0 {
		clauses = append(clauses, "maturity match ✓")
	} else {
		clauses = append(clauses, fmt.Sprintf("maturity +%.2f", b.MaturityScore))
	}

	switch {
	case b.ZoneScore >= 1.0:
		clauses = append(clauses, "zone match ✓")
	case b.ZoneScore >= 0.5:
		clauses = append(clauses, "zone OK")
	default:
		clauses = append(clauses, "zone penalty")
	}

	clauses = appendRisk(clauses, "heat", b.HeatAdj)
	clauses = appendRisk(clauses, "flood", b.FloodAdj)
	clauses = appendRisk(clauses, "drought", b.DroughtAdj)

	return strings.Join(clauses, "; ")
}

func appendRisk(clauses []string, risk string, adj float64) []string {
	switch {
	case adj > RiskNeutral:
		return append(clauses, risk+"-tolerant")
	case adj < RiskNeutral:
		return append(clauses, risk+"-sensitive")
	default:
		return clauses
	}
}
