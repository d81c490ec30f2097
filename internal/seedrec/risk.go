// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package seedrec

// Risk multipliers.
const (
	RiskNeutral   = 1.0
	RiskTolerant  = 1.05
	RiskSensitive = 0.95
)

// riskMultiplier returns the multiplier for one risk factor.
func riskMultiplier(active, tolerant bool) float64 {
	switch {
	case !active:
		return RiskNeutral
	case tolerant:
		return RiskTolerant
	default:
		return RiskSensitive
	}
}

// AdjustRisk multiplies suitability by the heat, flood and drought
// multipliers and clamps the product to [0, 1].
func AdjustRisk(suitability float64, trait *VarietyTrait, flags RiskFlags) (float64, Adjustments) {
	adj := Adjustments{
		Heat:    riskMultiplier(flags.Heat, trait.HeatTol),
		Flood:   riskMultiplier(flags.Flood, trait.FloodTol),
		Drought: riskMultiplier(flags.Drought, trait.DroughtTol),
	}
	return clamp01(suitability * adj.Heat * adj.Flood * adj.Drought), adj
}
