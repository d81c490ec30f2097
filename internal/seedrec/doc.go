// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

// Package seedrec implements the deterministic seed variety scoring engine.
//
// A recommendation request is scored in stages:
//
//	QueryContext + crop
//	      │
//	      ▼
//	TraitsSource.VarietiesFor ──► Score (pH, texture, maturity, zone)
//	                                   │
//	                                   ▼
//	                     weighted sum ──► AdjustRisk (heat, flood, drought)
//	                                   │
//	                                   ▼
//	                    Rank (desc, name tie-break, top-k)
//	                                   │
//	                       use_hybrid? ▼
//	                    Blend (YieldGateway, min-max over top-k) ──► re-rank
//	                                   │
//	                                   ▼
//	                              Explain ──► Result
//
// Everything except the yield gateway call is pure and performs no I/O, so
// an Engine may serve any number of concurrent requests. The gateway call is
// the only blocking step and its outcome is modelled as an explicit
// Available / Unavailable value rather than an error, so a missing model
// never fails a request.
//
// # Determinism
//
// For a fixed Config, QueryContext and traits snapshot the ranked output is
// identical on every call. Ties on score are broken by case-insensitive
// variety name, and any remaining tie by the raw name.
package seedrec
