// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

// Package traits loads and validates the seed variety traits table.
//
// The source is a CSV file with one row per (crop, variety) and the columns
//
//	crop, variety, pH_min, pH_max, textures_allowed, maturity_days,
//	zone_codes, heat_tol, flood_tol, drought_tol, notes
//
// textures_allowed is comma-separated (quote the field) and zone_codes is
// pipe-separated. A missing column fails the whole load with a
// *SchemaError. A malformed row is reported as a RowValidationIssue and
// excluded while the rest of the table loads.
//
// A Repository holds the live table as an immutable Snapshot and replaces
// it with a single atomic pointer swap, so readers never observe a
// partially loaded table.
package traits
