// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

/*
Package validation checks API request structs and configuration with
go-playground/validator.

One validator instance is shared process-wide. Field names in messages are
taken from the json tag, so a bad soil pH is reported as soil_ph rather
than SoilPH:

	if verr := validation.ValidateStruct(&req); verr != nil {
	    respondError(w, r, http.StatusBadRequest, verr.ToAPIError())
	    return
	}

# Custom Tags

  - crop_code: letters, digits, spaces, underscores and hyphens only

Messages for the tags used in seedrec (required, gte, lte, gt, lt, min,
max, oneof, crop_code) are translated into short English sentences. Other
tags fall back to "<field> failed <tag> validation".
*/
package validation
