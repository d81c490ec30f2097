// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

/*
Package models defines the request and response shapes of the seedrec HTTP API.

Every response is wrapped in APIResponse:

	{
	  "status": "success",
	  "data": { ... },
	  "metadata": {"timestamp": "...", "query_time_ms": 3, "request_id": "..."}
	}

Failures set status to "error", leave data null and fill error with a
stable code from the Code* constants.

Request structs carry go-playground/validator tags checked by the
validation package before they are converted into engine types.
*/
package models
