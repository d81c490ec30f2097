// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

/*
Package api exposes the recommendation engine over HTTP using the Chi router.

Endpoints:

	GET  /api/v1/health             liveness plus traits snapshot info
	GET  /api/v1/health/live        process liveness
	GET  /api/v1/health/ready       503 until a traits table is loaded
	POST /api/v1/recommend          RecommendRequest -> seedrec.Result
	POST /api/v1/traits/validate    dry-run validation of an uploaded CSV
	POST /api/v1/traits/reload      reload the configured traits file
	GET  /api/v1/crops              crops in the live table
	GET  /api/v1/models/available   crops with yield model artifacts
	GET  /api/v1/stats              engine counters and per-endpoint latency
	GET  /metrics                   Prometheus exposition

Every JSON response uses the models.APIResponse envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 3, "request_id": "..."}
	}

Typed errors map to status codes:

	*validation.RequestValidationError  400 VALIDATION_ERROR
	*seedrec.InputError                 400 INPUT_ERROR
	*traits.SchemaError                 422 SCHEMA_ERROR
	*seedrec.ConfigError                500 CONFIG_ERROR
	anything else                       500 INTERNAL_ERROR

JSON bodies are capped at server.max_body_bytes (1 MiB) and CSV uploads at
server.max_upload_bytes (10 MiB); larger bodies get 413.
*/
package api
