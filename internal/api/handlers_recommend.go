// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/seedrec/internal/logging"
	"github.com/tomtom215/seedrec/internal/metrics"
	"github.com/tomtom215/seedrec/internal/models"
	"github.com/tomtom215/seedrec/internal/seedrec"
	"github.com/tomtom215/seedrec/internal/validation"
)

// Recommendation modes used as metric labels.
const (
	modeSuitability    = "suitability"
	modeHybrid         = "hybrid"
	modeHybridFallback = "hybrid_fallback"
)

// Recommend handles POST /api/v1/recommend.
// The body is a models.RecommendRequest; the response data is a
// seedrec.Result. An omitted top_k uses scoring.limits.default_k.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			respondError(w, r, http.StatusUnsupportedMediaType, models.CodeUnsupportedMedia, "Content-Type must be application/json", nil)
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes))
	if err != nil {
		metrics.RecordRecommendationError("validation")
		if isBodyTooLarge(err) {
			respondError(w, r, http.StatusRequestEntityTooLarge, models.CodePayloadTooLarge, "Request body too large", nil)
			return
		}
		respondError(w, r, http.StatusBadRequest, models.CodeInvalidJSON, "Could not read request body", err)
		return
	}

	var req models.RecommendRequest
	if err := json.Unmarshal(body, &req); err != nil {
		metrics.RecordRecommendationError("validation")
		respondError(w, r, http.StatusBadRequest, models.CodeInvalidJSON, "Request body must be a JSON object", err)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		metrics.RecordRecommendationError("validation")
		respondTypedError(w, r, verr)
		return
	}

	query := req.ToQuery(h.engine.Config().Limits.DefaultK)
	result, err := h.engine.Recommend(r.Context(), query)
	if err != nil {
		metrics.RecordRecommendationError(errorType(err))
		respondTypedError(w, r, err)
		return
	}

	crop := result.Metadata.Crop
	if result.TotalVarieties == 0 {
		crop = "unknown"
	}
	metrics.RecordRecommendation(crop, recommendationMode(query.UseHybrid, result.UsedYield), time.Since(start))

	logging.Ctx(r.Context()).Debug().
		Str("crop", result.Metadata.Crop).
		Int("returned", len(result.Recommendations)).
		Bool("used_yield", result.UsedYield).
		Msg("Recommendation served")

	respondSuccess(w, r, result, start)
}

func recommendationMode(hybrid, usedYield bool) string {
	switch {
	case !hybrid:
		return modeSuitability
	case usedYield:
		return modeHybrid
	default:
		return modeHybridFallback
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, seedrec.ErrInput):
		return "input"
	case errors.Is(err, seedrec.ErrConfig):
		return "config"
	default:
		return "internal"
	}
}
