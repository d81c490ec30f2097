// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/seedrec/internal/models"
)

// Crops handles GET /api/v1/crops.
// It lists the crops of the live traits table with their variety counts
// and whether a yield model exists for each.
func (h *Handler) Crops(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	summaries := h.traits.Current().Crops()
	crops := make([]models.CropInfo, 0, len(summaries))
	for _, s := range summaries {
		crops = append(crops, models.CropInfo{
			Crop:          s.Crop,
			Varieties:     s.Varieties,
			HasYieldModel: h.models != nil && h.models.IsAvailable(s.Crop),
		})
	}

	respondSuccess(w, r, models.CropsResponse{Crops: crops, Total: len(crops)}, start)
}

// AvailableModels handles GET /api/v1/models/available.
func (h *Handler) AvailableModels(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.models == nil {
		respondSuccess(w, r, models.ModelsResponse{
			AvailableCrops: []string{},
			Message:        "Yield models are not configured",
		}, start)
		return
	}

	crops, err := h.models.AvailableCrops()
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.CodeInternal, "Failed to list yield models", err)
		return
	}
	if crops == nil {
		crops = []string{}
	}

	respondSuccess(w, r, models.ModelsResponse{
		AvailableCrops: crops,
		TotalModels:    len(crops),
		Message:        fmt.Sprintf("Found %d trained yield models", len(crops)),
	}, start)
}
