// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/tomtom215/seedrec/internal/models"
)

func TestCrops(t *testing.T) {
	s := newTestServer(t, nil, &fakeCatalog{crops: []string{"RICE"}}, HandlerConfig{})

	rec := s.do(t, http.MethodGet, "/api/v1/crops", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp models.CropsResponse
	decodeData(t, decodeEnvelope(t, rec), &resp)

	want := []models.CropInfo{
		{Crop: "RICE", Varieties: 2, HasYieldModel: true},
		{Crop: "WHEAT", Varieties: 1, HasYieldModel: false},
	}
	if resp.Total != len(want) || len(resp.Crops) != len(want) {
		t.Fatalf("crops = %+v", resp)
	}
	for i, c := range want {
		if resp.Crops[i] != c {
			t.Errorf("crops[%d] = %+v, want %+v", i, resp.Crops[i], c)
		}
	}
}

func TestAvailableModels(t *testing.T) {
	tests := []struct {
		name        string
		catalog     ModelCatalog
		wantStatus  int
		wantCrops   int
		wantMessage string
	}{
		{
			name:        "not configured",
			catalog:     nil,
			wantStatus:  http.StatusOK,
			wantMessage: "Yield models are not configured",
		},
		{
			name:        "two models",
			catalog:     &fakeCatalog{crops: []string{"RICE", "WHEAT"}},
			wantStatus:  http.StatusOK,
			wantCrops:   2,
			wantMessage: "Found 2 trained yield models",
		},
		{
			name:        "empty directory",
			catalog:     &fakeCatalog{},
			wantStatus:  http.StatusOK,
			wantMessage: "Found 0 trained yield models",
		},
		{
			name:       "listing fails",
			catalog:    &fakeCatalog{err: errors.New("permission denied")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil, tt.catalog, HandlerConfig{})
			rec := s.do(t, http.MethodGet, "/api/v1/models/available", "", nil)
			env := decodeEnvelope(t, rec)

			if tt.wantStatus != http.StatusOK {
				assertError(t, rec.Code, env, tt.wantStatus, models.CodeInternal)
				return
			}

			var resp models.ModelsResponse
			decodeData(t, env, &resp)
			if resp.AvailableCrops == nil {
				t.Error("available_crops is null")
			}
			if len(resp.AvailableCrops) != tt.wantCrops || resp.TotalModels != tt.wantCrops || resp.Message != tt.wantMessage {
				t.Errorf("resp = %+v", resp)
			}
		})
	}
}
