// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package api

import (
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/tomtom215/seedrec/internal/middleware"
	"github.com/tomtom215/seedrec/internal/models"
	"github.com/tomtom215/seedrec/internal/seedrec"
)

func riceRequest() map[string]interface{} {
	return map[string]interface{}{
		"crop":            "RICE",
		"soil_ph":         6.5,
		"soil_texture":    "clay loam",
		"season_len_days": 120,
		"zone_code":       "E2",
		"risk_flags":      map[string]bool{"heat_risk": true},
		"top_k":           5,
	}
}

func TestRecommend_Success(t *testing.T) {
	s := newTestServer(t, nil, nil, HandlerConfig{})

	rec := s.postJSON(t, "/api/v1/recommend", riceRequest())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if env.Status != models.StatusSuccess {
		t.Errorf("status = %q", env.Status)
	}
	if env.Metadata.RequestID == "" || env.Metadata.RequestID != rec.Header().Get(middleware.RequestIDHeader) {
		t.Errorf("metadata.request_id = %q, header = %q", env.Metadata.RequestID, rec.Header().Get(middleware.RequestIDHeader))
	}

	var result seedrec.Result
	decodeData(t, env, &result)

	if len(result.Recommendations) != 2 || result.TotalVarieties != 2 {
		t.Fatalf("recommendations = %+v", result.Recommendations)
	}
	first, second := result.Recommendations[0], result.Recommendations[1]
	if first.Variety != "IR64" || first.FinalScore != 1.0 {
		t.Errorf("first = %s %.4f, want IR64 1.0", first.Variety, first.FinalScore)
	}
	if second.Variety != "Swarna" || math.Abs(second.FinalScore-0.95) > 1e-9 {
		t.Errorf("second = %s %.4f, want Swarna 0.95", second.Variety, second.FinalScore)
	}
	if !strings.Contains(second.Reasons, "heat-sensitive") {
		t.Errorf("reasons = %q, want heat-sensitive", second.Reasons)
	}
	if result.Metadata.RequestID != env.Metadata.RequestID {
		t.Errorf("engine request ID %q != envelope %q", result.Metadata.RequestID, env.Metadata.RequestID)
	}
	if result.Message != "Found 2 recommendations for RICE" {
		t.Errorf("message = %q", result.Message)
	}
}

func TestRecommend_DefaultTopK(t *testing.T) {
	s := newTestServer(t, nil, nil, HandlerConfig{})

	body := riceRequest()
	delete(body, "top_k")
	rec := s.postJSON(t, "/api/v1/recommend", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result seedrec.Result
	decodeData(t, decodeEnvelope(t, rec), &result)
	if result.Metadata.TopK != seedrec.DefaultConfig().Limits.DefaultK {
		t.Errorf("top_k = %d, want default", result.Metadata.TopK)
	}
}

func TestRecommend_UnknownCrop(t *testing.T) {
	s := newTestServer(t, nil, nil, HandlerConfig{})

	body := riceRequest()
	body["crop"] = "QUINOA"
	rec := s.postJSON(t, "/api/v1/recommend", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var result seedrec.Result
	decodeData(t, decodeEnvelope(t, rec), &result)
	if len(result.Recommendations) != 0 || result.Message != "No varieties found for crop QUINOA" {
		t.Errorf("result = %+v", result)
	}
}

func TestRecommend_HybridWithoutModelsFallsBack(t *testing.T) {
	s := newTestServer(t, nil, nil, HandlerConfig{})

	body := riceRequest()
	body["use_hybrid"] = true
	rec := s.postJSON(t, "/api/v1/recommend", body)

	var result seedrec.Result
	decodeData(t, decodeEnvelope(t, rec), &result)
	if result.UsedYield {
		t.Error("used_yield = true without a gateway")
	}
	for _, r := range result.Recommendations {
		if r.FinalScore != r.Suitability || r.YHat != nil {
			t.Errorf("%s: final %.4f suitability %.4f yhat %v", r.Variety, r.FinalScore, r.Suitability, r.YHat)
		}
	}
}

func TestRecommend_RequestErrors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(map[string]interface{})
		contentType string
		raw         string
		wantStatus  int
		wantCode    string
	}{
		{name: "missing crop", mutate: func(b map[string]interface{}) { delete(b, "crop") }, wantStatus: 400, wantCode: models.CodeValidation},
		{name: "missing soil_ph", mutate: func(b map[string]interface{}) { delete(b, "soil_ph") }, wantStatus: 400, wantCode: models.CodeValidation},
		{name: "ph above 14", mutate: func(b map[string]interface{}) { b["soil_ph"] = 14.5 }, wantStatus: 400, wantCode: models.CodeValidation},
		{name: "negative season", mutate: func(b map[string]interface{}) { b["season_len_days"] = -5 }, wantStatus: 400, wantCode: models.CodeValidation},
		{name: "top_k zero", mutate: func(b map[string]interface{}) { b["top_k"] = 0 }, wantStatus: 400, wantCode: models.CodeValidation},
		{name: "top_k above max_k", mutate: func(b map[string]interface{}) { b["top_k"] = 21 }, wantStatus: 400, wantCode: models.CodeInput},
		{name: "malformed json", raw: `{"crop": "RICE",`, wantStatus: 400, wantCode: models.CodeInvalidJSON},
		{name: "wrong content type", raw: `crop=RICE`, contentType: "application/x-www-form-urlencoded", wantStatus: 415, wantCode: models.CodeUnsupportedMedia},
	}

	s := newTestServer(t, nil, nil, HandlerConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body string
			if tt.raw != "" {
				body = tt.raw
			} else {
				b := riceRequest()
				tt.mutate(b)
				rec := s.postJSON(t, "/api/v1/recommend", b)
				assertError(t, rec.Code, decodeEnvelope(t, rec), tt.wantStatus, tt.wantCode)
				return
			}
			ct := tt.contentType
			if ct == "" {
				ct = "application/json"
			}
			rec := s.do(t, http.MethodPost, "/api/v1/recommend", ct, strings.NewReader(body))
			assertError(t, rec.Code, decodeEnvelope(t, rec), tt.wantStatus, tt.wantCode)
		})
	}
}

func assertError(t *testing.T, status int, env envelope, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Errorf("status = %d, want %d", status, wantStatus)
	}
	if env.Status != models.StatusError || env.Error == nil {
		t.Fatalf("envelope = %+v, want error", env)
	}
	if env.Error.Code != wantCode {
		t.Errorf("error.code = %q, want %q", env.Error.Code, wantCode)
	}
}

func TestRecommend_EngineInputError(t *testing.T) {
	cfg := seedrec.DefaultConfig()
	cfg.Limits.DefaultK = 2
	cfg.Limits.MaxK = 3
	s := newTestServer(t, cfg, nil, HandlerConfig{})

	body := riceRequest()
	body["top_k"] = 10
	rec := s.postJSON(t, "/api/v1/recommend", body)

	env := decodeEnvelope(t, rec)
	assertError(t, rec.Code, env, http.StatusBadRequest, models.CodeInput)
	if env.Error.Details["field"] != "top_k" {
		t.Errorf("details = %v", env.Error.Details)
	}
}

func TestRecommend_RaisedMaxK(t *testing.T) {
	cfg := seedrec.DefaultConfig()
	cfg.Limits.MaxK = 50
	s := newTestServer(t, cfg, nil, HandlerConfig{})

	body := riceRequest()
	body["top_k"] = 30
	rec := s.postJSON(t, "/api/v1/recommend", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestRecommend_ConfigErrorIsServerError(t *testing.T) {
	s := newTestServer(t, nil, nil, HandlerConfig{})
	s.handler.engine = &failingEngine{err: &seedrec.ConfigError{Field: "weights", Value: 1.05, Reason: "must sum to 1.0"}}

	rec := s.postJSON(t, "/api/v1/recommend", riceRequest())
	env := decodeEnvelope(t, rec)
	assertError(t, rec.Code, env, http.StatusInternalServerError, models.CodeConfig)
	if env.Error.Details["field"] != "weights" {
		t.Errorf("details = %v", env.Error.Details)
	}
}

func TestRecommend_BodyTooLarge(t *testing.T) {
	s := newTestServer(t, nil, nil, HandlerConfig{MaxBodyBytes: 64})

	body := riceRequest()
	body["soil_texture"] = strings.Repeat("x", 200)
	rec := s.postJSON(t, "/api/v1/recommend", body)
	assertError(t, rec.Code, decodeEnvelope(t, rec), http.StatusRequestEntityTooLarge, models.CodePayloadTooLarge)
}

func TestRecommendationMode(t *testing.T) {
	tests := []struct {
		hybrid, used bool
		want         string
	}{
		{false, false, modeSuitability},
		{true, true, modeHybrid},
		{true, false, modeHybridFallback},
	}
	for _, tt := range tests {
		if got := recommendationMode(tt.hybrid, tt.used); got != tt.want {
			t.Errorf("recommendationMode(%v, %v) = %q, want %q", tt.hybrid, tt.used, got, tt.want)
		}
	}
}
