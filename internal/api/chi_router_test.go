// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/seedrec/internal/middleware"
	"github.com/tomtom215/seedrec/internal/models"
)

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil, nil, HandlerConfig{})

	rec := s.do(t, http.MethodGet, "/api/v1/nope", "", nil)
	assertError(t, rec.Code, decodeEnvelope(t, rec), http.StatusNotFound, models.CodeNotFound)

	rec = s.do(t, http.MethodGet, "/api/v1/recommend", "", nil)
	assertError(t, rec.Code, decodeEnvelope(t, rec), http.StatusMethodNotAllowed, models.CodeMethodNotAllowed)
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t, nil, nil, HandlerConfig{})
	s.postJSON(t, "/api/v1/recommend", riceRequest())

	rec := s.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "seedrec_") {
		t.Error("metrics output has no seedrec series")
	}
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	s := newTestServer(t, nil, nil, HandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set(middleware.RequestIDHeader, "client-supplied-id")
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if got := rec.Header().Get(middleware.RequestIDHeader); got != "client-supplied-id" {
		t.Errorf("X-Request-ID = %q", got)
	}
	if env := decodeEnvelope(t, rec); env.Metadata.RequestID != "client-supplied-id" {
		t.Errorf("metadata.request_id = %q", env.Metadata.RequestID)
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	s := newTestServer(t, nil, nil, HandlerConfig{})
	rec := s.do(t, http.MethodGet, "/api/v1/crops", "", nil)

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	s := newTestServer(t, nil, nil, HandlerConfig{})
	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://agronomy.example.org"}
	cfg.RateLimitDisabled = true
	mux := NewRouter(s.handler, NewChiMiddleware(cfg), nil).Setup()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommend", nil)
	req.Header.Set("Origin", "https://agronomy.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://agronomy.example.org" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/recommend", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unlisted origin allowed: %q", got)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	s := newTestServer(t, nil, nil, HandlerConfig{})
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	mux := NewRouter(s.handler, NewChiMiddleware(cfg), nil).Setup()

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/crops", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		mux.ServeHTTP(last, req)
		if i < 2 && last.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, last.Code)
		}
	}
	assertError(t, last.Code, decodeEnvelope(t, last), http.StatusTooManyRequests, models.CodeRateLimited)

	// Health has its own budget.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.RemoteAddr = "203.0.113.7:4000"
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d after API budget exhausted", rec.Code)
	}
}

func TestNewChiMiddlewareFromServer(t *testing.T) {
	m := NewChiMiddlewareFromServer([]string{"*"}, 50, 30*time.Second, true)
	if m.config.RateLimitRequests != 50 || m.config.RateLimitWindow != 30*time.Second || !m.config.RateLimitDisabled {
		t.Errorf("config = %+v", m.config)
	}
	if len(m.config.CORSAllowedMethods) == 0 {
		t.Error("defaults not applied")
	}
}
