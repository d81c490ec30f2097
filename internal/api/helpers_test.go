// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/seedrec/internal/logging"
	"github.com/tomtom215/seedrec/internal/models"
	"github.com/tomtom215/seedrec/internal/seedrec"
	"github.com/tomtom215/seedrec/internal/traits"
)

const traitsHeader = "crop,variety,pH_min,pH_max,textures_allowed,maturity_days,zone_codes,heat_tol,flood_tol,drought_tol,notes\n"

const traitsCSV = traitsHeader +
	`RICE,IR64,6.0,7.5,"clay,clay_loam",115,E1|E2,1,0,0,semi-dwarf` + "\n" +
	`RICE,Swarna,5.5,6.5,clay_loam,145,E2|E3,0,1,0,` + "\n" +
	`WHEAT,HD2967,6.0,7.5,loam,140,N1,1,0,1,` + "\n"

// envelope mirrors models.APIResponse with the data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

// fakeCatalog is a ModelCatalog over a fixed crop set.
type fakeCatalog struct {
	crops   []string
	breaker string
	cached  []string
	err     error
}

func (f *fakeCatalog) AvailableCrops() ([]string, error) { return f.crops, f.err }

func (f *fakeCatalog) IsAvailable(crop string) bool {
	for _, c := range f.crops {
		if c == crop {
			return true
		}
	}
	return false
}

func (f *fakeCatalog) BreakerState() string {
	if f.breaker == "" {
		return "closed"
	}
	return f.breaker
}

func (f *fakeCatalog) CachedCrops() []string { return f.cached }

// failingEngine returns err from every Recommend call.
type failingEngine struct {
	err error
}

func (f *failingEngine) Recommend(context.Context, seedrec.QueryContext) (*seedrec.Result, error) {
	return nil, f.err
}

func (f *failingEngine) Config() *seedrec.Config { return seedrec.DefaultConfig() }

func (f *failingEngine) Stats() seedrec.Stats { return seedrec.Stats{} }

type testServer struct {
	handler *Handler
	repo    *traits.Repository
	path    string
	mux     http.Handler
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newTestServer loads traitsCSV into a repository and serves it through
// the full router. cfg may be nil for the scoring defaults.
func newTestServer(t *testing.T, cfg *seedrec.Config, catalog ModelCatalog, hc HandlerConfig) *testServer {
	t.Helper()

	path := filepath.Join(t.TempDir(), "traits.csv")
	writeFile(t, path, traitsCSV)
	repo := traits.NewRepository(path, zerolog.Nop())
	if _, _, err := repo.Load(); err != nil {
		t.Fatalf("load traits: %v", err)
	}

	engine, err := seedrec.NewEngine(cfg, repo, nil, zerolog.Nop(), seedrec.WithRequestIDFunc(logging.RequestIDFromContext))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	h := NewHandler(engine, repo, catalog, nil, hc)
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	return &testServer{
		handler: h,
		repo:    repo,
		path:    path,
		mux:     NewRouter(h, mw, nil).Setup(),
	}
}

func (s *testServer) do(t *testing.T, method, target, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) postJSON(t *testing.T, target string, v interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return s.do(t, http.MethodPost, target, "application/json", bytes.NewReader(data))
}
