// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/jnfo/internal/dashboard"
	"github.com/tomtom215/jnfo/internal/jellyfin"
)

// newFakeJellyfin returns an httptest server that mimics the subset of the
// Jellyfin API the aggregator touches. If fail is true every endpoint
// returns 500.
func newFakeJellyfin(t *testing.T, fail bool) *httptest.Server {
	t.Helper()

	recentDate := time.Now().UTC().Add(-2 * time.Minute).Format(time.RFC3339)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/Sessions":
			_, _ = w.Write([]byte(`[
				{"Id":"s1","Client":"Jellyfin Web","DeviceName":"Chrome","UserId":"u1","UserName":"alice",
				 "NowPlayingItem":{"Id":"m1","Name":"Dune","Type":"Movie","RunTimeTicks":80000000000,"ProductionYear":2021},
				 "PlayState":{"PositionTicks":40000000000,"IsPaused":false,"PlayMethod":"DirectPlay"}},
				{"Id":"s2","Client":"Jellyfin Web","DeviceName":"Firefox","UserId":"u2","UserName":"bob",
				 "LastActivityDate":"` + recentDate + `"}
			]`))
		case r.URL.Path == "/Users":
			_, _ = w.Write([]byte(`[
				{"Id":"u1","Name":"alice","LastActivityDate":"2026-08-31T10:00:00Z","Policy":{"IsAdministrator":true}},
				{"Id":"u2","Name":"bob","LastActivityDate":"2026-08-31T11:00:00Z","Policy":{"IsAdministrator":false}}
			]`))
		case r.URL.Path == "/System/Info":
			_, _ = w.Write([]byte(`{"ServerName":"home","Version":"10.9.0","OperatingSystem":"Linux"}`))
		case r.URL.Path == "/Items/Counts":
			_, _ = w.Write([]byte(`{"MovieCount":12,"EpisodeCount":34}`))
		case strings.HasSuffix(r.URL.Path, "/Items/Latest"):
			switch r.URL.Query().Get("IncludeItemTypes") {
			case "Movie":
				_, _ = w.Write([]byte(`[{"Id":"m1","Name":"Dune","Type":"Movie","ProductionYear":2021}]`))
			case "Episode":
				_, _ = w.Write([]byte(`[{"Id":"e1","Name":"Part One","Type":"Episode","SeriesName":"Severance","ProductionYear":2025,"PremiereDate":"2025-01-17T00:00:00Z"}]`))
			default:
				_, _ = w.Write([]byte(`[{"Id":"a1","Name":"Let Down","Type":"Audio","AlbumArtist":"Radiohead","Album":"OK Computer","ProductionYear":1997}]`))
			}
		default:
			http.NotFound(w, r)
		}
	}))
}

// newTestRouter wires a full stack against the fake upstream plus a temp
// static dir containing an index.html.
func newTestRouter(t *testing.T, upstream *httptest.Server) http.Handler {
	t.Helper()

	staticDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>jnfo</html>"), 0o644); err != nil {
		t.Fatalf("failed to write index.html: %v", err)
	}
	if err := os.WriteFile(filepath.Join(staticDir, "app.js"), []byte("console.log('jnfo')"), 0o644); err != nil {
		t.Fatalf("failed to write app.js: %v", err)
	}

	client := jellyfin.NewClient(upstream.URL, "test-key")
	agg := dashboard.New(client, 10, 20*time.Minute, []string{"jellyseerr"})
	return NewRouter(NewHandler(agg), staticDir).Setup()
}

func TestDashboardEndToEnd(t *testing.T) {
	upstream := newFakeJellyfin(t, false)
	defer upstream.Close()
	router := newTestRouter(t, upstream)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}

	if _, ok := doc["error"]; ok {
		t.Fatalf("unexpected error in response: %v", doc)
	}

	system, ok := doc["system"].(map[string]any)
	if !ok || system["serverName"] != "home" {
		t.Errorf("unexpected system block: %v", doc["system"])
	}

	library, ok := doc["library"].(map[string]any)
	if !ok {
		t.Fatalf("missing library block: %v", doc)
	}
	if library["MovieCount"] != float64(12) {
		t.Errorf("expected flattened MovieCount, got %v", library["MovieCount"])
	}
	latest, ok := library["latest"].(map[string]any)
	if !ok {
		t.Fatalf("missing library.latest: %v", library)
	}
	for _, key := range []string{"movies", "episodes", "music"} {
		if _, ok := latest[key]; !ok {
			t.Errorf("missing latest.%s", key)
		}
	}

	streams, ok := doc["activeStreams"].([]any)
	if !ok || len(streams) != 1 {
		t.Fatalf("expected 1 active stream, got %v", doc["activeStreams"])
	}
	browsers, ok := doc["recentBrowsers"].([]any)
	if !ok || len(browsers) != 1 {
		t.Fatalf("expected 1 recent browser, got %v", doc["recentBrowsers"])
	}
	if doc["totalSessions"] != float64(2) {
		t.Errorf("expected totalSessions 2, got %v", doc["totalSessions"])
	}
}

func TestDashboardUpstreamFailure(t *testing.T) {
	upstream := newFakeJellyfin(t, true)
	defer upstream.Close()
	router := newTestRouter(t, upstream)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

	// Failures keep HTTP 200 and signal through the error key
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["error"] != "Failed to fetch data" {
		t.Errorf("expected generic error body, got %v", body)
	}
	if len(body) != 1 {
		t.Errorf("expected no partial fields alongside error, got %v", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	upstream := newFakeJellyfin(t, true) // upstream state must not matter
	defer upstream.Close()
	router := newTestRouter(t, upstream)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	upstream := newFakeJellyfin(t, false)
	defer upstream.Close()
	router := newTestRouter(t, upstream)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_") {
		t.Error("expected Prometheus exposition output")
	}
}

func TestUnmatchedAPIPathReturnsJSON404(t *testing.T) {
	upstream := newFakeJellyfin(t, false)
	defer upstream.Close()
	router := newTestRouter(t, upstream)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["message"] != "Not found" {
		t.Errorf("expected Not found message, got %v", body)
	}
}

func TestStaticServing(t *testing.T) {
	upstream := newFakeJellyfin(t, false)
	defer upstream.Close()
	router := newTestRouter(t, upstream)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"root serves index", "/", http.StatusOK, "jnfo"},
		{"existing asset", "/app.js", http.StatusOK, "console.log"},
		{"spa route falls back to index", "/settings", http.StatusOK, "jnfo"},
		{"missing asset", "/missing.png", http.StatusNotFound, "Not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("expected body to contain %q, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestStaticCacheHeaders(t *testing.T) {
	upstream := newFakeJellyfin(t, false)
	defer upstream.Close()
	router := newTestRouter(t, upstream)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.js", nil))

	if got := rec.Header().Get("Cache-Control"); !strings.Contains(got, "immutable") {
		t.Errorf("expected immutable cache header for js asset, got %q", got)
	}
}

func TestMissingAssetNotCacheable(t *testing.T) {
	upstream := newFakeJellyfin(t, false)
	defer upstream.Close()
	router := newTestRouter(t, upstream)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing.png", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	// A cacheable 404 would pin the error into intermediaries
	if got := rec.Header().Get("Cache-Control"); got != "" {
		t.Errorf("expected no cache header on 404, got %q", got)
	}
}

func TestGenerateETagStable(t *testing.T) {
	a := generateETag([]byte(`{"x":1}`))
	b := generateETag([]byte(`{"x":1}`))
	c := generateETag([]byte(`{"x":2}`))

	if a != b {
		t.Error("expected identical payloads to produce identical ETags")
	}
	if a == c {
		t.Error("expected different payloads to produce different ETags")
	}
}
