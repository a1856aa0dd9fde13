package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/IshaanNene/engagerank/internal/config"
	"github.com/IshaanNene/engagerank/internal/observability"
	"github.com/IshaanNene/engagerank/internal/platform"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestServer(t *testing.T) (*Server, *observability.Metrics) {
	t.Helper()
	cfg := config.DefaultConfig()
	registry, err := platform.NewDefaultRegistry(cfg, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	m := observability.NewMetrics(testLogger)
	return NewServer(cfg.Server, cfg.Metrics, m, registry, testLogger), m
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoot(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "Bot is running!" {
		t.Errorf("body = %q", rec.Body.String())
	}

	if rec := get(t, s.Handler(), "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["version"] != config.Version {
		t.Errorf("body = %v", body)
	}
}

func TestStats(t *testing.T) {
	s, m := newTestServer(t)
	m.ExtractionsTotal.Add(3)
	m.SubmissionsStored.Add(2)

	rec := get(t, s.Handler(), "/api/stats")
	var body map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["extractions_total"] != 3 || body["submissions_stored"] != 2 {
		t.Errorf("body = %v", body)
	}
}

func TestMetrics(t *testing.T) {
	s, m := newTestServer(t)
	m.ExtractionsSucceeded.Add(1)

	rec := get(t, s.Handler(), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "engagerank_extractions_succeeded_total 1") {
		t.Errorf("metrics body missing counter:\n%s", rec.Body.String())
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Metrics.Enabled = false
	s := NewServer(cfg.Server, cfg.Metrics, nil, nil, testLogger)

	if rec := get(t, s.Handler(), "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("metrics status = %d, want 404", rec.Code)
	}
	if rec := get(t, s.Handler(), "/api/stats"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("stats status = %d", rec.Code)
	}
	if rec := get(t, s.Handler(), "/"); rec.Code != http.StatusOK {
		t.Errorf("root status = %d", rec.Code)
	}
}

func TestPlatforms(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/api/platforms")

	var body []platformInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 5 || body[0].Platform != "x" {
		t.Fatalf("platforms = %+v", body)
	}
	for _, p := range body {
		if p.Platform == "threads" && (len(p.Counters) != 1 || p.Counters[0] != "likes") {
			t.Errorf("threads counters = %v", p.Counters)
		}
	}
}
