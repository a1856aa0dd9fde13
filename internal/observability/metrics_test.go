package observability

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/IshaanNene/engagerank/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestRecordOutcome(t *testing.T) {
	m := NewMetrics(testLogger)

	m.RecordOutcome(types.Succeeded(types.MetricsRecord{Likes: 1}))
	m.RecordOutcome(types.Failed(types.ErrUnsupportedPlatform))
	m.RecordOutcome(types.Failed(types.ErrTimeout))
	m.RecordOutcome(types.Failed(&types.NavigationError{URL: "u", Err: errors.New("dns")}))
	m.RecordOutcome(types.Failed(&types.SessionError{Op: "close", Err: errors.New("stuck")}))
	m.RecordOutcome(types.Failed(types.ErrCanceled))

	snap := m.Snapshot()
	want := map[string]int64{
		"extractions_total":     6,
		"extractions_succeeded": 1,
		"failed_unsupported":    1,
		"failed_timeout":        1,
		"failed_navigation":     1,
		"failed_session":        1,
		"failed_other":          1,
	}
	for k, v := range want {
		if snap[k] != v {
			t.Errorf("%s = %d, want %d", k, snap[k], v)
		}
	}
}

func TestServeHTTP(t *testing.T) {
	m := NewMetrics(testLogger)
	m.SessionsOpen.Add(2)
	m.AccessDenied.Add(1)

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"# TYPE engagerank_browser_sessions_open gauge",
		"engagerank_browser_sessions_open 2",
		"engagerank_access_denied_total 1",
		"engagerank_extractions_total 0",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
}
