package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/IshaanNene/engagerank/internal/types"
)

// Metrics tracks operational metrics for extraction and submissions.
type Metrics struct {
	// Extraction metrics
	ExtractionsTotal     atomic.Int64
	ExtractionsSucceeded atomic.Int64
	FailedUnsupported    atomic.Int64
	FailedNavigation     atomic.Int64
	FailedTimeout        atomic.Int64
	FailedSession        atomic.Int64
	FailedOther          atomic.Int64
	CountersUnavailable  atomic.Int64

	// Browser metrics
	SessionsOpen atomic.Int64

	// Submission metrics
	SubmissionsStored atomic.Int64
	SubmissionsFailed atomic.Int64
	RankingsServed    atomic.Int64
	AccessDenied      atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// RecordOutcome counts an extraction result by kind.
func (m *Metrics) RecordOutcome(o types.Outcome) {
	m.ExtractionsTotal.Add(1)
	if o.OK() {
		m.ExtractionsSucceeded.Add(1)
		return
	}

	err := o.Err()
	var navErr *types.NavigationError
	var sessErr *types.SessionError
	switch {
	case errors.Is(err, types.ErrUnsupportedPlatform):
		m.FailedUnsupported.Add(1)
	case errors.Is(err, types.ErrTimeout):
		m.FailedTimeout.Add(1)
	case errors.As(err, &navErr):
		m.FailedNavigation.Add(1)
	case errors.As(err, &sessErr):
		m.FailedSession.Add(1)
	default:
		m.FailedOther.Add(1)
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		kind  string
		value int64
	}{
		{"engagerank_extractions_total", "Total extraction calls", "counter", m.ExtractionsTotal.Load()},
		{"engagerank_extractions_succeeded_total", "Extractions that produced a record", "counter", m.ExtractionsSucceeded.Load()},
		{"engagerank_extractions_unsupported_total", "Extractions rejected as unsupported platform", "counter", m.FailedUnsupported.Load()},
		{"engagerank_extractions_navigation_failed_total", "Extractions whose page failed to load", "counter", m.FailedNavigation.Load()},
		{"engagerank_extractions_timeout_total", "Extractions that hit the page-load timeout", "counter", m.FailedTimeout.Load()},
		{"engagerank_extractions_session_failed_total", "Extractions with a browser session error", "counter", m.FailedSession.Load()},
		{"engagerank_extractions_other_failed_total", "Extractions that failed for another reason", "counter", m.FailedOther.Load()},
		{"engagerank_counters_unavailable_total", "Supported counters that degraded to 0", "counter", m.CountersUnavailable.Load()},
		{"engagerank_browser_sessions_open", "Browser sessions currently open", "gauge", m.SessionsOpen.Load()},
		{"engagerank_submissions_stored_total", "Submissions appended to the store", "counter", m.SubmissionsStored.Load()},
		{"engagerank_submissions_failed_total", "Submissions that could not be stored", "counter", m.SubmissionsFailed.Load()},
		{"engagerank_rankings_served_total", "Ranking requests answered", "counter", m.RankingsServed.Load()},
		{"engagerank_access_denied_total", "Ranking requests with a wrong password", "counter", m.AccessDenied.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s %s\n", metric.name, metric.kind)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"extractions_total":      m.ExtractionsTotal.Load(),
		"extractions_succeeded":  m.ExtractionsSucceeded.Load(),
		"failed_unsupported":     m.FailedUnsupported.Load(),
		"failed_navigation":      m.FailedNavigation.Load(),
		"failed_timeout":         m.FailedTimeout.Load(),
		"failed_session":         m.FailedSession.Load(),
		"failed_other":           m.FailedOther.Load(),
		"counters_unavailable":   m.CountersUnavailable.Load(),
		"browser_sessions_open":  m.SessionsOpen.Load(),
		"submissions_stored":     m.SubmissionsStored.Load(),
		"submissions_failed":     m.SubmissionsFailed.Load(),
		"rankings_served":        m.RankingsServed.Load(),
		"rankings_access_denied": m.AccessDenied.Load(),
	}
}
