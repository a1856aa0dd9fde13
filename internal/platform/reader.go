package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/engagerank/internal/browser"
	"github.com/IshaanNene/engagerank/internal/parser"
	"github.com/IshaanNene/engagerank/internal/types"
)

// Reading is the result of applying a spec to a page.
type Reading struct {
	Record types.MetricsRecord

	// Unavailable lists supported counters that degraded to 0.
	Unavailable []*types.CounterError
}

// Reader applies platform specs to rendered pages.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a new Reader.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{
		logger: logger.With("component", "platform_reader"),
	}
}

// Read looks up every supported counter of spec on page. A counter whose
// locator never appears or whose text is not a plain integer becomes 0 and
// the remaining counters are still read. Only cancellation of ctx or a dead
// page is returned as an error.
func (r *Reader) Read(ctx context.Context, page browser.Page, spec Spec) (Reading, error) {
	values := make(map[types.Counter]int64, len(spec.Counters))
	var reading Reading

	for _, cs := range spec.Counters {
		if !cs.Supported {
			continue
		}

		v, err := r.readCounter(ctx, page, spec, cs)
		if err == nil {
			values[cs.Counter] = v
			continue
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return Reading{}, ctxErr
		}
		if errors.Is(err, browser.ErrPageClosed) {
			return Reading{}, fmt.Errorf("read %s %s: %w", spec.Name, cs.Counter, err)
		}

		cerr := &types.CounterError{
			Platform: string(spec.Platform),
			Counter:  cs.Counter,
			Locator:  cs.Locator,
			Err:      err,
		}
		reading.Unavailable = append(reading.Unavailable, cerr)
		r.logger.Warn("counter unavailable, using 0",
			"platform", spec.Platform,
			"counter", cs.Counter,
			"locator", cs.Locator.String(),
			"error", err,
		)
	}

	reading.Record = types.NewMetricsRecord(values)
	return reading, nil
}

func (r *Reader) readCounter(ctx context.Context, page browser.Page, spec Spec, cs CounterSpec) (int64, error) {
	wait := spec.Wait
	if wait <= 0 {
		wait = DefaultWait
	}

	text, err := page.Text(ctx, cs.Locator, wait)
	if err != nil {
		return 0, err
	}

	n, err := parser.ParseCount(text)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", text, err)
	}
	return n, nil
}
