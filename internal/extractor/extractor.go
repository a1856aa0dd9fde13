package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IshaanNene/engagerank/internal/browser"
	"github.com/IshaanNene/engagerank/internal/observability"
	"github.com/IshaanNene/engagerank/internal/platform"
	"github.com/IshaanNene/engagerank/internal/types"
)

// DefaultTimeout bounds acquiring a browser session and loading the page.
const DefaultTimeout = 30 * time.Second

// readSlack covers driver overhead on top of the counters' own waits.
const readSlack = 5 * time.Second

// Extractor turns a post URL into engagement counters. Each call owns a
// fresh browser session; calls share no mutable state and may run concurrently.
type Extractor struct {
	registry *platform.Registry
	factory  browser.Factory
	reader   *platform.Reader
	timeout  time.Duration
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// Option configures the Extractor.
type Option func(*Extractor)

// WithTimeout sets the page-load timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMetrics records outcomes and degraded counters.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Extractor) { e.metrics = m }
}

// New creates an Extractor that classifies with registry and renders with factory.
func New(registry *platform.Registry, factory browser.Factory, logger *slog.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		registry: registry,
		factory:  factory,
		reader:   platform.NewReader(logger),
		timeout:  DefaultTimeout,
		logger:   logger.With("component", "extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Classify exposes the registry lookup used before any browser work.
func (e *Extractor) Classify(rawURL string) (platform.Spec, bool) {
	return e.registry.Classify(rawURL)
}

// Extract loads rawURL and reads its engagement counters.
func (e *Extractor) Extract(ctx context.Context, rawURL string) types.Outcome {
	start := time.Now()
	out := e.extract(ctx, rawURL)

	if e.metrics != nil {
		e.metrics.RecordOutcome(out)
	}
	if out.OK() {
		rec, _ := out.Record()
		e.logger.Info("extraction complete",
			"url", rawURL,
			"likes", rec.Likes,
			"shares", rec.Shares,
			"comments", rec.Comments,
			"duration", time.Since(start),
		)
	} else {
		e.logger.Info("extraction failed", "url", rawURL, "reason", out.Reason(), "duration", time.Since(start))
	}
	return out
}

func (e *Extractor) extract(ctx context.Context, rawURL string) (out types.Outcome) {
	// Classification is string-only, so unsupported URLs never cost a browser.
	spec, ok := e.registry.Classify(rawURL)
	if !ok {
		return types.Failed(types.ErrUnsupportedPlatform)
	}

	// The page-load timeout bounds acquiring a browser and loading the page.
	// Counter reads are bounded by their own waits, so locators that never
	// appear degrade to 0 instead of using up the load budget.
	ctx, cancel := context.WithTimeout(ctx, e.timeout+e.registry.ReadBudget()+readSlack)
	defer cancel()
	loadCtx, cancelLoad := context.WithTimeout(ctx, e.timeout)
	defer cancelLoad()

	session, err := e.factory.NewSession(loadCtx)
	if err != nil {
		if cerr := contextFailure(loadCtx); cerr != nil {
			return types.Failed(cerr)
		}
		return types.Failed(&types.SessionError{Op: "acquire", Err: err})
	}
	if e.metrics != nil {
		e.metrics.SessionsOpen.Add(1)
	}

	// The only Close call; it runs on every path out of this function.
	defer func() {
		if e.metrics != nil {
			e.metrics.SessionsOpen.Add(-1)
		}
		if err := session.Close(); err != nil {
			e.logger.Error("browser session close failed", "url", rawURL, "error", err)
			if out.OK() {
				out = types.Failed(&types.SessionError{Op: "close", Err: err})
			}
		}
	}()

	page, err := session.Navigate(loadCtx, rawURL)
	if err != nil {
		if cerr := contextFailure(loadCtx); cerr != nil {
			return types.Failed(cerr)
		}
		return types.Failed(&types.NavigationError{URL: rawURL, Err: err})
	}

	// Short links and mobile hosts redirect; the loaded address decides the adapter.
	if final := page.URL(); final != "" && final != rawURL {
		loaded, ok := e.registry.Classify(final)
		if !ok {
			e.logger.Debug("page left supported platforms", "url", rawURL, "final_url", final)
			return types.Failed(types.ErrUnsupportedPlatform)
		}
		spec = loaded
	}

	reading, err := e.read(ctx, page, spec)
	if err != nil {
		if cerr := contextFailure(ctx); cerr != nil {
			return types.Failed(cerr)
		}
		return types.Failed(err)
	}

	if n := len(reading.Unavailable); n > 0 && e.metrics != nil {
		e.metrics.CountersUnavailable.Add(int64(n))
	}
	return types.Succeeded(reading.Record)
}

// read runs the adapter, converting a driver panic into an error.
func (e *Extractor) read(ctx context.Context, page browser.Page, spec platform.Spec) (reading platform.Reading, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s adapter crashed: %v", spec.Name, r)
		}
	}()
	return e.reader.Read(ctx, page, spec)
}

// contextFailure maps an expired or cancelled call context to its failure.
func contextFailure(ctx context.Context) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return types.ErrTimeout
	default:
		return types.ErrCanceled
	}
}
