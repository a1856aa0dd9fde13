package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IshaanNene/engagerank/internal/config"
	"github.com/IshaanNene/engagerank/internal/types"
)

// ErrPageClosed is returned by Page.Text when the page or its browser is gone,
// as opposed to a single locator not matching.
var ErrPageClosed = errors.New("page closed")

// Factory creates browser sessions. Every call returns a fresh,
// exclusively-owned session.
type Factory interface {
	// NewSession acquires a session. ctx bounds the acquisition only.
	NewSession(ctx context.Context) (Session, error)

	// Name returns the driver identifier.
	Name() string
}

// Session is one browser instance. Close must be called exactly once.
type Session interface {
	// Navigate loads url and waits for the page to settle.
	Navigate(ctx context.Context, url string) (Page, error)

	// Close tears the session down.
	Close() error
}

// Page is a rendered page that can be queried for counter text.
type Page interface {
	// URL returns the address after any redirects.
	URL() string

	// Text waits up to wait for loc to appear and returns its inner text.
	Text(ctx context.Context, loc types.Locator, wait time.Duration) (string, error)
}

// NewFactory creates the session factory selected by cfg.Driver.
func NewFactory(cfg config.BrowserConfig, logger *slog.Logger) (Factory, error) {
	switch cfg.Driver {
	case "rod", "":
		return NewRodFactory(cfg, logger), nil
	case "chromedp":
		return NewChromedpFactory(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported browser driver: %s", cfg.Driver)
	}
}
