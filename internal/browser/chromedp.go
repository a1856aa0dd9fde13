package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/IshaanNene/engagerank/internal/config"
	"github.com/IshaanNene/engagerank/internal/types"
)

// ChromedpFactory starts a headless Chrome per session via chromedp.
type ChromedpFactory struct {
	cfg    config.BrowserConfig
	logger *slog.Logger
}

// NewChromedpFactory creates a chromedp-backed session factory.
func NewChromedpFactory(cfg config.BrowserConfig, logger *slog.Logger) *ChromedpFactory {
	return &ChromedpFactory{
		cfg:    cfg,
		logger: logger.With("component", "chromedp_browser"),
	}
}

// Name returns the driver identifier.
func (f *ChromedpFactory) Name() string { return "chromedp" }

// NewSession allocates a browser and starts it by running an empty action list.
func (f *ChromedpFactory) NewSession(ctx context.Context) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if f.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if f.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.cfg.UserAgent))
	}
	if f.cfg.WindowWidth > 0 && f.cfg.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(f.cfg.WindowWidth, f.cfg.WindowHeight))
	}
	if f.cfg.Bin != "" {
		opts = append(opts, chromedp.ExecPath(f.cfg.Bin))
	}

	// The browser outlives any single operation, so it hangs off Background.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &chromedpSession{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		logger:      f.logger,
	}

	// The first Run starts the browser and ties it to tabCtx, so it must not
	// run on a shorter-lived context. ctx may still abort the launch.
	stop := context.AfterFunc(ctx, tabCancel)
	err := chromedp.Run(tabCtx)
	stop()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		tabCancel()
		allocCancel()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("start browser: %w", err)
	}

	f.logger.Debug("browser session ready")
	return s, nil
}

type chromedpSession struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	logger      *slog.Logger
}

// bind derives an operation context from the tab that is also cancelled when ctx is.
func (s *chromedpSession) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithCancelCause(s.tabCtx)
	stop := context.AfterFunc(ctx, func() { cancel(context.Cause(ctx)) })
	return opCtx, func() {
		stop()
		cancel(nil)
	}
}

// Navigate loads url and records the final location.
func (s *chromedpSession) Navigate(ctx context.Context, url string) (Page, error) {
	opCtx, done := s.bind(ctx)
	defer done()

	var finalURL string
	err := chromedp.Run(opCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en-US,en;q=0.9"}),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if finalURL == "" {
		finalURL = url
	}

	return &chromedpPage{session: s, url: finalURL}, nil
}

// Close closes the tab and kills the browser process.
func (s *chromedpSession) Close() error {
	err := chromedp.Cancel(s.tabCtx)
	s.tabCancel()
	s.allocCancel()
	return err
}

type chromedpPage struct {
	session *chromedpSession
	url     string
}

func (p *chromedpPage) URL() string { return p.url }

// Text waits for the locator to be ready and returns its text content.
func (p *chromedpPage) Text(ctx context.Context, loc types.Locator, wait time.Duration) (string, error) {
	opCtx, done := p.session.bind(ctx)
	defer done()

	waitCtx, cancel := context.WithTimeout(opCtx, wait)
	defer cancel()

	by := chromedp.ByQuery
	if loc.IsXPath() {
		by = chromedp.BySearch
	}

	var text string
	if err := chromedp.Run(waitCtx, chromedp.Text(loc.Expr, &text, by, chromedp.NodeReady)); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if p.session.tabCtx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrPageClosed, err)
		}
		return "", err
	}
	return text, nil
}
