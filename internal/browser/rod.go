package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/IshaanNene/engagerank/internal/config"
	"github.com/IshaanNene/engagerank/internal/types"
)

// RodFactory launches a headless Chromium per session via Rod.
type RodFactory struct {
	cfg    config.BrowserConfig
	logger *slog.Logger
}

// NewRodFactory creates a Rod-backed session factory.
func NewRodFactory(cfg config.BrowserConfig, logger *slog.Logger) *RodFactory {
	return &RodFactory{
		cfg:    cfg,
		logger: logger.With("component", "rod_browser"),
	}
}

// Name returns the driver identifier.
func (f *RodFactory) Name() string { return "rod" }

// NewSession launches a browser and opens a blank page. ctx bounds the launch
// only; the browser lives until Close.
func (f *RodFactory) NewSession(ctx context.Context) (Session, error) {
	sessCtx, sessCancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(ctx, sessCancel)

	l := f.launcher(sessCtx)

	controlURL, err := l.Launch()
	if err != nil {
		l.Cleanup()
		sessCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().Context(sessCtx).ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		sessCancel()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	var page *rod.Page
	if f.cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		_ = b.Close()
		l.Kill()
		l.Cleanup()
		sessCancel()
		return nil, fmt.Errorf("open page: %w", err)
	}
	if !stop() {
		// ctx ended during the launch and sessCtx is already cancelled.
		_ = b.Close()
		l.Kill()
		l.Cleanup()
		return nil, ctx.Err()
	}

	if f.cfg.UserAgent != "" {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      f.cfg.UserAgent,
			AcceptLanguage: "en-US,en;q=0.9",
		})
		if err != nil {
			f.logger.Warn("failed to set user agent", "error", err)
		}
	}

	f.logger.Debug("browser session ready", "stealth", f.cfg.Stealth)

	return &rodSession{
		cancel:     sessCancel,
		launcher:   l,
		browser:    b,
		page:       page,
		stableWait: f.cfg.StableWait,
		logger:     f.logger,
	}, nil
}

// launcher builds a Chromium launcher with appropriate flags.
func (f *RodFactory) launcher(ctx context.Context) *launcher.Launcher {
	l := launcher.New().
		Context(ctx).
		Headless(f.cfg.Headless).
		Leakless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled")

	if f.cfg.NoSandbox {
		l = l.NoSandbox(true).Set("disable-setuid-sandbox")
	}
	if f.cfg.Bin != "" {
		l = l.Bin(f.cfg.Bin)
	}
	if f.cfg.WindowWidth > 0 && f.cfg.WindowHeight > 0 {
		l = l.Set("window-size", fmt.Sprintf("%d,%d", f.cfg.WindowWidth, f.cfg.WindowHeight))
	}
	return l
}

type rodSession struct {
	cancel     context.CancelFunc
	launcher   *launcher.Launcher
	browser    *rod.Browser
	page       *rod.Page
	stableWait time.Duration
	logger     *slog.Logger
}

// Navigate loads url and waits for load plus a short DOM stability window.
func (s *rodSession) Navigate(ctx context.Context, url string) (Page, error) {
	page := s.page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	if s.stableWait > 0 {
		// Feeds keep mutating; a stability timeout is not a load failure.
		if err := page.WaitStable(s.stableWait); err != nil && ctx.Err() == nil {
			s.logger.Warn("page stability timeout, continuing", "url", url, "error", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	return &rodPage{page: s.page, url: finalURL}, nil
}

// Close shuts down the page, the browser and the Chromium process.
func (s *rodSession) Close() error {
	var firstErr error
	if err := s.page.Close(); err != nil {
		firstErr = err
	}
	if err := s.browser.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	s.launcher.Kill()
	s.launcher.Cleanup()
	s.cancel()
	return firstErr
}

type rodPage struct {
	page *rod.Page
	url  string
}

func (p *rodPage) URL() string { return p.url }

// Text waits for the locator and returns its visible text.
func (p *rodPage) Text(ctx context.Context, loc types.Locator, wait time.Duration) (string, error) {
	page := p.page.Context(ctx).Timeout(wait)
	defer page.CancelTimeout()

	var (
		el  *rod.Element
		err error
	)
	if loc.IsXPath() {
		el, err = page.ElementX(loc.Expr)
	} else {
		el, err = page.Element(loc.Expr)
	}
	if err != nil {
		return "", p.classify(ctx, err)
	}

	text, err := el.Text()
	if err != nil {
		return "", p.classify(ctx, err)
	}
	return text, nil
}

// classify separates a dead page from a locator that simply never appeared.
func (p *rodPage) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if _, infoErr := p.page.Context(ctx).Info(); infoErr != nil {
		return fmt.Errorf("%w: %v", ErrPageClosed, infoErr)
	}
	return err
}
