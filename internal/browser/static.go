package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IshaanNene/engagerank/internal/parser"
	"github.com/IshaanNene/engagerank/internal/types"
)

// StaticFactory serves recorded HTML instead of driving a real browser.
// Pages are keyed by the exact URL passed to Navigate; unknown URLs fail
// like an unreachable host would.
type StaticFactory struct {
	mu        sync.RWMutex
	pages     map[string]staticEntry
	opened    atomic.Int64
	closed    atomic.Int64
	navigated atomic.Int64
	logger    *slog.Logger
}

type staticEntry struct {
	finalURL string
	body     []byte
}

// NewStaticFactory creates an empty recorded-page factory.
func NewStaticFactory(logger *slog.Logger) *StaticFactory {
	return &StaticFactory{
		pages:  make(map[string]staticEntry),
		logger: logger.With("component", "static_browser"),
	}
}

// Name returns the driver identifier.
func (f *StaticFactory) Name() string { return "static" }

// Add records body as the content served for url.
func (f *StaticFactory) Add(url, body string) {
	f.AddRedirect(url, url, body)
}

// AddRedirect records body for url, reporting finalURL as the loaded address.
func (f *StaticFactory) AddRedirect(url, finalURL, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[url] = staticEntry{finalURL: finalURL, body: []byte(body)}
}

// AddFile records the contents of path as the content served for url.
func (f *StaticFactory) AddFile(url, path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read recorded page: %w", err)
	}
	f.Add(url, string(body))
	return nil
}

// NewSession returns a session over the recorded pages.
func (f *StaticFactory) NewSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.opened.Add(1)
	return &staticSession{factory: f}, nil
}

// Active returns the number of sessions opened and not yet closed.
func (f *StaticFactory) Active() int64 {
	return f.opened.Load() - f.closed.Load()
}

// Opened returns the total number of sessions ever opened.
func (f *StaticFactory) Opened() int64 { return f.opened.Load() }

// Navigations returns the total number of Navigate calls.
func (f *StaticFactory) Navigations() int64 { return f.navigated.Load() }

func (f *StaticFactory) lookup(url string) (staticEntry, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	e, ok := f.pages[url]
	return e, ok
}

type staticSession struct {
	factory *StaticFactory
	closed  atomic.Bool
}

func (s *staticSession) Navigate(ctx context.Context, url string) (Page, error) {
	s.factory.navigated.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.closed.Load() {
		return nil, ErrPageClosed
	}

	entry, ok := s.factory.lookup(url)
	if !ok {
		return nil, fmt.Errorf("net::ERR_NAME_NOT_RESOLVED at %s", url)
	}

	doc, err := parser.NewDocument(entry.finalURL, entry.body)
	if err != nil {
		return nil, err
	}
	return &staticPage{session: s, doc: doc}, nil
}

func (s *staticSession) Close() error {
	if s.closed.Swap(true) {
		return fmt.Errorf("session already closed")
	}
	s.factory.closed.Add(1)
	return nil
}

type staticPage struct {
	session *staticSession
	doc     *parser.Document
}

func (p *staticPage) URL() string { return p.doc.URL() }

// Text evaluates the locator against the recorded document. Recorded pages
// are fully rendered, so wait only matters for cancellation.
func (p *staticPage) Text(ctx context.Context, loc types.Locator, wait time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.session.closed.Load() {
		return "", ErrPageClosed
	}
	return p.doc.Text(loc)
}
