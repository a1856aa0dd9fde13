package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"github.com/IshaanNene/engagerank/internal/observability"
	"github.com/IshaanNene/engagerank/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeExtractor struct {
	outcomes map[string]types.Outcome
	calls    []string
}

func (f *fakeExtractor) Extract(ctx context.Context, rawURL string) types.Outcome {
	f.calls = append(f.calls, rawURL)
	if out, ok := f.outcomes[rawURL]; ok {
		return out
	}
	return types.Failed(types.ErrUnsupportedPlatform)
}

type fakeStore struct {
	subs      []types.Submission
	appendErr error
	allErr    error
}

func (s *fakeStore) Name() string { return "fake" }

func (s *fakeStore) Append(ctx context.Context, sub types.Submission) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.subs = append(s.subs, sub)
	return nil
}

func (s *fakeStore) All(ctx context.Context) ([]types.Submission, error) {
	return s.subs, s.allErr
}

func (s *fakeStore) Close() error { return nil }

type recorder struct{ msgs []string }

func (r *recorder) reply(msg string) error {
	r.msgs = append(r.msgs, msg)
	return nil
}

const postURL = "https://x.com/alice/status/1"

func newHandler(store *fakeStore, opts ...Option) (*Handler, *fakeExtractor) {
	ext := &fakeExtractor{outcomes: map[string]types.Outcome{
		postURL: types.Succeeded(types.MetricsRecord{Likes: 10, Shares: 2, Comments: 3}),
		"https://x.com/gone/status/1": types.Failed(&types.NavigationError{
			URL: "https://x.com/gone/status/1", Err: errors.New("net::ERR_NAME_NOT_RESOLVED"),
		}),
		"https://www.tiktok.com/@slow/video/1": types.Failed(types.ErrTimeout),
	}}
	return NewHandler(ext, store, "hunter2", "!", testLogger, opts...), ext
}

func TestParseCommand(t *testing.T) {
	cmd, ok := ParseCommand("  !submit https://x.com/a  ", "!")
	if !ok || cmd.Name != "submit" || len(cmd.Args) != 1 || cmd.Args[0] != "https://x.com/a" {
		t.Errorf("ParseCommand = %+v, %v", cmd, ok)
	}
	if cmd, ok := ParseCommand("!RANKINGS pw", "!"); !ok || cmd.Name != "rankings" {
		t.Errorf("command name should be case-insensitive: %+v", cmd)
	}
	for _, msg := range []string{"hello", "!", "", "?submit x"} {
		if _, ok := ParseCommand(msg, "!"); ok {
			t.Errorf("ParseCommand(%q) should not match", msg)
		}
	}
}

func TestSubmitSuccess(t *testing.T) {
	store := &fakeStore{}
	m := observability.NewMetrics(testLogger)
	h, _ := newHandler(store, WithMetrics(m))
	r := &recorder{}

	h.Submit(context.Background(), "alice", postURL, r.reply)

	want := []string{
		"alice, processing your submission...",
		"Submission successful! Likes: 10, Shares: 2, Comments: 3",
	}
	if len(r.msgs) != len(want) {
		t.Fatalf("replies = %q", r.msgs)
	}
	for i := range want {
		if r.msgs[i] != want[i] {
			t.Errorf("reply %d = %q, want %q", i, r.msgs[i], want[i])
		}
	}
	if len(store.subs) != 1 || store.subs[0].User != "alice" || store.subs[0].Metrics.Likes != 10 {
		t.Errorf("stored = %+v", store.subs)
	}
	if m.SubmissionsStored.Load() != 1 {
		t.Errorf("SubmissionsStored = %d", m.SubmissionsStored.Load())
	}
}

func TestSubmitFailures(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/post", "unsupported platform"},
		{"https://x.com/gone/status/1", "could not load the page"},
		{"https://www.tiktok.com/@slow/video/1", "timed out"},
	}
	for _, tt := range tests {
		store := &fakeStore{}
		h, _ := newHandler(store)
		r := &recorder{}

		h.Submit(context.Background(), "bob", tt.url, r.reply)

		if len(r.msgs) != 2 {
			t.Fatalf("%s: replies = %q", tt.url, r.msgs)
		}
		last := r.msgs[1]
		if !strings.HasPrefix(last, "Failed to process submission: ") || !strings.Contains(last, tt.want) {
			t.Errorf("%s: reply = %q, want mention of %q", tt.url, last, tt.want)
		}
		if len(store.subs) != 0 {
			t.Errorf("%s: failed submission was stored", tt.url)
		}
	}
}

func TestSubmitStoreFailure(t *testing.T) {
	store := &fakeStore{appendErr: &types.StorageError{Backend: "file", Err: errors.New("disk full")}}
	m := observability.NewMetrics(testLogger)
	h, _ := newHandler(store, WithMetrics(m))
	r := &recorder{}

	h.Submit(context.Background(), "alice", postURL, r.reply)

	if got := r.msgs[len(r.msgs)-1]; got != MsgSaveFailed {
		t.Errorf("reply = %q", got)
	}
	if m.SubmissionsFailed.Load() != 1 {
		t.Errorf("SubmissionsFailed = %d", m.SubmissionsFailed.Load())
	}
}

func TestSubmitMissingURL(t *testing.T) {
	h, ext := newHandler(&fakeStore{})
	r := &recorder{}

	h.Dispatch(context.Background(), "alice", "!submit", r.reply)

	if len(r.msgs) != 1 || r.msgs[0] != "Usage: !submit <post url>" {
		t.Errorf("replies = %q", r.msgs)
	}
	if len(ext.calls) != 0 {
		t.Error("extractor called without a URL")
	}
}

func TestSubmitThrottled(t *testing.T) {
	h, ext := newHandler(&fakeStore{}, WithLimiter(rate.NewLimiter(rate.Limit(0.001), 1)))
	r := &recorder{}

	h.Submit(context.Background(), "alice", postURL, r.reply)
	h.Submit(context.Background(), "alice", postURL, r.reply)

	if got := r.msgs[len(r.msgs)-1]; got != MsgThrottled {
		t.Errorf("last reply = %q", got)
	}
	if len(ext.calls) != 1 {
		t.Errorf("extractor calls = %d, want 1", len(ext.calls))
	}
}

func TestRankings(t *testing.T) {
	store := &fakeStore{subs: []types.Submission{
		{User: "alice", Metrics: types.MetricsRecord{Likes: 10, Shares: 1, Comments: 2}},
		{User: "bob", Metrics: types.MetricsRecord{Likes: 30}},
	}}
	m := observability.NewMetrics(testLogger)
	h, _ := newHandler(store, WithMetrics(m))
	r := &recorder{}

	h.Dispatch(context.Background(), "admin", "!rankings hunter2", r.reply)

	if len(r.msgs) != 1 {
		t.Fatalf("replies = %q", r.msgs)
	}
	want := "Rankings:\n1. bob - Likes: 30, Shares: 0, Comments: 0\n2. alice - Likes: 10, Shares: 1, Comments: 2"
	if r.msgs[0] != want {
		t.Errorf("reply =\n%s\nwant\n%s", r.msgs[0], want)
	}
	if m.RankingsServed.Load() != 1 {
		t.Errorf("RankingsServed = %d", m.RankingsServed.Load())
	}
}

func TestRankingsAccessDenied(t *testing.T) {
	store := &fakeStore{subs: []types.Submission{{User: "alice"}}}
	m := observability.NewMetrics(testLogger)
	h, _ := newHandler(store, WithMetrics(m))

	for _, content := range []string{"!rankings wrong", "!rankings", "!rankings hunter"} {
		r := &recorder{}
		h.Dispatch(context.Background(), "mallory", content, r.reply)
		if len(r.msgs) != 1 || r.msgs[0] != MsgAccessDenied {
			t.Errorf("%q: replies = %q", content, r.msgs)
		}
	}
	if m.AccessDenied.Load() != 3 {
		t.Errorf("AccessDenied = %d", m.AccessDenied.Load())
	}

	open := NewHandler(&fakeExtractor{}, store, "", "!", testLogger)
	r := &recorder{}
	open.Rankings(context.Background(), "", r.reply)
	if r.msgs[0] != MsgAccessDenied {
		t.Error("an unset password must deny every request")
	}
}

func TestRankingsNoData(t *testing.T) {
	for _, store := range []*fakeStore{{}, {allErr: errors.New("read failed")}} {
		h, _ := newHandler(store)
		r := &recorder{}
		h.Rankings(context.Background(), "hunter2", r.reply)
		if len(r.msgs) != 1 || r.msgs[0] != MsgNoData {
			t.Errorf("replies = %q", r.msgs)
		}
	}
}

func TestRankingsChunked(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 100; i++ {
		store.subs = append(store.subs, types.Submission{
			User:    fmt.Sprintf("a-rather-long-user-name-%03d", i),
			Metrics: types.MetricsRecord{Likes: int64(i)},
		})
	}
	h, _ := newHandler(store)
	r := &recorder{}

	h.Rankings(context.Background(), "hunter2", r.reply)

	if len(r.msgs) < 2 {
		t.Fatalf("expected chunked reply, got %d messages", len(r.msgs))
	}
	for _, msg := range r.msgs {
		if len(msg) > 2000 {
			t.Errorf("message length %d exceeds Discord limit", len(msg))
		}
	}
	if !strings.HasPrefix(r.msgs[0], "Rankings:\n1. a-rather-long-user-name-099") {
		t.Errorf("first chunk = %q", r.msgs[0][:60])
	}
}

func TestDispatch(t *testing.T) {
	h, _ := newHandler(&fakeStore{})
	r := &recorder{}

	if h.Dispatch(context.Background(), "alice", "just chatting", r.reply) {
		t.Error("plain message treated as command")
	}
	if !h.Dispatch(context.Background(), "alice", "!dance", r.reply) {
		t.Error("unknown command not handled")
	}
	if len(r.msgs) != 1 || !strings.HasPrefix(r.msgs[0], "Unknown command") {
		t.Errorf("replies = %q", r.msgs)
	}
}
