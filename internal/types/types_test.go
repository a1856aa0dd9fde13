package types

import (
	"errors"
	"strings"
	"testing"
)

func TestNewMetricsRecordClampsNegatives(t *testing.T) {
	rec := NewMetricsRecord(map[Counter]int64{Likes: 5, Shares: -3})
	if rec.Likes != 5 || rec.Shares != 0 || rec.Comments != 0 {
		t.Errorf("got %+v", rec)
	}
	if rec.Get(Likes) != 5 {
		t.Errorf("Get(Likes) = %d", rec.Get(Likes))
	}
}

func TestParseCounter(t *testing.T) {
	for _, name := range []string{"likes", "shares", "comments"} {
		if _, err := ParseCounter(name); err != nil {
			t.Errorf("ParseCounter(%q): %v", name, err)
		}
	}
	if _, err := ParseCounter("views"); err == nil {
		t.Error("expected error for unknown counter")
	}
}

func TestOutcome(t *testing.T) {
	ok := Succeeded(MetricsRecord{Likes: 1, Shares: 2, Comments: 3})
	rec, isOK := ok.Record()
	if !isOK || !ok.OK() || rec.Comments != 3 {
		t.Fatalf("success outcome broken: %v", ok)
	}
	if ok.Err() != nil || ok.Reason() != "" {
		t.Error("success should have no error")
	}

	fail := Failed(ErrUnsupportedPlatform)
	if fail.OK() {
		t.Fatal("failure reported OK")
	}
	if rec, isOK := fail.Record(); isOK || rec != (MetricsRecord{}) {
		t.Error("failure must not carry a record")
	}
	if !errors.Is(fail.Err(), ErrUnsupportedPlatform) {
		t.Errorf("Err() = %v", fail.Err())
	}
	if fail.Reason() != "unsupported platform" {
		t.Errorf("Reason() = %q", fail.Reason())
	}

	if Failed(nil).Reason() == "" {
		t.Error("nil failure should still have a reason")
	}
	var zero Outcome
	if zero.OK() {
		t.Error("zero outcome should be a failure")
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("net::ERR_NAME_NOT_RESOLVED")
	nav := &NavigationError{URL: "https://x.com/a", Err: inner}
	if !errors.Is(nav, inner) {
		t.Error("NavigationError should unwrap")
	}
	if !strings.HasPrefix(nav.Error(), "failed to load page") {
		t.Errorf("NavigationError = %q", nav.Error())
	}

	sess := &SessionError{Op: "close", Err: inner}
	var target *SessionError
	if !errors.As(error(sess), &target) || target.Op != "close" {
		t.Error("SessionError should match errors.As")
	}

	cerr := &CounterError{Platform: "x", Counter: Likes, Locator: CSS("a"), Err: ErrNotFound}
	if !errors.Is(cerr, ErrNotFound) {
		t.Error("CounterError should unwrap")
	}
}

func TestLocator(t *testing.T) {
	if CSS("a").IsXPath() {
		t.Error("CSS locator reported as xpath")
	}
	if !XPath("//a").IsXPath() {
		t.Error("XPath locator not reported as xpath")
	}
	if got := XPath("//a").String(); got != "xpath://a" {
		t.Errorf("String() = %q", got)
	}
}

func TestSubmissionLine(t *testing.T) {
	sub := NewSubmission("alice", "https://x.com/a/status/1", MetricsRecord{Likes: 10, Shares: 2, Comments: 3})
	if got := sub.Line(); got != "alice,10,2,3" {
		t.Errorf("Line() = %q", got)
	}
	if sub.SubmittedAt.IsZero() {
		t.Error("SubmittedAt not set")
	}

	odd := Submission{User: "bob,\nsmith", Metrics: MetricsRecord{Likes: 1}}
	line := odd.Line()
	if strings.Count(line, ",") != 3 || strings.Contains(line, "\n") {
		t.Errorf("user separators not sanitised: %q", line)
	}
}

func TestParseSubmissionLine(t *testing.T) {
	sub, err := ParseSubmissionLine("carol,7,0,1\n")
	if err != nil {
		t.Fatalf("ParseSubmissionLine: %v", err)
	}
	if sub.User != "carol" || sub.Metrics.Likes != 7 || sub.Metrics.Comments != 1 {
		t.Errorf("got %+v", sub)
	}

	bad := []string{"", "carol,7,0", ",1,2,3", "carol,x,0,0", "carol,-1,0,0", "a,1,2,3,4"}
	for _, line := range bad {
		if _, err := ParseSubmissionLine(line); err == nil {
			t.Errorf("expected error for %q", line)
		}
	}
}
