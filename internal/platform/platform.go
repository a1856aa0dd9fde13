package platform

import (
	"time"

	"github.com/IshaanNene/engagerank/internal/config"
	"github.com/IshaanNene/engagerank/internal/types"
)

// Platform identifies a supported social network.
type Platform string

const (
	X         Platform = "x"
	Threads   Platform = "threads"
	YouTube   Platform = "youtube"
	TikTok    Platform = "tiktok"
	Instagram Platform = "instagram"
)

// CounterSpec declares where one counter lives on a platform's page.
// Unsupported counters are never queried and are always 0.
type CounterSpec struct {
	Counter   types.Counter
	Locator   types.Locator
	Supported bool
}

// Spec is a platform adapter expressed as data: which URLs it owns and
// how to read each counter from the rendered page.
type Spec struct {
	Platform Platform
	Name     string
	Domains  []string
	Counters []CounterSpec

	// Wait bounds how long each supported counter's locator is waited for.
	Wait time.Duration
}

// Supported returns the counters that are looked up on the page.
func (s Spec) Supported() []CounterSpec {
	var out []CounterSpec
	for _, c := range s.Counters {
		if c.Supported {
			out = append(out, c)
		}
	}
	return out
}

// ReadBudget is the longest time reading every supported counter may take
// when none of their locators appear.
func (s Spec) ReadBudget() time.Duration {
	wait := s.Wait
	if wait <= 0 {
		wait = DefaultWait
	}
	return time.Duration(len(s.Supported())) * wait
}

// Counter returns the spec for c.
func (s Spec) Counter(c types.Counter) (CounterSpec, bool) {
	for _, cs := range s.Counters {
		if cs.Counter == c {
			return cs, true
		}
	}
	return CounterSpec{}, false
}

// WithOverrides applies per-platform configuration. The receiver is not modified.
func (s Spec) WithOverrides(o config.PlatformConfig) Spec {
	out := s
	out.Domains = append([]string(nil), s.Domains...)
	out.Counters = append([]CounterSpec(nil), s.Counters...)

	if o.CounterWait > 0 {
		out.Wait = o.CounterWait
	}

	disabled := make(map[string]bool, len(o.DisabledCounters))
	for _, c := range o.DisabledCounters {
		disabled[c] = true
	}
	for i := range out.Counters {
		if disabled[string(out.Counters[i].Counter)] {
			out.Counters[i].Supported = false
		}
	}
	return out
}
