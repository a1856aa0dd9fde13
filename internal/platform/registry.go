package platform

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/IshaanNene/engagerank/internal/config"
)

// Registry classifies URLs against an ordered list of platform specs.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	specs []Spec
}

// NewRegistry validates specs and returns a registry that tries them in the given order.
func NewRegistry(specs ...Spec) (*Registry, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("registry needs at least one platform")
	}
	if err := validate(specs); err != nil {
		return nil, err
	}

	owned := make([]Spec, len(specs))
	for i, s := range specs {
		owned[i] = s.WithOverrides(config.PlatformConfig{})
		if owned[i].Wait <= 0 {
			owned[i].Wait = DefaultWait
		}
	}
	return &Registry{specs: owned}, nil
}

// NewDefaultRegistry builds the built-in registry with configuration overrides applied.
func NewDefaultRegistry(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	specs := DefaultSpecs()
	for name := range cfg.Platforms {
		if !hasPlatform(specs, Platform(name)) {
			return nil, fmt.Errorf("platforms.%s: unknown platform", name)
		}
	}

	for i, s := range specs {
		s.Wait = cfg.Browser.CounterWait
		if o, ok := cfg.Platforms[string(s.Platform)]; ok {
			s = s.WithOverrides(o)
			logger.Debug("platform overrides applied", "platform", s.Platform, "wait", s.Wait)
		}
		specs[i] = s
	}
	return NewRegistry(specs...)
}

// Classify returns the spec that owns rawURL. Hostnames are matched first,
// across every spec in priority order; only when no host matches is the rest
// of the text searched for a delimited domain fragment (e.g. a share link
// carried in a query string).
func (r *Registry) Classify(rawURL string) (Spec, bool) {
	if host := hostOf(rawURL); host != "" {
		for _, s := range r.specs {
			if s.MatchesHost(host) {
				return s, true
			}
		}
	}

	lower := strings.ToLower(rawURL)
	for _, s := range r.specs {
		if s.mentionedIn(lower) {
			return s, true
		}
	}
	return Spec{}, false
}

// Specs returns the registered specs in priority order.
func (r *Registry) Specs() []Spec {
	return append([]Spec(nil), r.specs...)
}

// ReadBudget returns the largest read budget of any registered spec.
func (r *Registry) ReadBudget() time.Duration {
	var longest time.Duration
	for _, s := range r.specs {
		if b := s.ReadBudget(); b > longest {
			longest = b
		}
	}
	return longest
}

// MatchesHost reports whether host is one of the spec's domains or a subdomain of one.
func (s Spec) MatchesHost(host string) bool {
	for _, d := range s.Domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// mentionedIn reports whether a domain appears in text as a whole token,
// so "x.com" is found in "?u=x.com/a" but not in "netflix.com".
func (s Spec) mentionedIn(text string) bool {
	for _, d := range s.Domains {
		for from := 0; ; {
			i := strings.Index(text[from:], d)
			if i < 0 {
				break
			}
			i += from
			end := i + len(d)
			if (i == 0 || !isHostChar(text[i-1])) && (end == len(text) || !isHostChar(text[end])) {
				return true
			}
			from = i + 1
		}
	}
	return false
}

func isHostChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-'
}

// hostOf extracts the lower-cased hostname, tolerating a missing scheme.
func hostOf(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + strings.TrimPrefix(s, "//")
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}

// validate rejects empty, duplicate, or overlapping domain fragments.
// Two fragments overlap when one is equal to, or a subdomain of, the other:
// the classification would then depend on priority order alone.
func validate(specs []Spec) error {
	type owner struct {
		platform Platform
		domain   string
	}
	var seen []owner
	platforms := make(map[Platform]bool, len(specs))

	for _, s := range specs {
		if s.Platform == "" {
			return fmt.Errorf("platform spec %q has no identifier", s.Name)
		}
		if platforms[s.Platform] {
			return fmt.Errorf("platform %q registered twice", s.Platform)
		}
		platforms[s.Platform] = true

		if len(s.Domains) == 0 {
			return fmt.Errorf("platform %q has no domains", s.Platform)
		}
		if len(s.Counters) == 0 {
			return fmt.Errorf("platform %q declares no counters", s.Platform)
		}
		for _, c := range s.Counters {
			if c.Supported && c.Locator.Expr == "" {
				return fmt.Errorf("platform %q: supported counter %s has no locator", s.Platform, c.Counter)
			}
		}

		for _, d := range s.Domains {
			if d == "" || d != strings.ToLower(strings.TrimSpace(d)) {
				return fmt.Errorf("platform %q: domain %q must be non-empty lower-case", s.Platform, d)
			}
			for _, o := range seen {
				if overlaps(d, o.domain) {
					return fmt.Errorf("domain %q (%s) overlaps %q (%s)", d, s.Platform, o.domain, o.platform)
				}
			}
			seen = append(seen, owner{platform: s.Platform, domain: d})
		}
	}
	return nil
}

func overlaps(a, b string) bool {
	return a == b || strings.HasSuffix(a, "."+b) || strings.HasSuffix(b, "."+a)
}

func hasPlatform(specs []Spec, p Platform) bool {
	for _, s := range specs {
		if s.Platform == p {
			return true
		}
	}
	return false
}
