package config

import (
	"fmt"
	"net/url"

	"github.com/IshaanNene/engagerank/internal/types"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Browser.Driver != "rod" && cfg.Browser.Driver != "chromedp" {
		return fmt.Errorf("browser.driver must be 'rod' or 'chromedp', got %q", cfg.Browser.Driver)
	}
	if cfg.Browser.PageLoadTimeout <= 0 {
		return fmt.Errorf("browser.page_load_timeout must be > 0")
	}
	if cfg.Browser.CounterWait <= 0 {
		return fmt.Errorf("browser.counter_wait must be > 0")
	}
	if cfg.Browser.CounterWait > cfg.Browser.PageLoadTimeout {
		return fmt.Errorf("browser.counter_wait (%s) must not exceed browser.page_load_timeout (%s)",
			cfg.Browser.CounterWait, cfg.Browser.PageLoadTimeout)
	}
	if cfg.Browser.StableWait < 0 {
		return fmt.Errorf("browser.stable_wait must be >= 0")
	}
	if cfg.Browser.WindowWidth < 0 || cfg.Browser.WindowHeight < 0 {
		return fmt.Errorf("browser window size must be >= 0")
	}

	for name, pc := range cfg.Platforms {
		if pc.CounterWait < 0 {
			return fmt.Errorf("platforms.%s.counter_wait must be >= 0", name)
		}
		for _, c := range pc.DisabledCounters {
			if _, err := types.ParseCounter(c); err != nil {
				return fmt.Errorf("platforms.%s.disabled_counters: %w", name, err)
			}
		}
	}

	if cfg.Discord.Prefix == "" {
		return fmt.Errorf("discord.prefix must not be empty")
	}
	if cfg.Discord.SubmitRate < 0 {
		return fmt.Errorf("discord.submit_rate must be >= 0, got %v", cfg.Discord.SubmitRate)
	}
	if cfg.Discord.SubmitRate > 0 && cfg.Discord.SubmitBurst < 1 {
		return fmt.Errorf("discord.submit_burst must be >= 1 when submit_rate is set")
	}

	switch cfg.Storage.Type {
	case "file":
		if cfg.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for file storage")
		}
	case "mongo", "multi":
		if cfg.Storage.MongoURI == "" {
			return fmt.Errorf("storage.mongo_uri is required for %s storage", cfg.Storage.Type)
		}
		if cfg.Storage.Type == "multi" && cfg.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for multi storage")
		}
	default:
		return fmt.Errorf("storage.type %q is not supported (valid: file, mongo, multi)", cfg.Storage.Type)
	}

	if cfg.Server.Enabled {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("server.port must be 1-65535, got %d", cfg.Server.Port)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		return fmt.Errorf("metrics.path must not be empty when metrics are enabled")
	}

	return nil
}

// ValidateURL checks if a URL string looks like a post link.
// The extractor itself does not call this; navigation is allowed to fail naturally.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
