package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Browser.PageLoadTimeout != 30*time.Second {
		t.Errorf("PageLoadTimeout = %s", cfg.Browser.PageLoadTimeout)
	}
	if cfg.Storage.Path != "engagement_data.txt" {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engagerank.yaml")
	content := `
browser:
  driver: chromedp
  counter_wait: 5s
platforms:
  instagram:
    counter_wait: 2s
    disabled_counters: [likes]
discord:
  prefix: "?"
storage:
  path: data/subs.txt
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Browser.Driver != "chromedp" {
		t.Errorf("Driver = %q", cfg.Browser.Driver)
	}
	if cfg.Browser.CounterWait != 5*time.Second {
		t.Errorf("CounterWait = %s", cfg.Browser.CounterWait)
	}
	if cfg.Browser.PageLoadTimeout != 30*time.Second {
		t.Errorf("PageLoadTimeout default lost: %s", cfg.Browser.PageLoadTimeout)
	}
	ig, ok := cfg.Platforms["instagram"]
	if !ok {
		t.Fatal("instagram override missing")
	}
	if ig.CounterWait != 2*time.Second || len(ig.DisabledCounters) != 1 || ig.DisabledCounters[0] != "likes" {
		t.Errorf("instagram override = %+v", ig)
	}
	if cfg.Discord.Prefix != "?" {
		t.Errorf("Prefix = %q", cfg.Discord.Prefix)
	}
	if cfg.Storage.Path != "data/subs.txt" || cfg.Storage.Type != "file" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("PASSWORD", "secret")
	t.Setenv("PORT", "9001")
	t.Setenv("ENGAGERANK_BROWSER_DRIVER", "chromedp")

	path := filepath.Join(t.TempDir(), "engagerank.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Discord.Token != "tok" || cfg.Discord.Password != "secret" {
		t.Errorf("Discord = %+v", cfg.Discord)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("env should override file port, got %d", cfg.Server.Port)
	}
	if cfg.Browser.Driver != "chromedp" {
		t.Errorf("Driver = %q", cfg.Browser.Driver)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"driver", func(c *Config) { c.Browser.Driver = "selenium" }, "browser.driver"},
		{"timeout", func(c *Config) { c.Browser.PageLoadTimeout = 0 }, "page_load_timeout"},
		{"wait exceeds timeout", func(c *Config) { c.Browser.CounterWait = time.Minute }, "must not exceed"},
		{"platform counter", func(c *Config) {
			c.Platforms["x"] = PlatformConfig{DisabledCounters: []string{"views"}}
		}, "platforms.x"},
		{"prefix", func(c *Config) { c.Discord.Prefix = "" }, "discord.prefix"},
		{"burst", func(c *Config) { c.Discord.SubmitBurst = 0 }, "submit_burst"},
		{"storage type", func(c *Config) { c.Storage.Type = "sqlite" }, "storage.type"},
		{"mongo uri", func(c *Config) { c.Storage.Type = "mongo" }, "mongo_uri"},
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://x.com/a/status/1"); err != nil {
		t.Errorf("valid URL rejected: %v", err)
	}
	for _, bad := range []string{"ftp://x.com/a", "x.com/a", "https://"} {
		if err := ValidateURL(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
