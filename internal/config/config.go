package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for EngageRank.
type Config struct {
	Browser   BrowserConfig             `mapstructure:"browser"   yaml:"browser"`
	Platforms map[string]PlatformConfig `mapstructure:"platforms" yaml:"platforms"`
	Discord   DiscordConfig             `mapstructure:"discord"   yaml:"discord"`
	Storage   StorageConfig             `mapstructure:"storage"   yaml:"storage"`
	Server    ServerConfig              `mapstructure:"server"    yaml:"server"`
	Logging   LoggingConfig             `mapstructure:"logging"   yaml:"logging"`
	Metrics   MetricsConfig             `mapstructure:"metrics"   yaml:"metrics"`
}

// BrowserConfig controls the headless browser used for extraction.
type BrowserConfig struct {
	Driver          string        `mapstructure:"driver"            yaml:"driver"` // rod, chromedp
	Headless        bool          `mapstructure:"headless"          yaml:"headless"`
	Bin             string        `mapstructure:"bin"               yaml:"bin"`
	PageLoadTimeout time.Duration `mapstructure:"page_load_timeout" yaml:"page_load_timeout"`
	CounterWait     time.Duration `mapstructure:"counter_wait"      yaml:"counter_wait"`
	StableWait      time.Duration `mapstructure:"stable_wait"       yaml:"stable_wait"`
	Stealth         bool          `mapstructure:"stealth"           yaml:"stealth"`
	UserAgent       string        `mapstructure:"user_agent"        yaml:"user_agent"`
	WindowWidth     int           `mapstructure:"window_width"      yaml:"window_width"`
	WindowHeight    int           `mapstructure:"window_height"     yaml:"window_height"`
	NoSandbox       bool          `mapstructure:"no_sandbox"        yaml:"no_sandbox"`
}

// PlatformConfig overrides the built-in adapter for one platform.
type PlatformConfig struct {
	CounterWait      time.Duration `mapstructure:"counter_wait"      yaml:"counter_wait"`
	DisabledCounters []string      `mapstructure:"disabled_counters" yaml:"disabled_counters"`
}

// DiscordConfig controls the chat bot.
type DiscordConfig struct {
	Token       string  `mapstructure:"token"        yaml:"token"`
	Password    string  `mapstructure:"password"     yaml:"password"`
	Prefix      string  `mapstructure:"prefix"       yaml:"prefix"`
	SubmitRate  float64 `mapstructure:"submit_rate"  yaml:"submit_rate"` // submissions per second, 0 = unlimited
	SubmitBurst int     `mapstructure:"submit_burst" yaml:"submit_burst"`
}

// StorageConfig controls where submissions are kept.
type StorageConfig struct {
	Type            string `mapstructure:"type"             yaml:"type"` // file, mongo, multi
	Path            string `mapstructure:"path"             yaml:"path"`
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// ServerConfig controls the keep-alive HTTP listener.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port"    yaml:"port"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint on the keep-alive server.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Driver:          "rod",
			Headless:        true,
			PageLoadTimeout: 30 * time.Second,
			CounterWait:     10 * time.Second,
			StableWait:      300 * time.Millisecond,
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			WindowWidth:     1366,
			WindowHeight:    900,
			NoSandbox:       true,
		},
		Platforms: map[string]PlatformConfig{},
		Discord: DiscordConfig{
			Prefix:      "!",
			SubmitRate:  0.5,
			SubmitBurst: 2,
		},
		Storage: StorageConfig{
			Type:            "file",
			Path:            "engagement_data.txt",
			MongoDatabase:   "engagerank",
			MongoCollection: "submissions",
		},
		Server: ServerConfig{
			Enabled: true,
			Port:    8000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
