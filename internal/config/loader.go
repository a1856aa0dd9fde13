package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and .env.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("ENGAGERANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy variable names from older deployments.
	_ = v.BindEnv("discord.token", "ENGAGERANK_DISCORD_TOKEN", "DISCORD_TOKEN")
	_ = v.BindEnv("discord.password", "ENGAGERANK_DISCORD_PASSWORD", "PASSWORD")
	_ = v.BindEnv("server.port", "ENGAGERANK_SERVER_PORT", "PORT")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("engagerank")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".engagerank"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is okay if not explicitly specified
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Platforms == nil {
		cfg.Platforms = map[string]PlatformConfig{}
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("browser.driver", cfg.Browser.Driver)
	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.bin", cfg.Browser.Bin)
	v.SetDefault("browser.page_load_timeout", cfg.Browser.PageLoadTimeout)
	v.SetDefault("browser.counter_wait", cfg.Browser.CounterWait)
	v.SetDefault("browser.stable_wait", cfg.Browser.StableWait)
	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.user_agent", cfg.Browser.UserAgent)
	v.SetDefault("browser.window_width", cfg.Browser.WindowWidth)
	v.SetDefault("browser.window_height", cfg.Browser.WindowHeight)
	v.SetDefault("browser.no_sandbox", cfg.Browser.NoSandbox)

	v.SetDefault("discord.token", cfg.Discord.Token)
	v.SetDefault("discord.password", cfg.Discord.Password)
	v.SetDefault("discord.prefix", cfg.Discord.Prefix)
	v.SetDefault("discord.submit_rate", cfg.Discord.SubmitRate)
	v.SetDefault("discord.submit_burst", cfg.Discord.SubmitBurst)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.mongo_uri", cfg.Storage.MongoURI)
	v.SetDefault("storage.mongo_database", cfg.Storage.MongoDatabase)
	v.SetDefault("storage.mongo_collection", cfg.Storage.MongoCollection)

	v.SetDefault("server.enabled", cfg.Server.Enabled)
	v.SetDefault("server.port", cfg.Server.Port)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
