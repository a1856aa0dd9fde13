package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/engagerank/internal/config"
	"github.com/IshaanNene/engagerank/internal/platform"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "engagerank",
		Short: "EngageRank: social post engagement leaderboard bot",
		Long: `EngageRank reads like, share, and comment counts from public social posts
(X, Threads, YouTube, TikTok, Instagram) with a headless browser, stores them
per user, and ranks users by likes through a Discord bot.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(rankingsCmd())
	rootCmd.AddCommand(platformsCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("EngageRank %s\n", config.Version)
		},
	}
}

// platformsCmd lists the supported platforms and their counters.
func platformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported platforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			registry, err := platform.NewDefaultRegistry(cfg, setupLogger(cfg))
			if err != nil {
				return err
			}

			for _, spec := range registry.Specs() {
				fmt.Printf("%s (%s)\n", spec.Name, spec.Platform)
				fmt.Printf("  Domains:   %s\n", strings.Join(spec.Domains, ", "))
				fmt.Printf("  Wait:      %s\n", spec.Wait)
				for _, cs := range spec.Counters {
					if cs.Supported {
						fmt.Printf("  %-10s %s\n", cs.Counter+":", cs.Locator)
					} else {
						fmt.Printf("  %-10s unsupported (always 0)\n", cs.Counter+":")
					}
				}
			}
			return nil
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Browser:\n")
			fmt.Printf("  Driver:            %s\n", cfg.Browser.Driver)
			fmt.Printf("  Headless:          %v\n", cfg.Browser.Headless)
			fmt.Printf("  Stealth:           %v\n", cfg.Browser.Stealth)
			fmt.Printf("  Page Load Timeout: %s\n", cfg.Browser.PageLoadTimeout)
			fmt.Printf("  Counter Wait:      %s\n", cfg.Browser.CounterWait)
			fmt.Printf("\nDiscord:\n")
			fmt.Printf("  Token:             %s\n", mask(cfg.Discord.Token))
			fmt.Printf("  Password:          %s\n", mask(cfg.Discord.Password))
			fmt.Printf("  Prefix:            %s\n", cfg.Discord.Prefix)
			fmt.Printf("  Submit Rate:       %v/s (burst %d)\n", cfg.Discord.SubmitRate, cfg.Discord.SubmitBurst)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Path:              %s\n", cfg.Storage.Path)
			if cfg.Storage.Type != "file" {
				fmt.Printf("  Mongo Database:    %s\n", cfg.Storage.MongoDatabase)
				fmt.Printf("  Mongo Collection:  %s\n", cfg.Storage.MongoCollection)
			}
			fmt.Printf("\nServer:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Server.Enabled)
			fmt.Printf("  Port:              %d\n", cfg.Server.Port)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Path:              %s\n", cfg.Metrics.Path)
			if len(cfg.Platforms) > 0 {
				fmt.Printf("\nPlatform Overrides:\n")
				for name, pc := range cfg.Platforms {
					fmt.Printf("  %-10s wait=%s disabled=%v\n", name, pc.CounterWait, pc.DisabledCounters)
				}
			}
			return nil
		},
	}
}

func mask(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return "********"
}

// setupLogger creates a structured logger from config and flags.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
