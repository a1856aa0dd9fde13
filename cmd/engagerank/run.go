package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/IshaanNene/engagerank/internal/api"
	"github.com/IshaanNene/engagerank/internal/bot"
	"github.com/IshaanNene/engagerank/internal/browser"
	"github.com/IshaanNene/engagerank/internal/config"
	"github.com/IshaanNene/engagerank/internal/extractor"
	"github.com/IshaanNene/engagerank/internal/observability"
	"github.com/IshaanNene/engagerank/internal/platform"
	"github.com/IshaanNene/engagerank/internal/storage"
)

// runCmd creates the "run" subcommand.
func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the Discord bot and keep-alive server",
		Long: `Connect to Discord and serve the submit and rankings commands.

Requires DISCORD_TOKEN and PASSWORD (from the environment, a .env file,
or the config file). The keep-alive server listens on PORT (default 8000).`,
		Args: cobra.NoArgs,
		RunE: runBot,
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg)

	if cfg.Discord.Token == "" {
		return fmt.Errorf("discord token is not set (DISCORD_TOKEN)")
	}
	if cfg.Discord.Password == "" {
		logger.Warn("rankings password is not set, the rankings command will deny every request")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics(logger)

	registry, err := platform.NewDefaultRegistry(cfg, logger)
	if err != nil {
		return fmt.Errorf("build platform registry: %w", err)
	}

	factory, err := browser.NewFactory(cfg.Browser, logger)
	if err != nil {
		return fmt.Errorf("create browser factory: %w", err)
	}

	store, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	defer store.Close()

	ext := extractor.New(registry, factory, logger,
		extractor.WithTimeout(cfg.Browser.PageLoadTimeout),
		extractor.WithMetrics(metrics),
	)

	opts := []bot.Option{bot.WithMetrics(metrics)}
	if cfg.Discord.SubmitRate > 0 {
		opts = append(opts, bot.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Discord.SubmitRate), cfg.Discord.SubmitBurst)))
	}
	handler := bot.NewHandler(ext, store, cfg.Discord.Password, cfg.Discord.Prefix, logger, opts...)

	discord, err := bot.New(cfg.Discord.Token, handler, logger)
	if err != nil {
		return err
	}

	logger.Info("starting engagerank",
		"version", config.Version,
		"driver", factory.Name(),
		"storage", store.Name(),
		"keep_alive", cfg.Server.Enabled,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return discord.Run(gctx) })
	if cfg.Server.Enabled {
		server := api.NewServer(cfg.Server, cfg.Metrics, metrics, registry, logger)
		g.Go(func() error { return server.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("engagerank stopped", "stats", metrics.Snapshot())
	return nil
}
