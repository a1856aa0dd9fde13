package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/engagerank/internal/browser"
	"github.com/IshaanNene/engagerank/internal/config"
	"github.com/IshaanNene/engagerank/internal/extractor"
	"github.com/IshaanNene/engagerank/internal/platform"
	"github.com/IshaanNene/engagerank/internal/ranking"
	"github.com/IshaanNene/engagerank/internal/storage"
	"github.com/IshaanNene/engagerank/internal/types"
)

var (
	extractHTML   string
	extractJSON   bool
	extractDriver string
)

// extractCmd creates the "extract" subcommand.
func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [url]",
		Short: "Read engagement counters for one post",
		Long: `Open the post in a headless browser and print its like, share, and
comment counts. With --html the page is read from a saved file instead.`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().StringVar(&extractHTML, "html", "", "read the page from a saved HTML file instead of a browser")
	cmd.Flags().BoolVar(&extractJSON, "json", false, "print the outcome as JSON")
	cmd.Flags().StringVar(&extractDriver, "driver", "", "browser driver override: rod, chromedp")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if extractDriver != "" {
		cfg.Browser.Driver = extractDriver
	}
	logger := setupLogger(cfg)
	rawURL := args[0]

	// Navigation is left to fail on its own; this is only a hint.
	if err := config.ValidateURL(rawURL); err != nil {
		logger.Warn("URL looks malformed, extracting anyway", "url", rawURL, "error", err)
	}

	registry, err := platform.NewDefaultRegistry(cfg, logger)
	if err != nil {
		return fmt.Errorf("build platform registry: %w", err)
	}

	var factory browser.Factory
	if extractHTML != "" {
		static := browser.NewStaticFactory(logger)
		if err := static.AddFile(rawURL, extractHTML); err != nil {
			return err
		}
		factory = static
	} else {
		factory, err = browser.NewFactory(cfg.Browser, logger)
		if err != nil {
			return fmt.Errorf("create browser factory: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ext := extractor.New(registry, factory, logger, extractor.WithTimeout(cfg.Browser.PageLoadTimeout))

	start := time.Now()
	outcome := ext.Extract(ctx, rawURL)
	elapsed := time.Since(start)

	if extractJSON {
		out := map[string]any{
			"url":        rawURL,
			"ok":         outcome.OK(),
			"elapsed_ms": elapsed.Milliseconds(),
		}
		if spec, ok := ext.Classify(rawURL); ok {
			out["platform"] = spec.Platform
		}
		if rec, ok := outcome.Record(); ok {
			out["metrics"] = rec
		} else {
			out["error"] = outcome.Reason()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		rec, ok := outcome.Record()
		if !ok {
			fmt.Printf("\n❌ Extraction failed in %s\n", elapsed.Round(time.Millisecond))
			fmt.Printf("   Reason:    %s\n", outcome.Reason())
		} else {
			fmt.Printf("\n✅ Extraction complete in %s\n", elapsed.Round(time.Millisecond))
			spec, _ := ext.Classify(rawURL)
			for _, c := range types.Counters {
				line := fmt.Sprintf("   %-10s %d", counterLabels[c], rec.Get(c))
				if cs, found := spec.Counter(c); found && !cs.Supported {
					line += fmt.Sprintf(" (not exposed by %s)", spec.Name)
				}
				fmt.Println(line)
			}
		}
	}

	if !outcome.OK() {
		return fmt.Errorf("extraction failed: %s", outcome.Reason())
	}
	return nil
}

// rankingsCmd prints the leaderboard from the configured store.
func rankingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rankings",
		Short: "Print the leaderboard from stored submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg)

			ctx := context.Background()
			store, err := storage.New(ctx, cfg.Storage, logger)
			if err != nil {
				return fmt.Errorf("create storage: %w", err)
			}
			defer store.Close()

			subs, err := store.All(ctx)
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				fmt.Println("No data available yet.")
				return nil
			}
			fmt.Print(ranking.Format(ranking.Rank(subs)))
			return nil
		},
	}
}

var counterLabels = map[types.Counter]string{
	types.Likes:    "Likes:",
	types.Shares:   "Shares:",
	types.Comments: "Comments:",
}
