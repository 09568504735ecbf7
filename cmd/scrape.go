package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bookpulse/bestseller-archive/internal/api"
	"github.com/bookpulse/bestseller-archive/internal/bestseller"
	"github.com/bookpulse/bestseller-archive/internal/clock/system"
	"github.com/bookpulse/bestseller-archive/internal/config"
	"github.com/bookpulse/bestseller-archive/internal/extract"
	collyfetcher "github.com/bookpulse/bestseller-archive/internal/fetcher/colly"
	"github.com/bookpulse/bestseller-archive/internal/fetcher/headless"
	"github.com/bookpulse/bestseller-archive/internal/id/uuid"
	"github.com/bookpulse/bestseller-archive/internal/logging"
	"github.com/bookpulse/bestseller-archive/internal/metrics"
	"github.com/bookpulse/bestseller-archive/internal/output"
	"github.com/bookpulse/bestseller-archive/internal/pipeline"
)

// newScrapeCmd creates and configures the 'scrape' subcommand.
func newScrapeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the historical best-seller archive",
		Long: `Resolves the current publication date, then fetches and extracts
every weekly snapshot in the configured window concurrently. The run fails
on the first fetch or parse error; no partial results are produced.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.Int("weeks", 105, "number of weekly snapshots to scrape")
	flags.Int("pool-size", 0, "worker pool size (0 means number of CPUs)")
	flags.String("base-url", "https://www.nytimes.com/books/best-sellers", "best-sellers landing page URL")
	flags.Int("timeout", 5, "per-fetch timeout in seconds")

	_ = v.BindPFlag("crawler.weeks", flags.Lookup("weeks"))
	_ = v.BindPFlag("crawler.pool_size", flags.Lookup("pool-size"))
	_ = v.BindPFlag("crawler.base_url", flags.Lookup("base-url"))
	_ = v.BindPFlag("fetcher.timeout_seconds", flags.Lookup("timeout"))

	return cmd
}

func runScrape(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	runID, err := uuid.NewGenerator().NewID()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}
	logger = logger.With(zap.String("run_id", runID))

	metrics.Init()

	fetcher, cleanup, err := buildFetcher(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Ops.Enabled {
		ops := api.NewServer(cfg.Ops.Addr, logger)
		go ops.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := ops.Shutdown(shutdownCtx); err != nil {
				logger.Warn("ops server shutdown failed", zap.Error(err))
			}
		}()
	}

	ctx := cmd.Context()
	extractor := extract.New(extract.DefaultMarkers())

	resolver := pipeline.NewResolver(fetcher, extractor, cfg.Crawler.BaseURL, logger)
	ref, err := resolver.ResolveReferenceDate(ctx)
	if err != nil {
		metrics.ObserveRun("failed")
		return err
	}

	pipe := pipeline.New(fetcher, extractor, pipeline.Config{
		BaseURL:  cfg.Crawler.BaseURL,
		Weeks:    cfg.Crawler.Weeks,
		PoolSize: cfg.Crawler.PoolSize,
	}, logger)

	// Elapsed time covers the fetch+parse phase only, not date resolution.
	clk := system.New()
	start := clk.Now()
	results, err := pipe.Run(ctx, ref)
	elapsed := clk.Now().Sub(start)
	if err != nil {
		metrics.ObserveRun("failed")
		return fmt.Errorf("scrape run: %w", err)
	}
	metrics.ObserveRun("succeeded")

	printer := output.NewPrinter(cmd.OutOrStdout(), !color.NoColor)
	printer.PrintResultSet(results)
	printer.PrintSummary(results, elapsed)

	logger.Info("scrape run finished",
		zap.Int("weeks", len(results)),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

func buildFetcher(cfg config.Config) (bestseller.Fetcher, func(), error) {
	switch cfg.Fetcher.Mode {
	case config.FetcherModeHeadless:
		f, err := headless.NewChromedp(headless.Config{
			MaxParallel:       cfg.Fetcher.HeadlessMaxParallel,
			UserAgent:         cfg.Fetcher.UserAgent,
			NavigationTimeout: cfg.Fetcher.Timeout(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init headless fetcher: %w", err)
		}
		return f, f.Close, nil
	default:
		f := collyfetcher.New(collyfetcher.Config{
			UserAgent: cfg.Fetcher.UserAgent,
			Timeout:   cfg.Fetcher.Timeout(),
		})
		return f, func() {}, nil
	}
}
