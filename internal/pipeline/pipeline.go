// Package pipeline coordinates the concurrent fetch-extract-aggregate run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bookpulse/bestseller-archive/internal/bestseller"
	"github.com/bookpulse/bestseller-archive/internal/metrics"
)

// Config controls one pipeline run.
type Config struct {
	// BaseURL is the landing page URL; weekly locators are derived from it.
	BaseURL string
	// Weeks is the number of historical snapshots to scrape (offsets 0..Weeks-1).
	Weeks int
	// PoolSize bounds the number of concurrently running week tasks.
	// Defaults to runtime.NumCPU().
	PoolSize int
}

// Pipeline owns the worker pool for a scrape run. The pool lives only for
// the duration of Run: workers are spawned on entry and have all returned
// by the time Run returns.
type Pipeline struct {
	fetcher   bestseller.Fetcher
	extractor bestseller.Extractor
	cfg       Config
	logger    *zap.Logger
}

// New constructs a Pipeline.
func New(fetcher bestseller.Fetcher, extractor bestseller.Extractor, cfg Config, logger *zap.Logger) *Pipeline {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	return &Pipeline{
		fetcher:   fetcher,
		extractor: extractor,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run fetches and extracts every week offset and returns the results
// ordered by offset, not by completion order. Tasks are independent: each
// writes only its own slot of the result slice. Any task failure makes the
// whole run fail with the first error observed; no partial ResultSet is
// returned. Dispatched tasks are not canceled by a sibling's failure.
func (p *Pipeline) Run(ctx context.Context, ref time.Time) (bestseller.ResultSet, error) {
	results := make(bestseller.ResultSet, p.cfg.Weeks)

	var g errgroup.Group
	g.SetLimit(p.cfg.PoolSize)
	for offset := 0; offset < p.cfg.Weeks; offset++ {
		g.Go(func() error {
			result, err := p.scrapeWeek(ctx, ref, offset)
			if err != nil {
				p.logger.Error("week scrape failed",
					zap.Int("week_offset", offset),
					zap.Error(err),
				)
				return fmt.Errorf("week %d: %w", offset, err)
			}
			results[offset] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) scrapeWeek(ctx context.Context, ref time.Time, offset int) (bestseller.WeekResult, error) {
	metrics.IncActiveWorkers()
	defer metrics.DecActiveWorkers()

	url := bestseller.BuildLocator(p.cfg.BaseURL, ref, offset)
	doc, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		var fetchErr *bestseller.FetchError
		if errors.As(err, &fetchErr) {
			metrics.ObserveFetch(fetchErr.StatusCode, 0)
		}
		return bestseller.WeekResult{}, err
	}
	metrics.ObserveFetch(doc.StatusCode, doc.Duration)
	p.logger.Debug("snapshot fetched",
		zap.Int("week_offset", offset),
		zap.String("url", url),
		zap.Duration("duration", doc.Duration),
	)

	categories, err := p.extractor.Extract(doc)
	if err != nil {
		return bestseller.WeekResult{}, err
	}
	return bestseller.WeekResult{Offset: offset, Categories: categories}, nil
}
