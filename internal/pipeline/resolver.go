package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bookpulse/bestseller-archive/internal/bestseller"
)

// Resolver fetches the landing page once per run and extracts the
// reference date that anchors all week offsets.
type Resolver struct {
	fetcher    bestseller.Fetcher
	dateParser bestseller.ReferenceDateParser
	landingURL string
	logger     *zap.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(
	fetcher bestseller.Fetcher,
	dateParser bestseller.ReferenceDateParser,
	landingURL string,
	logger *zap.Logger,
) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		fetcher:    fetcher,
		dateParser: dateParser,
		landingURL: landingURL,
		logger:     logger,
	}
}

// ResolveReferenceDate performs one GET of the landing page and parses the
// displayed publication date. The first failure is terminal for the run:
// there are no retries.
func (r *Resolver) ResolveReferenceDate(ctx context.Context) (time.Time, error) {
	doc, err := r.fetcher.Fetch(ctx, r.landingURL)
	if err != nil {
		return time.Time{}, fmt.Errorf("fetch landing page: %w", err)
	}

	ref, err := r.dateParser.ParseReferenceDate(doc)
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve reference date: %w", err)
	}
	r.logger.Info("reference date resolved",
		zap.String("url", r.landingURL),
		zap.Time("reference_date", ref),
	)
	return ref, nil
}
