package bestseller

import (
	"context"
	"time"
)

// Fetcher retrieves a page locator and returns the raw document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Document, error)
}

// Extractor parses a fetched snapshot into ordered category records.
type Extractor interface {
	Extract(doc Document) ([]Category, error)
}

// ReferenceDateParser reads the "current" date off the landing page
// document.
type ReferenceDateParser interface {
	ParseReferenceDate(doc Document) (time.Time, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
