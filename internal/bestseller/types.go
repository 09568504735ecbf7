// Package bestseller defines core types shared across subsystems.
package bestseller

import "time"

// Book is one ranked entry within a category. Position is the 1-based rank
// derived from document order, never read from the page itself.
type Book struct {
	Position    int    `json:"position"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// Category is a named grouping of ranked books on one snapshot page, in the
// order the page presents them.
type Category struct {
	Name  string `json:"category"`
	Books []Book `json:"books"`
}

// WeekResult holds everything extracted from one weekly snapshot. Offset is
// the number of 7-day periods before the reference date.
type WeekResult struct {
	Offset     int        `json:"week"`
	Categories []Category `json:"data"`
}

// ResultSet collects the week results of one run, indexed by week offset.
// The index always matches WeekResult.Offset regardless of which worker
// finished first.
type ResultSet []WeekResult

// Document is a raw fetched page plus fetch metadata.
type Document struct {
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}
