package extract

// Markers holds every structural selector the extractor depends on. The
// selectors are an external contract with the source site: when the site
// ships new markup, this is the only place that changes.
type Markers struct {
	// DateSelector matches the single element on the landing page that
	// carries the current publication date.
	DateSelector string
	// ContainerSelector matches the top-level element scoping one week's
	// listing. Only the first match is used.
	ContainerSelector string
	// CategorySelector matches one category block inside the container.
	CategorySelector string
	// HeadingSelector matches the category name element inside a
	// category block.
	HeadingSelector string
	// ItemSelector matches one ranked book inside a category block.
	ItemSelector string
	// TitleSelector, DescriptionSelector, and ImageSelector match the
	// book fields inside an item block.
	TitleSelector       string
	DescriptionSelector string
	ImageSelector       string
}

// DefaultMarkers returns the selectors for the markup the site serves today.
func DefaultMarkers() Markers {
	return Markers{
		DateSelector:        "time.css-6068ga",
		ContainerSelector:   "[itemscope]",
		CategorySelector:    "div.css-v2kl5d",
		HeadingSelector:     "h2",
		ItemSelector:        "li.css-1mr03gh",
		TitleSelector:       "h3.css-i1z3c1",
		DescriptionSelector: "p.css-5yxv3r",
		ImageSelector:       "img",
	}
}
