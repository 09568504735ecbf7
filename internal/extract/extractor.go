// Package extract turns fetched best-seller pages into structured records
// using goquery.
package extract

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/bookpulse/bestseller-archive/internal/bestseller"
)

// referenceDateLayout matches the long-form date on the landing page,
// e.g. "October 15, 2023".
const referenceDateLayout = "January 2, 2006"

// Extractor parses best-seller documents. It is stateless and safe for
// concurrent use.
type Extractor struct {
	markers Markers
}

// New builds an Extractor bound to the given structural markers.
func New(markers Markers) *Extractor {
	return &Extractor{markers: markers}
}

// Extract parses one weekly snapshot into its ordered category records.
// A missing container, heading, or book field aborts the whole document
// with a *bestseller.ParseError; there is no partial result.
func (e *Extractor) Extract(doc bestseller.Document) ([]bestseller.Category, error) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(doc.Body))
	if err != nil {
		return nil, &bestseller.ParseError{Reason: fmt.Sprintf("read document: %v", err)}
	}

	container := root.Find(e.markers.ContainerSelector).First()
	if container.Length() == 0 {
		return nil, &bestseller.ParseError{Reason: "best-seller container not found"}
	}

	var (
		categories []bestseller.Category
		walkErr    error
	)
	container.Find(e.markers.CategorySelector).EachWithBreak(func(_ int, block *goquery.Selection) bool {
		category, err := e.extractCategory(block)
		if err != nil {
			walkErr = err
			return false
		}
		categories = append(categories, category)
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return categories, nil
}

// ParseReferenceDate reads the current publication date off the landing
// page document.
func (e *Extractor) ParseReferenceDate(doc bestseller.Document) (time.Time, error) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(doc.Body))
	if err != nil {
		return time.Time{}, &bestseller.ParseError{Reason: fmt.Sprintf("read document: %v", err)}
	}

	el := root.Find(e.markers.DateSelector).First()
	if el.Length() == 0 {
		return time.Time{}, &bestseller.ParseError{Reason: "reference date element not found"}
	}

	text := strings.TrimSpace(el.Text())
	ref, err := time.Parse(referenceDateLayout, text)
	if err != nil {
		return time.Time{}, &bestseller.ParseError{
			Reason: fmt.Sprintf("reference date %q does not match %q", text, referenceDateLayout),
		}
	}
	return ref.UTC(), nil
}

func (e *Extractor) extractCategory(block *goquery.Selection) (bestseller.Category, error) {
	heading := block.Find(e.markers.HeadingSelector).First()
	if heading.Length() == 0 {
		return bestseller.Category{}, &bestseller.ParseError{Reason: "category heading not found"}
	}
	category := bestseller.Category{Name: heading.Text()}

	var walkErr error
	block.Find(e.markers.ItemSelector).EachWithBreak(func(i int, item *goquery.Selection) bool {
		// Rank is the 1-based ordinal among sibling items, never read
		// from the page.
		book, err := e.extractBook(item, i+1)
		if err != nil {
			walkErr = err
			return false
		}
		category.Books = append(category.Books, book)
		return true
	})
	if walkErr != nil {
		return bestseller.Category{}, walkErr
	}
	return category, nil
}

func (e *Extractor) extractBook(item *goquery.Selection, position int) (bestseller.Book, error) {
	title := item.Find(e.markers.TitleSelector).First()
	if title.Length() == 0 {
		return bestseller.Book{}, &bestseller.ParseError{Reason: "book title not found"}
	}
	description := item.Find(e.markers.DescriptionSelector).First()
	if description.Length() == 0 {
		return bestseller.Book{}, &bestseller.ParseError{Reason: "book description not found"}
	}
	image, ok := item.Find(e.markers.ImageSelector).First().Attr("src")
	if !ok {
		return bestseller.Book{}, &bestseller.ParseError{Reason: "book image not found"}
	}

	return bestseller.Book{
		Position:    position,
		Title:       strings.TrimSpace(title.Text()),
		Description: strings.TrimSpace(description.Text()),
		ImageURL:    image,
	}, nil
}
