package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookpulse/bestseller-archive/internal/bestseller"
)

// fakeFetcher serves canned documents keyed by URL and records every
// request it sees.
type fakeFetcher struct {
	mu        sync.Mutex
	requested []string
	responses map[string]bestseller.Document
	errs      map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (bestseller.Document, error) {
	f.mu.Lock()
	f.requested = append(f.requested, url)
	f.mu.Unlock()

	if err, ok := f.errs[url]; ok {
		return bestseller.Document{}, err
	}
	if doc, ok := f.responses[url]; ok {
		return doc, nil
	}
	return bestseller.Document{URL: url, StatusCode: http.StatusOK, Body: []byte(url)}, nil
}

// fakeExtractor derives one single-book category from the document URL so
// results are distinguishable per week.
type fakeExtractor struct{}

func (fakeExtractor) Extract(doc bestseller.Document) ([]bestseller.Category, error) {
	return []bestseller.Category{{
		Name: "Hardcover Fiction",
		Books: []bestseller.Book{
			{Position: 1, Title: doc.URL, Description: "d", ImageURL: "i"},
		},
	}}, nil
}

type failingExtractor struct {
	failURL string
}

func (e failingExtractor) Extract(doc bestseller.Document) ([]bestseller.Category, error) {
	if doc.URL == e.failURL {
		return nil, &bestseller.ParseError{Reason: "best-seller container not found"}
	}
	return fakeExtractor{}.Extract(doc)
}

var testRef = time.Date(2023, time.October, 15, 0, 0, 0, 0, time.UTC)

const testBase = "https://example.com/best-sellers"

func TestRunOrdersResultsByOffset(t *testing.T) {
	t.Parallel()

	p := New(&fakeFetcher{}, fakeExtractor{}, Config{BaseURL: testBase, Weeks: 8, PoolSize: 4}, zap.NewNop())
	results, err := p.Run(context.Background(), testRef)
	require.NoError(t, err)
	require.Len(t, results, 8)

	for offset, result := range results {
		require.Equal(t, offset, result.Offset)
		wantURL := bestseller.BuildLocator(testBase, testRef, offset)
		require.Equal(t, wantURL, result.Categories[0].Books[0].Title)
	}
}

func TestRunPoolSizeDoesNotAffectOutput(t *testing.T) {
	t.Parallel()

	cfgSerial := Config{BaseURL: testBase, Weeks: 3, PoolSize: 1}
	cfgParallel := Config{BaseURL: testBase, Weeks: 3, PoolSize: 3}

	serial, err := New(&fakeFetcher{}, fakeExtractor{}, cfgSerial, nil).Run(context.Background(), testRef)
	require.NoError(t, err)
	parallel, err := New(&fakeFetcher{}, fakeExtractor{}, cfgParallel, nil).Run(context.Background(), testRef)
	require.NoError(t, err)

	require.Equal(t, serial, parallel)
}

func TestRunFetchFailureFailsWholeRun(t *testing.T) {
	t.Parallel()

	badURL := bestseller.BuildLocator(testBase, testRef, 2)
	fetcher := &fakeFetcher{
		errs: map[string]error{
			badURL: &bestseller.FetchError{URL: badURL, StatusCode: http.StatusServiceUnavailable, Body: "down"},
		},
	}

	p := New(fetcher, fakeExtractor{}, Config{BaseURL: testBase, Weeks: 5, PoolSize: 2}, zap.NewNop())
	results, err := p.Run(context.Background(), testRef)
	require.Nil(t, results, "no partial ResultSet on failure")

	var fetchErr *bestseller.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
	require.ErrorContains(t, err, "week 2")
}

func TestRunExtractFailureFailsWholeRun(t *testing.T) {
	t.Parallel()

	badURL := bestseller.BuildLocator(testBase, testRef, 0)
	p := New(&fakeFetcher{}, failingExtractor{failURL: badURL}, Config{BaseURL: testBase, Weeks: 3, PoolSize: 3}, zap.NewNop())

	results, err := p.Run(context.Background(), testRef)
	require.Nil(t, results)

	var parseErr *bestseller.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestRunRespectsPoolSize(t *testing.T) {
	t.Parallel()

	var active, peak atomic.Int32
	fetcher := fetcherFunc(func(_ context.Context, url string) (bestseller.Document, error) {
		cur := active.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		return bestseller.Document{URL: url, StatusCode: http.StatusOK}, nil
	})

	p := New(fetcher, fakeExtractor{}, Config{BaseURL: testBase, Weeks: 12, PoolSize: 3}, zap.NewNop())
	_, err := p.Run(context.Background(), testRef)
	require.NoError(t, err)
	require.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRunFetchesEveryOffsetExactlyOnce(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	p := New(fetcher, fakeExtractor{}, Config{BaseURL: testBase, Weeks: 6, PoolSize: 2}, zap.NewNop())
	_, err := p.Run(context.Background(), testRef)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, url := range fetcher.requested {
		seen[url]++
	}
	require.Len(t, seen, 6)
	for offset := 0; offset < 6; offset++ {
		url := bestseller.BuildLocator(testBase, testRef, offset)
		require.Equal(t, 1, seen[url], "url %s", url)
	}
}

func TestNewDefaultsPoolSize(t *testing.T) {
	t.Parallel()

	p := New(&fakeFetcher{}, fakeExtractor{}, Config{BaseURL: testBase, Weeks: 1}, nil)
	require.Positive(t, p.cfg.PoolSize)
}

type fetcherFunc func(ctx context.Context, url string) (bestseller.Document, error)

func (f fetcherFunc) Fetch(ctx context.Context, url string) (bestseller.Document, error) {
	return f(ctx, url)
}

func ExamplePipeline_Run() {
	p := New(&fakeFetcher{}, fakeExtractor{}, Config{BaseURL: testBase, Weeks: 2, PoolSize: 1}, zap.NewNop())
	results, _ := p.Run(context.Background(), testRef)
	for _, r := range results {
		fmt.Println(r.Offset, r.Categories[0].Name)
	}
	// Output:
	// 0 Hardcover Fiction
	// 1 Hardcover Fiction
}
