// Package output renders scrape results for the terminal.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/bookpulse/bestseller-archive/internal/bestseller"
)

// Printer writes the per-week listings and the run summary.
type Printer struct {
	out       io.Writer
	useColors bool

	week     func(a ...any) string
	category func(a ...any) string
}

// NewPrinter constructs a Printer. Colors are skipped entirely when
// useColors is false, so output stays clean under redirection.
func NewPrinter(out io.Writer, useColors bool) *Printer {
	plain := fmt.Sprint
	p := &Printer{out: out, useColors: useColors, week: plain, category: plain}
	if useColors {
		p.week = color.New(color.FgYellow, color.Bold).SprintFunc()
		p.category = color.New(color.FgCyan).SprintFunc()
	}
	return p
}

// PrintResultSet writes every week, category, and ranked book in result
// order.
func (p *Printer) PrintResultSet(results bestseller.ResultSet) {
	for _, week := range results {
		fmt.Fprintln(p.out, p.week(fmt.Sprintf("week %d", week.Offset)))
		for _, category := range week.Categories {
			fmt.Fprintf(p.out, "  %s\n", p.category(category.Name))
			for _, book := range category.Books {
				fmt.Fprintf(p.out, "    %2d. %s\n", book.Position, book.Title)
				if book.Description != "" {
					fmt.Fprintf(p.out, "        %s\n", book.Description)
				}
			}
		}
	}
}

// PrintSummary writes a per-week table followed by run totals and the
// elapsed wall-clock time of the fetch+parse phase.
func (p *Printer) PrintSummary(results bestseller.ResultSet, elapsed time.Duration) {
	table := newSummaryTable(p.out)

	var totalCategories, totalBooks int
	for _, week := range results {
		books := 0
		for _, category := range week.Categories {
			books += len(category.Books)
		}
		totalCategories += len(week.Categories)
		totalBooks += books
		table.append([]string{
			fmt.Sprintf("%d", week.Offset),
			fmt.Sprintf("%d", len(week.Categories)),
			fmt.Sprintf("%d", books),
		})
	}
	table.render()

	fmt.Fprintf(p.out, "\n%d weeks, %d categories, %d books in %s\n",
		len(results), totalCategories, totalBooks, elapsed.Round(time.Millisecond))
}
