package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// summaryTable wraps tablewriter with the house rendition: left-aligned,
// borderless, no wrapping.
type summaryTable struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
}

func newSummaryTable(w io.Writer) *summaryTable {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	return &summaryTable{
		table:  table,
		header: []string{"Week", "Categories", "Books"},
	}
}

func (t *summaryTable) append(row []string) {
	t.rows = append(t.rows, row)
}

func (t *summaryTable) render() {
	t.table.Header(t.header)
	t.table.Bulk(t.rows)
	t.table.Render()
}
