package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sinclairtarget/git-stats/internal/format"
	"github.com/sinclairtarget/git-stats/internal/pretty"
	"github.com/sinclairtarget/git-stats/internal/report"
	"github.com/sinclairtarget/git-stats/internal/stats"
)

func Title(r report.Report) string {
	title := fmt.Sprintf("Commits per author per %s", r.Period)
	if r.Path != "" {
		title += fmt.Sprintf(" (path '%s')", r.Path)
	}

	return title
}

func writeTable(w io.Writer, r report.Report, opts Opts) error {
	pretty.SetColorEnabled(opts.Color)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.SetTitle(Title(r))

	if caption := caption(opts); caption != "" {
		tbl.SetCaption(caption)
	}

	header := table.Row{"Author"}
	for _, label := range r.Header() {
		header = append(header, label)
	}
	tbl.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(header)-1)
	for i := 2; i <= len(header); i++ {
		configs = append(configs, table.ColumnConfig{
			Number:      i,
			Align:       text.AlignRight,
			AlignHeader: text.AlignRight,
		})
	}
	tbl.SetColumnConfigs(configs)

	for _, row := range r.Rows {
		if row.Kind == report.TotalRow {
			tbl.AppendSeparator()
		}

		tbl.AppendRow(tableRow(row, opts))
	}

	tbl.Render()
	return nil
}

func tableRow(row report.Row, opts Opts) table.Row {
	name := row.Name
	if opts.NameWidth > 0 {
		name = format.Abbrev(name, opts.NameWidth)
	}

	cells := make([]string, 0, len(row.Counts)+2)
	cells = append(cells, name)
	for _, count := range row.Counts {
		cells = append(cells, format.Number(count))
	}
	cells = append(cells, format.Number(row.Total))

	tr := make(table.Row, 0, len(cells))
	for _, cell := range cells {
		switch row.Kind {
		case report.OthersRow:
			cell = pretty.Dim(cell)
		case report.TotalRow:
			cell = pretty.Bold(cell)
		}

		tr = append(tr, cell)
	}

	return tr
}

// Lists the other periods and the author cutoff, like the period selector
// of the web view.
func caption(opts Opts) string {
	var parts []string

	if len(opts.EnabledPeriods) > 1 {
		var names []string
		for _, kind := range opts.EnabledPeriods {
			names = append(names, kind.Name())
		}

		parts = append(parts, "Period: "+strings.Join(names, ", "))
	}

	if opts.Top != 0 {
		parts = append(parts, "Authors: "+stats.FormatTop(opts.Top))
	}

	return strings.Join(parts, "  ")
}
