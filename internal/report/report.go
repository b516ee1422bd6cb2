// Tabular commit statistics ready to hand to a renderer.
package report

import (
	"time"

	"github.com/sinclairtarget/git-stats/internal/period"
	"github.com/sinclairtarget/git-stats/internal/tally"
)

type RowKind string

const (
	AuthorRow RowKind = "author"
	OthersRow RowKind = "others"
	TotalRow  RowKind = "total"
)

// One line of the table. Counts line up with Report.Columns.
type Row struct {
	Name   string  `json:"name" yaml:"name"`
	Kind   RowKind `json:"kind" yaml:"kind"`
	Counts []int   `json:"counts" yaml:"counts"`
	Total  int     `json:"total" yaml:"total"`
}

type Report struct {
	Period  string    `json:"period" yaml:"period"`
	Ref     string    `json:"ref" yaml:"ref"`
	Path    string    `json:"path,omitempty" yaml:"path,omitempty"`
	Start   time.Time `json:"start" yaml:"start"`
	Columns []string  `json:"columns" yaml:"columns"`
	Rows    []Row     `json:"rows" yaml:"rows"`
}

// Column headings, including the trailing "Total".
func (r Report) Header() []string {
	header := make([]string, 0, len(r.Columns)+1)
	header = append(header, r.Columns...)
	return append(header, tally.TotalName)
}

// Labels of the count periods in the window beginning at start, oldest first.
func ColumnLabels(kind period.Kind, start time.Time, count int) []string {
	labels := make([]string, 0, count)

	date := kind.Truncate(start)
	for range count {
		labels = append(labels, kind.Label(date))
		date = kind.Increment(date)
	}

	return labels
}

// Lays out a tally against the given columns.
//
// Counts for labels not among the columns are dropped, so Total is the sum
// of Counts. For tallies built over the same window it equals t.Commits.
func BuildRow(t tally.AuthorTally, kind RowKind, columns []string) Row {
	row := Row{
		Name:   t.Author,
		Kind:   kind,
		Counts: make([]int, len(columns)),
	}

	for i, label := range columns {
		count := t.Count(label)
		row.Counts[i] = count
		row.Total += count
	}

	return row
}

// Rows are the displayed authors in the order given, then others if present,
// then total.
func Build(
	columns []string,
	displayed []tally.AuthorTally,
	others *tally.AuthorTally,
	total tally.AuthorTally,
) Report {
	rows := make([]Row, 0, len(displayed)+2)
	for _, t := range displayed {
		rows = append(rows, BuildRow(t, AuthorRow, columns))
	}

	if others != nil {
		rows = append(rows, BuildRow(*others, OthersRow, columns))
	}

	rows = append(rows, BuildRow(total, TotalRow, columns))

	return Report{
		Columns: columns,
		Rows:    rows,
	}
}
