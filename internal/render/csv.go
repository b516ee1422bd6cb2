package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/sinclairtarget/git-stats/internal/report"
)

func writeCSV(w io.Writer, r report.Report) error {
	cw := csv.NewWriter(w)

	header := append([]string{"author"}, r.Header()...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range r.Rows {
		record := make([]string, 0, len(row.Counts)+2)
		record = append(record, row.Name)
		for _, count := range row.Counts {
			record = append(record, strconv.Itoa(count))
		}
		record = append(record, strconv.Itoa(row.Total))

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
