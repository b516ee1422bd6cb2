package render

import (
	"encoding/json"
	"io"

	"github.com/sinclairtarget/git-stats/internal/report"
)

func writeJSON(w io.Writer, r report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
