// Writes a report in one of several output formats.
package render

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/sinclairtarget/git-stats/internal/period"
	"github.com/sinclairtarget/git-stats/internal/report"
)

var ErrUnknownFormat = errors.New("unknown output format")

type Format string

const (
	Table Format = "table"
	CSV   Format = "csv"
	JSON  Format = "json"
	YAML  Format = "yaml"
)

var Formats = []Format{Table, CSV, JSON, YAML}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Only used by the table format.
type Opts struct {
	Color          bool
	Top            int           // Author cutoff, shown in the caption
	EnabledPeriods []period.Kind // Shown in the caption when more than one
	NameWidth      int           // Zero means no limit
}

func Write(w io.Writer, f Format, r report.Report, opts Opts) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error writing %s output: %w", f, err)
		}
	}()

	logger().Debug("rendering report", "format", f, "rows", len(r.Rows))

	switch f {
	case Table:
		return writeTable(w, r, opts)
	case CSV:
		return writeCSV(w, r)
	case JSON:
		return writeJSON(w, r)
	case YAML:
		return writeYAML(w, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

var logger = sync.OnceValue(func() *slog.Logger {
	return slog.Default().With("package", "render")
})
