package render

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sinclairtarget/git-stats/internal/report"
)

func writeYAML(w io.Writer, r report.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(r); err != nil {
		return err
	}

	return enc.Close()
}
