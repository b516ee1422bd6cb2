// Terminal styling
package pretty

import (
	"os"

	"github.com/fatih/color"
)

var (
	dim  = color.New(color.Faint)
	bold = color.New(color.Bold)
)

// SetColorEnabled controls whether ANSI color codes are output
func SetColorEnabled(enabled bool) {
	color.NoColor = !enabled
}

// GetColorEnabled returns whether ANSI color codes are currently enabled
func GetColorEnabled() bool {
	return !color.NoColor
}

// Decides whether to color output written to f.
//
// mode is "always", "never" or "auto". Auto colors terminals only.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return AllowDynamic(f)
	}
}

func Dim(s string) string {
	return dim.Sprint(s)
}

func Bold(s string) string {
	return bold.Sprint(s)
}
