/*
* Utility functions for formatting output.
 */
package format

import (
	"github.com/dustin/go-humanize"
)

// Print string with max length, truncating with ellipsis.
//
// Counts runes, so multi-byte author names are never cut mid-character.
func Abbrev(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max-1]) + "…"
}

// Commit count with thousands separators. Zero prints as "0".
func Number(n int) string {
	return humanize.Comma(int64(n))
}
