package cmd

import (
	"time"
)

// Date format git parses unambiguously, regardless of the local timezone.
const sinceFormat = "2006-01-02 15:04:05 -0700"

type LogFilters struct {
	Since    time.Time
	NoMerges bool
}

// Turn into CLI args we can pass to `git log`
func (f LogFilters) ToArgs() []string {
	args := []string{}

	if !f.Since.IsZero() {
		args = append(args, "--since", f.Since.UTC().Format(sinceFormat))
	}

	if f.NoMerges {
		args = append(args, "--no-merges")
	}

	return args
}
