/*
* Handles invoking Git as a subprocess.
 */
package cmd

import (
	"context"
	"fmt"
	"slices"
)

// Hash, short hash, parents, author name, author email, committer time.
//
// With -z, records are separated by NUL as well, so the output is a flat
// stream of NUL-delimited fields, LogFieldCount per commit.
const logFormat = "--pretty=format:%H%x00%h%x00%p%x00%an%x00%ae%x00%ct"

const LogFieldCount = 6

// Runs git log
func RunLog(
	ctx context.Context,
	dir string,
	revs []string,
	pathspecs []string,
	filters LogFilters,
) (*Subprocess, error) {
	baseArgs := []string{
		"log",
		logFormat,
		"-z",
		"--no-show-signature",
		"--no-mailmap",
	}

	filterArgs := filters.ToArgs()

	var args []string
	if len(pathspecs) > 0 {
		args = slices.Concat(
			baseArgs,
			filterArgs,
			revs,
			[]string{"--"},
			pathspecs,
		)
	} else {
		args = slices.Concat(baseArgs, filterArgs, revs, []string{"--"})
	}

	subprocess, err := run(ctx, dir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git log: %w", err)
	}

	return subprocess, nil
}

func RunRevParseTopLevel(ctx context.Context, dir string) (*Subprocess, error) {
	var args = []string{"rev-parse", "--show-toplevel"}

	subprocess, err := run(ctx, dir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git rev-parse: %w", err)
	}

	return subprocess, nil
}
