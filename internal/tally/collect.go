package tally

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/sinclairtarget/git-stats/internal/git"
	"github.com/sinclairtarget/git-stats/internal/period"
)

// Returned when the commit source fails. Wraps the underlying error.
var ErrTraversal = errors.New("failed to read commit history")

// Anything that can walk the history of a repository.
type CommitSource interface {
	Commits(ctx context.Context, q git.Query) (iter.Seq[git.Commit], func() error)
}

// Start of the oldest period shown for kind when the newest period contains
// now.
func WindowStart(kind period.Kind, now time.Time) time.Time {
	start := kind.Truncate(now)
	for range kind.BucketCount() - 1 {
		start = kind.Decrement(start)
	}

	return start
}

// Exclusive end of the window beginning at start.
func WindowEnd(kind period.Kind, start time.Time) time.Time {
	end := start
	for range kind.BucketCount() {
		end = kind.Increment(end)
	}

	return end
}

// Counts commits per author and per period label.
//
// Commits dated outside [start, end) and merge commits are not counted, so
// every counted commit lands in one of the window's columns.
func TallyCommits(
	commits iter.Seq[git.Commit],
	kind period.Kind,
	start time.Time,
	opts TallyOpts,
) *Tallies {
	key := opts.Key
	if key == nil {
		key = ByIdentity
	}

	end := WindowEnd(kind, start)
	tallies := NewTallies()

	for commit := range commits {
		if commit.IsMerge {
			continue
		}

		date := commit.CommitterDate.UTC()
		if date.Before(start) || !date.Before(end) {
			logger().Debug(
				"skipping commit outside window",
				"commit",
				commit.Name(),
				"date",
				date,
			)
			continue
		}

		tallies.Add(key(commit), kind.Label(date))
	}

	return tallies
}

// Walks history from rev and tallies every non-merge commit in the window
// beginning at start.
//
// Either all commits are tallied or an error wrapping ErrTraversal is
// returned.
func Collect(
	ctx context.Context,
	src CommitSource,
	kind period.Kind,
	start time.Time,
	rev string,
	path string,
	opts TallyOpts,
) (_ *Tallies, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrTraversal, err)
		}
	}()

	q := git.Query{
		Rev:   rev,
		Since: start,
		Path:  path,
	}

	commits, finish := src.Commits(ctx, q)
	tallies := TallyCommits(commits, kind, start, opts)

	err = finish()
	if err != nil {
		return nil, err
	}

	// Sources check the context between commits; catch a cancel that
	// arrived after the last one.
	err = ctx.Err()
	if err != nil {
		return nil, err
	}

	logger().Debug(
		"tallied commits",
		"authors",
		tallies.Len(),
		"commits",
		tallies.Commits(),
	)
	return tallies, nil
}
