package git

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/sinclairtarget/git-stats/internal/git/cmd"
)

// Turns an iterator over NUL-delimited fields from git log into an iterator
// of commits.
//
// The returned function reports any parse error. Iteration stops at the first
// one.
func ParseCommits(fields iter.Seq[string]) (iter.Seq[Commit], func() error) {
	var iterErr error

	seq := func(yield func(Commit) bool) {
		var commit Commit
		fieldsThisCommit := 0

		for field := range fields {
			switch fieldsThisCommit {
			case 0:
				commit.Hash = field
			case 1:
				commit.ShortHash = field
			case 2:
				parents := strings.Fields(field)
				commit.IsMerge = len(parents) > 1
			case 3:
				commit.AuthorName = field
			case 4:
				commit.AuthorEmail = field
			case 5:
				date, err := parseUnixTime(field)
				if err != nil {
					iterErr = fmt.Errorf(
						"error parsing date from commit %s: %w",
						commit.Name(),
						err,
					)
					return
				}

				commit.CommitterDate = date
			}

			fieldsThisCommit += 1
			if fieldsThisCommit < cmd.LogFieldCount {
				continue
			}

			if !yield(commit) {
				return
			}

			commit = Commit{}
			fieldsThisCommit = 0
		}

		if fieldsThisCommit > 0 {
			iterErr = fmt.Errorf(
				"truncated log output: commit %s has %d of %d fields",
				commit.Name(),
				fieldsThisCommit,
				cmd.LogFieldCount,
			)
		}
	}

	finish := func() error {
		return iterErr
	}

	return seq, finish
}

func parseUnixTime(s string) (time.Time, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(i, 0).UTC(), nil
}
