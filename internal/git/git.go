/*
* Wraps access to data needed from Git.
*
* We invoke Git directly as a subprocess and parse the output. The gogit
* subpackage offers an in-process alternative.
 */
package git

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/sinclairtarget/git-stats/internal/git/cmd"
)

type Commit struct {
	Hash          string    `json:"hash"`
	ShortHash     string    `json:"short_hash"`
	IsMerge       bool      `json:"is_merge"`
	AuthorName    string    `json:"author_name"`
	AuthorEmail   string    `json:"author_email"`
	CommitterDate time.Time `json:"committer_date"`
}

func (c Commit) Name() string {
	if c.ShortHash != "" {
		return c.ShortHash
	} else if c.Hash != "" {
		return c.Hash
	} else {
		return "unknown"
	}
}

// Author identity as Git prints it, e.g. "Jane Doe <jane@example.com>".
func (c Commit) Identity() string {
	if c.AuthorEmail == "" {
		return c.AuthorName
	}

	return fmt.Sprintf("%s <%s>", c.AuthorName, c.AuthorEmail)
}

func (c Commit) String() string {
	return fmt.Sprintf(
		"{ hash:%s author:%s date:%s merge:%v }",
		c.Name(),
		c.Identity(),
		c.CommitterDate.Format(time.DateOnly),
		c.IsMerge,
	)
}

// Which commits to walk.
type Query struct {
	Rev   string
	Since time.Time // Inclusive lower bound on committer date
	Path  string    // Empty means the whole tree
}

// Reads commits by running git log in Dir.
type SubprocessSource struct {
	Dir string // Empty means the current working directory
}

// Returns an iterator over the non-merge commits matching the query.
//
// The returned function must be called after iteration. It waits for the
// subprocess and reports the first error encountered.
func (s SubprocessSource) Commits(ctx context.Context, q Query) (
	iter.Seq[Commit],
	func() error,
) {
	var pathspecs []string
	if q.Path != "" {
		pathspecs = []string{q.Path}
	}

	rev := q.Rev
	if rev == "" {
		rev = "HEAD"
	}

	filters := cmd.LogFilters{Since: q.Since, NoMerges: true}

	subprocess, err := cmd.RunLog(ctx, s.Dir, []string{rev}, pathspecs, filters)
	if err != nil {
		return func(yield func(Commit) bool) {}, func() error {
			return err
		}
	}

	fields, scanFinish := subprocess.StdoutNullDelimitedLines()
	commits, parseFinish := ParseCommits(fields)

	finish := func() error {
		waitErr := subprocess.Wait()

		if err := scanFinish(); err != nil {
			return err
		}

		if err := parseFinish(); err != nil {
			return err
		}

		return waitErr
	}

	return commits, finish
}

func GetRoot(ctx context.Context, dir string) (_ string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("failed to get Git root directory: %w", err)
		}
	}()

	subprocess, err := cmd.RunRevParseTopLevel(ctx, dir)
	if err != nil {
		return "", err
	}

	root, err := subprocess.StdoutText()
	if err != nil {
		return "", err
	}

	err = subprocess.Wait()
	if err != nil {
		return "", err
	}

	return root, nil
}
