// Reads commits in-process with go-git instead of running a git subprocess.
//
// Useful where no git binary is installed. Slower than the subprocess source
// on large histories.
package gogit

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/sinclairtarget/git-stats/internal/git"
	rev "github.com/sinclairtarget/git-stats/internal/git/revision"
)

type Source struct {
	Dir string // Any directory inside the repository
}

// Returns an iterator over the non-merge commits matching the query.
//
// The returned function must be called after iteration and reports the first
// error encountered, including cancellation of ctx.
func (s Source) Commits(ctx context.Context, q git.Query) (
	iter.Seq[git.Commit],
	func() error,
) {
	var iterErr error

	seq := func(yield func(git.Commit) bool) {
		commits, err := s.log(q)
		if err != nil {
			iterErr = err
			return
		}
		defer commits.Close()

		err = commits.ForEach(func(c *object.Commit) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			if c.NumParents() > 1 {
				return nil
			}

			if !yield(toCommit(c)) {
				return storer.ErrStop
			}

			return nil
		})
		if err != nil {
			iterErr = fmt.Errorf("error walking commits: %w", err)
		}
	}

	finish := func() error {
		return iterErr
	}

	return seq, finish
}

// Returns the root of the working tree containing dir.
func GetRoot(dir string) (string, error) {
	repo, err := open(dir)
	if err != nil {
		return "", err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("could not get working tree: %w", err)
	}

	return wt.Filesystem.Root(), nil
}

func open(dir string) (*gogit.Repository, error) {
	if dir == "" {
		dir = "."
	}

	repo, err := gogit.PlainOpenWithOptions(
		dir,
		&gogit.PlainOpenOptions{DetectDotGit: true},
	)
	if err != nil {
		return nil, fmt.Errorf("could not open repository at %s: %w", dir, err)
	}

	return repo, nil
}

func (s Source) log(q git.Query) (object.CommitIter, error) {
	repo, err := open(s.Dir)
	if err != nil {
		return nil, err
	}

	from, err := resolve(repo, q.Rev)
	if err != nil {
		return nil, err
	}

	opts := gogit.LogOptions{
		From:  from,
		Order: gogit.LogOrderCommitterTime,
	}

	if !q.Since.IsZero() {
		since := q.Since
		opts.Since = &since
	}

	if prefix := pathPrefix(q.Path); prefix != "" {
		opts.PathFilter = func(p string) bool {
			return p == prefix || strings.HasPrefix(p, prefix+"/")
		}
	}

	logger().Debug("walking commits", "from", from, "since", q.Since, "path", q.Path)
	return repo.Log(&opts)
}

func resolve(repo *gogit.Repository, revision string) (plumbing.Hash, error) {
	if revision == "" {
		revision = "HEAD"
	}

	if rev.IsFullHash(revision) {
		return plumbing.NewHash(revision), nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf(
			"could not resolve revision %q: %w",
			revision,
			err,
		)
	}

	return *hash, nil
}

// Normalizes a pathspec to a slash-separated prefix without trailing slash.
//
// "." and "" mean the whole tree.
func pathPrefix(path string) string {
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimSuffix(path, "/")
	if path == "." {
		return ""
	}

	return path
}

func toCommit(c *object.Commit) git.Commit {
	hash := c.Hash.String()

	return git.Commit{
		Hash:          hash,
		ShortHash:     hash[:7],
		IsMerge:       c.NumParents() > 1,
		AuthorName:    c.Author.Name,
		AuthorEmail:   c.Author.Email,
		CommitterDate: c.Committer.When.UTC(),
	}
}

var logger = sync.OnceValue(func() *slog.Logger {
	return slog.Default().With("package", "git.gogit")
})
