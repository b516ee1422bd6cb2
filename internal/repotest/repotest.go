// Helpers for running tests against a throwaway Git repository.
package repotest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type Repo struct {
	Dir string

	t    *testing.T
	repo *gogit.Repository
	n    int
}

// Initializes an empty repository in a temporary directory.
//
// Built with go-git so tests of either commit source run without a git
// binary.
func New(t *testing.T) *Repo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("could not init repo: %v", err)
	}

	return &Repo{Dir: dir, t: t, repo: repo}
}

// Writes to path and commits the change as author name at when.
//
// With no parents the commit goes on top of HEAD. Two or more parents make a
// merge commit.
func (r *Repo) Commit(
	path string,
	name string,
	when time.Time,
	parents ...plumbing.Hash,
) plumbing.Hash {
	r.t.Helper()

	r.n += 1
	full := filepath.Join(r.Dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("could not create dir: %v", err)
	}

	content := []byte(strconv.Itoa(r.n))
	if err := os.WriteFile(full, content, 0o644); err != nil {
		r.t.Fatalf("could not write file: %v", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("could not get worktree: %v", err)
	}

	if _, err := wt.Add(path); err != nil {
		r.t.Fatalf("could not stage %s: %v", path, err)
	}

	sig := &object.Signature{Name: name, Email: name + "@mail.com", When: when}
	hash, err := wt.Commit("change "+path, &gogit.CommitOptions{
		Author:            sig,
		Committer:         sig,
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	if err != nil {
		r.t.Fatalf("could not commit: %v", err)
	}

	return hash
}

// Skips the test if there is no git binary to run.
func RequireGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
}
