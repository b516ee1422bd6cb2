package subcommands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sinclairtarget/git-stats/internal/config"
	"github.com/sinclairtarget/git-stats/internal/git"
	"github.com/sinclairtarget/git-stats/internal/git/gogit"
	"github.com/sinclairtarget/git-stats/internal/tally"
)

// The repository being reported on.
type Repo struct {
	Root string
	Name string // Base name of Root, used for per-repository settings
}

// Finds the repository containing dir.
//
// Tries go-git first so nothing is logged before logging is configured. Falls
// back to asking git, which understands more repository layouts.
func FindRepo(ctx context.Context, dir string) (Repo, error) {
	root, err := gogit.GetRoot(dir)
	if err != nil {
		var gitErr error
		root, gitErr = git.GetRoot(ctx, dir)
		if gitErr != nil {
			return Repo{}, fmt.Errorf("not a Git repository: %w", gitErr)
		}
	}

	return Repo{Root: root, Name: filepath.Base(root)}, nil
}

// Returns the commit source for the named backend.
func NewSource(backend string, root string) (tally.CommitSource, error) {
	switch backend {
	case config.BackendGit, "":
		return git.SubprocessSource{Dir: root}, nil
	case config.BackendGoGit:
		return gogit.Source{Dir: root}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, backend)
	}
}
