package subcommands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sinclairtarget/git-stats/internal/git"
	"github.com/sinclairtarget/git-stats/internal/period"
	"github.com/sinclairtarget/git-stats/internal/tally"
)

// Just prints out the commits the source yields for the window, one JSON
// object per line.
func Dump(
	ctx context.Context,
	w io.Writer,
	src tally.CommitSource,
	selector string,
	ref string,
	path string,
	now time.Time,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running \"dump\": %w", err)
		}
	}()

	logger().Debug(
		"called dump()",
		"period",
		selector,
		"ref",
		ref,
		"path",
		path,
	)

	kind, err := period.Resolve(selector)
	if err != nil {
		return err
	}

	if now.IsZero() {
		now = time.Now()
	}

	q := git.Query{
		Rev:   ref,
		Since: tally.WindowStart(kind, now),
		Path:  path,
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	commits, finish := src.Commits(ctx, q)
	for commit := range commits {
		err = enc.Encode(commit)
		if err != nil {
			break
		}
	}

	finishErr := finish()
	if err != nil {
		return err
	}
	if finishErr != nil {
		return finishErr
	}

	return bw.Flush()
}
