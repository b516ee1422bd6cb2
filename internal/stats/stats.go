// Produces a commit statistics report for a single request.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sinclairtarget/git-stats/internal/period"
	"github.com/sinclairtarget/git-stats/internal/report"
	"github.com/sinclairtarget/git-stats/internal/tally"
)

var ErrPeriodDisabled = errors.New("statistics period is not enabled")
var ErrInvalidTop = errors.New("invalid author count")

const (
	TopAll     = -1 // Display every author
	DefaultTop = 10
	DefaultRef = "HEAD"
)

var DefaultPeriod = period.Week

// Author counts offered in menus.
var TopChoices = []int{10, 25, 50, 100, TopAll}

type Request struct {
	Period   string // Code or name. Empty means DefaultPeriod
	Top      int    // Zero means DefaultTop, TopAll means everyone
	Ref      string // Empty means DefaultRef
	Path     string
	MaxLevel int       // Highest enabled period level. Zero disables all
	Now      time.Time // Zero means time.Now()
	Opts     tally.TallyOpts
}

// Resolves the requested period, tallies the window ending at Now and lays
// out the report.
//
// Fails with period.ErrInvalidPeriod, ErrPeriodDisabled or
// tally.ErrTraversal. No partial report is ever returned.
func Generate(
	ctx context.Context,
	src tally.CommitSource,
	req Request,
) (_ report.Report, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("could not generate statistics: %w", err)
		}
	}()

	selector := req.Period
	if selector == "" {
		selector = DefaultPeriod.Name()
	}

	kind, err := period.Resolve(selector)
	if err != nil {
		return report.Report{}, err
	}

	err = CheckEnabled(kind, req.MaxLevel)
	if err != nil {
		return report.Report{}, err
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	ref := req.Ref
	if ref == "" {
		ref = DefaultRef
	}

	start := tally.WindowStart(kind, now)
	logger().Debug(
		"computed window",
		"period",
		kind.Name(),
		"start",
		start.Format(time.DateOnly),
		"ref",
		ref,
		"path",
		req.Path,
	)

	tallies, err := tally.Collect(ctx, src, kind, start, ref, req.Path, req.Opts)
	if err != nil {
		return report.Report{}, err
	}

	all := tallies.All()
	ranked := tally.Rank(all)

	top := req.Top
	if top == 0 {
		top = DefaultTop
	}
	displayed, rest := tally.SelectTop(ranked, top)

	var others *tally.AuthorTally
	if combined, ok := tally.CombineOthers(rest); ok {
		others = &combined
	}

	columns := report.ColumnLabels(kind, start, kind.BucketCount())
	r := report.Build(columns, displayed, others, tally.CombineTotal(all))
	r.Period = kind.Name()
	r.Ref = ref
	r.Path = req.Path
	r.Start = start

	return r, nil
}

func CheckEnabled(kind period.Kind, maxLevel int) error {
	if kind.Level() > maxLevel {
		return fmt.Errorf("%w: %s", ErrPeriodDisabled, kind.Name())
	}

	return nil
}

// Periods a repository with the given maximum level permits, narrowest first.
func EnabledPeriods(maxLevel int) []period.Kind {
	var enabled []period.Kind
	for _, kind := range period.All() {
		if kind.Level() <= maxLevel {
			enabled = append(enabled, kind)
		}
	}

	return enabled
}

// Parses an author count. Accepts "all" or a positive integer.
func ParseTop(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return TopAll, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTop, s)
	}

	return n, nil
}

func FormatTop(top int) string {
	if top < 0 {
		return "all"
	}

	return strconv.Itoa(top)
}

var logger = sync.OnceValue(func() *slog.Logger {
	return slog.Default().With("package", "stats")
})
