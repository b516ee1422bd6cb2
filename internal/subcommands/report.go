package subcommands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sinclairtarget/git-stats/internal/period"
	"github.com/sinclairtarget/git-stats/internal/render"
	"github.com/sinclairtarget/git-stats/internal/stats"
	"github.com/sinclairtarget/git-stats/internal/tally"
)

const nameWidth = 40

type ReportOpts struct {
	Ref      string
	Period   string
	Top      int
	Path     string
	MaxLevel int
	NameOnly bool
	Format   render.Format
	Color    bool
	Timeout  time.Duration // Zero means no limit
	Now      time.Time
}

// Prints commits per author per period.
func Report(
	ctx context.Context,
	w io.Writer,
	src tally.CommitSource,
	opts ReportOpts,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running \"report\": %w", err)
		}
	}()

	logger().Debug(
		"called report()",
		"ref",
		opts.Ref,
		"period",
		opts.Period,
		"top",
		opts.Top,
		"path",
		opts.Path,
		"maxLevel",
		opts.MaxLevel,
		"nameOnly",
		opts.NameOnly,
		"format",
		opts.Format,
	)

	start := time.Now()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	tallyOpts := tally.TallyOpts{Key: tally.ByIdentity}
	if opts.NameOnly {
		tallyOpts.Key = tally.ByName
	}

	r, err := stats.Generate(ctx, src, stats.Request{
		Period:   opts.Period,
		Top:      opts.Top,
		Ref:      opts.Ref,
		Path:     opts.Path,
		MaxLevel: opts.MaxLevel,
		Now:      opts.Now,
		Opts:     tallyOpts,
	})
	if err != nil {
		return err
	}

	top := opts.Top
	if top == 0 {
		top = stats.DefaultTop
	}

	bw := bufio.NewWriter(w)
	err = render.Write(bw, opts.Format, r, render.Opts{
		Color:          opts.Color,
		Top:            top,
		EnabledPeriods: stats.EnabledPeriods(opts.MaxLevel),
		NameWidth:      nameWidth,
	})
	if err != nil {
		return err
	}

	err = bw.Flush()
	if err != nil {
		return err
	}

	elapsed := time.Now().Sub(start)
	logger().Debug("finished report", "duration_ms", elapsed.Milliseconds())

	return nil
}

// Prints the periods enabled for a repository, marking the default.
func Periods(w io.Writer, maxLevel int, defaultPeriod string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running \"periods\": %w", err)
		}
	}()

	enabled := stats.EnabledPeriods(maxLevel)
	if len(enabled) == 0 {
		_, err = fmt.Fprintln(w, "Statistics are disabled for this repository.")
		return err
	}

	def, err := period.Resolve(defaultPeriod)
	if err != nil {
		return err
	}

	for _, kind := range enabled {
		marker := " "
		if kind.Level() == def.Level() {
			marker = "*"
		}

		_, err = fmt.Fprintf(
			w,
			"%s %s  %-8s %d periods\n",
			marker,
			kind.Code(),
			kind.Name(),
			kind.BucketCount(),
		)
		if err != nil {
			return err
		}
	}

	return nil
}
