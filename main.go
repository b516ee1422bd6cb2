package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/sinclairtarget/git-stats/internal/config"
	"github.com/sinclairtarget/git-stats/internal/pretty"
	"github.com/sinclairtarget/git-stats/internal/render"
	"github.com/sinclairtarget/git-stats/internal/stats"
	"github.com/sinclairtarget/git-stats/internal/subcommands"
)

var Commit = "unknown"
var Version = "unknown"

// State shared by every subcommand, set up before any of them runs.
type app struct {
	verbose    bool
	configPath string

	cfg  *config.Config
	repo subcommands.Repo
}

// Main builds the command tree and runs it.
//
// If no subcommand was specified, we default to the "report" subcommand.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{}
	root := rootCmd(a)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func rootCmd(a *app) *cobra.Command {
	report := reportCmd(a)

	root := &cobra.Command{
		Use:           "git-stats [flags] [ref]",
		Short:         "git-stats counts commits per author per period",
		Version:       fmt.Sprintf("%s %s", Version, Commit),
		Args:          report.Args,
		RunE:          report.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}

	root.PersistentFlags().BoolVarP(
		&a.verbose,
		"verbose",
		"v",
		false,
		"Enables debug logging",
	)
	root.PersistentFlags().StringVar(
		&a.configPath,
		"config",
		"",
		"Config file (default .git-stats.yaml in the repository root)",
	)

	// The root command runs "report", so it takes the same flags.
	root.Flags().AddFlagSet(report.Flags())

	root.AddCommand(report, periodsCmd(a), dumpCmd(a))
	return root
}

// -v- Subcommand definitions --------------------------------------------------

type reportFlags struct {
	period   string
	top      string
	path     string
	backend  string
	format   string
	nameOnly bool
	noColor  bool
	timeout  time.Duration
}

func reportCmd(a *app) *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report [flags] [ref]",
		Short: "Print a table of commits per author per period",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := stats.DefaultRef
			if len(args) > 0 {
				ref = args[0]
			}

			return a.report(cmd, ref, flags)
		},
	}

	cmd.Flags().StringVarP(
		&flags.period,
		"period",
		"p",
		"",
		"Period to bucket commits by: w|week, m|month, q|quarter or y|year",
	)
	cmd.Flags().StringVarP(
		&flags.top,
		"top",
		"n",
		"",
		"Number of authors to list: 10, 25, 50, 100 or all",
	)
	cmd.Flags().StringVar(
		&flags.path,
		"path",
		"",
		"Only count commits touching this path",
	)
	cmd.Flags().StringVar(
		&flags.backend,
		"backend",
		"",
		"How to read history: git or go-git",
	)
	cmd.Flags().StringVar(
		&flags.format,
		"format",
		"",
		"Output format: table, csv, json or yaml",
	)
	cmd.Flags().BoolVar(
		&flags.nameOnly,
		"name-only",
		false,
		"Group authors by name, ignoring email address",
	)
	cmd.Flags().BoolVar(
		&flags.noColor,
		"no-color",
		false,
		"Disable colored output",
	)
	cmd.Flags().DurationVar(
		&flags.timeout,
		"timeout",
		0,
		"Give up reading history after this long (default from config)",
	)

	return cmd
}

func periodsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "periods",
		Short: "List the periods enabled for this repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			maxLevel, err := a.cfg.MaxLevel(a.repo.Name)
			if err != nil {
				return err
			}

			return subcommands.Periods(
				cmd.OutOrStdout(),
				maxLevel,
				a.cfg.Stats.DefaultPeriod,
			)
		},
	}
}

func dumpCmd(a *app) *cobra.Command {
	var selector string
	var path string
	var backend string

	cmd := &cobra.Command{
		Use:    "dump [flags] [ref]",
		Short:  "Print the commits read for the window as JSON lines",
		Hidden: true,
		Args:   cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := stats.DefaultRef
			if len(args) > 0 {
				ref = args[0]
			}

			if selector == "" {
				selector = a.cfg.Stats.DefaultPeriod
			}

			if backend == "" {
				backend = a.cfg.Stats.Backend
			}

			src, err := subcommands.NewSource(backend, a.repo.Root)
			if err != nil {
				return err
			}

			return subcommands.Dump(
				cmd.Context(),
				cmd.OutOrStdout(),
				src,
				selector,
				ref,
				path,
				time.Time{},
			)
		},
	}

	cmd.Flags().StringVarP(&selector, "period", "p", "", "Period of the window")
	cmd.Flags().StringVar(&path, "path", "", "Only dump commits touching this path")
	cmd.Flags().StringVar(&backend, "backend", "", "How to read history: git or go-git")

	return cmd
}

// -^---------------------------------------------------------------------------

// Finds the repository, loads config and configures logging.
//
// Nothing may log before configureLogging() runs; package loggers keep the
// handler they first see.
func (a *app) setup(ctx context.Context) error {
	repo, err := subcommands.FindRepo(ctx, ".")
	if err != nil {
		return err
	}
	a.repo = repo

	cfg, err := config.Load(a.configPath, repo.Root)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	configureLogging(level, cfg.Logging.Format)

	if a.verbose {
		logger().Debug("log level set to DEBUG")
	}
	logger().Debug(
		"using repository",
		"root",
		repo.Root,
		"name",
		repo.Name,
		"config",
		cfg.File,
	)
	return nil
}

func (a *app) report(cmd *cobra.Command, ref string, flags reportFlags) error {
	cfg := a.cfg

	maxLevel, err := cfg.MaxLevel(a.repo.Name)
	if err != nil {
		return err
	}

	selector := flags.period
	if selector == "" {
		selector = cfg.Stats.DefaultPeriod
	}

	top := cfg.DefaultTop()
	if flags.top != "" {
		top, err = stats.ParseTop(flags.top)
		if err != nil {
			return err
		}
	}

	formatName := flags.format
	if formatName == "" {
		formatName = cfg.Output.Format
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	backend := flags.backend
	if backend == "" {
		backend = cfg.Stats.Backend
	}
	src, err := subcommands.NewSource(backend, a.repo.Root)
	if err != nil {
		return err
	}

	timeout := cfg.Stats.Timeout
	if cmd.Flags().Changed("timeout") {
		timeout = flags.timeout
	}

	colorMode := cfg.Output.Color
	if flags.noColor {
		colorMode = config.ColorNever
	}

	return subcommands.Report(
		cmd.Context(),
		cmd.OutOrStdout(),
		src,
		subcommands.ReportOpts{
			Ref:      ref,
			Period:   selector,
			Top:      top,
			Path:     flags.path,
			MaxLevel: maxLevel,
			NameOnly: flags.nameOnly,
			Format:   format,
			Color:    pretty.ColorEnabled(colorMode, os.Stdout),
			Timeout:  timeout,
		},
	)
}

func configureLogging(level slog.Level, format string) {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
}

var logger = sync.OnceValue(func() *slog.Logger {
	return slog.Default().With("package", "main")
})
