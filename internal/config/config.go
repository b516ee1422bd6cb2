// Settings read from a config file, the environment and defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sinclairtarget/git-stats/internal/period"
	"github.com/sinclairtarget/git-stats/internal/render"
	"github.com/sinclairtarget/git-stats/internal/stats"
)

const (
	BackendGit   = "git"
	BackendGoGit = "go-git"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"

	StatsDisabled = "none"
)

var (
	ErrInvalidMaxStats      = errors.New("invalid stats.max_stats")
	ErrInvalidDefaultPeriod = errors.New("invalid stats.default_period")
	ErrInvalidTop           = errors.New("invalid stats.default_top")
	ErrInvalidBackend       = errors.New("invalid stats.backend")
	ErrInvalidTimeout       = errors.New("stats.timeout must be non-negative")
	ErrInvalidFormat        = errors.New("invalid output.format")
	ErrInvalidColor         = errors.New("invalid output.color")
	ErrInvalidLogLevel      = errors.New("invalid logging.level")
	ErrInvalidLogFormat     = errors.New("invalid logging.format")
)

type Config struct {
	Stats   StatsConfig           `mapstructure:"stats"`
	Output  OutputConfig          `mapstructure:"output"`
	Logging LoggingConfig         `mapstructure:"logging"`
	Repos   map[string]RepoConfig `mapstructure:"repos"`

	File string `mapstructure:"-"` // Config file read, if any
}

type StatsConfig struct {
	MaxStats      string        `mapstructure:"max_stats"` // Period name, level or "none"
	DefaultPeriod string        `mapstructure:"default_period"`
	DefaultTop    string        `mapstructure:"default_top"` // Integer or "all"
	Backend       string        `mapstructure:"backend"`
	Timeout       time.Duration `mapstructure:"timeout"` // Zero means no limit
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  string `mapstructure:"color"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Overrides for one repository, keyed by the base name of its root.
//
// Keys read from a file are lowercased, so lookups ignore case.
type RepoConfig struct {
	MaxStats string `mapstructure:"max_stats"`
}

func (c Config) Validate() error {
	if _, err := ParseMaxStats(c.Stats.MaxStats); err != nil {
		return err
	}

	for name, repo := range c.Repos {
		if repo.MaxStats == "" {
			continue
		}

		if _, err := ParseMaxStats(repo.MaxStats); err != nil {
			return fmt.Errorf("repos.%s: %w", name, err)
		}
	}

	if _, err := period.Resolve(c.Stats.DefaultPeriod); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDefaultPeriod, c.Stats.DefaultPeriod)
	}

	if _, err := stats.ParseTop(c.Stats.DefaultTop); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTop, c.Stats.DefaultTop)
	}

	if !slices.Contains([]string{BackendGit, BackendGoGit}, c.Stats.Backend) {
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Stats.Backend)
	}

	if c.Stats.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Stats.Timeout)
	}

	if _, err := render.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}

	colors := []string{ColorAuto, ColorAlways, ColorNever}
	if !slices.Contains(colors, c.Output.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c.Output.Color)
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	return nil
}

// Highest period level enabled for the named repository.
func (c Config) MaxLevel(repo string) (int, error) {
	if override, ok := c.repo(repo); ok && override.MaxStats != "" {
		return ParseMaxStats(override.MaxStats)
	}

	return ParseMaxStats(c.Stats.MaxStats)
}

func (c Config) repo(name string) (RepoConfig, bool) {
	if override, ok := c.Repos[name]; ok {
		return override, true
	}

	for key, override := range c.Repos {
		if strings.EqualFold(key, name) {
			return override, true
		}
	}

	return RepoConfig{}, false
}

func (c Config) DefaultTop() int {
	top, err := stats.ParseTop(c.Stats.DefaultTop)
	if err != nil {
		return stats.DefaultTop
	}

	return top
}

func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}

	return level, nil
}

// Parses a maximum statistics period.
//
// Accepts a period code or name, a level from 0 to 4, or "none". Returns the
// level, where 0 means statistics are disabled.
func ParseMaxStats(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == StatsDisabled {
		return 0, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > len(period.All()) {
			return 0, fmt.Errorf("%w: level %d out of range", ErrInvalidMaxStats, n)
		}

		return n, nil
	}

	kind, err := period.Resolve(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMaxStats, s)
	}

	return kind.Level(), nil
}
