package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/git-stats/internal/config"
	"github.com/sinclairtarget/git-stats/internal/stats"
)

func validConfig() config.Config {
	return config.Config{
		Stats: config.StatsConfig{
			MaxStats:      "year",
			DefaultPeriod: "week",
			DefaultTop:    "10",
			Backend:       config.BackendGit,
			Timeout:       time.Minute,
		},
		Output: config.OutputConfig{
			Format: "table",
			Color:  config.ColorAuto,
		},
		Logging: config.LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()

	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)
}

// Isolates Load from the developer's own config and working directory.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)

	return dir
}

func TestValidate_ValidConfig_NoError(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *config.Config)
		expected error
	}{
		{
			name:     "max stats",
			mutate:   func(c *config.Config) { c.Stats.MaxStats = "decade" },
			expected: config.ErrInvalidMaxStats,
		},
		{
			name:     "repo max stats",
			mutate:   func(c *config.Config) { c.Repos = map[string]config.RepoConfig{"cgit": {MaxStats: "9"}} },
			expected: config.ErrInvalidMaxStats,
		},
		{
			name:     "default period",
			mutate:   func(c *config.Config) { c.Stats.DefaultPeriod = "fortnight" },
			expected: config.ErrInvalidDefaultPeriod,
		},
		{
			name:     "default top",
			mutate:   func(c *config.Config) { c.Stats.DefaultTop = "lots" },
			expected: config.ErrInvalidTop,
		},
		{
			name:     "backend",
			mutate:   func(c *config.Config) { c.Stats.Backend = "hg" },
			expected: config.ErrInvalidBackend,
		},
		{
			name:     "timeout",
			mutate:   func(c *config.Config) { c.Stats.Timeout = -time.Second },
			expected: config.ErrInvalidTimeout,
		},
		{
			name:     "format",
			mutate:   func(c *config.Config) { c.Output.Format = "html" },
			expected: config.ErrInvalidFormat,
		},
		{
			name:     "color",
			mutate:   func(c *config.Config) { c.Output.Color = "sometimes" },
			expected: config.ErrInvalidColor,
		},
		{
			name:     "log level",
			mutate:   func(c *config.Config) { c.Logging.Level = "loud" },
			expected: config.ErrInvalidLogLevel,
		},
		{
			name:     "log format",
			mutate:   func(c *config.Config) { c.Logging.Format = "xml" },
			expected: config.ErrInvalidLogFormat,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := validConfig()
			test.mutate(&cfg)

			assert.ErrorIs(t, cfg.Validate(), test.expected)
		})
	}
}

func TestParseMaxStats(t *testing.T) {
	tests := map[string]int{
		"none":   0,
		"0":      0,
		"1":      1,
		"w":      1,
		"week":   1,
		"Month":  2,
		"q":      3,
		"4":      4,
		" year ": 4,
	}

	for input, expected := range tests {
		level, err := config.ParseMaxStats(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, expected, level, "input %q", input)
	}

	for _, input := range []string{"", "5", "-1", "decade"} {
		_, err := config.ParseMaxStats(input)
		assert.ErrorIs(t, err, config.ErrInvalidMaxStats, "input %q", input)
	}
}

func TestMaxLevel_RepoOverride(t *testing.T) {
	cfg := validConfig()
	cfg.Repos = map[string]config.RepoConfig{
		"cgit":  {MaxStats: "quarter"},
		"linux": {MaxStats: "none"},
		"empty": {},
		"Mixed": {MaxStats: "month"},
	}

	tests := map[string]int{
		"cgit":  3,
		"linux": 0,
		"empty": 4,
		"other": 4,
		"mixed": 2,
		"MIXED": 2,
	}

	for repo, expected := range tests {
		level, err := cfg.MaxLevel(repo)
		require.NoError(t, err)
		assert.Equal(t, expected, level, "repo %s", repo)
	}
}

func TestDefaultTop(t *testing.T) {
	cfg := validConfig()
	cfg.Stats.DefaultTop = "all"
	assert.Equal(t, stats.TopAll, cfg.DefaultTop())

	cfg.Stats.DefaultTop = "25"
	assert.Equal(t, 25, cfg.DefaultTop())
}

func TestSlogLevel(t *testing.T) {
	level, err := config.LoggingConfig{Level: "debug"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := config.Load("", dir)
	require.NoError(t, err)

	assert.Equal(t, "year", cfg.Stats.MaxStats)
	assert.Equal(t, "week", cfg.Stats.DefaultPeriod)
	assert.Equal(t, 10, cfg.DefaultTop())
	assert.Equal(t, config.BackendGit, cfg.Stats.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Stats.Timeout)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Equal(t, config.ColorAuto, cfg.Output.Color)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_RepoConfigFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".git-stats.yaml"), `
stats:
  max_stats: 2
  default_period: month
  default_top: all
  timeout: 30s
repos:
  cgit:
    max_stats: quarter
output:
  format: json
`)

	cfg, err := config.Load("", dir)
	require.NoError(t, err)

	level, err := cfg.MaxLevel("other")
	require.NoError(t, err)
	assert.Equal(t, 2, level)

	level, err = cfg.MaxLevel("cgit")
	require.NoError(t, err)
	assert.Equal(t, 3, level)

	assert.Equal(t, "month", cfg.Stats.DefaultPeriod)
	assert.Equal(t, stats.TopAll, cfg.DefaultTop())
	assert.Equal(t, 30*time.Second, cfg.Stats.Timeout)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoad_MixedCaseRepoKey(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".git-stats.yaml"), `
stats:
  max_stats: year
repos:
  MyRepo:
    max_stats: week
`)

	cfg, err := config.Load("", dir)
	require.NoError(t, err)

	level, err := cfg.MaxLevel("MyRepo")
	require.NoError(t, err)
	assert.Equal(t, 1, level)

	level, err = cfg.MaxLevel("myrepo")
	require.NoError(t, err)
	assert.Equal(t, 1, level)

	level, err = cfg.MaxLevel("OtherRepo")
	require.NoError(t, err)
	assert.Equal(t, 4, level)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "stats:\n  backend: go-git\n")

	cfg, err := config.Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, config.BackendGoGit, cfg.Stats.Backend)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := config.Load(filepath.Join(dir, "missing.yaml"), "")
	assert.Error(t, err)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".git-stats.yaml"), "stats:\n  backend: svn\n")

	_, err := config.Load("", dir)
	assert.ErrorIs(t, err, config.ErrInvalidBackend)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := isolate(t)
	t.Setenv("GIT_STATS_STATS_DEFAULT_PERIOD", "quarter")
	t.Setenv("GIT_STATS_OUTPUT_COLOR", "never")

	cfg, err := config.Load("", dir)
	require.NoError(t, err)

	assert.Equal(t, "quarter", cfg.Stats.DefaultPeriod)
	assert.Equal(t, config.ColorNever, cfg.Output.Color)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)

	// Restored on cleanup. Unset so the .env file can provide it.
	t.Setenv("GIT_STATS_STATS_MAX_STATS", "")
	require.NoError(t, os.Unsetenv("GIT_STATS_STATS_MAX_STATS"))

	writeFile(t, filepath.Join(dir, ".env"), "GIT_STATS_STATS_MAX_STATS=month\n")

	cfg, err := config.Load("", dir)
	require.NoError(t, err)

	level, err := cfg.MaxLevel("any")
	require.NoError(t, err)
	assert.Equal(t, 2, level)
}
