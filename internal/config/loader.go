package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	repoConfigName = ".git-stats.yaml"
	envPrefix      = "GIT_STATS"
	envFile        = ".env"
)

// Loads configuration from defaults, a config file and the environment.
//
// An explicit configPath must exist. Otherwise the first of
// <repoRoot>/.git-stats.yaml and ~/.config/git-stats/config.yaml that exists
// is read, if any. Nothing is logged, since logging is configured from the
// result. Variables in a .env file in the working directory are
// loaded first; they never override variables already set.
func Load(configPath string, repoRoot string) (_ *Config, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("failed to load config: %w", err)
		}
	}()

	err = godotenv.Load(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	applyDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = findConfigFile(repoRoot)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		err = v.ReadInConfig()
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	cfg.File = configPath
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("stats.max_stats", "year")
	v.SetDefault("stats.default_period", "week")
	v.SetDefault("stats.default_top", "10")
	v.SetDefault("stats.backend", BackendGit)
	v.SetDefault("stats.timeout", "5m")

	v.SetDefault("output.format", "table")
	v.SetDefault("output.color", ColorAuto)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func findConfigFile(repoRoot string) string {
	var candidates []string
	if repoRoot != "" {
		candidates = append(candidates, filepath.Join(repoRoot, repoConfigName))
	}

	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(
			candidates,
			filepath.Join(dir, "git-stats", "config.yaml"),
		)
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
