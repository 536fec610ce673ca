// Package config loads zhongchar settings from an optional YAML file and
// ZHONGCHAR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty means the default data
	// location (see store.DefaultDBPath).
	DBPath string

	// ContentPath is the YAML content file read by `import` when no file
	// argument is given.
	ContentPath string

	Log LogConfig

	// MetricsFile, when set, receives a Prometheus text exposition of the
	// run's metrics on exit.
	MetricsFile string

	// SnapshotsKeep is how many mastery snapshots are retained.
	SnapshotsKeep int
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		SnapshotsKeep: 10,
	}
}

// DefaultDir returns $XDG_CONFIG_HOME/zhongchar, falling back to
// ~/.config/zhongchar.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "zhongchar"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "zhongchar"), nil
}

// Load reads configuration. An explicit path must exist; otherwise
// config.yaml in DefaultDir is used when present. Environment variables
// override both, e.g. ZHONGCHAR_LOG_LEVEL or ZHONGCHAR_DB.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("content_path", cfg.ContentPath)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("metrics_file", cfg.MetricsFile)
	v.SetDefault("snapshots.keep", cfg.SnapshotsKeep)

	v.SetEnvPrefix("ZHONGCHAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("db_path", "ZHONGCHAR_DB"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if dir, err := DefaultDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg.DBPath = v.GetString("db_path")
	cfg.ContentPath = v.GetString("content_path")
	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))
	cfg.Log.Format = strings.ToLower(v.GetString("log.format"))
	cfg.MetricsFile = v.GetString("metrics_file")
	cfg.SnapshotsKeep = v.GetInt("snapshots.keep")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	var errs []string

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json; got %q", c.Log.Format))
	}
	if c.SnapshotsKeep < 1 {
		errs = append(errs, fmt.Sprintf("snapshots.keep must be >= 1; got %d", c.SnapshotsKeep))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
