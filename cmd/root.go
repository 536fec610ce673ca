package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/zhongchar/zhongchar/internal/config"
	"github.com/zhongchar/zhongchar/internal/logging"
	"github.com/zhongchar/zhongchar/internal/metrics"
	"github.com/zhongchar/zhongchar/internal/store"
)

// Per-invocation state, set up in PersistentPreRunE.
var (
	cfg      config.Config
	registry *prometheus.Registry
	met      *metrics.Metrics
)

var rootCmd = &cobra.Command{
	Use:   "zhongchar",
	Short: "Chinese radical flashcard scheduler",
	Long: `zhongchar keeps track of how well you know each Chinese radical form and
picks which one to study next, walking a graph of radicals from the
simplest forms towards the ones built on them.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: flushMetrics,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides ZHONGCHAR_DB env var)")
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/zhongchar/config.yaml)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("metrics-file", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration, applies flag overrides, and installs the
// process logger and metrics registry.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.Log.Level = strings.ToLower(lvl)
	}
	if f, _ := cmd.Flags().GetString("metrics-file"); f != "" {
		c.MetricsFile = f
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	logger, err := logging.New(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	registry = prometheus.NewRegistry()
	met = metrics.New(registry)
	return nil
}

func flushMetrics(cmd *cobra.Command, args []string) error {
	if cfg.MetricsFile == "" || registry == nil {
		return nil
	}
	return metrics.WriteFile(registry, cfg.MetricsFile)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured db_path or ZHONGCHAR_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	p, err := store.DefaultDBPath()
	if err != nil {
		return "", fmt.Errorf("resolve DB path: %w", err)
	}
	return p, nil
}
