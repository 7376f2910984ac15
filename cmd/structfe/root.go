package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/notargets/StructFE/config"
	"github.com/notargets/StructFE/internal/logging"
	"github.com/notargets/StructFE/model"
	"github.com/notargets/StructFE/partitions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
)

var rootCmd = &cobra.Command{
	Use:   "structfe",
	Short: "structfe inspects and stores structural element models",
	Long: `structfe reads YAML model documents, checks the stiffness of every element,
and converts models to and from compressed snapshots and a SQLite store.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("metrics-file")
		if path == "" {
			return nil
		}
		return prometheus.WriteToTextfile(path, registry)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "structfe.yaml", "Configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level, overrides the configuration")
	rootCmd.PersistentFlags().String("store", "", "SQLite database, overrides the configuration")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write loader metrics in Prometheus text format to this file")
}

func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.LogLevel = lvl
	}
	if db, _ := cmd.Flags().GetString("store"); db != "" {
		c.Store = db
	}
	if err := c.Validate(); err != nil {
		return err
	}
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	cfg = c
	logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
	registry = prometheus.NewRegistry()
	return nil
}

func newLoader() (*model.Loader, error) {
	strategy, err := partitions.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return &model.Loader{
		Logger:         logger,
		Metrics:        model.NewMetrics(registry),
		PartitionSize:  cfg.PartitionSize,
		Strategy:       strategy,
		SkipUnresolved: cfg.SkipUnresolved,
	}, nil
}
