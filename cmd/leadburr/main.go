package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/FranksOps/leadburr/internal/config"
	"github.com/FranksOps/leadburr/internal/metrics"
)

var (
	cfg           *config.Config
	logger        *slog.Logger
	metricsServer *metrics.Server

	configPath  string
	logLevel    string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "leadburr",
	Short: "Local business lead discovery",
	Long:  "Searches several engines for businesses in a category and place, visits each site for contact details, and stores the new leads.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("log-level") {
			c.Log.Level = logLevel
		}
		if cmd.Flags().Changed("metrics-addr") {
			c.Metrics.Addr = metricsAddr
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		l, err := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		slog.SetDefault(logger)

		if cfg.Metrics.Addr != "" {
			metricsServer = metrics.Start(cfg.Metrics.Addr, logger)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return metricsServer.Stop(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./leadburr.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
