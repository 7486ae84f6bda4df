package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zgpcy/azure-spend-exporter/internal/azure"
	"github.com/zgpcy/azure-spend-exporter/internal/collector"
	"github.com/zgpcy/azure-spend-exporter/internal/config"
	"github.com/zgpcy/azure-spend-exporter/internal/logger"
	"github.com/zgpcy/azure-spend-exporter/internal/server"
	"github.com/zgpcy/azure-spend-exporter/internal/version"
)

const (
	// DefaultShutdownTimeout is the maximum time to wait for graceful shutdown
	DefaultShutdownTimeout = 30 * time.Second
)

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Export the last 30 days of Azure cost as a Prometheus gauge",
	Long: `Azure Spend Exporter serves azure_30day_cumulative_cost_usd on /metrics.

Every scrape queries Azure Cost Management for the actual cost of the 30
complete UTC days before today and reports the sum. Credentials are read
from the environment (optionally seeded from a .env file) or a YAML file.

Examples:
  # Serve on the default port 9200 using environment variables
  exporter

  # Use a config file and a custom env file
  exporter --config /etc/azure-spend-exporter/config.yaml --env-file /run/secrets/azure.env`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (optional; environment variables take precedence)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file loaded before reading the environment")
}

// bootstrap loads the configuration and builds the logger and collector
// shared by every command
func bootstrap(cmd *cobra.Command) (*config.Config, *logger.Logger, *collector.CostCollector, error) {
	// An explicitly passed env file must exist; the default one is optional
	if err := config.LoadEnvFile(envFile, cmd.Flags().Changed("env-file")); err != nil {
		return nil, nil, nil, err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	azureClient, err := azure.NewClient(cfg, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create Azure client: %w", err)
	}

	return cfg, log, collector.NewCostCollector(azureClient, log), nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, log, costCollector, err := bootstrap(cmd)
	if err != nil {
		return err
	}

	log.Info("Azure Spend Exporter starting", version.Get().LogFields()...)
	log.Info("Configuration loaded successfully", cfg.Redacted()...)

	srv := server.NewServer(cfg, costCollector, log)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		log.Error("Server error", "error", err)
		return err

	case sig := <-shutdown:
		log.Info("Received shutdown signal, starting graceful shutdown", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during server shutdown", "error", err)
			return fmt.Errorf("shutdown: %w", err)
		}

		log.Info("Server stopped gracefully")
		return nil
	}
}
