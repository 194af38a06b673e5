package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/tinylink/pkg/adapters/repository/sqldb"
	"github.com/wadjakorntonsri/tinylink/pkg/config"
	"github.com/wadjakorntonsri/tinylink/pkg/logging"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "tinylink-cli",
	Short:         "Maintenance commands for the tinylink database",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		// stdout carries export data, so logs go to stderr.
		logger = logging.New(os.Stderr, cfg.IsProduction(), cfg.LogLevel)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd, migrateCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func openRepository(ctx context.Context) (*sqldb.Repository, error) {
	return sqldb.NewRepository(ctx, cfg.DatabaseURL, logger)
}
