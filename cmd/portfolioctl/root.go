package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/pkg/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "portfolioctl",
	Short:         "Administer the portfolio content store",
	Long:          "Operator tool for the portfolio API: schema migrations, admin tokens, and NDJSON import/export of projects and blog posts.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// commandLogger writes human-readable logs to stderr so stdout stays free for
// exported data.
func commandLogger(cmd *cobra.Command) zerolog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.NewWithWriter(config.LogConfig{Level: level, Format: "pretty"}, cmd.ErrOrStderr())
}

// openStore loads the configuration and connects to the configured store.
// Callers must close the returned store.
func openStore(ctx context.Context, log zerolog.Logger) (*config.Config, *database.Store, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	store, err := database.Open(ctx, &cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return cfg, store, nil
}
