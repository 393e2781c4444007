package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/portfolio-api/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the Postgres schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQL(cmd, func(db *database.DB) error {
			return db.RunMigrations()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQL(cmd, func(db *database.DB) error {
			return db.MigrateDown()
		})
	},
}

var migrateGotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return withSQL(cmd, func(db *database.DB) error {
			return db.MigrateToVersion(uint(version))
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateGotoCmd)
	rootCmd.AddCommand(migrateCmd)
}

// withSQL runs fn against the Postgres store. MongoDB has no migrations, its
// indexes are created when the server starts.
func withSQL(cmd *cobra.Command, fn func(db *database.DB) error) error {
	ctx := context.Background()
	log := commandLogger(cmd)

	_, store, err := openStore(ctx, log)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	if store.SQL == nil {
		return fmt.Errorf("migrate: only supported for postgres, store driver is %s", store.Driver)
	}
	if err := fn(store.SQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Migrations complete")
	return nil
}
