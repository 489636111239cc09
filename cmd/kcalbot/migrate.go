package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/zulandar/kcalbot/internal/config"
	"github.com/zulandar/kcalbot/internal/db"
)

func newMigrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or repair the database schema",
		Long: `Creates the entries table if missing and repairs databases written by
older schema versions (adds the grams, kcal_per100 and mode columns, and
stamps mode="weight" on rows that predate the weight/direct split).

Safe to run multiple times (idempotent). The start command runs the same
migration on every boot; this command exists for running it standalone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.OutOrStdout(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "kcalbot.yaml", "path to kcalbot config file")
	return cmd
}

func runMigrate(out io.Writer, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Storage)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Migrating database schema...")
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintln(out, "Migration complete.")
	return nil
}
