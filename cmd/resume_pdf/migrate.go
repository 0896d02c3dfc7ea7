package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pdf/internal/db"
)

var migrateDatabaseURL string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  "Applies the embedded PostgreSQL migrations for the submissions table. The server also migrates on startup; this command is for deploys that run migrations separately.",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "database-url", "", "PostgreSQL connection URL (default: DATABASE_URL or config file)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	url := migrateDatabaseURL
	if url == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		url = cfg.Store.DatabaseURL
	}
	if url == "" {
		return fmt.Errorf("database URL is required: set --database-url or DATABASE_URL")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, url, db.MigrateOptions())
	if err != nil {
		return err
	}
	defer database.Close()

	handle := database.SQL()
	defer func() { _ = handle.Close() }()

	if err := db.Migrate(ctx, handle); err != nil {
		return err
	}
	version, err := db.Version(ctx, handle)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (schema version %d)\n", version)
	return nil
}
