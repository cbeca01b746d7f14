package main

import (
	"errors"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"baseline_academy/internal/platform/config"
	"baseline_academy/internal/platform/database"
)

// schemaMigrator is the part of database.Migrator the commands drive.
type schemaMigrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Close() error
}

var newMigrator = func(databaseURL string) (schemaMigrator, error) {
	return database.NewMigrator(databaseURL)
}

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  `Apply or roll back the embedded PostgreSQL migrations. Without a subcommand, applies all pending migrations.`,
		RunE:  migrateAction(runUp),
	}
	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", Args: cobra.NoArgs, RunE: migrateAction(runUp)},
		&cobra.Command{Use: "down", Short: "Roll back every migration", Args: cobra.NoArgs, RunE: migrateAction(runDown)},
		&cobra.Command{Use: "version", Short: "Print the current schema version", Args: cobra.NoArgs, RunE: migrateAction(runVersion)},
	)
	return cmd
}

func migrateAction(run func(*cobra.Command, schemaMigrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) (err error) {
		cfg, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		if !cfg.UsesPostgres() {
			return oops.Code("CONFIG_INVALID").Errorf("database_url is required for migrations")
		}

		m, err := newMigrator(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, m.Close()) }()

		return run(cmd, m)
	}
}

func runUp(cmd *cobra.Command, m schemaMigrator) error {
	if err := m.Up(); err != nil {
		return err
	}
	cmd.Println("Migrations applied")
	return nil
}

func runDown(cmd *cobra.Command, m schemaMigrator) error {
	if err := m.Down(); err != nil {
		return err
	}
	cmd.Println("Migrations rolled back")
	return nil
}

func runVersion(cmd *cobra.Command, m schemaMigrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if dirty {
		cmd.Printf("%d (dirty)\n", v)
		return nil
	}
	cmd.Printf("%d\n", v)
	return nil
}
