package cmd

import (
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/stridelog/stridelog/internal/config"
	"github.com/stridelog/stridelog/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}

	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateDownCmd())
	cmd.AddCommand(migrateStatusCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(database *sqlx.DB, cfg *config.Config) error {
				return db.RunMigrations(database.DB, cfg.DBDriver)
			})
		},
	}
}

func migrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(database *sqlx.DB, cfg *config.Config) error {
				return db.MigrateDown(database.DB, cfg.DBDriver)
			})
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the state of every migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(database *sqlx.DB, cfg *config.Config) error {
				return db.MigrationStatus(database.DB, cfg.DBDriver)
			})
		},
	}
}

func withDatabase(fn func(database *sqlx.DB, cfg *config.Config) error) error {
	cfg := config.LoadDatabase()

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	return fn(database, cfg)
}
