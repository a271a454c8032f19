package db

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// gooseDialects lists the drivers Init accepts and their goose dialect.
var gooseDialects = map[string]goose.Dialect{
	"sqlite": goose.DialectSQLite3,
	"pgx":    goose.DialectPostgres,
}

func dialect(driver string) (goose.Dialect, error) {
	d, ok := gooseDialects[driver]
	if !ok {
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
	return d, nil
}

// migrate points goose at the embedded goals and progress_entries
// migrations for driver, then runs op.
func migrate(db *sql.DB, driver string, op func(db *sql.DB) error) error {
	d, err := dialect(driver)
	if err != nil {
		return err
	}

	err = goose.SetDialect(string(d))
	if err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations directory: %w", err)
	}
	goose.SetBaseFS(migrationsDir)

	return op(db)
}

// RunMigrations applies every pending migration. The server runs it at
// startup unless DB_AUTO_MIGRATE is off.
func RunMigrations(db *sql.DB, driver string) error {
	return migrate(db, driver, func(db *sql.DB) error {
		err := goose.Up(db, ".")
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		logVersion(db, "schema up to date")
		return nil
	})
}

// MigrateDown rolls back the newest migration only. Dropping
// progress_entries discards every logged entry.
func MigrateDown(db *sql.DB, driver string) error {
	return migrate(db, driver, func(db *sql.DB) error {
		err := goose.Down(db, ".")
		if err != nil {
			return fmt.Errorf("failed to rollback migration: %w", err)
		}

		logVersion(db, "rolled back one migration")
		return nil
	})
}

// MigrationStatus prints applied and pending migrations to the goose logger.
func MigrationStatus(db *sql.DB, driver string) error {
	return migrate(db, driver, func(db *sql.DB) error {
		err := goose.Status(db, ".")
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		return nil
	})
}

func logVersion(db *sql.DB, msg string) {
	version, err := goose.GetDBVersion(db)
	if err != nil {
		slog.Warn("failed to read schema version", "error", err)
		return
	}
	slog.Info(msg, "version", version)
}
