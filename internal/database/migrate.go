package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations
var migrations embed.FS

// Migrate brings the schema up to date
func Migrate(db *sqlx.DB, cfg Config) error {
	src, err := iofs.New(migrations, "migrations/"+cfg.Driver)
	if err != nil {
		return fmt.Errorf("failed to load migrations for %s: %w", cfg.Driver, err)
	}

	var (
		driver migratedb.Driver
		closer func() error
	)
	switch cfg.Driver {
	case DriverSQLite:
		// The sqlite driver closes the database it was given on Close,
		// so it shares the application's handle and is never closed.
		driver, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	case DriverPostgres:
		// The postgres driver pins one connection until Close; run it on its own pool.
		var own *sql.DB
		own, err = sql.Open(DriverPostgres, cfg.DSN)
		if err != nil {
			return fmt.Errorf("failed to open migration connection: %w", err)
		}
		driver, err = postgres.WithInstance(own, &postgres.Config{})
		if err != nil {
			own.Close()
		}
		closer = func() error { return driver.Close() }
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return fmt.Errorf("failed to init migration driver: %w", err)
	}
	if closer != nil {
		defer closer()
	}

	m, err := migrate.NewWithInstance("iofs", src, cfg.Driver, driver)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
