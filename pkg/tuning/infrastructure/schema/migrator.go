// Package schema installs and removes the relational schema of the store.
// Installation is explicit: nothing in the repository layer migrates implicitly.
package schema

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/tigerroll/tunestore/pkg/tuning/adapter/database"
	"github.com/tigerroll/tunestore/pkg/tuning/support/util/logger"
)

// MigrationsTable is the bookkeeping table of applied schema versions.
const MigrationsTable = "tunestore_schema_migrations"

//go:embed migrations
var migrationsFS embed.FS

// Migrations returns the embedded migration files of dbType.
func Migrations(dbType string) (fs.FS, error) {
	switch dbType {
	case "sqlite", "mysql", "postgres":
		return fs.Sub(migrationsFS, "migrations/"+dbType)
	default:
		return nil, fmt.Errorf("unsupported database type for migration: %s", dbType)
	}
}

// Migrator applies the embedded migrations of one connection's dialect.
type Migrator struct {
	conn database.DBConnection
}

// NewMigrator creates a Migrator for conn.
func NewMigrator(conn database.DBConnection) *Migrator {
	return &Migrator{conn: conn}
}

// getDatabaseDriver retrieves a migrate/v4 driver for the connection's type.
func (m *Migrator) getDatabaseDriver() (migratedb.Driver, error) {
	sqlDB, err := m.conn.GetSQLDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	switch m.conn.Type() {
	case "postgres":
		return postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: MigrationsTable})
	case "mysql":
		return mysql.WithInstance(sqlDB, &mysql.Config{MigrationsTable: MigrationsTable})
	case "sqlite":
		return sqlite3.WithInstance(sqlDB, &sqlite3.Config{MigrationsTable: MigrationsTable})
	default:
		return nil, fmt.Errorf("unsupported database type for migration: %s", m.conn.Type())
	}
}

// withInstance builds a migrate instance and hands it to fn. Only the source is
// closed afterwards: closing the database driver would close the shared pool.
func (m *Migrator) withInstance(fn func(*migrate.Migrate) error) error {
	files, err := Migrations(m.conn.Type())
	if err != nil {
		return err
	}
	sourceDriver, err := iofs.New(files, ".")
	if err != nil {
		return fmt.Errorf("failed to create iofs source driver: %w", err)
	}
	defer sourceDriver.Close()

	dbDriver, err := m.getDatabaseDriver()
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}
	mInstance, err := migrate.NewWithInstance("iofs", sourceDriver, m.conn.Type(), dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return fn(mInstance)
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, "up", func(mi *migrate.Migrate) error { return mi.Up() })
}

// Down reverts all applied migrations, dropping the store's tables.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, "down", func(mi *migrate.Migrate) error { return mi.Down() })
}

func (m *Migrator) run(ctx context.Context, command string, fn func(*migrate.Migrate) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.Infof("Executing migration '%s' (DB: %s, Table: %s)", command, m.conn.Name(), MigrationsTable)
	return m.withInstance(func(mi *migrate.Migrate) error {
		if err := fn(mi); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Infof("Migration '%s': no change.", command)
				return nil
			}
			return fmt.Errorf("migration failed for command '%s' (DB: %s): %w", command, m.conn.Type(), err)
		}
		logger.Infof("Migration '%s' completed successfully.", command)
		return nil
	})
}

// Version returns the applied schema version. ok is false when no migration
// has been applied; dirty is true when the last migration failed half-way.
func (m *Migrator) Version(ctx context.Context) (version uint, dirty bool, ok bool, err error) {
	if err := ctx.Err(); err != nil {
		return 0, false, false, err
	}
	err = m.withInstance(func(mi *migrate.Migrate) error {
		v, d, verr := mi.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			return nil
		}
		if verr != nil {
			return verr
		}
		version, dirty, ok = v, d, true
		return nil
	})
	return version, dirty, ok, err
}
