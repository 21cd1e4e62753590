// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/courtsidehq/courtside/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB bundles the SQLite connection with the query layer. Inside RunInTx the
// Queries field is rebound to the transaction, so callers read and write
// through tx.Queries without caring which mode they are in.
type DB struct {
	*sql.DB
	Queries *Queries
}

// New opens (creating if absent) the SQLite database at the given DSN with
// foreign keys forced on, applies any pending embedded migrations, and
// returns the wrapped handle.
func New(dataSourceName string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", withForeignKeys(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &DB{DB: sqlDB, Queries: NewQueries(sqlDB)}, nil
}

// NewFromConfig opens the configured database file, creating its parent
// directory first.
func NewFromConfig(cfg *config.Config) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Filename), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	return New(cfg.Database.Filename)
}

// withForeignKeys appends _fk=1 to the DSN unless the caller already set a
// foreign-key mode. go-sqlite3 leaves enforcement off by default and the
// schema relies on it.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_fk=1"
}

func applyMigrations(sqlDB *sql.DB) error {
	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// RunInTx executes fn inside a transaction. The *DB passed to fn has its
// Queries bound to that transaction; fn must not retain it past return.
// Any error or panic from fn rolls the transaction back.
func (db *DB) RunInTx(ctx context.Context, fn func(tx *DB) error) error {
	sqlTx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&DB{DB: db.DB, Queries: NewQueries(sqlTx)}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (after: %w)", rbErr, err)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
