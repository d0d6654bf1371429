// Package database centralises sqlx connection helpers and schema migration.
// Two drivers are supported: go-sql-driver/mysql for production (also works
// with MariaDB) and modernc.org/sqlite, a pure-Go driver, for development and
// tests.
//
// Public entry points:
//
//	Open(driver, dsn)                        – quick helper with conservative pool sizes.
//	OpenWithOptions(driver, dsn, maxOpen, maxIdle) – fine-grained control.
//	Migrate(ctx, db, stmts)                  – idempotent schema statements.
//
// Open helpers Ping the database before returning so callers can fail fast
// during bootstrap.  Callers should Close() the returned *sqlx.DB when no
// longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Open returns a *sqlx.DB with sane defaults: 15 max open, 5 idle, and a
// 30-minute connection lifetime.
func Open(driver, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(driver, dsn, 15, 5)
}

// OpenWithOptions lets callers tune maxOpen and maxIdle.  SQLite serialises
// writers, so its pool is pinned to one connection regardless.
func OpenWithOptions(driver, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	switch driver {
	case "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		maxOpen, maxIdle = 1, 1
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate runs stmts in order inside one transaction.  Statements must be
// idempotent (CREATE TABLE IF NOT EXISTS …) because Migrate keeps no
// history table.
func Migrate(ctx context.Context, db *sqlx.DB, stmts []string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	for i, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	zap.S().Infow("migrations applied", "driver", db.DriverName(), "statements", len(stmts))
	return nil
}
