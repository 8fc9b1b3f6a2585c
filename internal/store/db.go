// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides database access: connection setup for the
// hosted Postgres service (with a SQLite fallback for development and
// tests), embedded goose migrations, and a typed query layer.
package store

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver for database/sql
	_ "modernc.org/sqlite"             // SQLite driver for database/sql
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// DriverPostgres and DriverSQLite are the database/sql driver names the
// store runs on.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc.org/sqlite registers as "sqlite", which sqlx does not
	// know about by default.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// OpenPostgres connects to the hosted Postgres database.
func OpenPostgres(url string) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverPostgres, url)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return db, nil
}

// OpenSQLite opens a SQLite database file and configures it for
// concurrent request handling.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA busy_timeout=5000",  // Wait 5s when database is locked
		"PRAGMA synchronous=NORMAL", // Good balance of safety and speed
		"PRAGMA foreign_keys=ON",    // Enforce foreign key constraints
		"PRAGMA temp_store=MEMORY",  // Store temp tables in memory
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}
	return db, nil
}

// Migrate runs all pending migrations for the database's driver.
func Migrate(db *sqlx.DB) error {
	var dialect, dir string
	switch db.DriverName() {
	case DriverPostgres:
		dialect, dir = "postgres", "migrations/postgres"
	case DriverSQLite:
		dialect, dir = "sqlite3", "migrations/sqlite"
	default:
		return fmt.Errorf("unsupported driver %q", db.DriverName())
	}

	sub, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("locating migrations: %w", err)
	}
	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db.DB, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// nullInt64 converts an optional id to sql.NullInt64.
func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
