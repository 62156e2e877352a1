// Package storage opens the client-local SQLite database and keeps its
// schema current.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/attendance/internal/client/migrations"
	"github.com/dmitrijs2005/attendance/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite file at dsn and migrates
// it. The parent directory is created with owner-only permissions since the
// file holds a bearer credential.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if _, err := filex.EnsureDir(dir); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single connection serialises writers; SQLite would otherwise report
	// SQLITE_BUSY under concurrent credential updates.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}

	if err := os.Chmod(dsn, 0o600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("chmod %s: %w", dsn, err)
	}

	return db, nil
}
