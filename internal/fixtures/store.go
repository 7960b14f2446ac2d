// Package fixtures provides SQLite-backed test tooling for loading and
// seeding exercise catalogs, workout history, and user baselines. It has
// no bearing on the engine's planning path, which stays pure and
// in-memory (spec §5): fixtures exist so tests and the cmd/planner demo
// can build realistic inputs without hand-rolling literal structs every
// time.
package fixtures

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Config holds database configuration for Open.
type Config struct {
	Path           string
	MigrationsPath string
}

// Open opens a SQLite database connection via the cgo mattn/go-sqlite3
// driver and runs goose migrations.
func Open(cfg Config) (*sql.DB, error) {
	if err := ensureDir(cfg.Path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", cfg.Path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if cfg.MigrationsPath != "" {
		if err := migrate(db, "sqlite3", cfg.MigrationsPath); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// OpenPure opens a SQLite database connection via the pure-Go
// modernc.org/sqlite driver, for environments where cgo is unavailable
// (sandboxed test runners). Behaves the same as Open otherwise.
func OpenPure(cfg Config) (*sql.DB, error) {
	if err := ensureDir(cfg.Path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if cfg.MigrationsPath != "" {
		if err := migrate(db, "sqlite", cfg.MigrationsPath); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

func ensureDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return nil
}

func migrate(db *sql.DB, dialect, migrationsPath string) error {
	goose.SetBaseFS(nil)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, migrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// OpenInMemory opens an in-memory SQLite database via the pure-Go driver
// and runs migrations. Useful for fast, cgo-free unit tests.
func OpenInMemory(migrationsPath string) (*sql.DB, error) {
	return OpenPure(Config{Path: ":memory:", MigrationsPath: migrationsPath})
}

// OpenTemp opens a temporary SQLite database file via the cgo driver and
// runs migrations. Returns the connection and a cleanup function.
func OpenTemp(migrationsPath string) (*sql.DB, func(), error) {
	tmpFile, err := os.CreateTemp("", "trainprog-fixtures-*.db")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create temp db file: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()

	db, err := Open(Config{Path: tmpPath, MigrationsPath: migrationsPath})
	if err != nil {
		os.Remove(tmpPath)
		return nil, nil, err
	}

	cleanup := func() {
		db.Close()
		os.Remove(tmpPath)
	}
	return db, cleanup, nil
}

// MigrationsDir resolves the absolute path of this package's bundled
// migrations directory, for callers (tests, cmd/planner) that don't want
// to hardcode a relative path.
func MigrationsDir() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve fixtures package directory")
	}
	return filepath.Join(filepath.Dir(filename), "migrations"), nil
}
