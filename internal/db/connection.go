package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS objects (
	ref        TEXT PRIMARY KEY,
	folder     TEXT NOT NULL,
	name       TEXT NOT NULL,
	path       TEXT NOT NULL,
	title      TEXT,
	thumbnail  TEXT,
	size_bytes INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_objects_folder ON objects(folder, name);`

// Store is the local SQLite content store. It indexes media files that live
// on disk and serves them to the catalog client as file:// playback URLs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite index at dbPath and applies the schema
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Open connection pool (doesn't actually connect yet)
	pool, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Metadata reads fan out per item, so allow a handful of readers
	pool.SetMaxOpenConns(8)
	pool.SetMaxIdleConns(4)
	pool.SetConnMaxLifetime(0) // Connections don't expire (SQLite is local)

	if _, err := pool.Exec("PRAGMA journal_mode=WAL"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if _, err := pool.Exec("PRAGMA busy_timeout=5000"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := pool.Exec(schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	// Test the connection to ensure database is accessible
	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}
