// Package store persists stations and measurements in a SQLite database.
//
// The service is the single writer: one cycle runs at a time, so the pool is
// capped at one connection and no application-level locking exists. External
// consumers may read the file concurrently thanks to WAL mode.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps the SQLite handle for the two weather relations.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database file at path, creating the containing
// directory if absent. The DSN enables foreign key enforcement (the cascade
// from stations to measurements depends on it), WAL journaling, and a busy
// timeout for external readers.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer; avoids SQLITE_BUSY between the cycle's own statements.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return &Store{db: db}, nil
}

// EnsureSchema creates the relations, constraints, and indexes if they do
// not exist. Safe to call on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
