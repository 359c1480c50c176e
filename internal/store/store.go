// Package store persists gridline's state in SQLite: field schema,
// view configurations, per-tier layout overrides, and the records the
// grid browses. It implements the grid package's RowSource, ViewStore
// and CellWriter collaborator interfaces.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps the SQLite database.
type Store struct {
	db   *sql.DB
	path string

	// fetch deduplicates identical concurrent page queries.
	fetch singleflight.Group
}

// New creates an unopened store.
func New() *Store {
	return &Store{}
}

// Open opens the SQLite database at path. Use ":memory:" for an
// in-memory database.
func (s *Store) Open(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return fmt.Errorf("failed to set pragmas: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the tables if they do not exist.
func (s *Store) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}
