// Package store provides the durable job and application records that
// ingestion, scoring and materials collaborators read and write.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Schema is the persisted layout of the store. The column set is the
// contract with external collaborators; the foreign key is the store's
// own hardening on top of it.
const Schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	company TEXT,
	title TEXT,
	location TEXT,
	url TEXT UNIQUE,
	posted_at TEXT,
	raw_json TEXT,
	score REAL DEFAULT 0,
	status TEXT DEFAULT 'new'
);
CREATE TABLE IF NOT EXISTS applications (
	job_id TEXT PRIMARY KEY,
	applied_at TEXT,
	resume_path TEXT,
	cover_path TEXT,
	notes TEXT,
	FOREIGN KEY(job_id) REFERENCES jobs(id)
);
`

// Store is the handle collaborators receive; it owns a single SQLite
// connection pool and performs one transaction per operation.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and
// applies the pragmas the single-writer batch workload relies on.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// One connection: the workload is single-writer, and pragmas are
	// per-connection so a pool would silently lose them.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	return &Store{db: db}, nil
}

// New wraps an already-open database handle. Foreign key enforcement
// must be enabled by the caller.
func New(db *sql.DB) *Store { return &Store{db: db} }

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate creates the jobs and applications tables if they don't exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// begin starts a transaction and returns it with a rollback guard the
// caller disarms by committing.
func (s *Store) begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}
