// Package store keeps pathway membership and design-run history in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS pathway_members (
	organism   TEXT NOT NULL,
	pathway    TEXT NOT NULL,
	gene       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE(organism, pathway, gene)
);
CREATE INDEX IF NOT EXISTS idx_members_gene ON pathway_members(organism, gene);

CREATE TABLE IF NOT EXISTS design_runs (
	run_id      TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	gene        TEXT NOT NULL,
	organism    TEXT NOT NULL,
	cas_type    TEXT NOT NULL,
	kind        TEXT NOT NULL,
	reason      TEXT,
	guide_count INTEGER NOT NULL,
	params_json TEXT
);
`

// #endregion schema

// Store wraps one SQLite database. A single connection is kept so that
// ":memory:" databases survive across calls.
type Store struct {
	db *sql.DB
}

// #region constructor
// Open opens (or creates) the database at path and runs migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// #endregion constructor

func (s *Store) Close() error {
	return s.db.Close()
}
