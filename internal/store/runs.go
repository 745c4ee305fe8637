package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded design invocation.
type Run struct {
	ID         string
	CreatedAt  time.Time
	Gene       string
	Organism   string
	Cas        string
	Kind       string
	Reason     string
	GuideCount int
	ParamsJSON string
}

// timeLayout is fixed width so created_at sorts as text in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.New().String() }

// #region record-run
// RecordRun inserts r, assigning an ID and timestamp when unset.
func (s *Store) RecordRun(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = NewRunID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO design_runs (run_id, created_at, gene, organism, cas_type, kind, reason, guide_count, params_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt.UTC().Format(timeLayout), r.Gene, r.Organism, r.Cas,
		r.Kind, r.Reason, r.GuideCount, r.ParamsJSON,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return r, nil
}

// #endregion record-run

// #region list-runs
// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, created_at, gene, organism, cas_type, kind,
		        COALESCE(reason, ''), guide_count, COALESCE(params_json, '')
		   FROM design_runs
		  ORDER BY created_at DESC, rowid DESC
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r  Run
			ts string
		)
		if err := rows.Scan(&r.ID, &ts, &r.Gene, &r.Organism, &r.Cas, &r.Kind,
			&r.Reason, &r.GuideCount, &r.ParamsJSON); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, err = time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("run %s: bad timestamp: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion list-runs
