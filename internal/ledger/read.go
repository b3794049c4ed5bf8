package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoRuns is returned by LatestRun when the ledger is empty.
var ErrNoRuns = errors.New("ledger has no runs")

// Run is a ledger run header.
type Run struct {
	ID        string `json:"id"`
	StartedAt string `json:"started_at"`
}

// LatestRun returns the most recently created run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at FROM runs
		ORDER BY id COLLATE BINARY DESC
		LIMIT 1
	`).Scan(&r.ID, &r.StartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, fmt.Errorf("query latest run: %w", err)
	}
	return r, nil
}

// Runs returns all runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at FROM runs
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Outcomes returns the outcomes of a run ordered by seq.
// Returns an empty slice (not nil) when the run has none.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, path, outcome, digest FROM outcomes
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []Outcome{}
	for rows.Next() {
		var o Outcome
		if err := rows.Scan(&o.RunID, &o.Seq, &o.Path, &o.Outcome, &o.Digest); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}

// Stale returns the stale artifacts of a run ordered by path.
func (s *Store) Stale(ctx context.Context, runID string) ([]StaleArtifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, source, path FROM stale
		WHERE run_id = ?
		ORDER BY path COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query stale: %w", err)
	}
	defer rows.Close()

	stale := []StaleArtifact{}
	for rows.Next() {
		var a StaleArtifact
		if err := rows.Scan(&a.RunID, &a.Source, &a.Path); err != nil {
			return nil, fmt.Errorf("scan stale: %w", err)
		}
		stale = append(stale, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stale: %w", err)
	}
	return stale, nil
}
