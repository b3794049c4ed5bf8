package ledger

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/zeebo/blake3"
)

// Outcome values stored in the outcomes table.
const (
	OutcomeRecorded = "recorded"
	OutcomePassed   = "passed"
	OutcomeFailed   = "failed"
	OutcomeMissing  = "missing"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
)

// Outcome is one assertion result within a run.
type Outcome struct {
	RunID   string `json:"run_id"`
	Seq     int64  `json:"seq"`
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
	Digest  string `json:"digest,omitempty"`
}

// StaleArtifact is an artifact no assertion referenced during a run.
type StaleArtifact struct {
	RunID  string `json:"run_id"`
	Source string `json:"source"`
	Path   string `json:"path"`
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// WriteRun inserts a run. Duplicate ids are ignored.
func (s *Store) WriteRun(ctx context.Context, id string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, startedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteOutcome appends an outcome to its run and returns the assigned seq.
// Seq values start at 1 within each run.
func (s *Store) WriteOutcome(ctx context.Context, o Outcome) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write outcome: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM outcomes WHERE run_id = ?`, o.RunID,
	).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write outcome: next seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO outcomes (run_id, seq, path, outcome, digest)
		VALUES (?, ?, ?, ?, ?)
	`, o.RunID, seq, o.Path, o.Outcome, o.Digest); err != nil {
		return 0, fmt.Errorf("write outcome: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write outcome: commit: %w", err)
	}
	return seq, nil
}

// WriteStale stores a stale artifact. Writing the same path twice is a no-op.
func (s *Store) WriteStale(ctx context.Context, a StaleArtifact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stale (run_id, source, path) VALUES (?, ?, ?)
		ON CONFLICT(run_id, path) DO NOTHING
	`, a.RunID, a.Source, a.Path)
	if err != nil {
		return fmt.Errorf("write stale: %w", err)
	}
	return nil
}
