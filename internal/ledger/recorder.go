package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Recorder writes the outcomes of one run. The run row is created lazily on
// the first write, so processes that never assert leave no trace.
//
// Thread-safety: safe for concurrent use.
type Recorder struct {
	store *Store
	id    string
	now   func() time.Time

	once     sync.Once
	startErr error
}

// NewRecorder creates a recorder for a fresh UUIDv7 run.
func NewRecorder(s *Store) *Recorder {
	return NewRecorderWithID(s, uuid.Must(uuid.NewV7()).String())
}

// NewRecorderWithID creates a recorder with a fixed run id.
// Used by tests that need deterministic ids.
func NewRecorderWithID(s *Store, id string) *Recorder {
	return NewRecorderWithClock(s, id, time.Now)
}

// NewRecorderWithClock creates a recorder whose run start time comes from now.
func NewRecorderWithClock(s *Store, id string, now func() time.Time) *Recorder {
	return &Recorder{store: s, id: id, now: now}
}

// RunID returns the id of the run being recorded.
func (r *Recorder) RunID() string {
	return r.id
}

func (r *Recorder) start(ctx context.Context) error {
	r.once.Do(func() {
		r.startErr = r.store.WriteRun(ctx, r.id, r.now())
	})
	return r.startErr
}

// Outcome records the result of one assertion against path.
// data is the byte form the assertion produced; nil stores no digest.
func (r *Recorder) Outcome(ctx context.Context, path, outcome string, data []byte) error {
	if err := r.start(ctx); err != nil {
		return err
	}
	o := Outcome{RunID: r.id, Path: path, Outcome: outcome}
	if data != nil {
		o.Digest = Digest(data)
	}
	_, err := r.store.WriteOutcome(ctx, o)
	return err
}

// Stale records the stale artifacts of the run, keyed by source file.
func (r *Recorder) Stale(ctx context.Context, stale map[string][]string) error {
	if len(stale) == 0 {
		return nil
	}
	if err := r.start(ctx); err != nil {
		return err
	}
	for source, paths := range stale {
		for _, p := range paths {
			if err := r.store.WriteStale(ctx, StaleArtifact{RunID: r.id, Source: source, Path: p}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes the underlying store.
func (r *Recorder) Close() error {
	return r.store.Close()
}
