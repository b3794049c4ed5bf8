package snapshot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/snapshot/internal/config"
	"github.com/roach88/snapshot/internal/ledger"
	"github.com/roach88/snapshot/internal/linediff"
	"github.com/roach88/snapshot/internal/track"
)

// DefaultTimeout bounds how long an assertion waits for its value to reduce.
const DefaultTimeout = 5 * time.Second

// MissingMode decides what an assertion does when no artifact exists.
type MissingMode int

const (
	// RecordMissing writes the artifact and reports a recording event.
	RecordMissing MissingMode = iota
	// FailMissing reports KindMissing without writing anything. Useful on CI,
	// where a missing artifact means it was never committed.
	FailMissing
)

// Engine owns the process-scoped state behind assertions: identifier
// counters, the tracked artifacts used for the stale report, the recording
// flag and the optional run ledger.
//
// Thread-safety model:
//   - Verify/Assert: safe from any goroutine
//   - SetRecording/RecordDuring: safe from any goroutine; RecordDuring
//     affects every assertion made while fn runs, not only fn's own
//   - Reset: must not race with assertions it is meant to forget
type Engine struct {
	counter *track.Counter
	tracker *track.Tracker

	record atomic.Bool
	scoped atomic.Int32

	missing      MissingMode
	diffTool     string
	artifactsDir string
	contextLines int
	timeout      time.Duration
	logger       *slog.Logger

	ledgerPath string
	ledgerOnce sync.Once
	recorder   *ledger.Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecording starts the engine in recording mode: every assertion
// rewrites its artifact.
func WithRecording(on bool) Option {
	return func(e *Engine) {
		e.record.Store(on)
	}
}

// WithMissing sets the behavior for assertions without an artifact.
//
// Default: RecordMissing
func WithMissing(mode MissingMode) Option {
	return func(e *Engine) {
		e.missing = mode
	}
}

// WithDiffTool makes failure messages show `<tool> "<reference>" "<failure>"`
// instead of the two paths.
func WithDiffTool(tool string) Option {
	return func(e *Engine) {
		e.diffTool = tool
	}
}

// WithArtifactsDir sets where failing snapshots are written.
//
// Default: os.TempDir()
func WithArtifactsDir(dir string) Option {
	return func(e *Engine) {
		e.artifactsDir = dir
	}
}

// WithContextLines sets the unchanged lines shown around each hunk.
//
// Default: 4
func WithContextLines(n int) Option {
	return func(e *Engine) {
		e.contextLines = n
	}
}

// WithTimeout sets the default reduction timeout.
//
// Default: 5s (DefaultTimeout)
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithLogger sets the structured logger.
//
// Default: slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithLedger records every outcome in the SQLite ledger at path. The ledger
// is opened on first use; if it cannot be opened, assertions still run and
// the error is logged.
func WithLedger(path string) Option {
	return func(e *Engine) {
		e.ledgerPath = path
	}
}

// New creates an Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		counter:      track.NewCounter(),
		tracker:      track.NewTracker(),
		missing:      RecordMissing,
		artifactsDir: os.TempDir(),
		contextLines: linediff.DefaultContext,
		timeout:      DefaultTimeout,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromEnv creates an Engine from the SNAPSHOT_* environment and the
// optional .snapshot.yaml file. opts are applied after the loaded settings.
func NewFromEnv(opts ...Option) (*Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot config: %w", err)
	}
	return newFromConfig(cfg, opts...), nil
}

func newFromConfig(cfg config.Config, opts ...Option) *Engine {
	missing := RecordMissing
	if cfg.Missing == config.MissingNever {
		missing = FailMissing
	}
	base := []Option{
		WithRecording(cfg.Record),
		WithMissing(missing),
		WithDiffTool(cfg.DiffTool),
		WithArtifactsDir(cfg.ArtifactsDir),
		WithContextLines(cfg.Context),
		WithTimeout(cfg.Timeout),
		WithLedger(cfg.Ledger),
	}
	return New(append(base, opts...)...)
}

var (
	defaultMu     sync.Mutex
	defaultEngine *Engine
)

// Default returns the engine used by Assert when no engine is given.
// It is built from the environment on first use.
func Default() *Engine {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultEngine == nil {
		e, err := NewFromEnv()
		if err != nil {
			slog.Warn("invalid snapshot configuration, using defaults", "error", err)
			e = New()
		}
		defaultEngine = e
	}
	return defaultEngine
}

// SetDefault replaces the engine returned by Default.
func SetDefault(e *Engine) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultEngine = e
}

// SetRecording turns recording mode on or off for the whole engine.
func (e *Engine) SetRecording(on bool) {
	e.record.Store(on)
}

// RecordDuring runs fn with recording mode forced on.
func (e *Engine) RecordDuring(fn func()) {
	e.scoped.Add(1)
	defer e.scoped.Add(-1)
	fn()
}

// Recording reports whether assertions currently rewrite their artifacts.
func (e *Engine) Recording() bool {
	return e.record.Load() || e.scoped.Load() > 0
}

// Reset forgets counters and tracked artifacts, as if the process had just
// started. Recording mode and options are kept.
func (e *Engine) Reset() {
	e.counter.Reset()
	e.tracker.Reset()
}

// Stale returns the artifacts not referenced by any assertion so far,
// keyed by source file.
func (e *Engine) Stale() map[string][]string {
	return e.tracker.Stale()
}

// Report writes the stale artifact report to w and stores it in the ledger.
func (e *Engine) Report(w io.Writer) error {
	stale := e.tracker.Stale()
	if r := e.ledger(); r != nil {
		if err := r.Stale(context.Background(), stale); err != nil {
			e.logger.Warn("failed to record stale snapshots", "error", err)
		}
	}
	return track.WriteReport(w, stale)
}

// Close releases the ledger, if one was opened.
func (e *Engine) Close() error {
	e.ledgerOnce.Do(func() {})
	if e.recorder == nil {
		return nil
	}
	return e.recorder.Close()
}

// LedgerRunID returns the ledger run id, or "" without a ledger.
func (e *Engine) LedgerRunID() string {
	if r := e.ledger(); r != nil {
		return r.RunID()
	}
	return ""
}

func (e *Engine) ledger() *ledger.Recorder {
	if e.ledgerPath == "" {
		return nil
	}
	e.ledgerOnce.Do(func() {
		s, err := ledger.Open(e.ledgerPath)
		if err != nil {
			e.logger.Warn("snapshot ledger disabled", "path", e.ledgerPath, "error", err)
			return
		}
		e.recorder = ledger.NewRecorder(s)
	})
	return e.recorder
}
