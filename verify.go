package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/snapshot/internal/ledger"
)

// CallOption configures a single assertion.
type CallOption func(*assertion)

type assertion struct {
	engine  *Engine
	name    string
	record  bool
	timeout time.Duration
}

// Named uses name as the artifact identifier instead of the next counter
// value of the test.
func Named(name string) CallOption {
	return func(a *assertion) {
		a.name = name
	}
}

// Record rewrites this assertion's artifact regardless of its content.
func Record() CallOption {
	return func(a *assertion) {
		a.record = true
	}
}

// Timeout overrides the engine's reduction timeout for this assertion.
func Timeout(d time.Duration) CallOption {
	return func(a *assertion) {
		a.timeout = d
	}
}

// Using runs the assertion against e instead of the default engine.
// Verify ignores it; its engine is explicit.
func Using(e *Engine) CallOption {
	return func(a *assertion) {
		a.engine = e
	}
}

// Verify asserts that value, reduced with s, matches the artifact of site.
//
// It returns nil on a match and an *Error otherwise, including when the
// artifact was just recorded (KindRecorded).
func Verify[V, F any](ctx context.Context, e *Engine, site Site, value V, s Strategy[V, F], opts ...CallOption) error {
	a := assertion{timeout: e.timeout}
	for _, opt := range opts {
		opt(&a)
	}

	id := a.name
	if id == "" {
		id = strconv.Itoa(e.counter.Next(site.counterKey()))
	}
	path := site.Path(id, s.Extension())
	e.logger.Debug("resolved snapshot", "test", site.Test, "path", path)

	if err := e.tracker.Touch(site.File, site.Dir(), path); err != nil {
		return e.finish(ctx, path, ledger.OutcomeError, nil, newIOError(path, "tracking", err))
	}

	actual, err := reduce(ctx, s, value, a.timeout)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return e.finish(ctx, path, ledger.OutcomeTimeout, nil, newTimeoutError(path, a.timeout))
		case errors.Is(err, ErrNoValue):
			return e.finish(ctx, path, ledger.OutcomeTimeout, nil, newNoValueError(path, err))
		default:
			return e.finish(ctx, path, ledger.OutcomeError, nil, newReductionError(path, err))
		}
	}
	data := s.format.ToBytes(actual)

	if !a.record && !e.Recording() {
		reference, err := os.ReadFile(path)
		switch {
		case err == nil:
			return compare(ctx, e, site, s.format, path, reference, actual, data)
		case !errors.Is(err, fs.ErrNotExist):
			return e.finish(ctx, path, ledger.OutcomeError, nil, newIOError(path, "read", err))
		case e.missing == FailMissing:
			return e.finish(ctx, path, ledger.OutcomeMissing, data, newMissingError(path))
		}
	}

	if err := writeFile(path, data); err != nil {
		return e.finish(ctx, path, ledger.OutcomeError, data, newIOError(path, "write", err))
	}
	return e.finish(ctx, path, ledger.OutcomeRecorded, data, newRecordedError(path))
}

// reduce applies s to v, giving up after timeout.
func reduce[V, F any](ctx context.Context, s Strategy[V, F], v V, timeout time.Duration) (F, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return Apply(ctx, s, v)
}

func compare[F any](ctx context.Context, e *Engine, site Site, format Format[F], path string, reference []byte, actual F, data []byte) error {
	if bytes.Equal(reference, data) {
		return e.finish(ctx, path, ledger.OutcomePassed, data, nil)
	}

	stored, err := format.FromBytes(reference)
	if err != nil {
		return e.finish(ctx, path, ledger.OutcomeError, data, newIOError(path, "decode", err))
	}
	if format.Equal(stored, actual) {
		return e.finish(ctx, path, ledger.OutcomePassed, data, nil)
	}

	message, attachments, differs := "Snapshot does not match reference.", []Attachment(nil), true
	if format.Diff != nil {
		message, attachments, differs = format.Diff(stored, actual, DiffOptions{Context: e.contextLines})
	}
	if !differs {
		return e.finish(ctx, path, ledger.OutcomePassed, data, nil)
	}

	failurePath := e.failurePath(site, path)
	if err := writeFile(failurePath, data); err != nil {
		return e.finish(ctx, path, ledger.OutcomeError, data, newIOError(failurePath, "write", err))
	}
	for _, att := range attachments {
		p := failurePath + "." + att.Name
		if err := os.WriteFile(p, att.Data, 0o644); err != nil {
			return e.finish(ctx, path, ledger.OutcomeError, data, newIOError(p, "write", err))
		}
	}

	return e.finish(ctx, path, ledger.OutcomeFailed, data, &Error{
		Kind:        KindMismatch,
		Message:     strings.TrimSpace(message) + "\n\n" + e.pathsMessage(path, failurePath),
		Path:        path,
		FailurePath: failurePath,
		Diff:        message,
		Attachments: attachments,
	})
}

// failurePath places the failing value under the artifacts directory, in a
// folder named after the test file so equal test names do not collide.
func (e *Engine) failurePath(site Site, path string) string {
	return filepath.Join(e.artifactsDir, filepath.Base(site.Dir()), filepath.Base(path))
}

func (e *Engine) pathsMessage(reference, failure string) string {
	if e.diffTool != "" {
		return fmt.Sprintf("%s %q %q", e.diffTool, reference, failure)
	}
	return fmt.Sprintf("@-\n%q\n@+\n%q", reference, failure)
}

// finish logs the outcome and stores it in the ledger. It returns err as an
// error, or nil when the assertion passed.
func (e *Engine) finish(ctx context.Context, path, outcome string, data []byte, err *Error) error {
	switch outcome {
	case ledger.OutcomePassed:
		e.logger.Debug("snapshot matched", "path", path)
	case ledger.OutcomeRecorded:
		e.logger.Info("recorded snapshot", "path", path)
	default:
		e.logger.Warn("snapshot failed", "path", path, "outcome", outcome, "kind", string(err.Kind))
	}

	if r := e.ledger(); r != nil {
		if lerr := r.Outcome(context.WithoutCancel(ctx), path, outcome, data); lerr != nil {
			e.logger.Warn("failed to record snapshot outcome", "path", path, "error", lerr)
		}
	}

	if err == nil {
		return nil
	}
	return err
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
