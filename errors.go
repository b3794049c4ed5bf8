package snapshot

import (
	"errors"
	"fmt"
	"time"
)

// Kind categorizes the ways an assertion can end without passing.
type Kind string

const (
	// KindRecorded means the artifact was written instead of compared.
	// Not a defect, but reported as a failure so a first recording is
	// never accepted silently. Re-run the test to compare against it.
	KindRecorded Kind = "RECORDED"

	// KindMismatch means the value differs from the stored artifact.
	KindMismatch Kind = "MISMATCH"

	// KindTimeout means the value did not reduce in time, or its reduction
	// finished without delivering a value.
	KindTimeout Kind = "TIMEOUT"

	// KindIO means an artifact directory or file could not be created,
	// read or written.
	KindIO Kind = "IO"

	// KindReduction means the strategy failed to transform the value,
	// e.g. an encoder error.
	KindReduction Kind = "REDUCTION"

	// KindMissing means no artifact exists and recording of missing
	// artifacts is disabled.
	KindMissing Kind = "MISSING"
)

// Error is the result of an assertion that did not pass.
//
// Error includes structured fields so callers can inspect the failure
// beyond its message.
type Error struct {
	// Kind identifies the failure category.
	Kind Kind

	// Message is the human-readable report shown by the test harness.
	Message string

	// Path is the reference artifact the assertion resolved to.
	Path string

	// FailurePath is where the failing value was written (KindMismatch only).
	FailurePath string

	// Diff is the format's description of the difference (KindMismatch only).
	Diff string

	// Attachments are the extra diff artifacts of the format (KindMismatch only).
	Attachments []Attachment

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func kindOf(err error) (Kind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}

// IsRecorded reports whether err is a recording event.
// Uses errors.As to handle wrapped errors.
func IsRecorded(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindRecorded
}

// IsMismatch reports whether err is a content mismatch.
func IsMismatch(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindMismatch
}

// IsTimeout reports whether err is a reduction timeout.
func IsTimeout(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindTimeout
}

// IsIO reports whether err is an artifact I/O failure.
func IsIO(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindIO
}

// IsMissing reports whether err is a missing artifact with recording disabled.
func IsMissing(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindMissing
}

func newRecordedError(path string) *Error {
	return &Error{
		Kind:    KindRecorded,
		Message: fmt.Sprintf("Recorded snapshot; re-run the test to assert against it.\n\n%q", path),
		Path:    path,
	}
}

func newMissingError(path string) *Error {
	return &Error{
		Kind:    KindMissing,
		Message: fmt.Sprintf("No reference snapshot at %q and recording of missing snapshots is disabled.", path),
		Path:    path,
	}
}

func newTimeoutError(path string, timeout time.Duration) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("Exceeded timeout of %s waiting for snapshot.", timeout),
		Path:    path,
	}
}

func newNoValueError(path string, err error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: "Couldn't snapshot value: reduction completed without a value.",
		Path:    path,
		Err:     err,
	}
}

func newReductionError(path string, err error) *Error {
	return &Error{
		Kind:    KindReduction,
		Message: fmt.Sprintf("Couldn't snapshot value: %v", err),
		Path:    path,
		Err:     err,
	}
}

func newIOError(path, op string, err error) *Error {
	return &Error{
		Kind:    KindIO,
		Message: fmt.Sprintf("Snapshot %s failed for %q: %v", op, path, err),
		Path:    path,
		Err:     err,
	}
}
