package snapshot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/roach88/snapshot/internal/linediff"
)

// PatchType is the uniform type identifier of patch attachments.
const PatchType = "public.patch-file"

// Attachment is an extra artifact describing a difference, such as a patch.
type Attachment struct {
	// Name is a file-friendly name, e.g. "difference.patch".
	Name string
	// Type is a uniform type identifier, e.g. PatchType.
	Type string
	Data []byte
}

// DiffOptions tunes how a Format describes differences.
type DiffOptions struct {
	// Context is the number of unchanged lines around each hunk.
	Context int
}

// Format is the reduced, comparable and persistable representation F of a
// tested value. Formats are plain values; the built-in ones are BytesFormat,
// LinesFormat and CBORFormat.
//
// ToBytes and FromBytes must round-trip: FromBytes(ToBytes(x)) equals x.
type Format[F any] struct {
	// Extension names artifacts of this format, without the dot.
	// Empty means extensionless artifacts.
	Extension string

	ToBytes   func(F) []byte
	FromBytes func([]byte) (F, error)

	// Equals compares two values. Nil means byte equality of ToBytes.
	Equals func(a, b F) bool

	// Diff describes how actual differs from reference. differs is false
	// only when the two are equal.
	Diff func(reference, actual F, opts DiffOptions) (message string, attachments []Attachment, differs bool)
}

// Equal reports whether a and b are equal in this format.
func (f Format[F]) Equal(a, b F) bool {
	if f.Equals != nil {
		return f.Equals(a, b)
	}
	return bytes.Equal(f.ToBytes(a), f.ToBytes(b))
}

// BytesFormat stores opaque bytes. Differences are reported by size only and
// carry no attachment.
var BytesFormat = Format[[]byte]{
	ToBytes:   func(b []byte) []byte { return b },
	FromBytes: func(b []byte) ([]byte, error) { return b, nil },
	Diff: func(reference, actual []byte, _ DiffOptions) (string, []Attachment, bool) {
		if bytes.Equal(reference, actual) {
			return "", nil, false
		}
		return fmt.Sprintf("Data do not match: %d bytes (reference) vs %d bytes (actual).",
			len(reference), len(actual)), nil, true
	},
}

// LinesFormat stores UTF-8 text and reports differences as line hunks.
// Text is compared as is; a trailing newline is a line like any other.
var LinesFormat = Format[string]{
	Extension: "txt",
	ToBytes:   func(s string) []byte { return []byte(s) },
	FromBytes: func(b []byte) (string, error) { return string(b), nil },
	Equals:    func(a, b string) bool { return a == b },
	Diff:      diffLines,
}

func diffLines(reference, actual string, opts DiffOptions) (string, []Attachment, bool) {
	if reference == actual {
		return "", nil, false
	}
	patch := linediff.Unified(linediff.SplitLines(reference), linediff.SplitLines(actual), opts.Context)
	return "Diff: …\n\n" + patch, []Attachment{patchAttachment(patch)}, true
}

func patchAttachment(patch string) Attachment {
	return Attachment{Name: "difference.patch", Type: PatchType, Data: []byte(patch)}
}

// CBORFormat stores CBOR documents. Differences are rendered as a line diff
// of the two documents in CBOR diagnostic notation.
var CBORFormat = Format[[]byte]{
	Extension: "cbor",
	ToBytes:   func(b []byte) []byte { return b },
	FromBytes: func(b []byte) ([]byte, error) { return b, nil },
	Diff:      diffCBOR,
}

func diffCBOR(reference, actual []byte, opts DiffOptions) (string, []Attachment, bool) {
	if bytes.Equal(reference, actual) {
		return "", nil, false
	}
	refDiag, refErr := cbor.Diagnose(reference)
	actDiag, actErr := cbor.Diagnose(actual)
	if refErr != nil || actErr != nil {
		return BytesFormat.Diff(reference, actual, opts)
	}
	patch := linediff.Unified(diagLines(refDiag), diagLines(actDiag), opts.Context)
	return "CBOR documents differ (diagnostic notation): …\n\n" + patch, []Attachment{patchAttachment(patch)}, true
}

// diagLines puts every ", "-separated item of a diagnostic-notation document
// on its own line so the line diff can point at the changed entry.
func diagLines(diag string) []string {
	return strings.Split(strings.ReplaceAll(diag, ", ", ",\n"), "\n")
}
