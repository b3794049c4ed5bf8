package snapshot

import (
	"path/filepath"
	"runtime"
	"strings"
)

// SnapshotsDir is the directory created next to a test file to hold its
// artifacts.
const SnapshotsDir = "__Snapshots__"

// Site identifies where an assertion was made: the test source file and the
// test function. It decides where artifacts live.
type Site struct {
	// File is the path of the test source file.
	File string
	// Test is the test name, e.g. "TestUser/admin".
	Test string
}

// Dir returns the snapshot directory of the site's source file:
// <dir>/__Snapshots__/<base without extension>.
func (s Site) Dir() string {
	base := strings.TrimSuffix(filepath.Base(s.File), filepath.Ext(s.File))
	return filepath.Join(filepath.Dir(s.File), SnapshotsDir, base)
}

// FileName returns the artifact file name for identifier id and extension
// ext. An empty ext yields an extensionless name. The test name and id are
// sanitized, so the name never contains a path separator.
func (s Site) FileName(id, ext string) string {
	name := sanitize(s.Test) + "." + sanitize(id)
	if ext != "" {
		name += "." + ext
	}
	return name
}

// Path returns the full artifact path for id and ext.
func (s Site) Path(id, ext string) string {
	return filepath.Join(s.Dir(), s.FileName(id, ext))
}

func (s Site) counterKey() string {
	return s.Dir() + "\x00" + s.Test
}

// sanitize keeps test names and ids usable as file names: anything outside
// [A-Za-z0-9._-] becomes "_".
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

var packageDir = func() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}()

// callerFile returns the first source file on the stack outside this
// package. Test files of this package count as callers.
func callerFile() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.File != "" && (filepath.Dir(frame.File) != packageDir || strings.HasSuffix(frame.File, "_test.go")) {
			return frame.File
		}
		if !more {
			return ""
		}
	}
}
