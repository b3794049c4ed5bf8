package snapshot

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestEngine creates a quiet engine writing failures to a temp dir.
func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithArtifactsDir(t.TempDir()),
	}
	e := New(append(base, opts...)...)
	t.Cleanup(func() { e.Close() })
	return e
}

// newTestSite returns a site whose source file lives in a fresh temp dir.
func newTestSite(t *testing.T) Site {
	t.Helper()
	return Site{File: filepath.Join(t.TempDir(), "user_test.go"), Test: t.Name()}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
