package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/snapshot/internal/testutil"
)

// writeDiffFiles writes reference.txt and actual.txt into a temp dir and
// makes it the working directory, so output paths are stable.
func writeDiffFiles(t *testing.T, reference, actual string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reference.txt"), []byte(reference), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "actual.txt"), []byte(actual), 0o644))
	t.Chdir(dir)
}

func TestDiff_Text(t *testing.T) {
	g := testutil.Golden(t)
	writeDiffFiles(t, "a\nb\nc", "a\nx\nc")

	out, err := execute(t, "diff", "--color", "never", "reference.txt", "actual.txt")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	g.Assert(t, "diff_text", []byte(out))
}

func TestDiff_NoDifferences(t *testing.T) {
	writeDiffFiles(t, "same\n", "same\n")

	out, err := execute(t, "diff", "reference.txt", "actual.txt")

	require.NoError(t, err)
	assert.Equal(t, "No differences.\n", out)
}

func TestDiff_JSON(t *testing.T) {
	writeDiffFiles(t, "a\nb\nc", "a\nx\nc")

	out, err := execute(t, "--format", "json", "diff", "reference.txt", "actual.txt")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   DiffResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Differs)
	require.Len(t, resp.Data.Hunks, 1)
	assert.Equal(t, "@@ -1,3 +1,3 @@", resp.Data.Hunks[0].PatchMark)
	assert.Equal(t, []string{" a", "-b", "+x", " c"}, resp.Data.Hunks[0].Lines)
}

func TestDiff_ColorAlways(t *testing.T) {
	writeDiffFiles(t, "a\nb\nc", "a\nx\nc")

	out, err := execute(t, "diff", "--color", "always", "reference.txt", "actual.txt")

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "+x")
	assert.Contains(t, out, "-b")
}

func TestDiff_ZeroContext(t *testing.T) {
	writeDiffFiles(t, "a\nb\nc", "a\nx\nc")

	out, err := execute(t, "diff", "--color", "never", "-C", "0", "reference.txt", "actual.txt")

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "--- reference.txt\n+++ actual.txt\n@@ -2,1 +2,1 @@\n-b\n+x\n", out)
}

func TestDiff_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing reference", []string{"diff", "nope.txt", "actual.txt"}, "failed to read reference"},
		{"missing actual", []string{"diff", "reference.txt", "nope.txt"}, "failed to read actual"},
		{"bad color", []string{"diff", "--color", "rainbow", "reference.txt", "actual.txt"}, "invalid --color"},
		{"negative context", []string{"diff", "-C", "-1", "reference.txt", "actual.txt"}, "--context must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeDiffFiles(t, "a", "b")

			_, err := execute(t, tt.args...)

			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDiff_RequiresTwoArgs(t *testing.T) {
	_, err := execute(t, "diff", "only-one.txt")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
