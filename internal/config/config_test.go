package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.Record)
	assert.Equal(t, MissingRecord, cfg.Missing)
	assert.Equal(t, os.TempDir(), cfg.ArtifactsDir)
	assert.Equal(t, 4, cfg.Context)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
record: true
missing: never
diff_tool: ksdiff
artifacts_dir: /tmp/artifacts
context: 2
timeout: 250ms
ledger: runs.db
`))
	require.NoError(t, err)

	assert.Equal(t, Config{
		Record:       true,
		Missing:      MissingNever,
		DiffTool:     "ksdiff",
		ArtifactsDir: "/tmp/artifacts",
		Context:      2,
		Timeout:      250 * time.Millisecond,
		Ledger:       "runs.db",
	}, cfg)
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("diff_tool: opendiff\n"))
	require.NoError(t, err)

	assert.Equal(t, "opendiff", cfg.DiffTool)
	assert.Equal(t, 4, cfg.Context)
	assert.Equal(t, MissingRecord, cfg.Missing)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "record: [", "failed to parse config YAML"},
		{"bad missing", "missing: sometimes", "invalid missing mode"},
		{"negative context", "context: -1", "context must be >= 0"},
		{"zero timeout", "timeout: 0s", "timeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	clearEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("diff_tool: ksdiff\ncontext: 2\n"), 0o644))

	t.Setenv(EnvContext, "7")
	t.Setenv(EnvRecord, "1")
	t.Setenv(EnvTimeout, "1s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ksdiff", cfg.DiffTool)
	assert.Equal(t, 7, cfg.Context)
	assert.True(t, cfg.Record)
	assert.Equal(t, time.Second, cfg.Timeout)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_BadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)
	t.Setenv(EnvRecord, "maybe")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvRecord)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfig, EnvRecord, EnvMissing, EnvDiffTool, EnvArtifactsDir, EnvContext, EnvTimeout, EnvLedger} {
		t.Setenv(key, "")
	}
}
