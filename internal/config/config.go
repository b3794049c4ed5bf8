// Package config loads snapshot engine settings from the environment and an
// optional YAML file.
//
// Precedence, lowest to highest: built-in defaults, the YAML file, then
// SNAPSHOT_* environment variables.
//
// # File format
//
//	record: false          # rewrite every artifact
//	missing: record        # record | never
//	diff_tool: ksdiff      # external diff command
//	artifacts_dir: /tmp/x  # where failing snapshots are written
//	context: 4             # context lines around each hunk
//	timeout: 5s            # reduction timeout
//	ledger: .snapshots.db  # optional run ledger
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables understood by Load.
const (
	EnvConfig       = "SNAPSHOT_CONFIG"
	EnvRecord       = "SNAPSHOT_RECORD"
	EnvMissing      = "SNAPSHOT_MISSING"
	EnvDiffTool     = "SNAPSHOT_DIFF_TOOL"
	EnvArtifactsDir = "SNAPSHOT_ARTIFACTS"
	EnvContext      = "SNAPSHOT_CONTEXT"
	EnvTimeout      = "SNAPSHOT_TIMEOUT"
	EnvLedger       = "SNAPSHOT_LEDGER"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".snapshot.yaml"

// Missing-artifact modes.
const (
	MissingRecord = "record"
	MissingNever  = "never"
)

// Config holds engine settings.
type Config struct {
	// Record forces every assertion to rewrite its artifact.
	Record bool `yaml:"record"`

	// Missing decides what happens when no artifact exists yet:
	// "record" writes it, "never" fails the assertion.
	Missing string `yaml:"missing"`

	// DiffTool, when set, replaces the inline paths in failure messages with
	// a command line: <tool> "<reference>" "<failure>".
	DiffTool string `yaml:"diff_tool"`

	// ArtifactsDir receives failing snapshots. Defaults to os.TempDir().
	ArtifactsDir string `yaml:"artifacts_dir"`

	// Context is the number of unchanged lines shown around each change.
	Context int `yaml:"context"`

	// Timeout bounds how long an assertion waits for its value to reduce.
	Timeout time.Duration `yaml:"timeout"`

	// Ledger is the path of the SQLite run ledger. Empty disables it.
	Ledger string `yaml:"ledger"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Missing:      MissingRecord,
		ArtifactsDir: os.TempDir(),
		Context:      4,
		Timeout:      5 * time.Second,
	}
}

// Load reads the config file (SNAPSHOT_CONFIG or DefaultFile) if present and
// applies environment overrides on top.
func Load() (Config, error) {
	path := os.Getenv(EnvConfig)
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	cfg, err := LoadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			cfg = Default()
		} else {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks field values.
func (c Config) Validate() error {
	switch c.Missing {
	case MissingRecord, MissingNever:
	default:
		return fmt.Errorf("invalid missing mode %q: must be %q or %q", c.Missing, MissingRecord, MissingNever)
	}
	if c.Context < 0 {
		return fmt.Errorf("context must be >= 0, got %d", c.Context)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvRecord); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRecord, err)
		}
		c.Record = b
	}
	if v, ok := lookup(EnvMissing); ok && v != "" {
		c.Missing = v
	}
	if v, ok := lookup(EnvDiffTool); ok && v != "" {
		c.DiffTool = v
	}
	if v, ok := lookup(EnvArtifactsDir); ok && v != "" {
		c.ArtifactsDir = v
	}
	if v, ok := lookup(EnvContext); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvContext, err)
		}
		c.Context = n
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvLedger); ok && v != "" {
		c.Ledger = v
	}
	return nil
}
