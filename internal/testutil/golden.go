package testutil

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Golden returns a goldie instance reading testdata/golden/<name>.golden of
// the calling package.
//
// The fixture dir is resolved to an absolute path immediately, so tests may
// change directory afterwards. To regenerate golden files, run:
//
//	go test ./... -update
func Golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("testdata", "golden"))
	if err != nil {
		t.Fatalf("resolve golden dir: %v", err)
	}
	return goldie.New(t,
		goldie.WithFixtureDir(dir),
		goldie.WithNameSuffix(".golden"),
	)
}
