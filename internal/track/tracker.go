// Package track holds the process-scoped bookkeeping behind snapshot
// identifiers: per-call-site counters and the set of on-disk artifacts that
// no assertion has touched yet.
package track

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Tracker records which artifacts of each source file were referenced.
//
// The first time a source file is seen, every file in its snapshot directory
// (dotfiles excluded) is loaded into that file's tracked set. Each referenced
// artifact is then removed. What remains at the end of the run is stale.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Tracker struct {
	mu      sync.Mutex
	tracked map[string]map[string]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{tracked: make(map[string]map[string]struct{})}
}

// Touch marks artifact as referenced by an assertion in source.
// dir is the snapshot directory of source; it is listed on first touch only.
func (t *Tracker) Touch(source, dir, artifact string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.tracked[source]
	if !ok {
		listed, err := listArtifacts(dir)
		if err != nil {
			return fmt.Errorf("track %s: %w", source, err)
		}
		set = listed
		t.tracked[source] = set
	}
	delete(set, artifact)
	return nil
}

// Stale returns the untouched artifacts per source file, each list sorted.
// Sources with nothing left are omitted.
func (t *Tracker) Stale() map[string][]string {
	t.mu.Lock()
	defer t.mu.Unlock()

	stale := make(map[string][]string)
	for source, set := range t.tracked {
		if len(set) == 0 {
			continue
		}
		paths := make([]string, 0, len(set))
		for p := range set {
			paths = append(paths, p)
		}
		slices.Sort(paths)
		stale[source] = paths
	}
	return stale
}

// Reset forgets all tracked sources.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tracked = make(map[string]map[string]struct{})
}

// Flatten merges a Stale result into one lexicographically sorted list.
func Flatten(stale map[string][]string) []string {
	var all []string
	for _, paths := range stale {
		all = append(all, paths...)
	}
	slices.Sort(all)
	return all
}

// WriteReport prints the stale artifacts in stale to w.
// Nothing is written when there are none.
func WriteReport(w io.Writer, stale map[string][]string) error {
	all := Flatten(stale)
	if len(all) == 0 {
		return nil
	}

	plural := "s"
	if len(all) == 1 {
		plural = ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\nFound %d stale snapshot%s:\n\n", len(all), plural)
	for _, p := range all {
		fmt.Fprintf(&b, "  - %q\n", p)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// listArtifacts lists regular files directly under dir, skipping dotfiles.
// A missing directory yields an empty set.
func listArtifacts(dir string) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return set, nil
		}
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		set[filepath.Join(dir, e.Name())] = struct{}{}
	}
	return set, nil
}
