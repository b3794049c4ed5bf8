package cli

import (
	"context"
	"errors"
	"os"

	"github.com/roach88/snapshot/internal/ledger"
)

// openRun opens the ledger at path and resolves runID, defaulting to the
// latest run. The caller closes the store.
func openRun(ctx context.Context, path, runID string) (*ledger.Store, ledger.Run, error) {
	st, err := openLedger(path)
	if err != nil {
		return nil, ledger.Run{}, err
	}

	if runID == "" {
		run, err := st.LatestRun(ctx)
		if err != nil {
			st.Close()
			if errors.Is(err, ledger.ErrNoRuns) {
				return nil, ledger.Run{}, NewExitError(ExitCommandError, "ledger has no runs")
			}
			return nil, ledger.Run{}, WrapExitError(ExitCommandError, "failed to read runs", err)
		}
		return st, run, nil
	}

	runs, err := st.Runs(ctx)
	if err != nil {
		st.Close()
		return nil, ledger.Run{}, WrapExitError(ExitCommandError, "failed to read runs", err)
	}
	for _, r := range runs {
		if r.ID == runID {
			return st, r, nil
		}
	}
	st.Close()
	return nil, ledger.Run{}, NewExitError(ExitCommandError, "run not found: "+runID)
}

// openLedger opens an existing ledger; a missing file is an error.
func openLedger(path string) (*ledger.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	st, err := ledger.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	return st, nil
}
