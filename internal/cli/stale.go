package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/snapshot/internal/ledger"
	"github.com/roach88/snapshot/internal/track"
)

// StaleOptions holds flags for the stale command.
type StaleOptions struct {
	*RootOptions
	Database string
	RunID    string
	Strict   bool
}

// StaleResult is the JSON form of the stale command.
type StaleResult struct {
	RunID string                  `json:"run_id"`
	Stale []ledger.StaleArtifact `json:"stale"`
}

// NewStaleCommand creates the stale command.
func NewStaleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StaleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stale",
		Short: "List artifacts no assertion referenced",
		Long: `List the stale artifacts recorded at the end of a test run: files in a
__Snapshots__ directory that no assertion referenced. Nothing is deleted.

Examples:
  snapshot stale --db .snapshots.db
  snapshot stale --db .snapshots.db --strict   # exit 1 when any are stale`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStale(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the run ledger (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id (default: latest run)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 when stale artifacts exist")

	return cmd
}

func runStale(opts *StaleOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, run, err := openRun(ctx, opts.Database, opts.RunID)
	if err != nil {
		return err
	}
	defer st.Close()

	stale, err := st.Stale(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read stale artifacts", err)
	}
	verbosef(opts.RootOptions, cmd.ErrOrStderr(), "run %s started %s", run.ID, run.StartedAt)

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if err := writeJSON(out, StaleResult{RunID: run.ID, Stale: stale}); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	} else if len(stale) == 0 {
		fmt.Fprintf(out, "No stale snapshots in run %s.\n", run.ID)
	} else {
		bySource := make(map[string][]string)
		for _, a := range stale {
			bySource[a.Source] = append(bySource[a.Source], a.Path)
		}
		if err := track.WriteReport(out, bySource); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	}

	if opts.Strict && len(stale) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d stale snapshot(s)", len(stale)))
	}
	return nil
}
