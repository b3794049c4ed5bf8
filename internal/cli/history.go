package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/snapshot/internal/ledger"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string
	ListRuns bool
}

// HistoryResult is the JSON form of the history command.
type HistoryResult struct {
	Run      ledger.Run       `json:"run"`
	Outcomes []ledger.Outcome `json:"outcomes"`
	Summary  map[string]int   `json:"summary"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show assertion outcomes of a test run",
		Long: `Show every assertion of a test run in the order it finished, with its
outcome (recorded, passed, failed, missing, timeout, error) and artifact.

Examples:
  snapshot history --db .snapshots.db
  snapshot history --db .snapshots.db --run 0190b6a4-...
  snapshot history --db .snapshots.db --runs`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the run ledger (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id (default: latest run)")
	cmd.Flags().BoolVar(&opts.ListRuns, "runs", false, "list runs instead of outcomes")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	if opts.ListRuns {
		return listRuns(ctx, opts, out)
	}

	st, run, err := openRun(ctx, opts.Database, opts.RunID)
	if err != nil {
		return err
	}
	defer st.Close()

	outcomes, err := st.Outcomes(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read outcomes", err)
	}
	summary := make(map[string]int)
	for _, o := range outcomes {
		summary[o.Outcome]++
	}

	if opts.Format == "json" {
		if err := writeJSON(out, HistoryResult{Run: run, Outcomes: outcomes, Summary: summary}); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		return nil
	}

	fmt.Fprintf(out, "Run %s (started %s)\n\n", run.ID, run.StartedAt)
	for _, o := range outcomes {
		if opts.Verbose && o.Digest != "" {
			fmt.Fprintf(out, "%4d  %-8s  %s  %s\n", o.Seq, o.Outcome, o.Path, o.Digest[:12])
			continue
		}
		fmt.Fprintf(out, "%4d  %-8s  %s\n", o.Seq, o.Outcome, o.Path)
	}
	fmt.Fprintf(out, "\n%s\n", summaryLine(len(outcomes), summary))
	return nil
}

// summaryLine renders e.g. "3 assertions: 1 failed, 2 passed".
func summaryLine(total int, summary map[string]int) string {
	noun := "assertions"
	if total == 1 {
		noun = "assertion"
	}
	if total == 0 {
		return "0 " + noun
	}

	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	slices.Sort(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%d %s", summary[name], name)
	}
	return fmt.Sprintf("%d %s: %s", total, noun, strings.Join(parts, ", "))
}

func listRuns(ctx context.Context, opts *HistoryOptions, out io.Writer) error {
	st, err := openLedger(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.Runs(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}

	if opts.Format == "json" {
		if err := writeJSON(out, runs); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		return nil
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s\n", r.ID, r.StartedAt)
	}
	return nil
}
