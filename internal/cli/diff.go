package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/roach88/snapshot/internal/linediff"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	Context int
	Color   string // "auto" | "always" | "never"
}

// DiffResult is the JSON form of a diff.
type DiffResult struct {
	Reference string       `json:"reference"`
	Actual    string       `json:"actual"`
	Differs   bool         `json:"differs"`
	Hunks     []HunkResult `json:"hunks"`
}

// HunkResult is one hunk of a DiffResult.
type HunkResult struct {
	PatchMark string   `json:"patch_mark"`
	Lines     []string `json:"lines"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <reference> <actual>",
		Short: "Show the line diff between two artifacts",
		Long: `Show the line diff between a reference artifact and a failing one, using
the same hunks as a failing assertion.

Exits 1 when the files differ.

Examples:
  snapshot diff __Snapshots__/user_test/TestUser.0.json /tmp/user_test/TestUser.0.json
  snapshot diff --context 2 --color always old.txt new.txt`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, cmd, args[0], args[1])
		},
	}

	cmd.Flags().IntVarP(&opts.Context, "context", "C", linediff.DefaultContext, "unchanged lines around each hunk")
	cmd.Flags().StringVar(&opts.Color, "color", "auto", "colorize output (auto|always|never)")

	return cmd
}

func runDiff(opts *DiffOptions, cmd *cobra.Command, refPath, actPath string) error {
	if opts.Context < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--context must be >= 0, got %d", opts.Context))
	}
	styles, err := newDiffStyles(cmd.OutOrStdout(), opts.Color)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --color", err)
	}

	ref, err := os.ReadFile(refPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read reference", err)
	}
	act, err := os.ReadFile(actPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read actual", err)
	}

	oldLines := linediff.SplitLines(string(ref))
	newLines := linediff.SplitLines(string(act))
	edits := linediff.Diff(oldLines, newLines)
	hunks := linediff.Hunks(edits, opts.Context)
	verbosef(opts.RootOptions, cmd.ErrOrStderr(), "compared %d and %d lines: %d edits, %d hunks",
		len(oldLines), len(newLines), linediff.Distance(edits), len(hunks))

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		result := DiffResult{Reference: refPath, Actual: actPath, Differs: len(hunks) > 0, Hunks: []HunkResult{}}
		for _, h := range hunks {
			result.Hunks = append(result.Hunks, HunkResult{PatchMark: h.PatchMark(), Lines: h.Lines()})
		}
		if err := writeJSON(out, result); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	} else {
		writeDiffText(out, styles, refPath, actPath, hunks)
	}

	if len(hunks) > 0 {
		return NewExitError(ExitFailure, "artifacts differ")
	}
	return nil
}

func writeDiffText(w io.Writer, s diffStyles, refPath, actPath string, hunks []linediff.Hunk) {
	if len(hunks) == 0 {
		fmt.Fprintln(w, "No differences.")
		return
	}

	fmt.Fprintln(w, s.paint(s.header, "--- "+refPath))
	fmt.Fprintln(w, s.paint(s.header, "+++ "+actPath))
	for _, h := range hunks {
		fmt.Fprintln(w, s.paint(s.mark, h.PatchMark()))
		for _, line := range h.Lines() {
			switch {
			case strings.HasPrefix(line, "-"):
				line = s.paint(s.removed, line)
			case strings.HasPrefix(line, "+"):
				line = s.paint(s.added, line)
			}
			fmt.Fprintln(w, line)
		}
	}
}

// diffStyles colors diff output. A zero value (plain) prints text as is.
type diffStyles struct {
	plain   bool
	header  lipgloss.Style
	mark    lipgloss.Style
	removed lipgloss.Style
	added   lipgloss.Style
}

func newDiffStyles(w io.Writer, mode string) (diffStyles, error) {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case "auto":
		if r.ColorProfile() == termenv.Ascii {
			return diffStyles{plain: true}, nil
		}
	case "always":
		r.SetColorProfile(termenv.ANSI)
	case "never":
		return diffStyles{plain: true}, nil
	default:
		return diffStyles{}, fmt.Errorf("unknown color mode %q", mode)
	}

	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return diffStyles{
		header:  base.Bold(true),
		mark:    base.Foreground(lipgloss.Color("6")),
		removed: base.Foreground(lipgloss.Color("1")),
		added:   base.Foreground(lipgloss.Color("2")),
	}, nil
}

func (s diffStyles) paint(style lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return style.Render(text)
}
