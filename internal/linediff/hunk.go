package linediff

import (
	"fmt"
	"strings"
)

// DefaultContext is the number of unchanged lines kept around each change.
const DefaultContext = 4

// Range is a 1-based line range in one of the two sequences.
//
// An empty range still carries Start = index + 1 of the position it refers
// to, so inserting into an empty text is reported as -1,0.
type Range struct {
	Start int
	Count int
}

// Hunk is a group of nearby edits plus the ranges they cover.
type Hunk struct {
	Old   Range
	New   Range
	Edits []Edit
}

// PatchMark returns the hunk header, e.g. "@@ -1,3 +1,3 @@".
func (h Hunk) PatchMark() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.Old.Start, h.Old.Count, h.New.Start, h.New.Count)
}

// Lines returns the prefixed body lines of the hunk.
// Content ending in a space gets a trailing "¬" so the space stays visible.
func (h Hunk) Lines() []string {
	lines := make([]string, len(h.Edits))
	for i, e := range h.Edits {
		lines[i] = renderLine(e)
	}
	return lines
}

func renderLine(e Edit) string {
	line := e.Op.String() + e.Line
	if strings.HasSuffix(e.Line, " ") {
		line += "¬"
	}
	return line
}

// Hunks groups an edit script into hunks.
//
// Two changes land in the same hunk when the run of unchanged lines between
// them is at most 2*context, i.e. when their context windows touch. Each hunk
// carries up to context unchanged lines before its first and after its last
// change. A script without changes yields no hunks.
func Hunks(edits []Edit, context int) []Hunk {
	// A window wider than the script covers all of it; clamping also keeps
	// last+context+1 and 2*context from overflowing.
	context = min(max(context, 0), len(edits))

	// oldPos[k] and newPos[k] count lines consumed before edits[k].
	oldPos := make([]int, len(edits)+1)
	newPos := make([]int, len(edits)+1)
	var changes []int
	for k, e := range edits {
		oldPos[k+1], newPos[k+1] = oldPos[k], newPos[k]
		if e.Op != Insert {
			oldPos[k+1]++
		}
		if e.Op != Delete {
			newPos[k+1]++
		}
		if e.Op != Keep {
			changes = append(changes, k)
		}
	}
	if len(changes) == 0 {
		return nil
	}

	var hunks []Hunk
	first, last := changes[0], changes[0]
	flush := func() {
		from := max(first-context, 0)
		to := min(last+context+1, len(edits))
		hunks = append(hunks, Hunk{
			Old:   Range{Start: oldPos[from] + 1, Count: oldPos[to] - oldPos[from]},
			New:   Range{Start: newPos[from] + 1, Count: newPos[to] - newPos[from]},
			Edits: edits[from:to],
		})
	}
	for _, c := range changes[1:] {
		if c-last-1 > 2*context {
			flush()
			first = c
		}
		last = c
	}
	flush()
	return hunks
}

// Render joins hunks into patch text: each patch mark followed by its lines.
func Render(hunks []Hunk) string {
	var lines []string
	for _, h := range hunks {
		lines = append(lines, h.PatchMark())
		lines = append(lines, h.Lines()...)
	}
	return strings.Join(lines, "\n")
}

// Unified diffs two line sequences and renders the result.
// It returns "" when the sequences are equal.
func Unified(old, new []string, context int) string {
	return Render(Hunks(Diff(old, new), context))
}
