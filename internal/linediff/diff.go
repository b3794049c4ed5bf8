package linediff

import "strings"

// Op is the kind of a single line edit.
type Op int

const (
	// Keep marks a line present in both sequences.
	Keep Op = iota
	// Delete marks a line present only in the old sequence.
	Delete
	// Insert marks a line present only in the new sequence.
	Insert
)

// String returns the prefix used when rendering the edit.
func (o Op) String() string {
	switch o {
	case Delete:
		return "-"
	case Insert:
		return "+"
	default:
		return " "
	}
}

// Edit is one step of an edit script.
type Edit struct {
	Op   Op
	Line string
}

// SplitLines splits text on "\n", preserving empty subsequences.
//
// An empty string yields a single empty line, and "a\n" yields ["a", ""].
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// Diff returns a minimal edit script turning old into new.
//
// Common prefix and suffix lines are stripped before the LCS table is built,
// so the quadratic table only covers the region that actually changed.
func Diff(old, new []string) []Edit {
	prefix := 0
	for prefix < len(old) && prefix < len(new) && old[prefix] == new[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(new)-prefix &&
		old[len(old)-1-suffix] == new[len(new)-1-suffix] {
		suffix++
	}

	edits := make([]Edit, 0, len(old)+len(new))
	for _, line := range old[:prefix] {
		edits = append(edits, Edit{Op: Keep, Line: line})
	}
	edits = append(edits, diffMiddle(old[prefix:len(old)-suffix], new[prefix:len(new)-suffix])...)
	for _, line := range old[len(old)-suffix:] {
		edits = append(edits, Edit{Op: Keep, Line: line})
	}
	return edits
}

// diffMiddle walks the LCS table forward. On ties it prefers deleting from
// old, which places deletions ahead of insertions within a change block.
func diffMiddle(old, new []string) []Edit {
	n, m := len(old), len(new)

	// lcs[i][j] is the LCS length of old[i:] and new[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if old[i] == new[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	edits := make([]Edit, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case old[i] == new[j]:
			edits = append(edits, Edit{Op: Keep, Line: old[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			edits = append(edits, Edit{Op: Delete, Line: old[i]})
			i++
		default:
			edits = append(edits, Edit{Op: Insert, Line: new[j]})
			j++
		}
	}
	for ; i < n; i++ {
		edits = append(edits, Edit{Op: Delete, Line: old[i]})
	}
	for ; j < m; j++ {
		edits = append(edits, Edit{Op: Insert, Line: new[j]})
	}
	return edits
}

// Distance returns the number of inserted and deleted lines in edits.
func Distance(edits []Edit) int {
	d := 0
	for _, e := range edits {
		if e.Op != Keep {
			d++
		}
	}
	return d
}
