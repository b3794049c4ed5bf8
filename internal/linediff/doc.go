// Package linediff computes line-oriented differences between two texts.
//
// The diff is a minimal edit script derived from a longest-common-subsequence
// table over the two line sequences. Edits are then grouped into hunks with a
// fixed amount of surrounding context, the same shape as a unified diff:
//
//	@@ -1,3 +1,3 @@
//	 a
//	-b
//	+x
//	 c
//
// # Determinism
//
// Inside a block of changes, deletions are always emitted before insertions.
// Two runs over the same inputs produce the same script byte for byte, which
// keeps failure messages stable across test runs.
//
// # Line splitting
//
// SplitLines splits on "\n" and keeps empty subsequences, so a trailing
// newline shows up as a trailing empty line. Line numbers in patch marks are
// derived from that split.
package linediff
