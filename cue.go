package snapshot

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
)

// CUE snapshots values as formatted CUE. The value must encode to a
// concrete CUE value.
func CUE[V any]() Strategy[V, string] {
	return TryPrecompose(Lines, func(v V) (string, error) {
		val := cuecontext.New().Encode(v)
		if err := val.Err(); err != nil {
			return "", fmt.Errorf("encode cue: %w", err)
		}
		src, err := format.Node(val.Syntax(cue.Final(), cue.Concrete(true)))
		if err != nil {
			return "", fmt.Errorf("format cue: %w", err)
		}
		return string(src), nil
	}).WithExtension("cue")
}
