package snapshot

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAML snapshots values as YAML with a two-space indent. Map keys are
// sorted by the encoder.
func YAML[V any]() Strategy[V, string] {
	return TryPrecompose(Lines, func(v V) (string, error) {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		return buf.String(), nil
	}).WithExtension("yaml")
}
