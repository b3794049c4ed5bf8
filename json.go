package snapshot

import "github.com/roach88/snapshot/internal/canonical"

// JSON snapshots values as pretty-printed JSON with sorted keys and
// NFC-normalized strings, so equal values always produce equal bytes.
func JSON[V any]() Strategy[V, string] {
	return TryPrecompose(Lines, func(v V) (string, error) {
		data, err := canonical.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}).WithExtension("json")
}
