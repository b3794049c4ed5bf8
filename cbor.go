package snapshot

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborMode encodes with the core deterministic rules of RFC 8949 so map
// order never leaks into artifacts.
var cborMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: cbor encode mode: %v", err))
	}
	return em
}()

// CBOR snapshots values as deterministic CBOR. Mismatches are described
// in diagnostic notation.
func CBOR[V any]() Strategy[V, []byte] {
	return NewStrategy(CBORFormat, func(v V) ([]byte, error) {
		data, err := cborMode.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode cbor: %w", err)
		}
		return data, nil
	})
}
