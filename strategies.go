package snapshot

// Lines snapshots text as is, in a .txt artifact.
var Lines = NewStrategy(LinesFormat, func(s string) (string, error) { return s, nil })

// Data snapshots raw bytes in an extensionless artifact.
var Data = NewStrategy(BytesFormat, func(b []byte) ([]byte, error) { return b, nil })
