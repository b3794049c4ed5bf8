// Package snapshot asserts that values match reference artifacts recorded on
// disk next to the tests that produce them.
//
// A Strategy reduces a value to a Format, the comparable and persistable
// representation stored in the artifact. On the first run an assertion
// records its artifact and fails so the recording is never accepted
// silently; later runs compare against it and report a line diff on
// mismatch, writing the failing value to an artifacts directory for
// inspection.
//
// Artifacts live at
//
//	<test dir>/__Snapshots__/<test file base>/<TestName>.<id>.<ext>
//
// where id is an explicit Named identifier or a 0-based counter of the
// unnamed assertions made by the test.
//
// # Strategies
//
// Built-in strategies cover text (Lines), bytes (Data), JSON, YAML, CUE,
// CBOR, self-describing values (Dump) and HTTP requests (HTTPRequest). New
// strategies are derived with Precompose, TryPrecompose, MapFormat and
// WithExtension:
//
//	var userName = snapshot.Precompose(snapshot.Lines, func(u User) string {
//		return u.Name
//	})
//
// # Recording
//
// Set SNAPSHOT_RECORD=1 (or record: true in .snapshot.yaml), call
// Engine.SetRecording or Engine.RecordDuring, or pass Record() to a single
// assertion to rewrite artifacts instead of comparing them.
//
// # Stale artifacts
//
// Call RunMain from TestMain to print the artifacts that no assertion
// referenced during the run.
package snapshot
