package snapshot

import (
	"context"
	"fmt"
	"os"
)

// TB is the part of testing.TB that Assert needs.
type TB interface {
	Helper()
	Name() string
	Errorf(format string, args ...any)
}

// Assert checks value against the artifact of the calling test and reports
// any failure, including a fresh recording, through t.Errorf. It returns
// true when the assertion passed.
//
//	func TestUser(t *testing.T) {
//		snapshot.Assert(t, user, snapshot.JSON[User]())
//	}
func Assert[V, F any](t TB, value V, s Strategy[V, F], opts ...CallOption) bool {
	t.Helper()

	var a assertion
	for _, opt := range opts {
		opt(&a)
	}
	e := a.engine
	if e == nil {
		e = Default()
	}

	file := callerFile()
	if file == "" {
		t.Errorf("snapshot: could not determine the calling test file")
		return false
	}

	ctx := context.Background()
	if c, ok := t.(interface{ Context() context.Context }); ok {
		ctx = c.Context()
	}

	if err := Verify(ctx, e, Site{File: file, Test: t.Name()}, value, s, opts...); err != nil {
		t.Errorf("%s", err)
		return false
	}
	return true
}

// RunMain runs the tests of m, prints the stale snapshot report of the
// default engine to stdout and returns the exit code. Use it from TestMain:
//
//	func TestMain(m *testing.M) {
//		os.Exit(snapshot.RunMain(m))
//	}
func RunMain(m interface{ Run() int }) int {
	code := m.Run()

	e := Default()
	if err := e.Report(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "snapshot: stale report: %v\n", err)
	}
	if err := e.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "snapshot: close ledger: %v\n", err)
	}
	return code
}
