// Command snapshot diffs snapshot artifacts and reads the run ledger.
package main

import (
	"os"

	"github.com/roach88/snapshot/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
