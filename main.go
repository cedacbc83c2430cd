// Command scribble is the compiler frontend entrypoint (§6). It is a
// thin wrapper around cmd/scribblec, which holds the actual argument
// parsing, IPC listener, and progress-rendering logic, so that logic is
// also reachable (and testable) as a plain package.
package main

import (
	"os"

	"github.com/scribble-lang/scribble/cmd/scribblec"
)

func main() {
	os.Exit(scribblec.Run(os.Args[1:]))
}
