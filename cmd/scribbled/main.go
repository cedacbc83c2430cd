// Command scribbled is the backend worker §4.4 describes: it dials the
// frontend's UNIX-domain socket, completes the hello/bootstrap handshake,
// and drives the parse→bind→ir→codegen→link→execute pipeline, reporting
// progress and errors back over the same socket. cmd/scribblec spawns one
// of these per non-threaded compile; in threaded mode the same driver
// (internal/compile.ServeWorker) runs in a goroutine instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/scribble-lang/scribble/internal/compile"
	"github.com/scribble-lang/scribble/internal/ipc"
	"github.com/scribble-lang/scribble/internal/log"
)

func main() {
	flags := flag.NewFlagSet("scribbled", flag.ExitOnError)
	socket := flags.String("socket", "", "path to the frontend's UNIX-domain socket")
	flags.Parse(os.Args[1:])

	if *socket == "" {
		fmt.Fprintln(os.Stderr, "scribbled: -socket is required")
		os.Exit(1)
	}

	w, err := ipc.Connect(*socket)
	if err != nil {
		log.Error("scribbled: connecting to %s: %v", *socket, err)
		os.Exit(1)
	}
	defer w.Close()

	result, err := compile.ServeWorker(context.Background(), w)
	if err != nil {
		log.Error("scribbled: %v", err)
		os.Exit(1)
	}

	if result.IRDump != "" {
		fmt.Fprint(os.Stdout, result.IRDump)
	}
	if result.Ran {
		os.Stdout.Write(result.Stdout)
		os.Stderr.Write(result.Stderr)
		if result.ShowExitCode {
			fmt.Fprintf(os.Stdout, "%d\n", result.ExitCode)
		}
	}
}
