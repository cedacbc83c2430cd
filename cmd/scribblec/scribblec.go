// Package scribblec is the compiler frontend driver §6 describes: it
// parses the `--option[=value]` grammar, starts an internal/ipc.Frontend
// socket, hands the worker (spawned as cmd/scribbled, or run in-process
// when `threaded` is set) its bootstrap configuration, and relays stage
// progress to the user while the worker compiles. The root main.go is a
// thin wrapper calling Run.
package scribblec

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/scribble-lang/scribble/internal/compile"
	"github.com/scribble-lang/scribble/internal/ipc"
	"github.com/scribble-lang/scribble/internal/log"
	"github.com/scribble-lang/scribble/internal/mcpsrv"
)

// options holds the parsed CLI surface of §6.
type options struct {
	trace        string
	threaded     bool
	keepAssembly bool
	listIR       bool
	exitCode     bool
	mcp          bool
	mcpAddr      string
	entryPath    string
	programArgs  []string
}

// parseArgs implements §6's grammar: `--<option>[=<value>]` flags before
// the positional program path, then everything after the program path is
// passed through as program arguments. Grounded on the teacher's manual
// os.Args walk in parseArgsAndFlags, generalized from abcoder's
// fixed action/language/path shape to scribble's option set.
func parseArgs(args []string) (options, error) {
	var o options
	i := 0
	for ; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "--") {
			break
		}
		name, value, hasValue := strings.Cut(strings.TrimPrefix(a, "--"), "=")
		if !hasValue {
			value = "true"
		}
		switch name {
		case "trace":
			o.trace = value
		case "threaded":
			o.threaded = value != "false"
		case "keep-assembly":
			o.keepAssembly = value != "false"
		case "list-ir":
			o.listIR = value != "false"
		case "exit-code":
			o.exitCode = value != "false"
		case "mcp":
			o.mcp = value != "false"
		case "mcp-addr":
			o.mcpAddr = value
		default:
			return o, fmt.Errorf("unrecognised option --%s", name)
		}
	}
	if o.mcp {
		return o, nil
	}
	if i >= len(args) {
		return o, fmt.Errorf("missing program directory or entry source file")
	}
	o.entryPath = args[i]
	o.programArgs = args[i+1:]
	return o, nil
}

// Run parses args (os.Args[1:]) and executes one compile, returning the
// process exit code §6 specifies: 0 on success, 1 on any fatal error.
func Run(args []string) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scribblec: %v\n", err)
		return 1
	}

	log.SetLevel(log.InfoLevel)
	log.SetTraceCategories(opts.trace)

	if opts.mcp {
		return runMCP(opts)
	}

	cfg := ipc.BootstrapConfig{
		EntryPath:    opts.entryPath,
		OutDir:       ".scribble",
		KeepAssembly: opts.keepAssembly,
		ListIR:       opts.listIR,
		ExitCode:     opts.exitCode,
		ProgramArgs:  opts.programArgs,
		Stages:       debugStages(),
	}

	socketDir, err := os.MkdirTemp("", "scribblec-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "scribblec: %v\n", err)
		return 1
	}
	defer os.RemoveAll(socketDir)

	frontend, err := ipc.NewFrontend(socketDir, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scribblec: %v\n", err)
		return 1
	}
	defer frontend.Close()

	ctx := context.Background()
	var worker *spawnedWorker
	if opts.threaded {
		worker = runThreaded(ctx, frontend.SocketPath())
	} else {
		worker, err = spawnWorker(frontend.SocketPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "scribblec: %v\n", err)
			return 1
		}
	}

	fatal := false
	err = frontend.Serve(func(ev ipc.StageEvent) {
		if ev.Done {
			log.Info("%s: done", ev.Stage)
		} else {
			log.Info("%s: start", ev.Stage)
		}
	}, func(stage string, payload ipc.ErrorPayload) {
		fatal = true
		loc := payload.File
		if loc != "" {
			fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s\n", payload.File, payload.Line, payload.Column, payload.Kind, payload.Message)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %s\n", payload.Kind, payload.Message)
		}
	})
	worker.wait()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scribblec: %v\n", err)
		return 1
	}
	if fatal {
		return 1
	}
	return 0
}

// runMCP serves the `--mcp` tool surface instead of compiling a single
// program: over stdio by default, or over streamable HTTP when
// `--mcp-addr` names a listen address, mirroring the teacher's
// llm/mcp.Server's ServeStdio/ServeHTTP split.
func runMCP(opts options) int {
	srv := mcpsrv.New(mcpsrv.Options{Name: "scribblec", Version: "1.0.0", Verbose: opts.trace != ""})
	var err error
	if opts.mcpAddr != "" {
		err = srv.ServeHTTP(opts.mcpAddr)
	} else {
		err = srv.ServeStdio()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "scribblec: mcp server: %v\n", err)
		return 1
	}
	return 0
}

// debugStages runs the fixed pipeline order with every stage's debug flag
// set, so the frontend always sees start/done progress (§4.4 point 3)
// unless a future CLI option asks for quieter output.
func debugStages() []ipc.StageConfig {
	stages := ipc.DefaultStages()
	for i := range stages {
		stages[i].Debug = true
	}
	return stages
}

// spawnedWorker abstracts over the two ways the backend can run: a
// subprocess (cmd/scribbled) or an in-process goroutine (`threaded`).
type spawnedWorker struct {
	cmd  *exec.Cmd
	done chan struct{}
}

func (w *spawnedWorker) wait() {
	if w == nil {
		return
	}
	if w.cmd != nil {
		w.cmd.Wait()
		return
	}
	if w.done != nil {
		<-w.done
	}
}

// spawnWorker finds the scribbled binary alongside this executable (or on
// PATH) and starts it pointed at the frontend's socket, its stdio wired
// straight through so the execute stage's program output and any
// `list-ir`/`exit-code` text reach the user directly.
func spawnWorker(socketPath string) (*spawnedWorker, error) {
	bin := siblingBinary("scribbled")
	cmd := exec.Command(bin, "--socket", socketPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting scribbled: %w", err)
	}
	return &spawnedWorker{cmd: cmd}, nil
}

func siblingBinary(name string) string {
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return name
}

// runThreaded drives the same internal/compile.ServeWorker driver
// cmd/scribbled uses, but in a goroutine connected back to the frontend's
// own socket over loopback, matching §5's "one worker task running the
// entire backend pipeline" alternative to a spawned process.
func runThreaded(ctx context.Context, socketPath string) *spawnedWorker {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w, err := ipc.Connect(socketPath)
		if err != nil {
			log.Error("scribblec: connecting threaded worker: %v", err)
			return
		}
		defer w.Close()
		result, err := compile.ServeWorker(ctx, w)
		if err != nil {
			log.Error("scribblec: %v", err)
			return
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
	}()
	return &spawnedWorker{done: done}
}
