// Package compile wires the stages §4.4's handshake drives in order —
// parse, bind, ir, codegen, link, execute — into the single driver both
// cmd/scribbled (a spawned subprocess) and the frontend's own "threaded"
// in-process worker task (internal/ipc.Worker connected over the same
// loopback socket) run. Keeping one driver function means a compile
// behaves identically whether the worker runs out-of-process or in a
// goroutine, per spec §5's "interchangeably".
package compile

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/scribble-lang/scribble/internal/binder"
	"github.com/scribble-lang/scribble/internal/codegen/arm64"
	"github.com/scribble-lang/scribble/internal/codegen/linker"
	"github.com/scribble-lang/scribble/internal/errs"
	"github.com/scribble-lang/scribble/internal/ipc"
	"github.com/scribble-lang/scribble/internal/ir"
	"github.com/scribble-lang/scribble/internal/log"
	"github.com/scribble-lang/scribble/internal/parser"
	"github.com/scribble-lang/scribble/internal/types"
)

// stageFlags looks a named stage up in the bootstrap config's ordered
// stage list (§4.4 point 2) and returns its enabled and debug flags; a
// stage that is not listed reports false for both.
func stageFlags(cfg ipc.BootstrapConfig, name string) (enabled, debug bool) {
	for _, s := range cfg.Stages {
		if s.Name == name {
			return s.Enabled, s.Debug
		}
	}
	return false, false
}

// entryFile resolves the CLI's "program directory or entry source file"
// argument (§6) to a single .scrb file: the path itself if it names a
// file, or "main.scrb" inside it if it names a directory.
func entryFile(entryPath string) (string, error) {
	info, err := os.Stat(entryPath)
	if err != nil {
		return "", errs.NewIOError("stat %s: %v", entryPath, err)
	}
	if info.IsDir() {
		return filepath.Join(entryPath, "main.scrb"), nil
	}
	return entryPath, nil
}

func moduleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RunInProcess drives the same stage pipeline as ServeWorker without the
// IPC handshake, for callers that already hold a Go-level BootstrapConfig
// and want a synchronous compile — e.g. the `--mcp` tool surface, which
// reports a single compile's outcome back to a tool caller rather than to
// a socket-connected frontend.
func RunInProcess(ctx context.Context, cfg ipc.BootstrapConfig) (Result, []ipc.ErrorPayload, error) {
	var errors []ipc.ErrorPayload
	result, err := run(ctx, cfg, func(string, bool) {}, func(stage string, payload ipc.ErrorPayload) {
		errors = append(errors, payload)
	})
	return result, errors, err
}

// ServeWorker performs the full §4.4 handshake over an already-dialed
// worker connection: hello, bootstrap, then the parse/bind/ir/codegen/
// link/execute stages in order, posting start/done/errors/panic as it
// goes, and goodbye on success. The returned Result is only meaningful on
// a nil error; it is what drives the CLI's `list-ir`/`exit-code` options
// once the frontend process sees the worker's final status.
func ServeWorker(ctx context.Context, w *ipc.Worker) (Result, error) {
	if err := w.Hello(); err != nil {
		return Result{}, err
	}
	cfg, err := w.Bootstrap()
	if err != nil {
		return Result{}, err
	}
	log.Debug("compile: worker bootstrapped, entry=%s", cfg.EntryPath)

	result, err := run(ctx, cfg, func(stage string, done bool) {
		_, debug := stageFlags(cfg, stage)
		if !debug {
			return
		}
		if done {
			w.NotifyDone(stage)
		} else {
			w.NotifyStart(stage)
		}
	}, func(stage string, payload ipc.ErrorPayload) {
		w.PostErrors(stage, payload)
	})
	if err != nil {
		w.Panic(err.Error())
		return result, err
	}
	return result, w.Goodbye()
}

// Result carries the observable outcome of a successful run back to the
// frontend for the `list-ir`/`exit-code` CLI options (§6).
type Result struct {
	IRDump       string
	ExitCode     int
	Stdout       []byte
	Stderr       []byte
	Ran          bool // true if the execute stage actually ran the binary
	ShowExitCode bool // mirrors the bootstrap config's `exit-code` option
}

// run drives every enabled stage once, in the fixed §4.4 order, reporting
// progress through notify and fatal stage errors through onError. A fatal
// error aborts the remaining stages, matching §5's "later stages do not
// observe an error from an earlier stage that has not yet been posted" —
// there is nothing left for them to observe because they never run.
func run(ctx context.Context, cfg ipc.BootstrapConfig, notify func(stage string, done bool), onError func(stage string, payload ipc.ErrorPayload)) (Result, error) {
	var res Result

	path, err := entryFile(cfg.EntryPath)
	if err != nil {
		return res, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return res, errs.NewIOError("reading %s: %v", path, err)
	}
	name := moduleName(path)

	if enabled, _ := stageFlags(cfg, "parse"); !enabled {
		return res, errs.NewProcessError("parse stage disabled: nothing to compile")
	}
	notify("parse", false)
	tree, perrs := parser.Parse(string(src), name)
	if len(perrs) > 0 {
		for _, e := range perrs {
			onError("parse", payloadFor("parse", e))
		}
		return res, errs.NewProcessError("parse stage failed with %d error(s)", len(perrs))
	}
	notify("parse", true)

	if enabled, _ := stageFlags(cfg, "bind"); !enabled {
		return res, errs.NewProcessError("bind stage disabled: nothing to lower")
	}
	notify("bind", false)
	reg := types.NewRegistry()
	bound, berrs := binder.New(tree, reg).Bind()
	if len(berrs) > 0 {
		for _, e := range berrs {
			onError("bind", payloadFor("bind", e))
		}
		return res, errs.NewProcessError("bind stage failed with %d error(s)", len(berrs))
	}
	notify("bind", true)

	var mod *ir.Module
	if enabled, _ := stageFlags(cfg, "ir"); enabled {
		notify("ir", false)
		mod = ir.LowerModule(name, bound, reg)
		if cfg.ListIR {
			res.IRDump = ir.Dump(mod)
		}
		notify("ir", true)
	} else {
		return res, errs.NewProcessError("ir stage disabled: nothing to generate code from")
	}

	var asm *arm64.Assembly
	if enabled, _ := stageFlags(cfg, "codegen"); enabled {
		notify("codegen", false)
		asm = arm64.Generate(mod, reg)
		notify("codegen", true)
	} else {
		return res, errs.NewProcessError("codegen stage disabled: nothing to assemble")
	}

	var art linker.Artifacts
	if enabled, _ := stageFlags(cfg, "link"); enabled {
		notify("link", false)
		art, err = linker.Build(ctx, []*arm64.Assembly{asm}, linker.Options{
			OutDir:       cfg.OutDir,
			BinaryName:   name,
			KeepAssembly: cfg.KeepAssembly,
		})
		if err != nil {
			onError("link", errorPayload("link", err))
			return res, err
		}
		notify("link", true)
	} else {
		return res, errs.NewProcessError("link stage disabled: nothing to execute")
	}

	if enabled, _ := stageFlags(cfg, "execute"); enabled {
		notify("execute", false)
		code, stdout, stderr, err := linker.Execute(ctx, art, cfg.ProgramArgs)
		if err != nil {
			onError("execute", errorPayload("execute", err))
			return res, err
		}
		res.Ran = true
		res.ExitCode = code
		res.Stdout = stdout
		res.Stderr = stderr
		res.ShowExitCode = cfg.ExitCode
		notify("execute", true)
	}

	return res, nil
}

func errorPayload(stage string, err error) ipc.ErrorPayload {
	if ce, ok := err.(*errs.CompileError); ok {
		return ipc.ErrorPayload{
			Kind:    string(ce.Kind),
			Message: ce.Message,
			File:    ce.Loc.File,
			Line:    ce.Loc.Line,
			Column:  ce.Loc.Column,
		}
	}
	return ipc.ErrorPayload{Kind: stage, Message: err.Error()}
}

// payloadFor renders one stage-reported error into the wire shape §4.4
// posts to "/<stage>/errors", regardless of which of the taxonomy's error
// types (§7) the stage happened to raise.
func payloadFor(stage string, err error) ipc.ErrorPayload {
	switch e := err.(type) {
	case *parser.ParserError:
		return errorPayload(stage, e.CompileError)
	case *errs.BindError:
		return ipc.ErrorPayload{Kind: string(errs.KindBind), Message: e.Message, File: e.Loc.File, Line: e.Loc.Line, Column: e.Loc.Column}
	case *errs.CompileError:
		return errorPayload(stage, e)
	default:
		return ipc.ErrorPayload{Kind: stage, Message: err.Error()}
	}
}
