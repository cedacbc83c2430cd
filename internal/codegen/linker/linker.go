// Package linker implements the last stage of §4.6: turning a set of
// internal/codegen/arm64.Assembly modules into a runnable binary, by
// invoking the host's native assembler and linker as external processes
// and, optionally, running the result.
package linker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/scribble-lang/scribble/internal/codegen/arm64"
	"github.com/scribble-lang/scribble/internal/errs"
	"github.com/scribble-lang/scribble/internal/log"
	"github.com/scribble-lang/scribble/internal/support/fsutil"
	"github.com/scribble-lang/scribble/internal/support/procpipe"
)

// Options configures one Build/Execute run.
type Options struct {
	OutDir       string // defaults to ".scribble" when empty
	BinaryName   string
	KeepAssembly bool
}

// Artifacts names every file a Build run produced.
type Artifacts struct {
	AssemblyPaths []string
	ObjectPaths   []string
	BinaryPath    string
}

func outDir(opt Options) string {
	if opt.OutDir != "" {
		return opt.OutDir
	}
	return ".scribble"
}

func binaryName(opt Options) string {
	if opt.BinaryName != "" {
		return opt.BinaryName
	}
	return "a.out"
}

// Build enforces the main-function rule (exactly one assembly among mods
// must have HasMain; zero is a fatal error, two or more documented as
// "first found wins"), then for each assembly: writes its text only if
// changed (Testable Property 7), assembles it, and finally links every
// resulting object file together into one executable.
func Build(ctx context.Context, mods []*arm64.Assembly, opt Options) (Artifacts, error) {
	dir := outDir(opt)
	if err := fsutil.EnsureDir(dir); err != nil {
		return Artifacts{}, err
	}

	mainCount := 0
	for _, m := range mods {
		if m.HasMain {
			mainCount++
		}
	}
	if mainCount == 0 {
		return Artifacts{}, errs.NewProcessError("no assembly declared a main function")
	}
	if mainCount > 1 {
		log.Info("linker: %d assemblies declare main; the first one found wins", mainCount)
	}

	darwin := runtime.GOOS == "darwin"
	var art Artifacts

	for _, m := range mods {
		text := m.Serialise(darwin)
		if text == "" {
			continue // assembly exports nothing and has no main: nothing to assemble
		}
		asmPath := filepath.Join(dir, m.Name+".s")
		objPath := filepath.Join(dir, m.Name+".o")

		wrote, err := fsutil.WriteIfChanged(asmPath, []byte(text))
		if err != nil {
			return art, err
		}
		if wrote {
			log.Debug("linker: wrote %s", asmPath)
		} else {
			log.Debug("linker: %s unchanged, skipping write", asmPath)
		}

		if err := assemble(ctx, asmPath, objPath, darwin); err != nil {
			return art, err
		}
		art.AssemblyPaths = append(art.AssemblyPaths, asmPath)
		art.ObjectPaths = append(art.ObjectPaths, objPath)

		if !opt.KeepAssembly {
			if err := os.Remove(asmPath); err != nil {
				log.Error("linker: failed to remove %s: %v", asmPath, err)
			}
		}
	}

	art.BinaryPath = filepath.Join(dir, binaryName(opt))
	if err := link(ctx, art.ObjectPaths, art.BinaryPath, darwin); err != nil {
		return art, err
	}
	return art, nil
}

// assemble invokes the host assembler, producing an object file from
// assembly text.
func assemble(ctx context.Context, asmPath, objPath string, darwin bool) error {
	name, args := assemblerCommand(asmPath, objPath, darwin)
	return runToCompletion(ctx, name, args, "assemble")
}

func assemblerCommand(asmPath, objPath string, darwin bool) (string, []string) {
	if darwin {
		return "clang", []string{"-c", "-target", "arm64-apple-macos11", asmPath, "-o", objPath}
	}
	return "as", []string{"-march=armv8-a", "-o", objPath, asmPath}
}

// link invokes the host linker, producing an executable from the given
// object files. Darwin needs the SDK's libSystem and a dynamic linker
// path; Linux links statically against the platform's crt startup + libc.
func link(ctx context.Context, objPaths []string, binPath string, darwin bool) error {
	name, args := linkerCommand(objPaths, binPath, darwin)
	return runToCompletion(ctx, name, args, "link")
}

func linkerCommand(objPaths []string, binPath string, darwin bool) (string, []string) {
	if darwin {
		args := append([]string{"-target", "arm64-apple-macos11"}, objPaths...)
		args = append(args, "-o", binPath)
		return "clang", args
	}
	args := append([]string{"-static"}, objPaths...)
	args = append(args, "-o", binPath)
	return "cc", args
}

func runToCompletion(ctx context.Context, name string, args []string, stage string) error {
	proc, err := procpipe.Start(ctx, name, args)
	if err != nil {
		return errs.NewProcessError("%s: %v", stage, err)
	}
	if err := proc.CloseStdin(); err != nil {
		return errs.NewProcessError("%s: close stdin: %v", stage, err)
	}
	code, err := proc.Wait()
	if err != nil {
		return errs.NewProcessError("%s: %v", stage, err)
	}
	if code != 0 {
		return errs.NewProcessError("%s: %s exited %d: %s", stage, name, code, proc.Stderr.Bytes())
	}
	return nil
}

// Execute runs art.BinaryPath to completion, collecting its stdout/stderr
// (§4.6's "execute stage"), and returns its exit code.
func Execute(ctx context.Context, art Artifacts, args []string) (exitCode int, stdout, stderr []byte, err error) {
	proc, startErr := procpipe.Start(ctx, art.BinaryPath, args)
	if startErr != nil {
		return -1, nil, nil, errs.NewProcessError("execute: %v", startErr)
	}
	if closeErr := proc.CloseStdin(); closeErr != nil {
		return -1, nil, nil, errs.NewProcessError("execute: close stdin: %v", closeErr)
	}
	code, waitErr := proc.Wait()
	if waitErr != nil {
		return -1, nil, nil, waitErr
	}
	return code, proc.Stdout.Bytes(), proc.Stderr.Bytes(), nil
}
