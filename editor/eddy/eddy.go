// Package eddy is the editor's narrow seam into the compiler core
// (spec.md §1: "terminal text editor... widget tree is out of scope").
// It implements exactly two collaborator contracts: driving a compile
// over internal/ipc and rendering its stage progress, and a minimal LSP
// client lifecycle built on internal/lsp. The widget tree, input
// handling, and command palette are external collaborators represented
// only by the Renderer/StatusSink interfaces below — left unimplemented
// since spec.md §1 puts them out of scope.
package eddy

import (
	"os/exec"

	"github.com/scribble-lang/scribble/internal/ipc"
	"github.com/scribble-lang/scribble/internal/log"
)

// Renderer is the widget tree this package does not implement; it is the
// external collaborator a real editor frontend would satisfy to actually
// paint buffers, gutters, and diagnostics to a terminal.
type Renderer interface {
	Render(buffer string, diagnostics int)
}

// StatusSink is the external collaborator that shows compile/LSP status
// in whatever the editor's chrome looks like (status line, palette).
type StatusSink interface {
	SetStatus(text string)
}

// CompileSession drives one frontend-side compile (§4.4) for the editor:
// it spawns the worker, serves the IPC socket, and reports stage
// transitions to a StatusSink as they arrive, the same contract
// cmd/scribblec's progress rendering uses.
type CompileSession struct {
	frontend *ipc.Frontend
	worker   *exec.Cmd
	status   StatusSink
}

// StartCompile opens a frontend socket for entryPath, spawns scribbledPath
// as the worker, and returns a session whose Wait blocks until the
// compile finishes. Mirrors cmd/scribblec's non-threaded path; the editor
// never runs the worker in-process since it already has its own UI event
// loop to keep responsive.
func StartCompile(socketDir, scribbledPath string, cfg ipc.BootstrapConfig, status StatusSink) (*CompileSession, error) {
	frontend, err := ipc.NewFrontend(socketDir, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("eddy: starting compile worker %s for %s", scribbledPath, cfg.EntryPath)
	cmd := exec.Command(scribbledPath, "--socket", frontend.SocketPath())
	if err := cmd.Start(); err != nil {
		frontend.Close()
		return nil, err
	}
	return &CompileSession{frontend: frontend, worker: cmd, status: status}, nil
}

// Wait serves the handshake and stage-event loop until the worker says
// goodbye, panics, or disconnects, updating the status sink as it goes.
func (s *CompileSession) Wait() error {
	defer s.frontend.Close()
	err := s.frontend.Serve(func(ev ipc.StageEvent) {
		if s.status == nil {
			return
		}
		if ev.Done {
			s.status.SetStatus(ev.Stage + ": done")
		} else {
			s.status.SetStatus(ev.Stage + ": running")
		}
	}, func(stage string, payload ipc.ErrorPayload) {
		if s.status != nil {
			s.status.SetStatus(stage + ": " + payload.Message)
		}
	})
	s.worker.Wait()
	return err
}

// Cancel closes the socket early; the worker observes the dropped
// connection as cancellation per §4.4/§5.
func (s *CompileSession) Cancel() error {
	return s.frontend.Close()
}
