package eddy

import (
	"context"
	"os/exec"

	"github.com/scribble-lang/scribble/internal/lsp"
)

// LSPSession owns one running language server process and the client
// connected to its stdio, driving exactly the didOpen/didChange/didSave
// lifecycle the editor needs (completion/hover/semantic tokens are out of
// scope, per editor/eddy's package doc).
type LSPSession struct {
	proc   *exec.Cmd
	client *lsp.Client
}

// StartLSP spawns serverPath and wires a client to its stdin/stdout,
// grounded on lang/lsp/client.go's own "spawn then wrap the pipes in a
// jsonrpc2 connection" sequence.
func StartLSP(ctx context.Context, serverPath string, args []string, onDiagnostics lsp.DiagnosticsHandler) (*LSPSession, error) {
	cmd := exec.CommandContext(ctx, serverPath, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	client := lsp.NewClient(pipeRWC{stdout, stdin}, onDiagnostics)
	return &LSPSession{proc: cmd, client: client}, nil
}

// Initialize opens the project at rootPath with the server.
func (s *LSPSession) Initialize(ctx context.Context, rootPath string) error {
	return s.client.Initialize(ctx, lsp.NewURI(rootPath))
}

func (s *LSPSession) DidOpen(ctx context.Context, path, languageID, text string) error {
	return s.client.DidOpen(ctx, lsp.NewURI(path), languageID, text)
}

func (s *LSPSession) DidChange(ctx context.Context, path, text string) error {
	return s.client.DidChange(ctx, lsp.NewURI(path), text)
}

func (s *LSPSession) DidSave(ctx context.Context, path string) error {
	return s.client.DidSave(ctx, lsp.NewURI(path))
}

// Close shuts the client connection and waits for the server process.
func (s *LSPSession) Close() error {
	s.client.Close()
	return s.proc.Wait()
}

// pipeRWC joins a server's stdout/stdin pipes into the io.ReadWriteCloser
// jsonrpc2's stream wrapper expects.
type pipeRWC struct {
	r interface {
		Read([]byte) (int, error)
	}
	w interface {
		Write([]byte) (int, error)
		Close() error
	}
}

func (p pipeRWC) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p pipeRWC) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p pipeRWC) Close() error                { return p.w.Close() }
