// Package mcpsrv exposes one compile as an MCP tool, for editors and
// agents that want to drive the compiler without shelling out to
// cmd/scribblec directly. Grounded on the teacher's llm/mcp.Server
// (mark3labs/mcp-go wrapping an AST-read tool set as an MCP server) and
// on the tool-registration shape of the broader example pack's own
// mcp_server.go (mcp.NewTool/mcp.WithString/mcp.WithNumber building one
// tool per capability, a handler reading typed request params and
// returning an mcp.CallToolResult).
package mcpsrv

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/scribble-lang/scribble/internal/compile"
	"github.com/scribble-lang/scribble/internal/ipc"
)

// Server wraps a mark3labs/mcp-go server exposing the "compile" tool.
type Server struct {
	inner *server.MCPServer
}

// Options configures the MCP server itself: the name and version it
// advertises and whether it logs verbosely. Each compile call it serves
// uses OutDir ".scribble", as cmd/scribblec's own Run does.
type Options struct {
	Name    string
	Version string
	Verbose bool
}

// New builds a Server with its one "compile" tool registered.
func New(opts Options) *Server {
	serverOpts := []server.ServerOption{server.WithToolCapabilities(false)}
	if opts.Verbose {
		serverOpts = append(serverOpts, server.WithLogging())
	}
	inner := server.NewMCPServer(opts.Name, opts.Version, serverOpts...)

	inner.AddTool(
		mcp.NewTool("compile",
			mcp.WithDescription("Compile a scribble program and report the IR, assembly and execution outcome."),
			mcp.WithString("entry",
				mcp.Required(),
				mcp.Description("Path to a .scrb entry file or a directory containing main.scrb"),
			),
			mcp.WithString("args",
				mcp.Description("Space-separated arguments passed to the compiled program"),
			),
			mcp.WithString("list_ir",
				mcp.Description(`"true" to include the lowered IR dump in the result`),
			),
			mcp.WithString("keep_assembly",
				mcp.Description(`"true" to keep the generated .s files instead of removing them after assembly`),
			),
		),
		handleCompile,
	)

	return &Server{inner: inner}
}

// ServeStdio runs the server over stdin/stdout, the transport an editor
// spawning scribblec as a subprocess would use.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.inner)
}

// ServeHTTP runs the server as a streamable-HTTP endpoint at addr.
func (s *Server) ServeHTTP(addr string) error {
	return server.NewStreamableHTTPServer(s.inner).Start(addr)
}

func handleCompile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entry := request.GetString("entry", "")
	if entry == "" {
		return mcp.NewToolResultError("entry parameter is required"), nil
	}
	var programArgs []string
	if raw := request.GetString("args", ""); raw != "" {
		programArgs = strings.Fields(raw)
	}

	cfg := ipc.BootstrapConfig{
		EntryPath:    entry,
		OutDir:       ".scribble",
		KeepAssembly: request.GetString("keep_assembly", "") == "true",
		ListIR:       request.GetString("list_ir", "") == "true",
		ExitCode:     true,
		ProgramArgs:  programArgs,
		Stages:       ipc.DefaultStages(),
	}

	result, errs, err := compile.RunInProcess(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(formatFailure(err, errs)), nil
	}

	var out strings.Builder
	if result.IRDump != "" {
		out.WriteString(result.IRDump)
		out.WriteString("\n")
	}
	if result.Ran {
		out.Write(result.Stdout)
		if len(result.Stderr) > 0 {
			fmt.Fprintf(&out, "stderr:\n%s", result.Stderr)
		}
		fmt.Fprintf(&out, "exit code: %d\n", result.ExitCode)
	}
	return mcp.NewToolResultText(out.String()), nil
}

func formatFailure(err error, errs []ipc.ErrorPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "compile failed: %v\n", err)
	for _, e := range errs {
		if e.File != "" {
			fmt.Fprintf(&b, "%s:%d:%d: %s: %s\n", e.File, e.Line, e.Column, e.Kind, e.Message)
		} else {
			fmt.Fprintf(&b, "%s: %s\n", e.Kind, e.Message)
		}
	}
	return b.String()
}
