// Package lsp is the editor's Language Server Protocol client glue: the
// wire types §3.12 generates from the TypeScript LSP schema plus the
// hand-authored base types and jsonrpc2 transport that wrap them.
package lsp

import (
	"fmt"

	golsp "github.com/sourcegraph/go-lsp"
)

// Position and SymbolKind are aliased straight from sourcegraph/go-lsp
// rather than re-declared, matching the teacher's `type Position
// lsp.Position` / `type SymbolKind = lsp.SymbolKind` pattern: most of
// the wire shape already exists in that library, only the LSP-subset
// types generated by internal/tsschema (TextDocumentIdentifier,
// VersionedTextDocumentIdentifier, InitializeParams, ...) are new.
type SymbolKind = golsp.SymbolKind

type Position golsp.Position

func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Character < o.Character
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Character) }

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// DocumentURI mirrors go-lsp's string-based URI type; document identity
// throughout this package is this type, not a raw string, matching
// go-lsp's own convention.
type DocumentURI = golsp.DocumentURI

// TextDocumentItem is the open-document record the client keeps per
// file it has told the server about (didOpen/didChange/didSave/
// didClose all key off this).
type TextDocumentItem struct {
	URI        DocumentURI
	LanguageID string
	Version    int
	Text       string
}

// Diagnostic mirrors the LSP wire shape for one reported issue.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Source   string `json:"source"`
	Message  string `json:"message"`
}

// PublishDiagnosticsParams is the server->client notification payload
// for `textDocument/publishDiagnostics`.
type PublishDiagnosticsParams struct {
	URI         DocumentURI  `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}
