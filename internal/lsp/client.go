package lsp

import (
	"context"
	"encoding/json"
	"io"

	"github.com/sourcegraph/jsonrpc2"
	lspdotdev "go.lsp.dev/uri"

	"github.com/scribble-lang/scribble/internal/log"
)

// DiagnosticsHandler is invoked whenever the server pushes
// textDocument/publishDiagnostics.
type DiagnosticsHandler func(PublishDiagnosticsParams)

// Client is a thin LSP client: enough to drive didOpen/didChange/
// didSave against a running language server and receive its published
// diagnostics, grounded on the teacher's jsonrpc2-backed LSPClient
// (lang/lsp/client.go) but trimmed to the editor glue §2 asks for —
// it does not implement completion, hover, or semantic tokens.
type Client struct {
	conn  *jsonrpc2.Conn
	files map[DocumentURI]*TextDocumentItem
}

// NewURI converts a filesystem path to a `file://` document URI via
// go.lsp.dev/uri, the library SPEC_FULL.md's IPC/LSP section pins down
// for this purpose.
func NewURI(path string) DocumentURI {
	return DocumentURI(lspdotdev.File(path))
}

type handler struct {
	onDiagnostics DiagnosticsHandler
}

func (h *handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	if req.Method != "textDocument/publishDiagnostics" || req.Params == nil {
		return
	}
	var params PublishDiagnosticsParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		log.Error("lsp: decoding publishDiagnostics: %v", err)
		return
	}
	if h.onDiagnostics != nil {
		h.onDiagnostics(params)
	}
}

// NewClient wraps rwc (typically a pipe to a spawned language server
// process) in a jsonrpc2 connection using the VS Code wire codec, the
// framing every go-lsp-speaking server expects.
func NewClient(rwc io.ReadWriteCloser, onDiagnostics DiagnosticsHandler) *Client {
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(context.Background(), stream, &handler{onDiagnostics: onDiagnostics})
	return &Client{conn: conn, files: map[DocumentURI]*TextDocumentItem{}}
}

// Initialize sends the `initialize` request for rootURI; the server's
// capability response is intentionally discarded since this client only
// drives the open/change/save/diagnostics lifecycle §2 scopes in.
func (c *Client) Initialize(ctx context.Context, rootURI DocumentURI) error {
	params := map[string]interface{}{
		"processId": nil,
		"rootUri":   string(rootURI),
		"capabilities": map[string]interface{}{
			"textDocument": map[string]interface{}{
				"publishDiagnostics": map[string]interface{}{},
			},
		},
	}
	var result interface{}
	if err := c.conn.Call(ctx, "initialize", params, &result); err != nil {
		return err
	}
	return c.conn.Notify(ctx, "initialized", struct{}{})
}

func (c *Client) DidOpen(ctx context.Context, uri DocumentURI, languageID, text string) error {
	item := &TextDocumentItem{URI: uri, LanguageID: languageID, Version: 1, Text: text}
	c.files[uri] = item
	return c.conn.Notify(ctx, "textDocument/didOpen", map[string]interface{}{
		"textDocument": map[string]interface{}{
			"uri":        string(uri),
			"languageId": languageID,
			"version":    item.Version,
			"text":       text,
		},
	})
}

func (c *Client) DidChange(ctx context.Context, uri DocumentURI, text string) error {
	item, ok := c.files[uri]
	if !ok {
		return nil
	}
	item.Version++
	item.Text = text
	return c.conn.Notify(ctx, "textDocument/didChange", map[string]interface{}{
		"textDocument": map[string]interface{}{
			"uri":     string(uri),
			"version": item.Version,
		},
		"contentChanges": []map[string]interface{}{{"text": text}},
	})
}

func (c *Client) DidSave(ctx context.Context, uri DocumentURI) error {
	return c.conn.Notify(ctx, "textDocument/didSave", map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": string(uri)},
	})
}

func (c *Client) DidClose(ctx context.Context, uri DocumentURI) error {
	delete(c.files, uri)
	return c.conn.Notify(ctx, "textDocument/didClose", map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": string(uri)},
	})
}

func (c *Client) Close() error { return c.conn.Close() }
