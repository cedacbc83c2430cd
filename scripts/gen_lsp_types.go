//go:build ignore

// Command gen_lsp_types drives internal/tsschema over the LSP-subset
// TypeScript fixture and writes the result into internal/lsp. Run from the
// repository root with `go run scripts/gen_lsp_types.go`; no go:generate
// directive invokes it. Its checked-in output is internal/lsp/generated_types.go
// so the package builds without requiring this command to have run.
package main

import (
	"fmt"
	"os"

	"github.com/scribble-lang/scribble/internal/tsschema"
)

func main() {
	src, err := os.ReadFile("testdata/tsschema/lsp-subset.d.ts")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	out, err := tsschema.Generate(string(src), "lsp-subset.d.ts", "lsp")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := os.WriteFile("internal/lsp/generated_types.go", []byte(out), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
