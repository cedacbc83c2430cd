// Package fsutil provides the filesystem helpers the frontend and linker
// driver share: ensuring the .scribble/ output directory exists, and
// writing a file only when its content actually changed (the linker
// driver's "write .s only if different" rule, which backs Testable
// Property 7's idempotent rebuild).
package fsutil

import (
	"bytes"
	"os"

	"github.com/scribble-lang/scribble/internal/errs"
)

// EnsureDir creates dir (and parents) if it does not already exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.NewIOError("mkdir %s: %v", dir, err)
	}
	return nil
}

// WriteIfChanged writes data to path only if the existing file (if any)
// has different content, returning whether a write occurred.
func WriteIfChanged(path string, data []byte) (wrote bool, err error) {
	if existing, readErr := os.ReadFile(path); readErr == nil {
		if bytes.Equal(existing, data) {
			return false, nil
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, errs.NewIOError("write %s: %v", path, err)
	}
	return true, nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
