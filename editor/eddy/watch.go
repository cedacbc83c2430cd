package eddy

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/scribble-lang/scribble/internal/log"
)

// WatchFile watches path's containing directory for external changes to
// that file — the editor's own saves are excluded by the caller comparing
// against its last-known mtime/content, the same division of
// responsibility the compiler's own `internal/lexer` source-include stack
// expects from its caller. Grounded on the teacher's fsnotify-based
// WatchDir (internal/utils/file.go): one watcher, a background goroutine
// forwarding events/errors, here narrowed to a single file's events.
func WatchFile(path string, onChange func(op fsnotify.Op)) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name == path {
					onChange(event.Op)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("eddy: watch %s: %v", path, err)
			}
		}
	}()

	return watcher.Close, nil
}
