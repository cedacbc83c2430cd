package eddy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestWatchFileReportsChangesToTheWatchedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.scrb")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	events := make(chan fsnotify.Op, 4)
	stop, err := WatchFile(path, func(op fsnotify.Op) {
		events <- op
	})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o644))

	select {
	case <-events:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a watch event on the modified file")
	}
}

func TestWatchFileIgnoresEventsForOtherFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.scrb")
	other := filepath.Join(dir, "other.scrb")
	require.NoError(t, os.WriteFile(watched, []byte("a"), 0o644))

	events := make(chan fsnotify.Op, 4)
	stop, err := WatchFile(watched, func(op fsnotify.Op) {
		events <- op
	})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(other, []byte("b"), 0o644))

	select {
	case <-events:
		t.Fatal("should not have received an event for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
