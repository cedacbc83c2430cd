package eddy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStateMissingFileReturnsZeroValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	st, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, State{}, st)
}

func TestSaveLoadStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eddy", "state")
	want := State{MonitorIndex: 2, SplitPercent: 65, ShowGutter: true}
	require.NoError(t, SaveState(path, want))

	got, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveStateCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state")
	require.NoError(t, SaveState(path, State{MonitorIndex: 1}))
	_, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
}

func TestLoadStateRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	require.NoError(t, os.WriteFile(path, make([]byte, 13), 0o644))
	_, err := LoadState(path)
	require.Error(t, err)
}

func TestLoadStateRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))
	_, err := LoadState(path)
	require.Error(t, err)
}

func TestStatePathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path, err := StatePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".eddy", "state"), path)
}
