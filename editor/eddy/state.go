package eddy

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/scribble-lang/scribble/internal/errs"
)

// State is the tiny persisted blob §6 names: "a tiny binary state blob
// (monitor index and similar UI settings)... not part of the compiler
// core". Kept as a fixed-width binary record rather than a general
// serialization format since this is genuinely the whole of it.
type State struct {
	MonitorIndex uint32
	SplitPercent uint32 // 0-100
	ShowGutter   bool
}

const stateMagic = uint32(0x65646479) // "eddy"

// StatePath returns "$HOME/.eddy/state".
func StatePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errs.NewIOError("resolving home directory: %v", err)
	}
	return filepath.Join(home, ".eddy", "state"), nil
}

// LoadState reads the state file, returning the zero State if it doesn't
// exist yet (a fresh editor install).
func LoadState(path string) (State, error) {
	var st State
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, errs.NewIOError("reading %s: %v", path, err)
	}
	if len(data) < 13 {
		return st, errs.NewIOError("%s: truncated state file", path)
	}
	if binary.LittleEndian.Uint32(data[0:4]) != stateMagic {
		return st, errs.NewIOError("%s: bad magic", path)
	}
	st.MonitorIndex = binary.LittleEndian.Uint32(data[4:8])
	st.SplitPercent = binary.LittleEndian.Uint32(data[8:12])
	st.ShowGutter = data[12] != 0
	return st, nil
}

// SaveState writes the state file, creating "$HOME/.eddy/" if needed.
func SaveState(path string, st State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.NewIOError("creating %s: %v", filepath.Dir(path), err)
	}
	buf := make([]byte, 13)
	binary.LittleEndian.PutUint32(buf[0:4], stateMagic)
	binary.LittleEndian.PutUint32(buf[4:8], st.MonitorIndex)
	binary.LittleEndian.PutUint32(buf[8:12], st.SplitPercent)
	if st.ShowGutter {
		buf[12] = 1
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return errs.NewIOError("writing %s: %v", path, err)
	}
	return nil
}
