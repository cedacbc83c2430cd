package compile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribble-lang/scribble/internal/errs"
	"github.com/scribble-lang/scribble/internal/ipc"
)

const mainSrc = `
func main() -> i32 {
	var x: i32 = 1;
	return x;
}
`

func writeEntry(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.scrb")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func stagesUpTo(names ...string) []ipc.StageConfig {
	enabled := map[string]bool{}
	for _, n := range names {
		enabled[n] = true
	}
	all := []string{"parse", "bind", "ir", "codegen", "link", "execute"}
	var out []ipc.StageConfig
	for _, n := range all {
		out = append(out, ipc.StageConfig{Name: n, Enabled: enabled[n]})
	}
	return out
}

func TestRunLowersThroughIR(t *testing.T) {
	entry := writeEntry(t, mainSrc)
	cfg := ipc.BootstrapConfig{
		EntryPath: entry,
		ListIR:    true,
		Stages:    stagesUpTo("parse", "bind", "ir"),
	}

	var started, done []string
	notify := func(stage string, isDone bool) {
		if isDone {
			done = append(done, stage)
		} else {
			started = append(started, stage)
		}
	}
	var errors []ipc.ErrorPayload
	onError := func(stage string, payload ipc.ErrorPayload) {
		errors = append(errors, payload)
	}

	res, err := run(context.Background(), cfg, notify, onError)
	require.Error(t, err, "codegen is disabled so run must report it as the reason it stopped")
	assert.Empty(t, errors)
	assert.Contains(t, started, "ir")
	assert.Contains(t, done, "ir")
	assert.Contains(t, res.IRDump, "module main")
	assert.Contains(t, res.IRDump, "func main")
}

func TestRunReportsParseErrors(t *testing.T) {
	entry := writeEntry(t, "func main( -> i32 { return 0; }")
	cfg := ipc.BootstrapConfig{
		EntryPath: entry,
		Stages:    stagesUpTo("parse", "bind", "ir"),
	}

	var errors []ipc.ErrorPayload
	_, err := run(context.Background(), cfg, func(string, bool) {}, func(stage string, payload ipc.ErrorPayload) {
		errors = append(errors, payload)
	})
	require.Error(t, err)
	require.NotEmpty(t, errors)
	assert.Equal(t, "parse", errors[0].Kind)
}

func TestRunParseStageDisabled(t *testing.T) {
	entry := writeEntry(t, mainSrc)
	cfg := ipc.BootstrapConfig{EntryPath: entry, Stages: stagesUpTo()}
	_, err := run(context.Background(), cfg, func(string, bool) {}, func(string, ipc.ErrorPayload) {})
	require.Error(t, err)
}

func TestEntryFileResolvesDirectoryToMainScrb(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.scrb"), []byte(mainSrc), 0o644))
	path, err := entryFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "main.scrb"), path)
}

func TestEntryFileAcceptsDirectFile(t *testing.T) {
	entry := writeEntry(t, mainSrc)
	path, err := entryFile(entry)
	require.NoError(t, err)
	assert.Equal(t, entry, path)
}

func TestModuleName(t *testing.T) {
	assert.Equal(t, "main", moduleName("/a/b/main.scrb"))
	assert.Equal(t, "prog", moduleName("prog.scrb"))
}

func TestStageFlags(t *testing.T) {
	cfg := ipc.BootstrapConfig{Stages: []ipc.StageConfig{
		{Name: "parse", Enabled: true, Debug: true},
		{Name: "link", Enabled: false, Debug: false},
	}}
	enabled, debug := stageFlags(cfg, "parse")
	assert.True(t, enabled)
	assert.True(t, debug)

	enabled, debug = stageFlags(cfg, "link")
	assert.False(t, enabled)
	assert.False(t, debug)

	enabled, debug = stageFlags(cfg, "execute")
	assert.False(t, enabled)
	assert.False(t, debug)
}

func TestPayloadForBindError(t *testing.T) {
	berr := errs.NewBindError(errs.Location{File: "x.scrb", Line: 3, Column: 2}, "undeclared variable %q", "y")
	p := payloadFor("bind", berr)
	assert.Equal(t, string(errs.KindBind), p.Kind)
	assert.Equal(t, "x.scrb", p.File)
	assert.Equal(t, 3, p.Line)
	assert.Contains(t, p.Message, "undeclared variable")
}

func TestPayloadForGenericError(t *testing.T) {
	p := payloadFor("execute", assertError{"boom"})
	assert.Equal(t, "execute", p.Kind)
	assert.Equal(t, "boom", p.Message)
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
