package scribblec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgsPositional(t *testing.T) {
	o, err := parseArgs([]string{"prog.scrb", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "prog.scrb", o.entryPath)
	assert.Equal(t, []string{"a", "b"}, o.programArgs)
	assert.False(t, o.threaded)
	assert.False(t, o.listIR)
}

func TestParseArgsFlags(t *testing.T) {
	o, err := parseArgs([]string{"--trace=lexer;parser", "--threaded", "--keep-assembly", "--list-ir", "--exit-code", "prog.scrb"})
	require.NoError(t, err)
	assert.Equal(t, "lexer;parser", o.trace)
	assert.True(t, o.threaded)
	assert.True(t, o.keepAssembly)
	assert.True(t, o.listIR)
	assert.True(t, o.exitCode)
	assert.Equal(t, "prog.scrb", o.entryPath)
	assert.Empty(t, o.programArgs)
}

func TestParseArgsExplicitFalse(t *testing.T) {
	o, err := parseArgs([]string{"--threaded=false", "prog.scrb"})
	require.NoError(t, err)
	assert.False(t, o.threaded)
}

func TestParseArgsUnrecognisedOption(t *testing.T) {
	_, err := parseArgs([]string{"--bogus", "prog.scrb"})
	require.Error(t, err)
}

func TestParseArgsMissingEntry(t *testing.T) {
	_, err := parseArgs([]string{"--threaded"})
	require.Error(t, err)
}

func TestParseArgsMCPRequiresNoEntryPath(t *testing.T) {
	o, err := parseArgs([]string{"--mcp"})
	require.NoError(t, err)
	assert.True(t, o.mcp)
	assert.Empty(t, o.entryPath)
}

func TestParseArgsMCPAddr(t *testing.T) {
	o, err := parseArgs([]string{"--mcp", "--mcp-addr=127.0.0.1:8090"})
	require.NoError(t, err)
	assert.True(t, o.mcp)
	assert.Equal(t, "127.0.0.1:8090", o.mcpAddr)
}

func TestDebugStagesEnablesDebugOnEveryDefaultStage(t *testing.T) {
	stages := debugStages()
	require.NotEmpty(t, stages)
	for _, s := range stages {
		assert.True(t, s.Debug, "stage %q should have debug set", s.Name)
	}
}

func TestSiblingBinaryFallsBackToBareName(t *testing.T) {
	assert.Equal(t, "scribbled", siblingBinary("scribbled"))
}

func TestSpawnedWorkerWaitNilIsNoop(t *testing.T) {
	var w *spawnedWorker
	w.wait() // must not panic
}

func TestSpawnedWorkerWaitOnDoneChannel(t *testing.T) {
	done := make(chan struct{})
	close(done)
	w := &spawnedWorker{done: done}
	w.wait() // returns immediately since the channel is already closed
}
