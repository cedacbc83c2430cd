package linker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/scribble-lang/scribble/internal/codegen/arm64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutDirDefaultsToDotScribble(t *testing.T) {
	assert.Equal(t, ".scribble", outDir(Options{}))
	assert.Equal(t, "build", outDir(Options{OutDir: "build"}))
}

func TestBinaryNameDefaultsToAOut(t *testing.T) {
	assert.Equal(t, "a.out", binaryName(Options{}))
	assert.Equal(t, "myprog", binaryName(Options{BinaryName: "myprog"}))
}

func TestAssemblerCommandPerHostOS(t *testing.T) {
	name, args := assemblerCommand("out.s", "out.o", true)
	assert.Equal(t, "clang", name)
	assert.Contains(t, args, "-target")
	assert.Contains(t, args, "out.s")
	assert.Contains(t, args, "out.o")

	name, args = assemblerCommand("out.s", "out.o", false)
	assert.Equal(t, "as", name)
	assert.Contains(t, args, "-march=armv8-a")
	assert.Contains(t, args, "out.s")
}

func TestLinkerCommandPerHostOS(t *testing.T) {
	name, args := linkerCommand([]string{"a.o", "b.o"}, "bin", true)
	assert.Equal(t, "clang", name)
	assert.Contains(t, args, "a.o")
	assert.Contains(t, args, "b.o")
	assert.Contains(t, args, "bin")

	name, args = linkerCommand([]string{"a.o"}, "bin", false)
	assert.Equal(t, "cc", name)
	assert.Contains(t, args, "-static")
	assert.Contains(t, args, "bin")
}

func TestBuildFailsFastWhenNoAssemblyDeclaresMain(t *testing.T) {
	dir := t.TempDir()
	mod := &arm64.Assembly{Name: "m"} // HasMain false, Exports false
	_, err := Build(context.Background(), []*arm64.Assembly{mod}, Options{OutDir: filepath.Join(dir, "out")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no assembly declared a main function")
}

func TestBuildEnsuresOutDirEvenOnFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "out")
	mod := &arm64.Assembly{Name: "m"}
	_, err := Build(context.Background(), []*arm64.Assembly{mod}, Options{OutDir: out})
	require.Error(t, err)
	// EnsureDir runs before the main-function check, so the directory
	// should exist even though Build returned an error.
	info, statErr := os.Stat(out)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}
