package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDumpRendersFunctionsAndOps(t *testing.T) {
	fn := &Function{
		Name:   "main",
		Params: []Local{{Name: "x", Type: 0}},
		IsMain: true,
	}
	fn.Emit(Op{Code: OpConstInt, A: ConstInt(1)})
	fn.Emit(Op{Code: OpLoadParam, A: Param(0)})
	fn.Emit(Op{Code: OpAdd, A: ResultOf(0), B: ResultOf(1)})
	fn.Emit(Op{Code: OpReturn, A: ResultOf(2)})

	mod := &Module{
		Name:      "prog",
		Functions: []*Function{fn},
		Data:      []Data{{Name: "str0", Kind: DataString, Str: "hi"}},
	}

	out := Dump(mod)
	assert.Contains(t, out, "module prog")
	assert.Contains(t, out, "func main(1 params) main")
	assert.Contains(t, out, "const.int")
	assert.Contains(t, out, "a=1")
	assert.Contains(t, out, "add a=%0 b=%1")
	assert.Contains(t, out, "return a=%2")
	assert.Contains(t, out, "data str0")
}

func TestDumpNonMainFunctionHasNoMainMarker(t *testing.T) {
	fn := &Function{Name: "helper"}
	fn.Emit(Op{Code: OpReturn})
	mod := &Module{Name: "m", Functions: []*Function{fn}}
	out := Dump(mod)
	assert.Contains(t, out, "func helper(0 params)\n")
}

func TestOpCallRendersArgsAndCallee(t *testing.T) {
	fn := &Function{Name: "f"}
	fn.Emit(Op{Code: OpCall, Str: "callee", Args: []Value{ConstInt(1), Param(0)}})
	mod := &Module{Name: "m", Functions: []*Function{fn}}
	out := Dump(mod)
	assert.Contains(t, out, `call "callee"`)
	assert.Contains(t, out, "arg=1")
	assert.Contains(t, out, "arg=param[0]")
}
