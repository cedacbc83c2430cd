// Package ir implements the intermediate representation of §3: a Program
// of named Modules, each a collection of linear Functions plus static data
// entries. Operations are typed and reference parameters by index and
// locals by stack slot; the AArch64 code generator (internal/codegen/arm64)
// visits a Function's operations in program order.
package ir

import "github.com/scribble-lang/scribble/internal/types"

// OpCode names one IR operation.
type OpCode uint8

const (
	OpConstInt OpCode = iota
	OpConstFloat
	OpConstString // Str is the string's text; codegen interns it in the string table
	OpLoadParam
	OpLoadLocal
	OpStoreLocal
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpNot
	OpCmpEq
	OpCmpNe
	OpCmpLt
	OpCmpLe
	OpCmpGt
	OpCmpGe
	OpAnd
	OpOr
	OpLabel      // Str is the label name; marks a branch target
	OpJump       // Str is the target label
	OpJumpIfZero // Str is the target label; B is the tested value
	OpCall       // Str is the callee name; Args are argument values; the result is this op's own
	OpReturn     // A is the optional return value
)

// Value names where an operand or result comes from: a previously defined
// op's result (by index within the function), a parameter, a constant
// folded at IR-build time, or nothing.
type ValueKind uint8

const (
	VNone ValueKind = iota
	VResult
	VParam
	VLocal
	VConstInt
	VConstFloat
)

type Value struct {
	Kind  ValueKind
	Index int     // op index (VResult) or param/local slot (VParam/VLocal)
	Int   int64   // VConstInt
	Float float64 // VConstFloat
}

func ResultOf(opIndex int) Value { return Value{Kind: VResult, Index: opIndex} }
func Param(i int) Value          { return Value{Kind: VParam, Index: i} }
func Local(i int) Value          { return Value{Kind: VLocal, Index: i} }
func ConstInt(v int64) Value     { return Value{Kind: VConstInt, Int: v} }
func ConstFloat(v float64) Value { return Value{Kind: VConstFloat, Float: v} }

// Op is one instruction of a Function's linear body. Not every field is
// meaningful for every OpCode — see the OpCode doc comments above.
type Op struct {
	Code OpCode
	Type types.ID
	A    Value
	B    Value
	Str  string  // label name / callee name / string-table key, depending on Code
	Args []Value // OpCall argument list
}

// Local describes one stack-slot local of a Function: its name and type.
// A slot is parameter-backed when its index is below len(Function.Params);
// the codegen spills incoming register arguments into those slots at entry.
type Local struct {
	Name string
	Type types.ID
}

// Function is a linear sequence of operations with an entry and at least
// one OpReturn, per §4.5's invariant (even an implicit fall-through at
// function end lowers to an explicit return).
type Function struct {
	Name    string
	Params  []Local
	Locals  []Local // includes parameter-backed slots at indices [0,len(Params))
	ResultType types.ID
	Ops     []Op
	IsMain  bool
}

// Emit appends op and returns its index, for building up ResultOf(idx)
// references to it.
func (f *Function) Emit(op Op) int {
	f.Ops = append(f.Ops, op)
	return len(f.Ops) - 1
}

// DataKind distinguishes the two static-data payload shapes the codegen
// needs to know about when emitting a module's data section.
type DataKind uint8

const (
	DataString DataKind = iota
	DataZeroed
)

type Data struct {
	Name   string
	Kind   DataKind
	Str    string
	Size   int
	Static bool // not exported; gets a trailing zero-short per §4.6
}

// Module is a named collection of IR functions plus static-data entries,
// corresponding to one bound MODULE.
type Module struct {
	Name      string
	Functions []*Function
	Data      []Data
}

// Program is a collection of IR modules — the top-level output of
// internal/ir's lowering pass and the input to the AArch64 code generator.
type Program struct {
	Modules []*Module
}
