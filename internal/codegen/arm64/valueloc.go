package arm64

import (
	"fmt"

	"github.com/scribble-lang/scribble/internal/types"
)

// LocKind tags a ValueLocation variant (§3).
type LocKind uint8

const (
	LocPointer LocKind = iota
	LocRegister
	LocRegisterRange
	LocLabel
	LocData
	LocImmediate
	LocFloat
	LocStack
	LocDiscard
)

// ValueLocation is codegen's pervasive "where does this value live" union.
// Every variant carries the type id of the value it represents and a
// "don't release" flag marking a register/slot that must not be reclaimed.
// The generator in codegen.go has no register allocator and never reads
// the flag.
type ValueLocation struct {
	Kind Kind_
	Type types.ID

	// LocPointer
	BaseReg int
	Offset  int

	// LocRegister / LocRegisterRange
	Reg      int
	RegEnd   int
	RegWidth int // 32 or 64

	// LocLabel / LocData
	Symbol string
	SymOff int

	// LocImmediate
	Imm int64

	// LocFloat
	F64 float64

	DontRelease bool
}

// Kind_ is LocKind under a name that doesn't collide with the field named
// Kind on ValueLocation itself.
type Kind_ = LocKind

func Pointer(baseReg, offset int, t types.ID) ValueLocation {
	return ValueLocation{Kind: LocPointer, BaseReg: baseReg, Offset: offset, Type: t}
}

func Register(reg, width int, t types.ID) ValueLocation {
	return ValueLocation{Kind: LocRegister, Reg: reg, RegWidth: width, Type: t}
}

func RegisterRange(start, end, width int, t types.ID) ValueLocation {
	return ValueLocation{Kind: LocRegisterRange, Reg: start, RegEnd: end, RegWidth: width, Type: t}
}

func Label(sym string, off int, t types.ID) ValueLocation {
	return ValueLocation{Kind: LocLabel, Symbol: sym, SymOff: off, Type: t}
}

func Data(sym string, off int, t types.ID) ValueLocation {
	return ValueLocation{Kind: LocData, Symbol: sym, SymOff: off, Type: t}
}

func Immediate(v int64, t types.ID) ValueLocation {
	return ValueLocation{Kind: LocImmediate, Imm: v, Type: t}
}

func Float(v float64, t types.ID) ValueLocation {
	return ValueLocation{Kind: LocFloat, F64: v, Type: t}
}

func Stack(t types.ID) ValueLocation { return ValueLocation{Kind: LocStack, Type: t} }

func Discard() ValueLocation { return ValueLocation{Kind: LocDiscard} }

// String renders a ValueLocation in the fixed textual form the emitter
// uses to splice operands into instruction text — the linkage between IR
// lowering and text emission named in §4.6.
func (v ValueLocation) String() string {
	switch v.Kind {
	case LocPointer:
		if v.Offset == 0 {
			return fmt.Sprintf("[%s]", RegName(v.BaseReg, 64))
		}
		if v.Offset < 0 {
			return fmt.Sprintf("[%s, #-0x%x]", RegName(v.BaseReg, 64), -v.Offset)
		}
		return fmt.Sprintf("[%s, #0x%x]", RegName(v.BaseReg, 64), v.Offset)
	case LocRegister:
		return RegName(v.Reg, v.RegWidth)
	case LocRegisterRange:
		return fmt.Sprintf("%s-%s", RegName(v.Reg, v.RegWidth), RegName(v.RegEnd, v.RegWidth))
	case LocLabel:
		if v.SymOff == 0 {
			return v.Symbol
		}
		return fmt.Sprintf("%s+0x%x", v.Symbol, v.SymOff)
	case LocData:
		if v.SymOff == 0 {
			return v.Symbol
		}
		return fmt.Sprintf("%s+0x%x", v.Symbol, v.SymOff)
	case LocImmediate:
		if v.Imm < 0 && v.Type.Signed() {
			return fmt.Sprintf("#-0x%x", -v.Imm)
		}
		return fmt.Sprintf("#0x%x", v.Imm)
	case LocFloat:
		return fmt.Sprintf("#%v", v.F64)
	case LocStack:
		return "[sp]"
	default:
		return "<discard>"
	}
}
