package arm64

import (
	"fmt"

	"github.com/scribble-lang/scribble/internal/ir"
	"github.com/scribble-lang/scribble/internal/types"
)

// frame computes the stack layout for one ir.Function: every local and
// every op result gets its own 8-byte slot below the saved fp/lr pair, in
// the order locals-then-results, so that Value.Index maps directly onto a
// slot number regardless of which side produced it. This is the simple,
// non-allocating backend named in the re-architecting notes: no register
// allocator, every intermediate value round-trips through the stack.
type frame struct {
	localBase  int // offset (bytes, positive, above sp) of local slot 0
	resultBase int // offset of op-result slot 0
	size       int // total frame size, 16-byte aligned
}

func buildFrame(fn *ir.Function) frame {
	nLocals := len(fn.Locals)
	nResults := len(fn.Ops)
	// 16 bytes reserved for the saved fp/lr pair, placed above the locals
	// and results region.
	raw := 16 + nLocals*8 + nResults*8
	size := (raw + 15) &^ 15
	return frame{
		localBase:  0,
		resultBase: nLocals * 8,
		size:       size,
	}
}

func (fr frame) localOffset(i int) int  { return fr.localBase + i*8 }
func (fr frame) resultOffset(i int) int { return fr.resultBase + i*8 }

// fpOffset converts a byte offset measured from sp (as localOffset/
// resultOffset return) into the negative [x29, #off] form used by every
// operand address, given x29 is set to sp + (size-16) in the prologue.
func (fr frame) fpOffset(spOffset int) int { return -(fr.size - 16 - spOffset) }

// Generate lowers one ir.Module into its Assembly (§4.6: "the code
// generator turns an IR module into assembly text"). reg is consulted for
// operand width/signedness when a type id is known.
func Generate(mod *ir.Module, reg *types.Registry) *Assembly {
	asm := NewAssembly(mod)
	for _, fn := range mod.Functions {
		if fn.IsMain {
			asm.HasMain = true
		} else {
			asm.Exports = true
		}
		genFunction(asm, fn, reg)
	}
	for _, d := range mod.Data {
		switch d.Kind {
		case ir.DataString:
			asm.AddData(d.Name, ".asciz", fmt.Sprintf("%q", d.Str), !d.Static, d.Static)
		case ir.DataZeroed:
			asm.AddData(d.Name, ".skip", fmt.Sprintf("%d", d.Size), !d.Static, d.Static)
		}
	}
	return asm
}

func funcLabel(name string) string {
	if name == "main" {
		return "_main"
	}
	return "_scribble_" + name
}

func genFunction(asm *Assembly, fn *ir.Function, reg *types.Registry) {
	out := asm.AddFunction(funcLabel(fn.Name))
	fr := buildFrame(fn)

	out.Code.SetTarget(TargetPrologue)
	out.Code.Line("sub sp, sp, #0x%x", fr.size)
	out.Code.Line("stp x29, x30, [sp, #0x%x]", fr.size-16)
	out.Code.Line("add x29, sp, #0x%x", fr.size-16)
	for i, p := range fn.Params {
		if i >= 8 {
			break // the first eight integer args arrive in x0-x7; the rest are a §9 open question left unhandled
		}
		width := widthOf(reg, p.Type)
		loc := Pointer(29, fr.fpOffset(fr.localOffset(i)), p.Type)
		out.Code.Line("str %s, %s", RegName(i, width), loc.String())
	}

	g := &genState{asm: asm, out: out, fn: fn, fr: fr, reg: reg}
	out.Code.SetTarget(TargetBody)
	for idx, op := range fn.Ops {
		g.genOp(idx, op)
	}

	out.Code.SetTarget(TargetEpilogue)
	out.Code.Line("ldp x29, x30, [sp, #0x%x]", fr.size-16)
	out.Code.Line("add sp, sp, #0x%x", fr.size)
	out.Code.Line("ret")
}

type genState struct {
	asm *Assembly
	out *ARM64Function
	fn  *ir.Function
	fr  frame
	reg *types.Registry
}

func widthOf(reg *types.Registry, t types.ID) int {
	if t == types.Void {
		return 64
	}
	size := reg.SizeOf(t)
	if size <= 4 {
		return 32
	}
	return 64
}

// loadValue emits whatever instruction is needed to materialise v into
// scratch register n, and returns the register's ValueLocation.
func (g *genState) loadValue(v ir.Value, t types.ID, scratch int) ValueLocation {
	width := widthOf(g.reg, t)
	switch v.Kind {
	case ir.VConstInt:
		g.out.Code.Line("mov %s, #0x%x", RegName(scratch, width), v.Int)
	case ir.VConstFloat:
		g.out.Code.Line("fmov %s, #%v", RegName(scratch, width), v.Float)
	case ir.VParam:
		loc := Pointer(29, g.fr.fpOffset(g.fr.localOffset(v.Index)), t)
		ops := OpsForSize(sizeFor(g.reg, t), signedFor(g.reg, t))
		g.out.Code.Line("%s %s, %s", ops.LoadMnemonic, RegName(scratch, ops.RegisterWidth), loc.String())
	case ir.VLocal:
		loc := Pointer(29, g.fr.fpOffset(g.fr.localOffset(v.Index)), t)
		ops := OpsForSize(sizeFor(g.reg, t), signedFor(g.reg, t))
		g.out.Code.Line("%s %s, %s", ops.LoadMnemonic, RegName(scratch, ops.RegisterWidth), loc.String())
	case ir.VResult:
		loc := Pointer(29, g.fr.fpOffset(g.fr.resultOffset(v.Index)), t)
		ops := OpsForSize(sizeFor(g.reg, t), signedFor(g.reg, t))
		g.out.Code.Line("%s %s, %s", ops.LoadMnemonic, RegName(scratch, ops.RegisterWidth), loc.String())
	default:
		g.out.Code.Line("mov %s, #0x0", RegName(scratch, width))
	}
	return Register(scratch, width, t)
}

func sizeFor(reg *types.Registry, t types.ID) int {
	if t == types.Void {
		return 8
	}
	return reg.SizeOf(t)
}

func signedFor(reg *types.Registry, t types.ID) bool {
	d, ok := reg.Lookup(t)
	return ok && d.Signed
}

// storeResult spills scratch register n, holding opIdx's result, to its
// frame slot.
func (g *genState) storeResult(opIdx int, t types.ID, scratch int) {
	loc := Pointer(29, g.fr.fpOffset(g.fr.resultOffset(opIdx)), t)
	ops := OpsForSize(sizeFor(g.reg, t), signedFor(g.reg, t))
	g.out.Code.Line("%s %s, %s", ops.StoreMnemonic, RegName(scratch, ops.RegisterWidth), loc.String())
}

func (g *genState) storeLocal(slot int, t types.ID, scratch int) {
	loc := Pointer(29, g.fr.fpOffset(g.fr.localOffset(slot)), t)
	ops := OpsForSize(sizeFor(g.reg, t), signedFor(g.reg, t))
	g.out.Code.Line("%s %s, %s", ops.StoreMnemonic, RegName(scratch, ops.RegisterWidth), loc.String())
}

// genOp emits one ir.Op's instructions, spilling its result (if it
// produces one) to the op's own result slot so later ops can load it back
// by index.
func (g *genState) genOp(idx int, op ir.Op) {
	const lhs, rhs, tmp = 9, 10, 11 // x9-x11: scratch registers never used for locals/params
	switch op.Code {
	case ir.OpConstInt, ir.OpConstFloat:
		g.loadValue(op.A, op.Type, lhs)
		g.storeResult(idx, op.Type, lhs)

	case ir.OpConstString:
		label := g.asm.InternString(op.Str)
		g.out.Code.Line("adrp %s, %s@PAGE", RegName(lhs, 64), label)
		g.out.Code.Line("add %s, %s, %s@PAGEOFF", RegName(lhs, 64), RegName(lhs, 64), label)
		g.storeResult(idx, op.Type, lhs)

	case ir.OpLoadParam:
		g.loadValue(op.A, op.Type, lhs)
		g.storeResult(idx, op.Type, lhs)

	case ir.OpLoadLocal:
		g.loadValue(op.A, op.Type, lhs)
		g.storeResult(idx, op.Type, lhs)

	case ir.OpStoreLocal:
		g.loadValue(op.B, op.Type, lhs)
		g.storeLocal(op.A.Index, op.Type, lhs)

	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod,
		ir.OpCmpEq, ir.OpCmpNe, ir.OpCmpLt, ir.OpCmpLe, ir.OpCmpGt, ir.OpCmpGe,
		ir.OpAnd, ir.OpOr:
		l := g.loadValue(op.A, op.Type, lhs)
		r := g.loadValue(op.B, op.Type, rhs)
		g.genBinary(op.Code, l, r, tmp)
		g.storeResult(idx, op.Type, tmp)

	case ir.OpNeg:
		l := g.loadValue(op.A, op.Type, lhs)
		g.out.Code.Line("neg %s, %s", RegName(tmp, l.RegWidth), RegName(lhs, l.RegWidth))
		g.storeResult(idx, op.Type, tmp)

	case ir.OpNot:
		l := g.loadValue(op.A, op.Type, lhs)
		g.out.Code.Line("eor %s, %s, #0x1", RegName(tmp, l.RegWidth), RegName(lhs, l.RegWidth))
		g.storeResult(idx, op.Type, tmp)

	case ir.OpLabel:
		g.out.Code.Raw(op.Str + ":\n")

	case ir.OpJump:
		g.out.Code.Line("b %s", op.Str)

	case ir.OpJumpIfZero:
		g.loadValue(op.B, types.Bool, lhs)
		g.out.Code.Line("cbz %s, %s", RegName(lhs, 32), op.Str)

	case ir.OpCall:
		for i, a := range op.Args {
			if i >= 8 {
				break
			}
			g.loadValue(a, op.Type, i)
		}
		g.out.Code.Line("bl %s", funcLabel(op.Str))
		g.storeResult(idx, op.Type, 0)

	case ir.OpReturn:
		if op.A.Kind != ir.VNone {
			g.loadValue(op.A, g.fn.ResultType, 0)
		}
	}
}

func (g *genState) genBinary(code ir.OpCode, l, r ValueLocation, dst int) {
	a, b := RegName(lhs_(l), l.RegWidth), RegName(rhs_(r), r.RegWidth)
	d := RegName(dst, l.RegWidth)
	switch code {
	case ir.OpAdd:
		g.out.Code.Line("add %s, %s, %s", d, a, b)
	case ir.OpSub:
		g.out.Code.Line("sub %s, %s, %s", d, a, b)
	case ir.OpMul:
		g.out.Code.Line("mul %s, %s, %s", d, a, b)
	case ir.OpDiv:
		g.out.Code.Line("sdiv %s, %s, %s", d, a, b)
	case ir.OpMod:
		g.out.Code.Line("sdiv %s, %s, %s", d, a, b)
		g.out.Code.Line("msub %s, %s, %s, %s", d, d, b, a)
	case ir.OpAnd:
		g.out.Code.Line("and %s, %s, %s", d, a, b)
	case ir.OpOr:
		g.out.Code.Line("orr %s, %s, %s", d, a, b)
	case ir.OpCmpEq, ir.OpCmpNe, ir.OpCmpLt, ir.OpCmpLe, ir.OpCmpGt, ir.OpCmpGe:
		g.out.Code.Line("cmp %s, %s", a, b)
		g.out.Code.Line("cset %s, %s", RegName(dst, 32), condSuffix(code))
	}
}

// lhs_/rhs_ recover the register number a ValueLocation was loaded into;
// genBinary is always called right after loadValue placed its operands in
// the fixed lhs/rhs scratch registers, so these exist only to keep
// RegName's call sites self-documenting.
func lhs_(v ValueLocation) int { return v.Reg }
func rhs_(v ValueLocation) int { return v.Reg }

func condSuffix(code ir.OpCode) string {
	switch code {
	case ir.OpCmpEq:
		return "eq"
	case ir.OpCmpNe:
		return "ne"
	case ir.OpCmpLt:
		return "lt"
	case ir.OpCmpLe:
		return "le"
	case ir.OpCmpGt:
		return "gt"
	default:
		return "ge"
	}
}
