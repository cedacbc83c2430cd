package ir

import (
	"fmt"

	"github.com/scribble-lang/scribble/internal/ast"
	"github.com/scribble-lang/scribble/internal/binder"
	"github.com/scribble-lang/scribble/internal/types"
)

// loopCtx names the head/exit labels break/continue resolve to, per §4.5:
// "break/continue resolve to the nearest enclosing loop's exit / head
// label."
type loopCtx struct {
	headLabel string
	exitLabel string
}

// lowerer holds the per-function state needed while walking one bound
// FUNCTION_IMPL's statement chain.
type lowerer struct {
	fn        *Function
	tree      *binder.Tree
	reg       *types.Registry
	labelSeq  int
	loops     []loopCtx
	localSlot map[binder.ID]int // bound VariableDecl node -> local slot, for decls introduced mid-body
}

func (lw *lowerer) newLabel(prefix string) string {
	lw.labelSeq++
	return fmt.Sprintf(".%s%d", prefix, lw.labelSeq)
}

// LowerModule lowers every FUNCTION_IMPL child of a bound program root into
// one IR Module named moduleName (§4.5: "Each bound MODULE becomes an IR
// module named after the source module"). NATIVE_FUNCTION children produce
// no IR function.
func LowerModule(moduleName string, tree *binder.Tree, reg *types.Registry) *Module {
	mod := &Module{Name: moduleName}
	root := tree.Get(tree.Root)
	for _, childID := range root.Children {
		n := tree.Get(childID)
		if n.Kind != ast.KFunctionImpl {
			continue // native functions have no body to lower; bodies live in the runtime
		}
		mod.Functions = append(mod.Functions, lowerFunction(n, tree, reg))
	}
	return mod
}

func lowerFunction(n *binder.BoundNode, tree *binder.Tree, reg *types.Registry) *Function {
	fn := &Function{Name: n.Name, ResultType: n.Type, IsMain: n.Name == "main"}
	for _, paramID := range n.Children {
		p := tree.Get(paramID)
		if p.Kind != ast.KParameter {
			continue
		}
		fn.Params = append(fn.Params, Local{Name: p.Name, Type: p.Type})
	}
	fn.Locals = append(fn.Locals, fn.Params...)

	lw := &lowerer{fn: fn, tree: tree, reg: reg, localSlot: map[binder.ID]int{}}

	if n.Body != binder.Nil {
		lw.lowerBlock(n.Body)
	}
	// §4.5 invariant: every function ends in at least one return, lowered
	// even from an implicit fall-through.
	if len(fn.Ops) == 0 || fn.Ops[len(fn.Ops)-1].Code != OpReturn {
		fn.Emit(Op{Code: OpReturn})
	}
	return fn
}

func (lw *lowerer) lowerBlock(id binder.ID) {
	n := lw.tree.Get(id)
	for _, stmtID := range n.Children {
		lw.lowerStatement(stmtID)
	}
}

func (lw *lowerer) lowerStatement(id binder.ID) {
	n := lw.tree.Get(id)
	switch n.Kind {
	case ast.KReturn:
		var v Value
		if n.Left != binder.Nil {
			v = lw.lowerExpr(n.Left)
		}
		lw.fn.Emit(Op{Code: OpReturn, A: v})

	case ast.KVariableDecl:
		slot := len(lw.fn.Locals)
		lw.fn.Locals = append(lw.fn.Locals, Local{Name: n.Name, Type: n.Type})
		lw.localSlot[id] = slot
		if n.Left != binder.Nil {
			v := lw.lowerExpr(n.Left)
			lw.fn.Emit(Op{Code: OpStoreLocal, A: Local(slot), B: v})
		}

	case ast.KAssignment:
		v := lw.lowerExpr(n.Right)
		slot := lw.declSlot(n.Decl)
		lw.fn.Emit(Op{Code: OpStoreLocal, A: Local(slot), B: v})

	case ast.KIf:
		lw.lowerIf(n)

	case ast.KWhile:
		lw.lowerWhile(n)

	case ast.KLoop:
		lw.lowerLoop(n)

	case ast.KFor:
		lw.lowerFor(n)

	case ast.KBreak:
		if len(lw.loops) > 0 {
			lw.fn.Emit(Op{Code: OpJump, Str: lw.loops[len(lw.loops)-1].exitLabel})
		}

	case ast.KContinue:
		if len(lw.loops) > 0 {
			lw.fn.Emit(Op{Code: OpJump, Str: lw.loops[len(lw.loops)-1].headLabel})
		}

	default:
		// Bare expression statement (e.g. a call for side effects).
		lw.lowerExpr(id)
	}
}

// declSlot maps a binder.Decl back to a local slot. Parameters occupy
// slots [0,len(Params)); a local maps to len(Params) plus its Index, which
// the binder assigned densely in declaration order. localSlot is not read
// here.
func (lw *lowerer) declSlot(d *binder.Decl) int {
	if d == nil {
		return 0
	}
	if d.Kind == binder.DeclParameter {
		return d.Index
	}
	return len(lw.fn.Params) + d.Index
}

func (lw *lowerer) lowerIf(n *binder.BoundNode) {
	cond := lw.lowerExpr(n.Cond)
	elseLabel := lw.newLabel("Lelse")
	endLabel := lw.newLabel("Lend")
	lw.fn.Emit(Op{Code: OpJumpIfZero, Str: elseLabel, B: cond})
	lw.lowerBlock(n.Then)
	lw.fn.Emit(Op{Code: OpJump, Str: endLabel})
	lw.fn.Emit(Op{Code: OpLabel, Str: elseLabel})
	if n.Else != binder.Nil {
		lw.lowerBlock(n.Else)
	}
	lw.fn.Emit(Op{Code: OpLabel, Str: endLabel})
}

func (lw *lowerer) lowerWhile(n *binder.BoundNode) {
	head := lw.newLabel("Lhead")
	exit := lw.newLabel("Lexit")
	lw.fn.Emit(Op{Code: OpLabel, Str: head})
	cond := lw.lowerExpr(n.Cond)
	lw.fn.Emit(Op{Code: OpJumpIfZero, Str: exit, B: cond})
	lw.loops = append(lw.loops, loopCtx{headLabel: head, exitLabel: exit})
	lw.lowerBlock(n.Body)
	lw.loops = lw.loops[:len(lw.loops)-1]
	lw.fn.Emit(Op{Code: OpJump, Str: head})
	lw.fn.Emit(Op{Code: OpLabel, Str: exit})
}

func (lw *lowerer) lowerLoop(n *binder.BoundNode) {
	head := lw.newLabel("Lhead")
	exit := lw.newLabel("Lexit")
	lw.fn.Emit(Op{Code: OpLabel, Str: head})
	lw.loops = append(lw.loops, loopCtx{headLabel: head, exitLabel: exit})
	lw.lowerBlock(n.Body)
	lw.loops = lw.loops[:len(lw.loops)-1]
	lw.fn.Emit(Op{Code: OpJump, Str: head})
	lw.fn.Emit(Op{Code: OpLabel, Str: exit})
}

func (lw *lowerer) lowerFor(n *binder.BoundNode) {
	if n.Init != binder.Nil {
		lw.lowerStatement(n.Init)
	}
	head := lw.newLabel("Lhead")
	exit := lw.newLabel("Lexit")
	lw.fn.Emit(Op{Code: OpLabel, Str: head})
	if n.Cond != binder.Nil {
		cond := lw.lowerExpr(n.Cond)
		lw.fn.Emit(Op{Code: OpJumpIfZero, Str: exit, B: cond})
	}
	lw.loops = append(lw.loops, loopCtx{headLabel: head, exitLabel: exit})
	lw.lowerBlock(n.Body)
	lw.loops = lw.loops[:len(lw.loops)-1]
	if n.Post != binder.Nil {
		lw.lowerStatement(n.Post)
	}
	lw.fn.Emit(Op{Code: OpJump, Str: head})
	lw.fn.Emit(Op{Code: OpLabel, Str: exit})
}

// lowerExpr is a post-order walk producing the Value naming where the
// result of n lives (§4.5).
func (lw *lowerer) lowerExpr(id binder.ID) Value {
	if id == binder.Nil {
		return Value{}
	}
	n := lw.tree.Get(id)
	switch n.Kind {
	case ast.KIntLiteral:
		return ConstInt(n.IntVal)

	case ast.KDecimalLiteral:
		return ConstFloat(n.FloatVal)

	case ast.KBoolLiteral:
		if n.BoolVal {
			return ConstInt(1)
		}
		return ConstInt(0)

	case ast.KStringLiteral:
		idx := lw.fn.Emit(Op{Code: OpConstString, Str: n.StrVal, Type: n.Type})
		return ResultOf(idx)

	case ast.KVariableRef:
		if n.Decl != nil && n.Decl.Kind == binder.DeclParameter {
			idx := lw.fn.Emit(Op{Code: OpLoadParam, A: Param(n.Decl.Index), Type: n.Type})
			return ResultOf(idx)
		}
		slot := lw.declSlot(n.Decl)
		idx := lw.fn.Emit(Op{Code: OpLoadLocal, A: Local(slot), Type: n.Type})
		return ResultOf(idx)

	case ast.KBinaryExpr:
		l := lw.lowerExpr(n.Left)
		r := lw.lowerExpr(n.Right)
		code := binaryOpCode(n.Op)
		idx := lw.fn.Emit(Op{Code: code, A: l, B: r, Type: n.Type})
		return ResultOf(idx)

	case ast.KUnaryExpr:
		v := lw.lowerExpr(n.Left)
		code := OpNeg
		if n.Op == '!' {
			code = OpNot
		}
		idx := lw.fn.Emit(Op{Code: code, A: v, Type: n.Type})
		return ResultOf(idx)

	case ast.KTernaryExpr:
		// Lowers to the same branch shape as if/else, materialising the
		// chosen branch's value into a fresh local.
		cond := lw.lowerExpr(n.Cond)
		slot := len(lw.fn.Locals)
		lw.fn.Locals = append(lw.fn.Locals, Local{Type: n.Type})
		elseLabel := lw.newLabel("Lelse")
		endLabel := lw.newLabel("Lend")
		lw.fn.Emit(Op{Code: OpJumpIfZero, Str: elseLabel, B: cond})
		thenV := lw.lowerExpr(n.Then)
		lw.fn.Emit(Op{Code: OpStoreLocal, A: Local(slot), B: thenV})
		lw.fn.Emit(Op{Code: OpJump, Str: endLabel})
		lw.fn.Emit(Op{Code: OpLabel, Str: elseLabel})
		elseV := lw.lowerExpr(n.Else)
		lw.fn.Emit(Op{Code: OpStoreLocal, A: Local(slot), B: elseV})
		lw.fn.Emit(Op{Code: OpLabel, Str: endLabel})
		idx := lw.fn.Emit(Op{Code: OpLoadLocal, A: Local(slot), Type: n.Type})
		return ResultOf(idx)

	case ast.KFunctionCall:
		var args []Value
		for _, argID := range n.Args {
			args = append(args, lw.lowerExpr(argID))
		}
		idx := lw.fn.Emit(Op{Code: OpCall, Str: n.Name, Args: args, Type: n.Type})
		return ResultOf(idx)

	default:
		return Value{}
	}
}

func binaryOpCode(tokCode int) OpCode {
	switch tokCode {
	case '+':
		return OpAdd
	case '-':
		return OpSub
	case '*':
		return OpMul
	case '/':
		return OpDiv
	case '%':
		return OpMod
	case '<':
		return OpCmpLt
	case '>':
		return OpCmpGt
	case ast.OpEq:
		return OpCmpEq
	case ast.OpNe:
		return OpCmpNe
	case ast.OpLe:
		return OpCmpLe
	case ast.OpGe:
		return OpCmpGe
	case ast.OpAnd:
		return OpAnd
	case ast.OpOr:
		return OpOr
	default:
		return OpAdd
	}
}
