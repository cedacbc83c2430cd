package binder

import (
	"github.com/scribble-lang/scribble/internal/ast"
	"github.com/scribble-lang/scribble/internal/errs"
	"github.com/scribble-lang/scribble/internal/types"
)

// scope is a lexical binding environment: a chain of name->Decl maps,
// pushed on function entry and each block, popped on exit.
type scope struct {
	parent *scope
	names  map[string]*Decl
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: map[string]*Decl{}}
}

func (s *scope) define(name string, d *Decl) {
	s.names[name] = d
}

func (s *scope) lookup(name string) *Decl {
	for cur := s; cur != nil; cur = cur.parent {
		if d, ok := cur.names[name]; ok {
			return d
		}
	}
	return nil
}

// Binder resolves one ast.Tree against a shared types.Registry, producing
// a bound Tree plus an accumulated list of BindErrors (§3/§7: binding is
// fallible and accumulates errors rather than failing fast).
type Binder struct {
	src    *ast.Tree
	types  *types.Registry
	out    *Tree
	errors []*errs.BindError
	nextLocalSlot int
}

func New(src *ast.Tree, reg *types.Registry) *Binder {
	return &Binder{src: src, types: reg, out: newTree()}
}

// Bind binds the whole tree rooted at src.Root and returns the bound tree
// together with any accumulated errors. A non-empty error list does not
// necessarily mean out is unusable for diagnostics, but it is never safe
// to hand to internal/ir.
func (b *Binder) Bind() (*Tree, []*errs.BindError) {
	b.out.Root = b.bindProgram(b.src.Root, newScope(nil))
	return b.out, b.errors
}

func (b *Binder) fail(n *ast.Node, msg string, args ...interface{}) ID {
	e := errs.NewBindError(n.Token.Loc.ToErrLocation(), msg, args...)
	b.errors = append(b.errors, e)
	id := b.out.New(UnboundNode, n.Token)
	return id
}

func (b *Binder) bindProgram(id ast.ID, sc *scope) ID {
	n := b.src.Get(id)
	out := b.out.New(ast.KProgram, n.Token)
	// First pass: declare every top-level function so forward references
	// and mutual recursion resolve.
	for _, childID := range n.Children {
		c := b.src.Get(childID)
		if c.Kind == ast.KFunctionImpl || c.Kind == ast.KFunction || c.Kind == ast.KNativeFunction {
			sc.define(c.Name, &Decl{Kind: DeclFunction, Name: c.Name, Type: types.I32})
		}
	}
	for _, childID := range n.Children {
		boundChild := b.bindTop(childID, sc)
		b.out.AppendChild(out, boundChild)
	}
	return out
}

func (b *Binder) bindTop(id ast.ID, sc *scope) ID {
	n := b.src.Get(id)
	switch n.Kind {
	case ast.KFunctionImpl, ast.KFunction, ast.KNativeFunction:
		return b.bindFunction(id, sc)
	default:
		return b.fail(n, "unsupported top-level declaration")
	}
}

func (b *Binder) bindFunction(id ast.ID, parentScope *scope) ID {
	n := b.src.Get(id)
	out := b.out.New(n.Kind, n.Token)
	b.out.Mutate(out, func(bn *BoundNode) { bn.Name = n.Name; bn.Type = types.I32 })

	fnScope := newScope(parentScope)
	b.nextLocalSlot = 0
	for i, paramID := range n.Children {
		p := b.src.Get(paramID)
		if p.Kind != ast.KParameter {
			continue
		}
		paramOut := b.out.New(ast.KParameter, p.Token)
		b.out.Mutate(paramOut, func(bn *BoundNode) { bn.Name = p.Name; bn.Type = types.I32 })
		fnScope.define(p.Name, &Decl{Kind: DeclParameter, Name: p.Name, Type: types.I32, Index: i})
		b.out.AppendChild(out, paramOut)
	}

	if n.Body != ast.Nil {
		body := b.bindBlock(n.Body, fnScope)
		b.out.Mutate(out, func(bn *BoundNode) { bn.Body = body })
	}
	return out
}

func (b *Binder) bindBlock(id ast.ID, parentScope *scope) ID {
	n := b.src.Get(id)
	out := b.out.New(ast.KBlock, n.Token)
	blockScope := newScope(parentScope)
	for _, stmtID := range n.Children {
		boundStmt := b.bindStatement(stmtID, blockScope)
		b.out.AppendChild(out, boundStmt)
	}
	return out
}

func (b *Binder) bindStatement(id ast.ID, sc *scope) ID {
	n := b.src.Get(id)
	switch n.Kind {
	case ast.KReturn:
		out := b.out.New(ast.KReturn, n.Token)
		if n.Left != ast.Nil {
			val := b.bindExpr(n.Left, sc)
			b.out.Mutate(out, func(bn *BoundNode) { bn.Left = val })
		}
		return out

	case ast.KVariableDecl:
		var valID ID
		if n.Left != ast.Nil {
			valID = b.bindExpr(n.Left, sc)
		}
		out := b.out.New(ast.KVariableDecl, n.Token)
		slot := b.nextLocalSlot
		b.nextLocalSlot++
		b.out.Mutate(out, func(bn *BoundNode) {
			bn.Name = n.Name
			bn.Type = types.I32
			bn.Left = valID
			bn.Decl = &Decl{Kind: DeclVariable, Name: n.Name, Type: types.I32, Index: slot}
		})
		sc.define(n.Name, &Decl{Kind: DeclVariable, Name: n.Name, Type: types.I32, Index: slot})
		return out

	case ast.KAssignment:
		lhsDecl := sc.lookup(n.Name)
		rhs := b.bindExpr(n.Right, sc)
		out := b.out.New(ast.KAssignment, n.Token)
		if lhsDecl == nil {
			return b.fail(n, "undefined identifier %q", n.Name)
		}
		b.out.Mutate(out, func(bn *BoundNode) {
			bn.Name = n.Name
			bn.Decl = lhsDecl
			bn.Right = rhs
			bn.Type = lhsDecl.Type
		})
		return out

	case ast.KIf:
		out := b.out.New(ast.KIf, n.Token)
		cond := b.bindExpr(n.Cond, sc)
		thenB := b.bindBlock(n.Then, sc)
		var elseB ID
		if n.Else != ast.Nil {
			elseB = b.bindBlock(n.Else, sc)
		}
		b.out.Mutate(out, func(bn *BoundNode) { bn.Cond = cond; bn.Then = thenB; bn.Else = elseB })
		return out

	case ast.KWhile, ast.KLoop:
		out := b.out.New(n.Kind, n.Token)
		var cond ID
		if n.Cond != ast.Nil {
			cond = b.bindExpr(n.Cond, sc)
		}
		body := b.bindBlock(n.Body, sc)
		b.out.Mutate(out, func(bn *BoundNode) { bn.Cond = cond; bn.Body = body })
		return out

	case ast.KFor:
		out := b.out.New(ast.KFor, n.Token)
		forScope := newScope(sc)
		var initID, condID, postID ID
		if n.Init != ast.Nil {
			initID = b.bindStatement(n.Init, forScope)
		}
		if n.Cond != ast.Nil {
			condID = b.bindExpr(n.Cond, forScope)
		}
		if n.Post != ast.Nil {
			postID = b.bindStatement(n.Post, forScope)
		}
		body := b.bindBlock(n.Body, forScope)
		b.out.Mutate(out, func(bn *BoundNode) { bn.Init = initID; bn.Cond = condID; bn.Post = postID; bn.Body = body })
		return out

	case ast.KBreak, ast.KContinue:
		return b.out.New(n.Kind, n.Token)

	default:
		// Bare expression statement (e.g. a call for side effects).
		return b.bindExpr(id, sc)
	}
}

func (b *Binder) bindExpr(id ast.ID, sc *scope) ID {
	if id == ast.Nil {
		return Nil
	}
	n := b.src.Get(id)
	switch n.Kind {
	case ast.KIntLiteral:
		out := b.out.New(ast.KIntLiteral, n.Token)
		b.out.Mutate(out, func(bn *BoundNode) { bn.IntVal = n.IntVal; bn.Type = types.I32 })
		return out

	case ast.KDecimalLiteral:
		out := b.out.New(ast.KDecimalLiteral, n.Token)
		b.out.Mutate(out, func(bn *BoundNode) { bn.FloatVal = n.FloatVal; bn.Type = types.F64 })
		return out

	case ast.KBoolLiteral:
		out := b.out.New(ast.KBoolLiteral, n.Token)
		b.out.Mutate(out, func(bn *BoundNode) { bn.BoolVal = n.BoolVal; bn.Type = types.Bool })
		return out

	case ast.KStringLiteral:
		out := b.out.New(ast.KStringLiteral, n.Token)
		b.out.Mutate(out, func(bn *BoundNode) { bn.StrVal = n.StrVal; bn.Type = types.U64 }) // pointer-width ref to interned data
		return out

	case ast.KNameRef, ast.KVariableRef:
		decl := sc.lookup(n.Name)
		if decl == nil {
			return b.fail(n, "undefined identifier %q", n.Name)
		}
		out := b.out.New(ast.KVariableRef, n.Token)
		b.out.Mutate(out, func(bn *BoundNode) { bn.Name = n.Name; bn.Decl = decl; bn.Type = decl.Type })
		return out

	case ast.KBinaryExpr:
		lhs := b.bindExpr(n.Left, sc)
		rhs := b.bindExpr(n.Right, sc)
		out := b.out.New(ast.KBinaryExpr, n.Token)
		resultType := types.I32
		if lhs != Nil {
			if lt := b.out.Get(lhs).Type; lt == types.F64 {
				resultType = types.F64
			}
		}
		b.out.Mutate(out, func(bn *BoundNode) { bn.Left = lhs; bn.Right = rhs; bn.Op = n.Op; bn.Type = resultType })
		return out

	case ast.KUnaryExpr:
		operand := b.bindExpr(n.Left, sc)
		out := b.out.New(ast.KUnaryExpr, n.Token)
		t := types.I32
		if operand != Nil {
			t = b.out.Get(operand).Type
		}
		b.out.Mutate(out, func(bn *BoundNode) { bn.Left = operand; bn.Op = n.Op; bn.Type = t })
		return out

	case ast.KTernaryExpr:
		cond := b.bindExpr(n.Cond, sc)
		thenE := b.bindExpr(n.Then, sc)
		elseE := b.bindExpr(n.Else, sc)
		out := b.out.New(ast.KTernaryExpr, n.Token)
		t := types.I32
		if thenE != Nil {
			t = b.out.Get(thenE).Type
		}
		b.out.Mutate(out, func(bn *BoundNode) { bn.Cond = cond; bn.Then = thenE; bn.Else = elseE; bn.Type = t })
		return out

	case ast.KFunctionCall:
		decl := sc.lookup(n.Name)
		if decl == nil || decl.Kind != DeclFunction {
			return b.fail(n, "undefined function %q", n.Name)
		}
		var args []ID
		for _, argID := range n.Children {
			args = append(args, b.bindExpr(argID, sc))
		}
		out := b.out.New(ast.KFunctionCall, n.Token)
		b.out.Mutate(out, func(bn *BoundNode) { bn.Name = n.Name; bn.Decl = decl; bn.Args = args; bn.Type = decl.Type })
		return out

	default:
		return b.fail(n, "unsupported expression kind %d", n.Kind)
	}
}
