package binder

import (
	"testing"

	"github.com/scribble-lang/scribble/internal/ast"
	"github.com/scribble-lang/scribble/internal/lexer"
	"github.com/scribble-lang/scribble/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// program builds an unbound ast.Tree whose root is a KProgram with the
// given top-level declarations already appended as children, ready to bind.
func program(tr *ast.Tree, decls ...ast.ID) *ast.Tree {
	root := tr.New(ast.KProgram, lexer.Token{})
	for _, d := range decls {
		tr.AppendChild(root, d)
	}
	tr.Root = root
	return tr
}

func intLiteral(tr *ast.Tree, v int64) ast.ID {
	id := tr.New(ast.KIntLiteral, lexer.Token{})
	tr.Mutate(id, func(n *ast.Node) { n.IntVal = v })
	return id
}

func nameRef(tr *ast.Tree, name string) ast.ID {
	id := tr.New(ast.KNameRef, lexer.Token{})
	tr.Mutate(id, func(n *ast.Node) { n.Name = name })
	return id
}

func returnStmt(tr *ast.Tree, val ast.ID) ast.ID {
	id := tr.New(ast.KReturn, lexer.Token{})
	tr.Mutate(id, func(n *ast.Node) { n.Left = val })
	return id
}

func block(tr *ast.Tree, stmts ...ast.ID) ast.ID {
	id := tr.New(ast.KBlock, lexer.Token{})
	for _, s := range stmts {
		tr.AppendChild(id, s)
	}
	return id
}

func function(tr *ast.Tree, name string, params []string, body ast.ID) ast.ID {
	id := tr.New(ast.KFunctionImpl, lexer.Token{})
	tr.Mutate(id, func(n *ast.Node) { n.Name = name; n.Body = body })
	for _, p := range params {
		pid := tr.New(ast.KParameter, lexer.Token{})
		tr.Mutate(pid, func(n *ast.Node) { n.Name = p })
		tr.AppendChild(id, pid)
	}
	return id
}

func TestBindSimpleFunctionReturningIntLiteral(t *testing.T) {
	src := ast.NewTree()
	body := block(src, returnStmt(src, intLiteral(src, 7)))
	fn := function(src, "main", nil, body)
	program(src, fn)

	out, errs := New(src, types.NewRegistry()).Bind()
	require.Empty(t, errs)

	root := out.Get(out.Root)
	require.Len(t, root.Children, 1)
	boundFn := out.Get(root.Children[0])
	assert.Equal(t, "main", boundFn.Name)
	assert.Equal(t, types.I32, boundFn.Type)

	boundBody := out.Get(boundFn.Body)
	require.Len(t, boundBody.Children, 1)
	ret := out.Get(boundBody.Children[0])
	assert.Equal(t, ast.KReturn, ret.Kind)
	val := out.Get(ret.Left)
	assert.Equal(t, int64(7), val.IntVal)
}

func TestBindUndefinedIdentifierAccumulatesError(t *testing.T) {
	src := ast.NewTree()
	body := block(src, returnStmt(src, nameRef(src, "missing")))
	fn := function(src, "main", nil, body)
	program(src, fn)

	_, errs := New(src, types.NewRegistry()).Bind()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, `undefined identifier "missing"`)
}

func TestBindResolvesFunctionParameters(t *testing.T) {
	src := ast.NewTree()
	body := block(src, returnStmt(src, nameRef(src, "x")))
	fn := function(src, "identity", []string{"x"}, body)
	program(src, fn)

	out, errs := New(src, types.NewRegistry()).Bind()
	require.Empty(t, errs)

	boundFn := out.Get(out.Get(out.Root).Children[0])
	require.Len(t, boundFn.Children, 1)
	param := out.Get(boundFn.Children[0])
	assert.Equal(t, "x", param.Name)
	assert.Equal(t, types.I32, param.Type)

	boundBody := out.Get(boundFn.Body)
	ret := out.Get(boundBody.Children[0])
	ref := out.Get(ret.Left)
	require.NotNil(t, ref.Decl)
	assert.Equal(t, DeclParameter, ref.Decl.Kind)
	assert.Equal(t, 0, ref.Decl.Index)
}

func TestBindVariableDeclAssignsIncrementingSlots(t *testing.T) {
	src := ast.NewTree()
	varA := src.New(ast.KVariableDecl, lexer.Token{})
	src.Mutate(varA, func(n *ast.Node) { n.Name = "a"; n.Left = intLiteral(src, 1) })
	varB := src.New(ast.KVariableDecl, lexer.Token{})
	src.Mutate(varB, func(n *ast.Node) { n.Name = "b"; n.Left = intLiteral(src, 2) })
	body := block(src, varA, varB, returnStmt(src, nameRef(src, "b")))
	fn := function(src, "main", nil, body)
	program(src, fn)

	out, errs := New(src, types.NewRegistry()).Bind()
	require.Empty(t, errs)

	boundBody := out.Get(out.Get(out.Get(out.Root).Children[0]).Body)
	boundA := out.Get(boundBody.Children[0])
	boundB := out.Get(boundBody.Children[1])
	assert.Equal(t, 0, boundA.Decl.Index)
	assert.Equal(t, 1, boundB.Decl.Index)
}

func TestBindMutualForwardReferenceBetweenTopLevelFunctions(t *testing.T) {
	src := ast.NewTree()
	callA := src.New(ast.KFunctionCall, lexer.Token{})
	src.Mutate(callA, func(n *ast.Node) { n.Name = "b" })
	fnA := function(src, "a", nil, block(src, returnStmt(src, callA)))

	callB := src.New(ast.KFunctionCall, lexer.Token{})
	src.Mutate(callB, func(n *ast.Node) { n.Name = "a" })
	fnB := function(src, "b", nil, block(src, returnStmt(src, callB)))

	program(src, fnA, fnB)

	_, errs := New(src, types.NewRegistry()).Bind()
	assert.Empty(t, errs, "forward/mutual references between top-level functions must resolve")
}

func TestBindAssignmentToUndefinedVariableFails(t *testing.T) {
	src := ast.NewTree()
	assign := src.New(ast.KAssignment, lexer.Token{})
	src.Mutate(assign, func(n *ast.Node) { n.Name = "x"; n.Right = intLiteral(src, 1) })
	fn := function(src, "main", nil, block(src, assign))
	program(src, fn)

	_, errs := New(src, types.NewRegistry()).Bind()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, `undefined identifier "x"`)
}

func TestBindBinaryExprPropagatesFloatType(t *testing.T) {
	src := ast.NewTree()
	decimal := src.New(ast.KDecimalLiteral, lexer.Token{})
	src.Mutate(decimal, func(n *ast.Node) { n.FloatVal = 1.5 })
	bin := src.New(ast.KBinaryExpr, lexer.Token{})
	src.Mutate(bin, func(n *ast.Node) { n.Left = decimal; n.Right = intLiteral(src, 1) })
	fn := function(src, "main", nil, block(src, returnStmt(src, bin)))
	program(src, fn)

	out, errs := New(src, types.NewRegistry()).Bind()
	require.Empty(t, errs)

	boundBody := out.Get(out.Get(out.Get(out.Root).Children[0]).Body)
	ret := out.Get(boundBody.Children[0])
	boundBin := out.Get(ret.Left)
	assert.Equal(t, types.F64, boundBin.Type)
}

func TestBindUnsupportedTopLevelDeclarationProducesUnboundNodeAndError(t *testing.T) {
	src := ast.NewTree()
	bogus := src.New(ast.KStructDecl, lexer.Token{})
	program(src, bogus)

	out, errs := New(src, types.NewRegistry()).Bind()
	require.Len(t, errs, 1)
	root := out.Get(out.Root)
	require.Len(t, root.Children, 1)
	assert.Equal(t, UnboundNode, out.Get(root.Children[0]).Kind)
}

func TestBindUndefinedFunctionCallFails(t *testing.T) {
	src := ast.NewTree()
	call := src.New(ast.KFunctionCall, lexer.Token{})
	src.Mutate(call, func(n *ast.Node) { n.Name = "nope" })
	fn := function(src, "main", nil, block(src, returnStmt(src, call)))
	program(src, fn)

	_, errs := New(src, types.NewRegistry()).Bind()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, `undefined function "nope"`)
}
