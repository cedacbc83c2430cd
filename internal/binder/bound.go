// Package binder resolves an unbound ast.Tree into a bound node tree: the
// same kind universe plus UnboundNode (a placeholder cleared by a
// successful bind), with names resolved to declarations and types resolved
// to types.ID (§3).
package binder

import (
	"github.com/scribble-lang/scribble/internal/ast"
	"github.com/scribble-lang/scribble/internal/lexer"
	"github.com/scribble-lang/scribble/internal/support/arena"
	"github.com/scribble-lang/scribble/internal/types"
)

type ID = arena.ID

const Nil = arena.Nil

// Kind mirrors ast.Kind with one addition: UnboundNode, the placeholder
// the binder leaves in place of a node it failed to bind. A tree returned
// from Bind together with an empty error list contains no UnboundNode (§3).
type Kind = ast.Kind

const UnboundNode ast.Kind = 255

// Decl is what a bound name reference resolves to: a variable, a
// parameter, or a function.
type DeclKind uint8

const (
	DeclVariable DeclKind = iota
	DeclParameter
	DeclFunction
)

type Decl struct {
	Kind  DeclKind
	Name  string
	Type  types.ID
	Index int // parameter index, or local slot index
}

// BoundNode is one entry of the bound tree: same kind universe as the
// unbound tree, plus a resolved type, an IR back-pointer filled in by the
// IR generator, and the original token's location/length.
type BoundNode struct {
	Kind Kind
	Name string
	Type types.ID

	Token    lexer.Token
	TokenLen int

	Parent ID
	Next   ID
	Prev   ID
	Children []ID

	Left, Right, Cond, Then, Else, Init, Post, Body ID

	// Decl is set for name references, variable references, and the
	// function a call resolves to.
	Decl *Decl

	// Args is the resolved argument chain of a function call.
	Args []ID

	// CastTarget is the resolved target type id of a cast expression.
	CastTarget types.ID

	Op       int
	BoolVal  bool
	IntVal   int64
	FloatVal float64
	StrVal   string

	// IRFragment is attached by internal/ir once this node has been
	// lowered; kept as interface{} here so binder need not import ir.
	IRFragment interface{}
}

// Tree owns the arena for one compilation unit's bound AST.
type Tree struct {
	nodes *arena.Arena[BoundNode]
	Root  ID
}

func newTree() *Tree {
	return &Tree{nodes: arena.New[BoundNode]()}
}

func (t *Tree) New(kind Kind, tok lexer.Token) ID {
	return t.nodes.Add(BoundNode{Kind: kind, Token: tok, TokenLen: len(tok.Text)})
}

func (t *Tree) Get(id ID) *BoundNode {
	n := t.nodes.Get(id)
	return &n
}

func (t *Tree) Mutate(id ID, f func(*BoundNode)) {
	n := t.nodes.Get(id)
	f(&n)
	t.nodes.Set(id, n)
}

func (t *Tree) AppendChild(parent, child ID) {
	t.Mutate(parent, func(p *BoundNode) { p.Children = append(p.Children, child) })
	t.Mutate(child, func(c *BoundNode) { c.Parent = parent })
}
