package ast

import (
	"testing"

	"github.com/scribble-lang/scribble/internal/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAllocatesNodeWithTokenAndDefaultIndex(t *testing.T) {
	tr := NewTree()
	tok := lexer.Token{Kind: lexer.Identifier, Text: "foo"}
	id := tr.New(KNameRef, tok)
	n := tr.Get(id)
	assert.Equal(t, KNameRef, n.Kind)
	assert.Equal(t, tok, n.Token)
	assert.Equal(t, -1, n.Index)
	assert.Equal(t, Nil, n.Parent)
}

func TestMutateWritesBackThroughCopy(t *testing.T) {
	tr := NewTree()
	id := tr.New(KIntLiteral, lexer.Token{})
	tr.Mutate(id, func(n *Node) { n.IntVal = 42 })
	assert.Equal(t, int64(42), tr.Get(id).IntVal)
}

func TestSetOverwritesNode(t *testing.T) {
	tr := NewTree()
	id := tr.New(KIntLiteral, lexer.Token{})
	tr.Set(id, Node{Kind: KBoolLiteral, BoolVal: true})
	got := tr.Get(id)
	assert.Equal(t, KBoolLiteral, got.Kind)
	assert.True(t, got.BoolVal)
}

func TestAppendChildSetsParentWithoutSiblingChain(t *testing.T) {
	tr := NewTree()
	parent := tr.New(KBlock, lexer.Token{})
	child := tr.New(KReturn, lexer.Token{})
	tr.AppendChild(parent, child)

	assert.Equal(t, []ID{child}, tr.Get(parent).Children)
	assert.Equal(t, parent, tr.Get(child).Parent)
	assert.Equal(t, Nil, tr.Get(child).Next)
	assert.Equal(t, Nil, tr.Get(child).Prev)
}

func TestAppendSiblingThreadsDoublyLinkedChain(t *testing.T) {
	tr := NewTree()
	parent := tr.New(KBlock, lexer.Token{})
	a := tr.New(KReturn, lexer.Token{})
	b := tr.New(KBreak, lexer.Token{})
	c := tr.New(KContinue, lexer.Token{})

	tr.AppendSibling(parent, a)
	tr.AppendSibling(parent, b)
	tr.AppendSibling(parent, c)

	assert.Equal(t, []ID{a, b, c}, tr.Siblings(parent))

	na, nb, nc := tr.Get(a), tr.Get(b), tr.Get(c)
	assert.Equal(t, parent, na.Parent)
	assert.Equal(t, parent, nb.Parent)
	assert.Equal(t, parent, nc.Parent)

	assert.Equal(t, Nil, na.Prev)
	assert.Equal(t, b, na.Next)
	assert.Equal(t, a, nb.Prev)
	assert.Equal(t, c, nb.Next)
	assert.Equal(t, b, nc.Prev)
	assert.Equal(t, Nil, nc.Next, "the last sibling's forward link must terminate the chain")
}

func TestAppendSiblingFirstChildGoesThroughAppendChildPath(t *testing.T) {
	tr := NewTree()
	parent := tr.New(KBlock, lexer.Token{})
	only := tr.New(KReturn, lexer.Token{})
	tr.AppendSibling(parent, only)

	n := tr.Get(only)
	assert.Equal(t, Nil, n.Next)
	assert.Equal(t, Nil, n.Prev)
	assert.Equal(t, []ID{only}, tr.Siblings(parent))
}

func TestSiblingsReturnsACopyNotTheBackingSlice(t *testing.T) {
	tr := NewTree()
	parent := tr.New(KBlock, lexer.Token{})
	child := tr.New(KReturn, lexer.Token{})
	tr.AppendSibling(parent, child)

	got := tr.Siblings(parent)
	got[0] = Nil
	assert.Equal(t, []ID{child}, tr.Siblings(parent), "mutating the returned slice must not corrupt tree state")
}

func TestNilIDIsZero(t *testing.T) {
	require.Equal(t, ID(0), Nil)
	tr := NewTree()
	id := tr.New(KProgram, lexer.Token{})
	require.NotEqual(t, Nil, id)
}

func TestOpCodesOccupyASharedRangeAboveByteValues(t *testing.T) {
	assert.Greater(t, OpEq, 255)
	assert.Equal(t, OpEq+1, OpNe)
	assert.Equal(t, OpEq+8, OpArrow)
}
