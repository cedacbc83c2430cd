package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedPrimitivesCarryTheSignedBit(t *testing.T) {
	assert.True(t, I8.Signed())
	assert.True(t, I16.Signed())
	assert.True(t, I32.Signed())
	assert.True(t, I64.Signed())
	assert.False(t, U8.Signed())
	assert.False(t, U16.Signed())
	assert.False(t, U32.Signed())
	assert.False(t, U64.Signed())
	assert.False(t, Bool.Signed())
	assert.False(t, Void.Signed())
}

func TestNewRegistryRegistersAllBuiltins(t *testing.T) {
	r := NewRegistry()
	cases := []struct {
		id     ID
		name   string
		width  int
		signed bool
	}{
		{Void, "void", 0, false},
		{Bool, "bool", 1, false},
		{I8, "i8", 1, true},
		{U8, "u8", 1, false},
		{I16, "i16", 2, true},
		{U16, "u16", 2, false},
		{I32, "i32", 4, true},
		{U32, "u32", 4, false},
		{I64, "i64", 8, true},
		{U64, "u64", 8, false},
		{F64, "f64", 8, false},
	}
	for _, c := range cases {
		d, ok := r.Lookup(c.id)
		require.True(t, ok, c.name)
		assert.Equal(t, c.name, d.Name)
		assert.Equal(t, c.width, d.Width)
		assert.Equal(t, c.signed, d.Signed)
		assert.Equal(t, KindPrimitive, d.Kind)
	}
}

func TestByNameFindsRegisteredBuiltin(t *testing.T) {
	r := NewRegistry()
	d, ok := r.ByName("i32")
	require.True(t, ok)
	assert.Equal(t, I32, d.ID)
}

func TestByNameMissReturnsFalse(t *testing.T) {
	r := NewRegistry()
	_, ok := r.ByName("nope")
	assert.False(t, ok)
}

func TestDeclareThenDefineStruct(t *testing.T) {
	r := NewRegistry()
	id := r.Declare("Point")
	d, ok := r.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, "Point", d.Name)
	assert.Equal(t, Kind(0), d.Kind) // not yet defined

	fields := []Field{{Name: "x", Type: I32}, {Name: "y", Type: I32}}
	r.Define(id, KindStruct, 8, fields, ID(0))
	d, ok = r.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, KindStruct, d.Kind)
	assert.Equal(t, 8, d.Width)
	assert.Equal(t, fields, d.Fields)
}

func TestDeclareAllowsSelfReferentialTypes(t *testing.T) {
	r := NewRegistry()
	id := r.Declare("List")
	r.Define(id, KindStruct, 8, []Field{{Name: "next", Type: id}}, ID(0))
	d, _ := r.Lookup(id)
	assert.Equal(t, id, d.Fields[0].Type)
}

func TestSizeOfPrimitives(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 4, r.SizeOf(I32))
	assert.Equal(t, 8, r.SizeOf(F64))
	assert.Equal(t, 0, r.SizeOf(Void))
}

func TestSizeOfResolvesAliasChain(t *testing.T) {
	r := NewRegistry()
	id := r.Declare("MyInt")
	r.Define(id, KindAlias, 0, nil, I32)
	assert.Equal(t, 4, r.SizeOf(id))
}

func TestSizeOfPointerIsEightBytes(t *testing.T) {
	r := NewRegistry()
	id := r.Declare("*i32")
	r.Define(id, KindPointer, 0, nil, I32)
	assert.Equal(t, 8, r.SizeOf(id))
}

func TestSizeOfArrayMultipliesElementByLength(t *testing.T) {
	r := NewRegistry()
	id := r.Declare("[i32;4]")
	d, _ := r.Lookup(id)
	d.ArrayLen = 4
	r.Define(id, KindArray, 0, nil, I32)
	assert.Equal(t, 16, r.SizeOf(id))
}

func TestSizeOfUnknownIDReturnsZero(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.SizeOf(ID(99999)))
}

func TestDescriptorStringIncludesNameAndID(t *testing.T) {
	r := NewRegistry()
	d, _ := r.Lookup(I32)
	assert.Contains(t, d.String(), "i32")
}
