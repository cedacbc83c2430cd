// Package types implements the type descriptor and registry of §3: type
// ids for primitives encode signedness in their upper bits; composite
// kinds reference component types by id (not pointer), so recursive
// structs/variants are representable without ownership cycles.
package types

import "fmt"

// ID is an opaque registered type identifier. Primitive ids are the
// constants below and encode signedness in their high bit so two registries
// never need to agree on primitive numbering out of band.
type ID uint32

const signedBit ID = 1 << 31

func (id ID) Signed() bool { return id&signedBit != 0 }

const (
	Void ID = iota
	Bool
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	F64
	firstUserID
)

func init() {
	// Signed primitives get the signed bit set so Signed() is meaningful
	// without a registry lookup on the compiler's handful of built-ins.
	for _, id := range []*ID{&I8, &I16, &I32, &I64} {
		*id |= signedBit
	}
}

// Kind distinguishes primitive from composite type descriptors.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindStruct
	KindEnum
	KindVariant
	KindAlias
	KindPointer
	KindArray
)

// Field is one member of a struct, or one variant arm's payload type.
type Field struct {
	Name string
	Type ID
}

// Descriptor is the full definition of a registered type: primitives carry
// width/signedness/name; composites reference component ids.
type Descriptor struct {
	ID       ID
	Kind     Kind
	Name     string
	Width    int // bytes; 0 for types whose size is context-dependent (e.g. Void)
	Signed   bool
	Fields   []Field   // struct fields, or variant arms
	Elem     ID        // pointer/array/alias target
	ArrayLen int       // array element count, if Kind == KindArray
}

// Registry owns every Descriptor known to one compilation.
type Registry struct {
	byID map[ID]*Descriptor
	next ID
}

func NewRegistry() *Registry {
	r := &Registry{byID: make(map[ID]*Descriptor), next: firstUserID}
	r.registerBuiltins()
	return r
}

func (r *Registry) registerBuiltins() {
	prims := []struct {
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
	for _, p := range prims {
		r.byID[p.id] = &Descriptor{ID: p.id, Kind: KindPrimitive, Name: p.name, Width: p.width, Signed: p.signed}
	}
}

// Declare reserves a fresh id for a composite type the caller will fill in
// via Define — needed because struct/variant definitions can be mutually
// or self-recursive and the id must exist before the body is known.
func (r *Registry) Declare(name string) ID {
	id := r.next
	r.next++
	r.byID[id] = &Descriptor{ID: id, Name: name}
	return id
}

// Define fills in a previously Declared id.
func (r *Registry) Define(id ID, kind Kind, width int, fields []Field, elem ID) {
	d := r.byID[id]
	d.Kind = kind
	d.Width = width
	d.Fields = fields
	d.Elem = elem
}

func (r *Registry) Lookup(id ID) (*Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// ByName does a linear scan; user type counts in a single compilation are
// small enough that this stays cheap and needs no secondary index.
func (r *Registry) ByName(name string) (*Descriptor, bool) {
	for _, d := range r.byID {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// SizeOf returns a type's width in bytes, resolving aliases.
func (r *Registry) SizeOf(id ID) int {
	d, ok := r.byID[id]
	if !ok {
		return 0
	}
	if d.Kind == KindAlias {
		return r.SizeOf(d.Elem)
	}
	if d.Kind == KindPointer {
		return 8
	}
	if d.Kind == KindArray {
		return r.SizeOf(d.Elem) * d.ArrayLen
	}
	return d.Width
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s(id=%d,kind=%d,w=%d)", d.Name, d.ID, d.Kind, d.Width)
}
