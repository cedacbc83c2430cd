// Package tsschema parses a TypeScript subset (interfaces, type aliases,
// namespace-as-enumeration) and emits, per named type, an encoder,
// decoder, and storage struct via the template engine — §4.3's five
// stage pipeline (lex, parse, resolve, topo-sort, emit).
package tsschema

// TypeDefKind distinguishes the three declaration shapes §3 recognises.
type TypeDefKind uint8

const (
	KindAlias TypeDefKind = iota
	KindInterface
	KindEnumeration
)

// TypeDef is one named declaration: a type alias, an interface, or a
// namespace-as-enumeration. DependsOn is filled in during resolve (the
// transitive closure of every user-defined type it references).
type TypeDef struct {
	Kind      TypeDefKind
	Name      string
	DependsOn []string

	Alias     *Type        // KindAlias
	Interface *Interface   // KindInterface
	Enum      *Enumeration // KindEnumeration
}

// Interface is an object type: the interfaces it extends (flattened into
// Properties during resolve) and its own ordered property list.
type Interface struct {
	Extends    []string
	Properties []Property
}

// Property is one interface member.
type Property struct {
	Name     string
	Optional bool
	Type     Type
}

// TypeKind distinguishes the five payload shapes a Type can carry.
type TypeKind uint8

const (
	TypeBasic TypeKind = iota
	TypeConstant
	TypeNamed
	TypeAnonymousVariant
	TypeAnonymousStruct
)

// Type is a type reference or inline type expression.
type Type struct {
	Kind  TypeKind
	Array bool

	Basic    string      // TypeBasic: "string" | "number" | "boolean" | "integer" | "uinteger" | "decimal" | "null" | "LSPAny"
	Constant interface{} // TypeConstant: a string or number literal type
	Named    string      // TypeNamed: reference to another TypeDef by name

	Variant []Type     // TypeAnonymousVariant: union members
	Struct  []Property // TypeAnonymousStruct: inline `{ ... }` members
}

// Enumeration is a namespace used as an integer or string enum (§4.3:
// "namespaces used as enumerations").
type Enumeration struct {
	Name     string
	Basic    string // "string" or "integer", the underlying representation
	Values   []EnumValue
}

// EnumValue is one `const X = literal` member of an enumeration namespace.
type EnumValue struct {
	Name    string
	Literal interface{}
}

// Module is a topologically-ordered list of typedefs ready for emission.
type Module struct {
	Name  string
	Types []string // names, in dependency order (dependencies first)

	defs map[string]*TypeDef
}

func (m *Module) Lookup(name string) (*TypeDef, bool) {
	d, ok := m.defs[name]
	return d, ok
}

var builtinBasics = map[string]bool{
	"string": true, "number": true, "boolean": true, "integer": true,
	"uinteger": true, "decimal": true, "null": true, "LSPAny": true,
}

// IsBuiltin reports whether name is a built-in basic type rather than a
// user-defined reference (§3's invariant: every type reference is either
// a built-in or a registered typedef name).
func IsBuiltin(name string) bool { return builtinBasics[name] }
