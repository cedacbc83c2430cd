package tsschema

import (
	"fmt"
	"strconv"
	"strings"
)

// goType returns the Go type spelling for a resolved Type. Named
// references to another typedef, and literal/basic mappings, are
// computed once here and carried as part of the JSON projection fed to
// the templates (§4.3 step 5: "templates receive a JSON projection of
// the typedef"); the templates themselves only branch on that projected
// data, they do not re-derive type names.
func goType(t Type) string {
	var base string
	switch t.Kind {
	case TypeBasic:
		base = basicGoType(t.Basic)
	case TypeConstant:
		switch t.Constant.(type) {
		case string:
			base = "string"
		default:
			base = "int32"
		}
	case TypeNamed:
		base = t.Named
	case TypeAnonymousVariant:
		base = "interface{}"
	case TypeAnonymousStruct:
		base = "map[string]interface{}"
	default:
		base = "interface{}"
	}
	if t.Array {
		return "[]" + base
	}
	return base
}

func basicGoType(name string) string {
	switch name {
	case "string":
		return "string"
	case "boolean":
		return "bool"
	case "integer":
		return "int32"
	case "uinteger":
		return "uint32"
	case "decimal":
		return "float64"
	case "null":
		return "interface{}"
	case "LSPAny":
		return "interface{}"
	default:
		return "interface{}"
	}
}

// decodeKind is the discriminator the decode/encode templates switch on
// (§4.3 step 5's "use the template language's for/if/macro features").
func decodeKind(t Type) string {
	switch t.Kind {
	case TypeBasic:
		return "basic:" + t.Basic
	case TypeConstant:
		return "constant"
	case TypeNamed:
		return "named"
	case TypeAnonymousVariant:
		return "variant"
	case TypeAnonymousStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// projectProperty turns one Property into the JSON-shaped map the
// templates consume.
func projectProperty(p Property) map[string]interface{} {
	return map[string]interface{}{
		"Name":     exportName(p.Name),
		"GoType":   goType(p.Type),
		"JSONName": p.Name,
		"Optional": p.Optional,
		"Array":    p.Type.Array,
		"Kind":     decodeKind(p.Type),
		"Category": category(p.Type),
		"ElemGo":   elemGoType(p.Type),
	}
}

// category groups a Type's Kind into the three decode strategies the
// struct template dispatches on: "basic" (delegate to decodeValue's
// scalar coercion), "named" (delegate to the referenced type's own
// generated Decode<Name> function), or "raw" (constant/variant/struct
// payloads pass through as interface{}/map[string]interface{}).
func category(t Type) string {
	switch t.Kind {
	case TypeBasic:
		return "basic"
	case TypeNamed:
		return "named"
	default:
		return "raw"
	}
}

// goLiteral renders an enum member's literal value as Go source text
// (quoted for strings, bare for integers), since the template engine's
// own string values are meant for end-user output, not Go source
// syntax.
func goLiteral(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// exportName capitalizes a TypeScript property's first letter so the
// generated Go struct field is exported; the original spelling is kept
// separately as JSONName for the wire tag.
func exportName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func elemGoType(t Type) string {
	t2 := t
	t2.Array = false
	return goType(t2)
}

func projectVariantMember(t Type, idx int) map[string]interface{} {
	return map[string]interface{}{
		"Tag":      fmt.Sprintf("variant%d", idx),
		"GoType":   goType(t),
		"Kind":     decodeKind(t),
		"Category": category(t),
		"ElemGo":   elemGoType(t),
	}
}

// Project builds the JSON context for one typedef per §3/§4.3: kind,
// name, and kind-specific payload, all as plain maps/slices/scalars so
// the template engine's context rules (§4.2: "identifiers resolve
// against the context, a JSON object") apply directly.
func Project(d *TypeDef) map[string]interface{} {
	ctx := map[string]interface{}{
		"Name": d.Name,
	}
	switch d.Kind {
	case KindInterface:
		ctx["Kind"] = "interface"
		var props []interface{}
		for _, p := range d.Interface.Properties {
			props = append(props, projectProperty(p))
		}
		ctx["Properties"] = props

	case KindEnumeration:
		ctx["Kind"] = "enumeration"
		ctx["Basic"] = d.Enum.Basic
		ctx["GoType"] = basicGoType(d.Enum.Basic)
		var values []interface{}
		for _, v := range d.Enum.Values {
			values = append(values, map[string]interface{}{
				"Name":    v.Name,
				"Literal": goLiteral(v.Literal),
			})
		}
		ctx["Values"] = values

	case KindAlias:
		switch d.Alias.Kind {
		case TypeAnonymousVariant:
			ctx["Kind"] = "variant"
			var members []interface{}
			for i, m := range d.Alias.Variant {
				members = append(members, projectVariantMember(m, i))
			}
			ctx["Variants"] = members
		case TypeAnonymousStruct:
			ctx["Kind"] = "interface"
			var props []interface{}
			for _, p := range d.Alias.Struct {
				props = append(props, projectProperty(p))
			}
			ctx["Properties"] = props
		default:
			ctx["Kind"] = "alias"
			ctx["GoType"] = goType(*d.Alias)
		}
	}
	return ctx
}
