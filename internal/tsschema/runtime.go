package tsschema

import "strings"

// decodeValue is the one hand-written runtime helper every generated
// decode function calls into for a scalar (non-array) field: it
// dispatches on the projected "Kind" discriminator (basic:<name> /
// constant) produced by decodeKind, returning the Go-typed value or
// false on any mismatch (§4.3: "returning empty on any type mismatch of
// any required field"). Named/variant/struct fields, and array
// iteration, are handled directly in the generated code (see
// templates.go's structTemplate) since those need the concrete
// per-typedef Decode<Name> function or element-wise looping that a
// single generic helper can't spell out.
func decodeValue(kind string, raw interface{}) (interface{}, bool) {
	if strings.HasPrefix(kind, "basic:") {
		return decodeBasic(strings.TrimPrefix(kind, "basic:"), raw)
	}
	switch kind {
	case "constant":
		return raw, true
	default:
		// "named"/"variant"/"struct": the caller's generated code is
		// responsible for re-dispatching to the right Decode<Name>; this
		// helper only hands back the untouched payload for it to try.
		return raw, true
	}
}

func decodeBasic(basic string, raw interface{}) (interface{}, bool) {
	switch basic {
	case "string":
		v, ok := raw.(string)
		return v, ok
	case "boolean":
		v, ok := raw.(bool)
		return v, ok
	case "integer":
		switch n := raw.(type) {
		case float64:
			return int32(n), true
		case int32:
			return n, true
		case int:
			return int32(n), true
		default:
			return nil, false
		}
	case "uinteger":
		switch n := raw.(type) {
		case float64:
			return uint32(n), true
		case uint32:
			return n, true
		case int:
			return uint32(n), true
		default:
			return nil, false
		}
	case "decimal":
		v, ok := raw.(float64)
		return v, ok
	case "LSPAny", "null":
		return raw, true
	default:
		return nil, false
	}
}
