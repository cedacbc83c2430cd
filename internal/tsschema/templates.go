package tsschema

// Template sources for §4.3 step 5: one template per typedef shape
// (struct/interface, enumeration, variant), each producing a storage
// type plus a `decode`/`encode` pair. Written in this package's own
// template language (internal/template), not Go's text/template.

const structTemplate = `type @= Name =@ struct {
@% for _, p in Properties @%;
	@= p.Name =@ @= p.GoType =@ ` + "`" + `json:"@= p.JSONName =@@% if p.Optional @%;,omitempty@% end @%;"` + "`" + `
@% end @%;
}

func Decode@= Name =@(v interface{}) (@= Name =@, bool) {
	var out @= Name =@
	obj, ok := v.(map[string]interface{})
	if !ok {
		return out, false
	}
@% for _, p in Properties @%;
	if raw, present := obj["@= p.JSONName =@"]; present {
@% switch p.Category @%;
@% case "basic" @%;
@% if p.Array @%;
		if rawList, ok := raw.([]interface{}); ok {
			tmp := make(@= p.GoType =@, 0, len(rawList))
			for _, rawElem := range rawList {
				decoded, ok := decodeValue("@= p.Kind =@", rawElem)
				typed, ok2 := decoded.(@= p.ElemGo =@)
				if !ok || !ok2 {
					if !@= p.Optional =@ {
						return out, false
					}
					continue
				}
				tmp = append(tmp, typed)
			}
			out.@= p.Name =@ = tmp
		} else if !@= p.Optional =@ {
			return out, false
		}
@% else @%;
		if decoded, ok := decodeValue("@= p.Kind =@", raw); ok {
			out.@= p.Name =@, _ = decoded.(@= p.GoType =@)
		} else if !@= p.Optional =@ {
			return out, false
		}
@% end @%;
@% case "named" @%;
@% if p.Array @%;
		if rawList, ok := raw.([]interface{}); ok {
			for _, rawElem := range rawList {
				if elem, ok := Decode@= p.ElemGo =@(rawElem); ok {
					out.@= p.Name =@ = append(out.@= p.Name =@, elem)
				} else if !@= p.Optional =@ {
					return out, false
				}
			}
		} else if !@= p.Optional =@ {
			return out, false
		}
@% else @%;
		if decoded, ok := Decode@= p.ElemGo =@(raw); ok {
			out.@= p.Name =@ = decoded
		} else if !@= p.Optional =@ {
			return out, false
		}
@% end @%;
@% case "raw" @%;
		if decoded, ok := raw.(@= p.GoType =@); ok {
			out.@= p.Name =@ = decoded
		} else if !@= p.Optional =@ {
			return out, false
		}
@% end @%;
	} else if !@= p.Optional =@ {
		return out, false
	}
@% end @%;
	return out, true
}

func Encode@= Name =@(v @= Name =@) interface{} {
	obj := map[string]interface{}{}
@% for _, p in Properties @%;
	obj["@= p.JSONName =@"] = v.@= p.Name =@
@% end @%;
	return obj
}

type Optional@= Name =@ = *@= Name =@
type List@= Name =@ = []@= Name =@
`

const enumTemplate = `type @= Name =@ @= GoType =@

const (
@% for _, v in Values @%;
	@= Name =@@= v.Name =@ @= Name =@ = @= v.Literal =@
@% end @%;
)

func Decode@= Name =@(v interface{}) (@= Name =@, bool) {
	var zero @= Name =@
	raw, ok := v.(@= GoType =@)
	if !ok {
		return zero, false
	}
	return @= Name =@(raw), true
}

func Encode@= Name =@(v @= Name =@) interface{} {
	return @= GoType =@(v)
}

type Optional@= Name =@ = *@= Name =@
type List@= Name =@ = []@= Name =@
`

const variantTemplate = `type @= Name =@ struct {
	Tag     string
	Payload interface{}
}

func Decode@= Name =@(v interface{}) (@= Name =@, bool) {
	var out @= Name =@
@% for _, m in Variants @%;
@% switch m.Category @%;
@% case "basic" @%;
	if decoded, ok := decodeValue("@= m.Kind =@", v); ok {
		out.Tag = "@= m.Tag =@"
		out.Payload = decoded
		return out, true
	}
@% case "named" @%;
	if decoded, ok := Decode@= m.ElemGo =@(v); ok {
		out.Tag = "@= m.Tag =@"
		out.Payload = decoded
		return out, true
	}
@% case "raw" @%;
	if decoded, ok := v.(@= m.GoType =@); ok {
		out.Tag = "@= m.Tag =@"
		out.Payload = decoded
		return out, true
	}
@% end @%;
@% end @%;
	return out, false
}

func Encode@= Name =@(v @= Name =@) interface{} {
	switch v.Tag {
@% for _, m in Variants @%;
	case "@= m.Tag =@":
		return v.Payload
@% end @%;
	}
	return nil
}

type Optional@= Name =@ = *@= Name =@
type List@= Name =@ = []@= Name =@
`

const aliasTemplate = `type @= Name =@ = @= GoType =@
`

// templateFor picks the right source for a projected typedef's "Kind".
func templateFor(kind string) string {
	switch kind {
	case "interface":
		return structTemplate
	case "enumeration":
		return enumTemplate
	case "variant":
		return variantTemplate
	default:
		return aliasTemplate
	}
}
