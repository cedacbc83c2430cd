package lsp

// Generated by scripts/gen_lsp_types.go from testdata/tsschema/lsp-subset.d.ts.
// Do not edit by hand; re-run `go run scripts/gen_lsp_types.go` instead.

type TextDocumentIdentifier struct {
	Uri string `json:"uri"`
}

func DecodeTextDocumentIdentifier(v interface{}) (TextDocumentIdentifier, bool) {
	var out TextDocumentIdentifier
	obj, ok := v.(map[string]interface{})
	if !ok {
		return out, false
	}
	if raw, present := obj["uri"]; present {
		if decoded, ok := decodeValue("basic:string", raw); ok {
			out.Uri, _ = decoded.(string)
		} else if !false {
			return out, false
		}
	} else if !false {
		return out, false
	}
	return out, true
}

func EncodeTextDocumentIdentifier(v TextDocumentIdentifier) interface{} {
	obj := map[string]interface{}{}
	obj["uri"] = v.Uri
	return obj
}

type OptionalTextDocumentIdentifier = *TextDocumentIdentifier
type ListTextDocumentIdentifier = []TextDocumentIdentifier

type VersionedTextDocumentIdentifier struct {
	Uri     string `json:"uri"`
	Version int32  `json:"version"`
}

func DecodeVersionedTextDocumentIdentifier(v interface{}) (VersionedTextDocumentIdentifier, bool) {
	var out VersionedTextDocumentIdentifier
	obj, ok := v.(map[string]interface{})
	if !ok {
		return out, false
	}
	if raw, present := obj["uri"]; present {
		if decoded, ok := decodeValue("basic:string", raw); ok {
			out.Uri, _ = decoded.(string)
		} else if !false {
			return out, false
		}
	} else if !false {
		return out, false
	}
	if raw, present := obj["version"]; present {
		if decoded, ok := decodeValue("basic:integer", raw); ok {
			out.Version, _ = decoded.(int32)
		} else if !false {
			return out, false
		}
	} else if !false {
		return out, false
	}
	return out, true
}

func EncodeVersionedTextDocumentIdentifier(v VersionedTextDocumentIdentifier) interface{} {
	obj := map[string]interface{}{}
	obj["uri"] = v.Uri
	obj["version"] = v.Version
	return obj
}

type OptionalVersionedTextDocumentIdentifier = *VersionedTextDocumentIdentifier
type ListVersionedTextDocumentIdentifier = []VersionedTextDocumentIdentifier

type WorkspaceFolder struct {
	Uri  string `json:"uri"`
	Name string `json:"name"`
}

func DecodeWorkspaceFolder(v interface{}) (WorkspaceFolder, bool) {
	var out WorkspaceFolder
	obj, ok := v.(map[string]interface{})
	if !ok {
		return out, false
	}
	if raw, present := obj["uri"]; present {
		if decoded, ok := decodeValue("basic:string", raw); ok {
			out.Uri, _ = decoded.(string)
		} else if !false {
			return out, false
		}
	} else if !false {
		return out, false
	}
	if raw, present := obj["name"]; present {
		if decoded, ok := decodeValue("basic:string", raw); ok {
			out.Name, _ = decoded.(string)
		} else if !false {
			return out, false
		}
	} else if !false {
		return out, false
	}
	return out, true
}

func EncodeWorkspaceFolder(v WorkspaceFolder) interface{} {
	obj := map[string]interface{}{}
	obj["uri"] = v.Uri
	obj["name"] = v.Name
	return obj
}

type OptionalWorkspaceFolder = *WorkspaceFolder
type ListWorkspaceFolder = []WorkspaceFolder

type ClientCapabilities struct {
	Workspace    interface{} `json:"workspace"`
	TextDocument interface{} `json:"textDocument"`
}

func DecodeClientCapabilities(v interface{}) (ClientCapabilities, bool) {
	var out ClientCapabilities
	obj, ok := v.(map[string]interface{})
	if !ok {
		return out, false
	}
	if raw, present := obj["workspace"]; present {
		if decoded, ok := decodeValue("basic:LSPAny", raw); ok {
			out.Workspace, _ = decoded.(interface{})
		} else if !false {
			return out, false
		}
	} else if !false {
		return out, false
	}
	if raw, present := obj["textDocument"]; present {
		if decoded, ok := decodeValue("basic:LSPAny", raw); ok {
			out.TextDocument, _ = decoded.(interface{})
		} else if !false {
			return out, false
		}
	} else if !false {
		return out, false
	}
	return out, true
}

func EncodeClientCapabilities(v ClientCapabilities) interface{} {
	obj := map[string]interface{}{}
	obj["workspace"] = v.Workspace
	obj["textDocument"] = v.TextDocument
	return obj
}

type OptionalClientCapabilities = *ClientCapabilities
type ListClientCapabilities = []ClientCapabilities

type InitializeParams struct {
	ProcessId        int32              `json:"processId"`
	RootUri          string             `json:"rootUri"`
	Capabilities     ClientCapabilities `json:"capabilities"`
	WorkspaceFolders []WorkspaceFolder  `json:"workspaceFolders"`
	Trace            string             `json:"trace"`
}

func DecodeInitializeParams(v interface{}) (InitializeParams, bool) {
	var out InitializeParams
	obj, ok := v.(map[string]interface{})
	if !ok {
		return out, false
	}
	if raw, present := obj["processId"]; present {
		if decoded, ok := decodeValue("basic:integer", raw); ok {
			out.ProcessId, _ = decoded.(int32)
		} else if !false {
			return out, false
		}
	} else if !false {
		return out, false
	}
	if raw, present := obj["rootUri"]; present {
		if decoded, ok := decodeValue("basic:string", raw); ok {
			out.RootUri, _ = decoded.(string)
		} else if !false {
			return out, false
		}
	} else if !false {
		return out, false
	}
	if raw, present := obj["capabilities"]; present {
		if decoded, ok := DecodeClientCapabilities(raw); ok {
			out.Capabilities = decoded
		} else if !false {
			return out, false
		}
	} else if !false {
		return out, false
	}
	if raw, present := obj["workspaceFolders"]; present {
		if rawList, ok := raw.([]interface{}); ok {
			for _, rawElem := range rawList {
				if elem, ok := DecodeWorkspaceFolder(rawElem); ok {
					out.WorkspaceFolders = append(out.WorkspaceFolders, elem)
				} else if !false {
					return out, false
				}
			}
		} else if !false {
			return out, false
		}
	} else if !false {
		return out, false
	}
	if raw, present := obj["trace"]; present {
		if decoded, ok := decodeValue("basic:string", raw); ok {
			out.Trace, _ = decoded.(string)
		} else if !false {
			return out, false
		}
	} else if !false {
		return out, false
	}
	return out, true
}

func EncodeInitializeParams(v InitializeParams) interface{} {
	obj := map[string]interface{}{}
	obj["processId"] = v.ProcessId
	obj["rootUri"] = v.RootUri
	obj["capabilities"] = v.Capabilities
	obj["workspaceFolders"] = v.WorkspaceFolders
	obj["trace"] = v.Trace
	return obj
}

type OptionalInitializeParams = *InitializeParams
type ListInitializeParams = []InitializeParams
