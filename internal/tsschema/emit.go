package tsschema

import (
	"strings"

	"github.com/scribble-lang/scribble/internal/errs"
	"github.com/scribble-lang/scribble/internal/template"
)

// Generate runs the full §4.3 pipeline over one TypeScript-subset source
// file and returns a single Go source file's text: one package clause,
// then per typedef (in dependency order) the storage type plus its
// encode/decode pair and Optional/List wrappers.
func Generate(src, sourceName, goPackage string) (string, error) {
	defs, err := Parse(src, sourceName)
	if err != nil {
		return "", err
	}
	mod, err := Resolve(defs, ModuleNameFromPath(sourceName))
	if err != nil {
		return "", err
	}
	return EmitModule(mod, goPackage)
}

// EmitModule renders every typedef of an already-resolved Module, in
// its topologically-sorted order (§4.3: "within a module, output files
// appear in dependency-sorted order").
func EmitModule(mod *Module, goPackage string) (string, error) {
	var out strings.Builder
	out.WriteString("package " + goPackage + "\n\n")
	for _, name := range mod.Types {
		def, ok := mod.Lookup(name)
		if !ok {
			return "", errs.NewTemplateError(errs.Location{}, "module %q references unresolved type %q", mod.Name, name)
		}
		text, err := EmitTypeDef(def)
		if err != nil {
			return "", err
		}
		out.WriteString(text)
		out.WriteString("\n")
	}
	return out.String(), nil
}

// EmitTypeDef renders one typedef's template against its JSON projection.
func EmitTypeDef(def *TypeDef) (string, error) {
	ctx := Project(def)
	kind, _ := ctx["Kind"].(string)
	prog, err := template.Parse(templateFor(kind))
	if err != nil {
		return "", err
	}
	return template.Render(prog, ctx)
}
