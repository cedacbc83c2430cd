package tsschema

import "github.com/scribble-lang/scribble/internal/errs"

// Resolve implements §4.3 steps 3-4: flatten `extends` and intersection
// members into concrete property lists, compute each typedef's
// transitive dependency closure (failing on an undefined reference or on
// a cycle involving an alias — interfaces may cycle through optional
// fields, aliases may not), and topologically order the result.
func Resolve(defs []*TypeDef, moduleName string) (*Module, error) {
	byName := make(map[string]*TypeDef, len(defs))
	for _, d := range defs {
		byName[d.Name] = d
	}

	for _, d := range defs {
		if err := flatten(d, byName); err != nil {
			return nil, err
		}
	}

	for _, d := range defs {
		d.DependsOn = directDeps(d)
		if err := validateRefs(d, byName); err != nil {
			return nil, err
		}
	}

	closures := make(map[string]map[string]bool, len(defs))
	for _, d := range defs {
		closure, err := closureOf(d.Name, byName, map[string]bool{})
		if err != nil {
			return nil, err
		}
		closures[d.Name] = closure
	}
	for _, d := range defs {
		names := make([]string, 0, len(closures[d.Name]))
		for n := range closures[d.Name] {
			names = append(names, n)
		}
		d.DependsOn = names
	}

	order, err := topoSort(defs, closures)
	if err != nil {
		return nil, err
	}

	return &Module{Name: moduleName, Types: order, defs: byName}, nil
}

// flatten resolves `extends` (interfaces inherit ancestor properties,
// ancestor-declared first) and a type alias whose body is an
// intersection (merged member list), in place. An intersection nested in
// a property or a union is left as the parser recorded it, with its
// operands in Variant and no Struct properties.
func flatten(d *TypeDef, byName map[string]*TypeDef) error {
	if d.Kind == KindInterface && len(d.Interface.Extends) > 0 {
		var inherited []Property
		for _, parentName := range d.Interface.Extends {
			parent, ok := byName[parentName]
			if !ok {
				return errs.NewParserError(errs.Location{}, "interface %q extends undefined type %q", d.Name, parentName)
			}
			if parent.Kind != KindInterface {
				return errs.NewParserError(errs.Location{}, "interface %q extends non-interface %q", d.Name, parentName)
			}
			if err := flatten(parent, byName); err != nil {
				return err
			}
			inherited = append(inherited, parent.Interface.Properties...)
		}
		d.Interface.Properties = append(inherited, d.Interface.Properties...)
		d.Interface.Extends = nil
	}
	if d.Kind == KindAlias {
		if err := flattenType(d.Alias, byName); err != nil {
			return err
		}
	}
	return nil
}

func flattenType(t *Type, byName map[string]*TypeDef) error {
	if t.Kind != TypeAnonymousStruct || t.Struct != nil {
		return nil // not an unflattened intersection (parser stashes operands in Variant)
	}
	var props []Property
	for _, operand := range t.Variant {
		switch operand.Kind {
		case TypeNamed:
			target, ok := byName[operand.Named]
			if !ok {
				return errs.NewParserError(errs.Location{}, "intersection references undefined type %q", operand.Named)
			}
			if target.Kind != KindInterface {
				return errs.NewParserError(errs.Location{}, "intersection member %q is not an interface", operand.Named)
			}
			if err := flatten(target, byName); err != nil {
				return err
			}
			props = append(props, target.Interface.Properties...)
		case TypeAnonymousStruct:
			props = append(props, operand.Struct...)
		default:
			return errs.NewParserError(errs.Location{}, "intersection member must be an interface or struct")
		}
	}
	t.Struct = props
	t.Variant = nil
	return nil
}

func directDeps(d *TypeDef) []string {
	var names []string
	seen := map[string]bool{}
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	switch d.Kind {
	case KindAlias:
		collectTypeDeps(*d.Alias, add)
	case KindInterface:
		for _, p := range d.Interface.Properties {
			collectTypeDeps(p.Type, add)
		}
	}
	return names
}

func collectTypeDeps(t Type, add func(string)) {
	switch t.Kind {
	case TypeNamed:
		if !IsBuiltin(t.Named) {
			add(t.Named)
		}
	case TypeAnonymousVariant:
		for _, m := range t.Variant {
			collectTypeDeps(m, add)
		}
	case TypeAnonymousStruct:
		for _, p := range t.Struct {
			collectTypeDeps(p.Type, add)
		}
	}
}

func validateRefs(d *TypeDef, byName map[string]*TypeDef) error {
	for _, dep := range d.DependsOn {
		if _, ok := byName[dep]; !ok {
			return errs.NewParserError(errs.Location{}, "type %q references undefined type %q", d.Name, dep)
		}
	}
	return nil
}

// closureOf computes the transitive closure of name's dependencies,
// failing with ParserError if an alias participates in a cycle
// (interfaces may cycle through what amounts to optional/pointer-like
// fields per §4.3).
func closureOf(name string, byName map[string]*TypeDef, visiting map[string]bool) (map[string]bool, error) {
	d := byName[name]
	if d.Kind == KindAlias && visiting[name] {
		return nil, errs.NewParserError(errs.Location{}, "type alias %q is involved in a dependency cycle", name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	closure := map[string]bool{}
	for _, dep := range d.DependsOn {
		closure[dep] = true
		sub, err := closureOf(dep, byName, visiting)
		if err != nil {
			return nil, err
		}
		for n := range sub {
			closure[n] = true
		}
	}
	return closure, nil
}

// topoSort orders defs so dependants follow dependencies, using each
// typedef's direct deps (not the closure) for a stable Kahn's-algorithm
// pass; ties break in source-declaration order.
func topoSort(defs []*TypeDef, _ map[string]map[string]bool) ([]string, error) {
	indexOf := make(map[string]int, len(defs))
	inDegree := make(map[string]int, len(defs))
	dependents := make(map[string][]string, len(defs))

	for i, d := range defs {
		indexOf[d.Name] = i
	}
	// Direct (non-transitive) edges drive Kahn's algorithm; each def's
	// DependsOn field was overwritten with the transitive closure above,
	// so derive direct edges fresh from each def's own shape.
	direct := make(map[string][]string, len(defs))
	for _, d := range defs {
		direct[d.Name] = directDeps(d)
		inDegree[d.Name] = 0
	}
	for _, d := range defs {
		for _, dep := range direct[d.Name] {
			dependents[dep] = append(dependents[dep], d.Name)
			inDegree[d.Name]++
		}
	}

	var ready []string
	for _, d := range defs {
		if inDegree[d.Name] == 0 {
			ready = append(ready, d.Name)
		}
	}
	var order []string
	for len(ready) > 0 {
		// Pick the lowest source-declaration index among ready nodes so
		// ties resolve deterministically.
		bestI, bestIdx := 0, indexOf[ready[0]]
		for i, n := range ready {
			if indexOf[n] < bestIdx {
				bestI, bestIdx = i, indexOf[n]
			}
		}
		n := ready[bestI]
		ready = append(ready[:bestI], ready[bestI+1:]...)
		order = append(order, n)
		for _, dependant := range dependents[n] {
			inDegree[dependant]--
			if inDegree[dependant] == 0 {
				ready = append(ready, dependant)
			}
		}
	}
	if len(order) != len(defs) {
		return nil, errs.NewParserError(errs.Location{}, "dependency cycle detected among: %v", remaining(defs, order))
	}
	return order, nil
}

func remaining(defs []*TypeDef, ordered []string) []string {
	done := map[string]bool{}
	for _, n := range ordered {
		done[n] = true
	}
	var rem []string
	for _, d := range defs {
		if !done[d.Name] {
			rem = append(rem, d.Name)
		}
	}
	return rem
}
