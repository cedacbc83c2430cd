package ir

import (
	"fmt"
	"strings"
)

// opName renders an OpCode the way `list-ir` output names it (§6): a fixed
// lower-case name per constant, dot-separated where the identifier is
// compound (OpConstInt is "const.int", OpJumpIfZero is "jump.ifz").
func opName(c OpCode) string {
	names := [...]string{
		"const.int", "const.float", "const.string", "load.param", "load.local",
		"store.local", "add", "sub", "mul", "div", "mod", "neg", "not",
		"cmp.eq", "cmp.ne", "cmp.lt", "cmp.le", "cmp.gt", "cmp.ge", "and", "or",
		"label", "jump", "jump.ifz", "call", "return",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "op?"
}

func valueString(v Value) string {
	switch v.Kind {
	case VResult:
		return fmt.Sprintf("%%%d", v.Index)
	case VParam:
		return fmt.Sprintf("param[%d]", v.Index)
	case VLocal:
		return fmt.Sprintf("local[%d]", v.Index)
	case VConstInt:
		return fmt.Sprintf("%d", v.Int)
	case VConstFloat:
		return fmt.Sprintf("%g", v.Float)
	default:
		return "-"
	}
}

// Dump renders a Module as flat, readable text: one line per function
// header, one line per operation, in program order. It exists only to
// back the `list-ir` CLI option (§6) and is not parsed back by anything.
func Dump(mod *Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n", mod.Name)
	for _, fn := range mod.Functions {
		main := ""
		if fn.IsMain {
			main = " main"
		}
		fmt.Fprintf(&b, "func %s(%d params)%s\n", fn.Name, len(fn.Params), main)
		for i, op := range fn.Ops {
			fmt.Fprintf(&b, "  %3d: %s", i, opName(op.Code))
			if op.Str != "" {
				fmt.Fprintf(&b, " %q", op.Str)
			}
			if op.A.Kind != VNone {
				fmt.Fprintf(&b, " a=%s", valueString(op.A))
			}
			if op.B.Kind != VNone {
				fmt.Fprintf(&b, " b=%s", valueString(op.B))
			}
			for _, a := range op.Args {
				fmt.Fprintf(&b, " arg=%s", valueString(a))
			}
			b.WriteByte('\n')
		}
	}
	for _, d := range mod.Data {
		fmt.Fprintf(&b, "data %s\n", d.Name)
	}
	return b.String()
}
