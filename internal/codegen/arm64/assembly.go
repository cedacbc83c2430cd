package arm64

import (
	"fmt"
	"strings"

	"github.com/scribble-lang/scribble/internal/ir"
)

// CodeTarget selects which of the three append-only buffers a Code
// builder's append operations target (§3: "a triple of (prologue, body,
// epilogue) append-only text buffers plus a selector").
type CodeTarget uint8

const (
	TargetPrologue CodeTarget = iota
	TargetBody
	TargetEpilogue
)

// Code is the (prologue, body, epilogue) triple; Text() concatenates them
// in that order at serialisation.
type Code struct {
	prologue strings.Builder
	body     strings.Builder
	epilogue strings.Builder
	target   CodeTarget
}

func (c *Code) SetTarget(t CodeTarget) { c.target = t }

func (c *Code) buf() *strings.Builder {
	switch c.target {
	case TargetPrologue:
		return &c.prologue
	case TargetEpilogue:
		return &c.epilogue
	default:
		return &c.body
	}
}

// Line appends one formatted instruction line (with trailing newline) to
// whichever buffer is currently targeted.
func (c *Code) Line(format string, args ...interface{}) {
	fmt.Fprintf(c.buf(), "\t"+format+"\n", args...)
}

// Raw appends literal text (no leading tab, no implicit newline) — used
// for labels, which are not indented.
func (c *Code) Raw(s string) {
	c.buf().WriteString(s)
}

func (c *Code) Text() string {
	return c.prologue.String() + c.body.String() + c.epilogue.String()
}

// StringID is one entry of an Assembly's string-literal intern table
// (§3): the literal text, its assigned label id, and a next pointer
// forming the table's collision/scan chain.
type StringID struct {
	Text string
	ID   int64
	next *StringID
}

// ARM64Function is one function's emitted label + Code.
type ARM64Function struct {
	Name string
	Code Code
}

// Assembly is a named unit of emitted assembly text corresponding to one
// IR module (§3): a code section, a data section (kept separate until
// serialisation), the function list, the string intern table, and the
// export/has-main flags.
type Assembly struct {
	Name string

	codeSection Code
	dataSection strings.Builder
	dataStarted bool

	Functions []*ARM64Function
	strings   *StringID // head of the intern chain

	Exports bool
	HasMain bool

	Module *ir.Module
}

func NewAssembly(mod *ir.Module) *Assembly {
	return &Assembly{Name: mod.Name, Module: mod}
}

// InternString looks up text in the assembly's string table; on a hit it
// reuses the existing label, on a miss it reserves a new one and appends
// an .align/label/.asciz triple to the data section (§4.6 "String-literal
// interning"). Testable Property 6 follows directly from this always
// scanning the full chain before allocating.
func (a *Assembly) InternString(text string) string {
	for s := a.strings; s != nil; s = s.next {
		if s.Text == text {
			return stringLabel(s.ID)
		}
	}
	id := NextLabelID()
	entry := &StringID{Text: text, ID: id, next: a.strings}
	a.strings = entry
	label := stringLabel(id)
	a.ensureDataSection()
	fmt.Fprintf(&a.dataSection, ".align 2\n%s:\n\t.asciz %q\n", label, text)
	return label
}

func stringLabel(id int64) string {
	return fmt.Sprintf("L_str_%d", id)
}

// AddFunction appends a new ARM64Function and returns it for the caller to
// emit into.
func (a *Assembly) AddFunction(name string) *ARM64Function {
	f := &ARM64Function{Name: name}
	a.Functions = append(a.Functions, f)
	return f
}

// ensureDataSection emits the `.section __DATA,__data` header lazily, the
// first time a data item is added (§4.6).
func (a *Assembly) ensureDataSection() {
	if a.dataStarted {
		return
	}
	a.dataStarted = true
	a.dataSection.WriteString(".section __DATA,__data\n")
}

// AddData appends a static-data entry: an optional .global, a required
// .align 8, a label, a type directive, and (for entries flagged static) a
// trailing zero-short.
func (a *Assembly) AddData(name, directive, value string, exported, static bool) {
	a.ensureDataSection()
	if exported {
		fmt.Fprintf(&a.dataSection, ".global %s\n", name)
	}
	fmt.Fprintf(&a.dataSection, ".align 8\n%s:\n\t%s %s\n", name, directive, value)
	if static {
		a.dataSection.WriteString("\t.short 0\n")
	}
}

// Serialise renders the complete assembly text: nothing if the assembly
// exports no symbols, otherwise a full section prologue followed by its
// code and data (§3's per-assembly invariant).
func (a *Assembly) Serialise(darwin bool) string {
	if !a.Exports && !a.HasMain {
		return ""
	}
	var out strings.Builder
	if darwin {
		out.WriteString(".section __TEXT,__text,regular,pure_instructions\n")
	} else {
		out.WriteString(".text\n")
	}
	out.WriteString(".align 2\n")
	out.WriteString(".extern _resolve_function\n")
	for _, fn := range a.Functions {
		out.WriteString(fn.Name + ":\n")
		out.WriteString(fn.Code.Text())
	}
	out.WriteString(a.dataSection.String())
	return out.String()
}
