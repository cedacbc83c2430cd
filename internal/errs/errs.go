// Package errs defines the error taxonomy of §7: every stage of the
// compiler produces one of these kinds, and stage boundaries collect and
// report them in the "ERROR: file:line category(code): message" shape.
package errs

import (
	"fmt"
	"os"
	"runtime"
)

// Location pins an error to a byte offset, line and column in a named
// source. It mirrors the token location shape of the lexer without
// importing the lexer package (leaf errs has no dependents to cycle with).
type Location struct {
	File   string
	Byte   int
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Kind identifies which row of the §7 taxonomy an error belongs to. Kept as
// a string rather than an iota so category codes embedded in rendered
// messages stay stable across refactors.
type Kind string

const (
	KindLexer    Kind = "LEX"
	KindParser   Kind = "PARSE"
	KindBind     Kind = "BIND"
	KindTemplate Kind = "TMPL"
	KindProcess  Kind = "PROC"
	KindIO       Kind = "IO"
	KindJSON     Kind = "JSON"
	KindXML      Kind = "XML"
	KindHTTP     Kind = "HTTP"
	KindRuntime  Kind = "RT"
)

// CompileError is the common shape of every taxonomy member: a kind, a
// location, a message, and an optional wrapped cause.
type CompileError struct {
	Kind     Kind
	Loc      Location
	Message  string
	Cause    error
	Code     string // short machine code, e.g. "E042"; empty if none assigned
}

func (e *CompileError) Error() string {
	code := e.Code
	if code == "" {
		code = "-"
	}
	msg := fmt.Sprintf("ERROR: %s %s(%s): %s", e.Loc, e.Kind, code, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *CompileError) Unwrap() error { return e.Cause }

func new_(kind Kind, loc Location, msg string, args []interface{}) *CompileError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &CompileError{Kind: kind, Loc: loc, Message: msg}
}

func NewLexerError(loc Location, msg string, args ...interface{}) *CompileError {
	return new_(KindLexer, loc, msg, args)
}

func NewParserError(loc Location, msg string, args ...interface{}) *CompileError {
	return new_(KindParser, loc, msg, args)
}

func NewTemplateError(loc Location, msg string, args ...interface{}) *CompileError {
	return new_(KindTemplate, loc, msg, args)
}

func NewProcessError(msg string, args ...interface{}) *CompileError {
	return new_(KindProcess, Location{}, msg, args)
}

func NewIOError(msg string, args ...interface{}) *CompileError {
	return new_(KindIO, Location{}, msg, args)
}

func NewJSONError(offset int, msg string, args ...interface{}) *CompileError {
	e := new_(KindJSON, Location{}, msg, args)
	e.Loc.Byte = offset
	return e
}

func NewHTTPError(msg string, args ...interface{}) *CompileError {
	return new_(KindHTTP, Location{}, msg, args)
}

func NewRuntimeError(msg string, args ...interface{}) *CompileError {
	return new_(KindRuntime, Location{}, msg, args)
}

// BindError is distinguished from CompileError because it accumulates a
// chain of secondary "note" errors alongside its primary token, per §3/§7.
type BindError struct {
	Loc     Location
	Message string
	Notes   []*BindError
}

func (e *BindError) Error() string {
	msg := fmt.Sprintf("ERROR: %s %s(-): %s", e.Loc, KindBind, e.Message)
	for _, n := range e.Notes {
		msg += "\n  note: " + n.Error()
	}
	return msg
}

func NewBindError(loc Location, msg string, args ...interface{}) *BindError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &BindError{Loc: loc, Message: msg}
}

// WithNote appends a secondary note to a BindError and returns the receiver
// for chaining, mirroring the "note" sibling chain of §3.
func (e *BindError) WithNote(note *BindError) *BindError {
	e.Notes = append(e.Notes, note)
	return e
}

// Wrap attaches file/line of the caller to an arbitrary error, the way
// lang/utils.WrapError does for the teacher.
func Wrap(err error, msg string, v ...interface{}) error {
	if err == nil {
		return nil
	}
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "???", 0
	}
	if len(v) > 0 {
		msg = fmt.Sprintf(msg, v...)
	}
	return fmt.Errorf("%s:%d: %s: %w", file, line, msg, err)
}

// Fatal reports an unrecoverable invariant violation (reached-unreachable,
// allocation failure, must-empty-optional) and terminates the process.
// It must never be used for ordinary compile-time errors.
func Fatal(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	fmt.Fprintf(os.Stderr, "FATAL: %s\n", msg)
	os.Exit(1)
}
