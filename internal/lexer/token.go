// Package lexer turns a stack of source texts into a stream of tokens for
// a configurable language (§4.1). It is shared, unmodified, by the
// scribble compiler frontend and the TypeScript-subset reader that drives
// internal/tsschema, per spec.md's framing of the lexer as "consumed by
// compiler and editor".
package lexer

import "github.com/scribble-lang/scribble/internal/errs"

// Kind is the tag of a Token (§3: "a tagged record with a kind").
type Kind uint8

const (
	Unknown Kind = iota
	EndOfFile
	EndOfLine
	Symbol
	Keyword
	Identifier
	Number
	QuotedString
	Comment
	Whitespace
	Directive
	DirectiveArgument
	Module
	Program
)

func (k Kind) String() string {
	switch k {
	case EndOfFile:
		return "eof"
	case EndOfLine:
		return "eol"
	case Symbol:
		return "symbol"
	case Keyword:
		return "keyword"
	case Identifier:
		return "identifier"
	case Number:
		return "number"
	case QuotedString:
		return "string"
	case Comment:
		return "comment"
	case Whitespace:
		return "whitespace"
	case Directive:
		return "directive"
	case DirectiveArgument:
		return "directive-argument"
	case Module:
		return "module"
	case Program:
		return "program"
	default:
		return "unknown"
	}
}

// NumberKind distinguishes the number token subtypes recognised by §4.1's
// scanning algorithm.
type NumberKind uint8

const (
	NumDecimal NumberKind = iota
	NumHex
	NumBinary
	NumFloat
)

// QuoteKind distinguishes the three quote characters scribble/TypeScript
// both recognise.
type QuoteKind uint8

const (
	QuoteSingle QuoteKind = iota
	QuoteDouble
	QuoteBack
)

// CommentKind distinguishes line vs block comments.
type CommentKind uint8

const (
	CommentLine CommentKind = iota
	CommentBlock
)

// Location is a source position: file name, byte index, 1-based line and
// column. It is convertible to errs.Location for error reporting.
type Location struct {
	File   string
	Byte   int
	Line   int
	Column int
}

func (l Location) ToErrLocation() errs.Location {
	return errs.Location{File: l.File, Byte: l.Byte, Line: l.Line, Column: l.Column}
}

// Token is an immutable value: a kind, a source slice (as a direct
// substring of the owning source's text), a location, and kind-specific
// payload fields. Only the fields relevant to the token's Kind are
// meaningful; the rest are zero.
type Token struct {
	Kind Kind
	Text string // always a substring of the containing source entry
	Loc  Location

	// Number payload.
	NumberKind NumberKind

	// Quoted-string payload.
	QuoteKind    QuoteKind
	Triple       bool
	Terminated   bool

	// Comment payload.
	CommentKind CommentKind

	// Keyword / directive / symbol payload: an opaque code assigned by the
	// language descriptor's tables (KeywordCode/DirectiveCode/SymbolCode are
	// all int so a language can reuse one enum space or three, its choice).
	Code int
}

// IsTrivia reports whether the token is whitespace or a comment — the
// categories next() skips unless the language's WhitespaceSignificant flag
// is set.
func (t Token) IsTrivia() bool {
	return t.Kind == Whitespace || t.Kind == Comment
}
