// Package parser implements scribble's recursive-descent parser over
// internal/lexer, producing an internal/ast.Tree. spec.md treats the
// parser and binder as producers of a well-typed bound AST and does not
// prescribe scribble's source-level surface; this grammar is the minimum
// needed to exercise the IR/codegen contract §3 pins down.
package parser

import (
	"github.com/scribble-lang/scribble/internal/ast"
	"github.com/scribble-lang/scribble/internal/lexer"
)

// Keyword codes.
const (
	kwFunc = iota + 1
	kwReturn
	kwIf
	kwElse
	kwFor
	kwWhile
	kwLoop
	kwBreak
	kwContinue
	kwVar
	kwTrue
	kwFalse
	kwStruct
	kwEnum
	kwVariant
	kwNative
	kwImport
	kwModule
)

// Symbol codes for multi-character operators. These alias the shared
// ast.Op* constants so the IR generator's Node.Op switch agrees with the
// parser's lexer.Language.Symbols table without either package importing
// the other.
const (
	symArrow   = ast.OpArrow
	symEq      = ast.OpEq
	symNe      = ast.OpNe
	symLe      = ast.OpLe
	symGe      = ast.OpGe
	symAnd     = ast.OpAnd
	symOr      = ast.OpOr
	symPlusEq  = ast.OpPlusEq
	symMinusEq = ast.OpMinusEq
)

// Language returns the scribble language descriptor for internal/lexer.
// scribble has no preprocessor in this spec's scope (§1: source-level
// surface beyond the IR/codegen contract is not prescribed), so
// PreprocessorTrigger is left at zero.
func Language() *lexer.Language {
	return &lexer.Language{
		Name: "scribble",
		Keywords: map[string]int{
			"func": kwFunc, "return": kwReturn, "if": kwIf, "else": kwElse,
			"for": kwFor, "while": kwWhile, "loop": kwLoop, "break": kwBreak,
			"continue": kwContinue, "var": kwVar, "true": kwTrue, "false": kwFalse,
			"struct": kwStruct, "enum": kwEnum, "variant": kwVariant,
			"native": kwNative, "import": kwImport, "module": kwModule,
		},
		Symbols: map[string]int{
			"->": symArrow, "==": symEq, "!=": symNe, "<=": symLe, ">=": symGe,
			"&&": symAnd, "||": symOr, "+=": symPlusEq, "-=": symMinusEq,
		},
	}
}
