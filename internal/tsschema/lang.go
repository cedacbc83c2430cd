package tsschema

import "github.com/scribble-lang/scribble/internal/lexer"

// Keyword codes for the TypeScript subset §4.3 step 1 names explicitly.
const (
	kwBoolean int = iota + 1
	kwConst
	kwDecimal
	kwEnum
	kwExport
	kwExtends
	kwInteger
	kwInterface
	kwLSPAny
	kwNamespace
	kwNull
	kwString
	kwType
	kwUinteger
)

// symbol codes for the punctuation the grammar actually consumes.
const (
	symLBrace int = iota + 1
	symRBrace
	symLBracket
	symRBracket
	symLParen
	symRParen
	symColon
	symSemicolon
	symComma
	symPipe
	symAmp
	symQuestion
	symEquals
	symDot
)

// Language returns the TypeScript-subset descriptor §4.3 step 1 pins
// down: the exact keyword set it names, standard comment/string rules
// via the shared scanning algorithm, and no preprocessor (PreprocessorTrigger
// zero, matching the Language.PreprocessorTrigger doc's "TypeScript" example).
func Language() *lexer.Language {
	return &lexer.Language{
		Name: "typescript",
		Keywords: map[string]int{
			"boolean":   kwBoolean,
			"const":     kwConst,
			"decimal":   kwDecimal,
			"enum":      kwEnum,
			"export":    kwExport,
			"extends":   kwExtends,
			"integer":   kwInteger,
			"interface": kwInterface,
			"LSPAny":    kwLSPAny,
			"namespace": kwNamespace,
			"null":      kwNull,
			"string":    kwString,
			"type":      kwType,
			"uinteger":  kwUinteger,
		},
		Symbols: map[string]int{
			"{": symLBrace,
			"}": symRBrace,
			"[": symLBracket,
			"]": symRBracket,
			"(": symLParen,
			")": symRParen,
			":": symColon,
			";": symSemicolon,
			",": symComma,
			"|": symPipe,
			"&": symAmp,
			"?": symQuestion,
			"=": symEquals,
			".": symDot,
		},
	}
}
