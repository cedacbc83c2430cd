package lexer

// DirectiveHandler scans one directive-argument token (or clears the
// active-directive state) given the lexer driving it. It is the
// language-specific hook §4.1 step 2 delegates to while an active
// directive code is set.
type DirectiveHandler func(l *Lexer) Token

// Language is a language descriptor: a name, a keyword table, the token
// code that triggers the preprocessor dispatcher, a directive name table,
// a directive handler, and arbitrary scratch state a particular language
// needs (e.g. scribble's nested #if bookkeeping).
type Language struct {
	Name string

	// Keywords maps a matched identifier spelling to its keyword code.
	// Only identifiers are looked up here; operator spellings belong in
	// Symbols.
	Keywords map[string]int

	// Symbols maps multi-character operator spellings (">=", "==", "::", …)
	// to a symbol code; longest match wins per §4.1 step 3.
	Symbols map[string]int

	// PreprocessorTrigger is the keyword/symbol code that, when scanned with
	// no directive currently active, invokes the directive dispatcher. Zero
	// means the language has no preprocessor (e.g. TypeScript).
	PreprocessorTrigger int

	// Directives maps a directive name (scanned immediately after the
	// trigger token) to a directive code.
	Directives map[string]int

	// OnDirective is invoked once a directive code is active, to produce
	// DIRECTIVE_ARGUMENT tokens until the directive clears itself (by
	// calling l.ClearDirective()).
	OnDirective DirectiveHandler

	// WhitespaceSignificant, when true, makes Next() return whitespace and
	// comment tokens instead of skipping them — relevant to layout-
	// sensitive tooling, not to scribble or TypeScript, but kept per §4.1's
	// explicit "whitespace-significant flag" in the lexer state.
	WhitespaceSignificant bool

	// Scratch is language-specific state a directive handler may read or
	// mutate (§3: "arbitrary language-specific scratch").
	Scratch interface{}
}
