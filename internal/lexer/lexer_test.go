package lexer_test

import (
	"testing"

	"github.com/scribble-lang/scribble/internal/lexer"
	"github.com/scribble-lang/scribble/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(t *testing.T, src string) []lexer.Token {
	t.Helper()
	l := lexer.New(parser.Language())
	l.PushSource(src, "test.scrb")
	var toks []lexer.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == lexer.EndOfFile {
			break
		}
	}
	return toks
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	toks := scan(t, "func foo")
	require.Len(t, toks, 3)
	assert.Equal(t, lexer.Keyword, toks[0].Kind)
	assert.Equal(t, "func", toks[0].Text)
	assert.Equal(t, lexer.Identifier, toks[1].Kind)
	assert.Equal(t, "foo", toks[1].Text)
	assert.Equal(t, lexer.EndOfFile, toks[2].Kind)
}

func TestScanSkipsTriviaByDefault(t *testing.T) {
	toks := scan(t, "  // a comment\n  var")
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.Keyword, toks[0].Kind)
	assert.Equal(t, "var", toks[0].Text)
}

func TestScanLongestMatchSymbol(t *testing.T) {
	toks := scan(t, "a >= b")
	require.Len(t, toks, 4)
	assert.Equal(t, lexer.Symbol, toks[1].Kind)
	assert.Equal(t, ">=", toks[1].Text)
}

func TestScanSingleCharSymbolFallback(t *testing.T) {
	toks := scan(t, "(a)")
	require.Len(t, toks, 4)
	assert.Equal(t, lexer.Symbol, toks[0].Kind)
	assert.Equal(t, "(", toks[0].Text)
	assert.Equal(t, int('('), toks[0].Code)
}

func TestScanDecimalHexBinaryFloat(t *testing.T) {
	toks := scan(t, "1 0x1F 0b101 3.5")
	require.Len(t, toks, 5)
	assert.Equal(t, lexer.NumDecimal, toks[0].NumberKind)
	assert.Equal(t, lexer.NumHex, toks[1].NumberKind)
	assert.Equal(t, lexer.NumBinary, toks[2].NumberKind)
	assert.Equal(t, lexer.NumFloat, toks[3].NumberKind)
	assert.Equal(t, "3.5", toks[3].Text)
}

func TestScanNumberStopsBeforeRangeDots(t *testing.T) {
	toks := scan(t, "1..5")
	require.Len(t, toks, 5)
	assert.Equal(t, "1", toks[0].Text)
	assert.Equal(t, lexer.NumDecimal, toks[0].NumberKind)
	assert.Equal(t, lexer.Symbol, toks[1].Kind)
	assert.Equal(t, ".", toks[1].Text)
}

func TestScanQuotedStringTerminated(t *testing.T) {
	toks := scan(t, `"hi"`)
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.QuotedString, toks[0].Kind)
	assert.True(t, toks[0].Terminated)
	assert.Equal(t, lexer.QuoteDouble, toks[0].QuoteKind)
}

func TestScanQuotedStringUnterminatedAtNewline(t *testing.T) {
	toks := scan(t, "\"oops\nvar")
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, lexer.QuotedString, toks[0].Kind)
	assert.False(t, toks[0].Terminated)
}

func TestScanQuotedStringHandlesEscapes(t *testing.T) {
	toks := scan(t, `"a\"b"`)
	require.Len(t, toks, 2)
	assert.Equal(t, `"a\"b"`, toks[0].Text)
	assert.True(t, toks[0].Terminated)
}

func TestScanBlockCommentTerminatedAndUnterminated(t *testing.T) {
	toks := scan(t, "/* ok */ var")
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.Keyword, toks[0].Kind)

	l := lexer.New(parser.Language())
	l.PushSource("/* never closes", "test.scrb")
	tok := l.Next()
	assert.Equal(t, lexer.EndOfFile, tok.Kind)
}

func TestPeekIsIdempotent(t *testing.T) {
	l := lexer.New(parser.Language())
	l.PushSource("func", "test.scrb")
	first := l.Peek()
	second := l.Peek()
	assert.Equal(t, first, second)
	consumed := l.Next()
	assert.Equal(t, first, consumed)
}

func TestExpectSucceedsAndFails(t *testing.T) {
	l := lexer.New(parser.Language())
	l.PushSource("foo", "test.scrb")
	tok, err := l.Expect(lexer.Identifier, -1)
	require.NoError(t, err)
	assert.Equal(t, "foo", tok.Text)

	l2 := lexer.New(parser.Language())
	l2.PushSource("123", "test.scrb")
	_, err = l2.Expect(lexer.Identifier, -1)
	require.Error(t, err)
}

func TestPushPopSourceResumesPriorSource(t *testing.T) {
	l := lexer.New(parser.Language())
	l.PushSource("outer", "outer.scrb")
	_ = l.Peek() // prime a lookahead against the outer source
	l.PushSource("inner", "inner.scrb")
	tok := l.Next()
	assert.Equal(t, "inner", tok.Text)
	l.PopSource()
	tok = l.Next()
	assert.Equal(t, "outer", tok.Text)
}

func TestDirectiveDispatchEmitsDirectiveTokenAndArguments(t *testing.T) {
	const triggerCode = 100
	const ifDirective = 1

	lang := &lexer.Language{
		Name:                "directive-test",
		Keywords:            map[string]int{"if": triggerCode},
		PreprocessorTrigger: triggerCode,
		Directives:          map[string]int{"if": ifDirective},
		OnDirective: func(l *lexer.Lexer) lexer.Token {
			l.ClearDirective()
			return lexer.Token{Kind: lexer.DirectiveArgument, Text: "cond"}
		},
	}

	l := lexer.New(lang)
	l.PushSource("if if cond", "test.scrb")

	directiveTok := l.Next()
	require.Equal(t, lexer.Directive, directiveTok.Kind)
	assert.Equal(t, "if", directiveTok.Text)
	assert.Equal(t, ifDirective, directiveTok.Code)

	argTok := l.Next()
	assert.Equal(t, lexer.DirectiveArgument, argTok.Kind)
	assert.Equal(t, 0, l.ActiveDirective())
}

func TestDirectiveTriggerWithUnknownNameIsNotConsumed(t *testing.T) {
	const triggerCode = 100

	lang := &lexer.Language{
		Name:                "directive-test",
		Keywords:            map[string]int{"if": triggerCode},
		PreprocessorTrigger: triggerCode,
		Directives:          map[string]int{}, // "bogus" is not a known directive
	}

	l := lexer.New(lang)
	l.PushSource("if bogus", "test.scrb")

	trigger := l.Next()
	assert.Equal(t, lexer.Keyword, trigger.Kind)
	assert.Equal(t, "if", trigger.Text)

	next := l.Next()
	assert.Equal(t, lexer.Identifier, next.Kind)
	assert.Equal(t, "bogus", next.Text)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "identifier", lexer.Identifier.String())
	assert.Equal(t, "eof", lexer.EndOfFile.String())
	assert.Equal(t, "unknown", lexer.Kind(255).String())
}

func TestTokenIsTrivia(t *testing.T) {
	assert.True(t, lexer.Token{Kind: lexer.Whitespace}.IsTrivia())
	assert.True(t, lexer.Token{Kind: lexer.Comment}.IsTrivia())
	assert.False(t, lexer.Token{Kind: lexer.Identifier}.IsTrivia())
}

func TestWhitespaceSignificantLanguageReturnsTrivia(t *testing.T) {
	lang := &lexer.Language{Name: "layout", WhitespaceSignificant: true}
	l := lexer.New(lang)
	l.PushSource(" a", "test")
	first := l.Next()
	assert.Equal(t, lexer.Whitespace, first.Kind)
	second := l.Next()
	assert.Equal(t, lexer.Identifier, second.Kind)
}
