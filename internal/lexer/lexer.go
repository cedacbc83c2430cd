package lexer

import (
	"strings"

	"github.com/scribble-lang/scribble/internal/errs"
	"github.com/scribble-lang/scribble/internal/support/container"
)

// LexerError is raised only by Expect/ExpectCode; plain scanning never
// fails (unterminated strings/comments surface as explicit token
// subtypes, per §4.1's failure model).
type LexerError struct {
	*errs.CompileError
}

func newLexerError(loc Location, msg string, args ...interface{}) *LexerError {
	return &LexerError{errs.NewLexerError(loc.ToErrLocation(), msg, args...)}
}

// source is one entry of the lexer's source stack: a name, the remaining
// unconsumed text, and the current location within it.
type source struct {
	name string
	text string // remaining text, shrinks as tokens are scanned
	loc  Location
}

// advance consumes n bytes of s.text, updating s.loc by scanning the
// consumed slice for newlines, and returns the consumed slice.
func (s *source) advance(n int) string {
	consumed := s.text[:n]
	for _, r := range consumed {
		if r == '\n' {
			s.loc.Line++
			s.loc.Column = 1
		} else {
			s.loc.Column++
		}
	}
	s.loc.Byte += n
	s.text = s.text[n:]
	return consumed
}

// Lexer holds the stack of sources, the active language descriptor, the
// one-token lookahead slot, and the directive/comment state machine of §3.
type Lexer struct {
	sources container.Stack[*source]
	lang    *Language

	lookahead    *Token
	pendingRaw   *Token // see directive-miss handling in rawScan
	inBlockComment bool
	activeDirective int
}

// New creates a lexer for the given language descriptor. Call PushSource to
// supply the first source.
func New(lang *Language) *Lexer {
	return &Lexer{lang: lang}
}

// PushSource enters a new source (e.g. an #include target), suspending the
// current one. Popping past the last source yields end-of-file.
func (l *Lexer) PushSource(text, name string) {
	l.sources.Push(&source{name: name, text: text, loc: Location{File: name, Byte: 0, Line: 1, Column: 1}})
	l.lookahead = nil // the lookahead belonged to the previous top source
}

// PopSource leaves the current source, resuming the prior one.
func (l *Lexer) PopSource() {
	l.sources.Pop()
	l.lookahead = nil
}

// ClearDirective ends the active directive, returning scanning to normal.
// Called by a Language's OnDirective handler once it has produced its last
// DIRECTIVE_ARGUMENT token.
func (l *Lexer) ClearDirective() {
	l.activeDirective = 0
}

// ActiveDirective returns the directive code currently being scanned, or 0.
func (l *Lexer) ActiveDirective() int {
	return l.activeDirective
}

// Scratch returns the language descriptor's scratch state.
func (l *Lexer) Scratch() interface{} {
	return l.lang.Scratch
}

func (l *Lexer) top() (*source, bool) {
	return l.sources.Top()
}

// Peek returns the current lookahead without advancing; idempotent.
func (l *Lexer) Peek() Token {
	if l.lookahead == nil {
		t := l.rawScan()
		l.lookahead = &t
	}
	return *l.lookahead
}

// Next advances past the current lookahead and returns it, skipping
// whitespace/comment tokens unless the language marks whitespace
// significant.
func (l *Lexer) Next() Token {
	for {
		tok := l.Peek()
		l.lookahead = nil
		if tok.IsTrivia() && !l.lang.WhitespaceSignificant {
			continue
		}
		return tok
	}
}

// NextMatches is a non-destructive predicate: does the current lookahead
// have the given kind (and, if code >= 0, the given code)?
func (l *Lexer) NextMatches(kind Kind, code int) bool {
	t := l.significantPeek()
	if t.Kind != kind {
		return false
	}
	return code < 0 || t.Code == code
}

// significantPeek peeks past trivia without consuming anything, for
// NextMatches/Expect, which must not observe whitespace/comments.
func (l *Lexer) significantPeek() Token {
	if l.lang.WhitespaceSignificant {
		return l.Peek()
	}
	// Trivia ahead of the next significant token is consumed and dropped
	// here, as Next() drops it: callers who do not ask for trivia never
	// observe it.
	for {
		t := l.Peek()
		if !t.IsTrivia() {
			return t
		}
		l.lookahead = nil
	}
}

// Expect returns the current token if it matches kind (and code, if >= 0),
// consuming it; otherwise it fails with a LexerError.
func (l *Lexer) Expect(kind Kind, code int) (Token, error) {
	t := l.significantPeek()
	if t.Kind != kind || (code >= 0 && t.Code != code) {
		return Token{}, newLexerError(t.Loc, "expected %s, got %s %q", kind, t.Kind, t.Text)
	}
	l.lookahead = nil
	return t, nil
}

// rawScan implements the §4.1 scanning algorithm: it always produces
// exactly one token (never an error), advancing the current source.
func (l *Lexer) rawScan() Token {
	if l.pendingRaw != nil {
		t := *l.pendingRaw
		l.pendingRaw = nil
		return t
	}

	src, ok := l.top()
	for ok && src.text == "" && l.sources.Len() > 1 {
		l.sources.Pop()
		src, ok = l.top()
	}
	if !ok || src.text == "" {
		loc := Location{}
		if ok {
			loc = src.loc
		}
		return Token{Kind: EndOfFile, Loc: loc}
	}

	if l.activeDirective != 0 {
		return l.lang.OnDirective(l)
	}

	tok := l.scanOne(src)

	if l.lang.PreprocessorTrigger != 0 && l.activeDirective == 0 && tok.Code == l.lang.PreprocessorTrigger &&
		(tok.Kind == Symbol || tok.Kind == Keyword) {
		return l.dispatchDirective(src, tok)
	}
	return tok
}

// dispatchDirective implements §4.1 step 4: on seeing the preprocessor
// trigger, skip whitespace, scan an identifier, and look it up in the
// language's directive table.
func (l *Lexer) dispatchDirective(src *source, trigger Token) Token {
	for len(src.text) > 0 && isSpaceNoNewline(rune(src.text[0])) {
		src.advance(1)
	}
	if len(src.text) == 0 || !isIdentStart(rune(src.text[0])) {
		return trigger
	}
	idTok := l.scanIdentifierRaw(src)
	if code, found := l.lang.Directives[idTok.Text]; found {
		l.activeDirective = code
		return Token{Kind: Directive, Text: idTok.Text, Loc: trigger.Loc, Code: code}
	}
	// Not a directive: emit the trigger now, and make sure the identifier we
	// already consumed is still observed as the very next raw token.
	l.pendingRaw = &idTok
	return trigger
}

func (l *Lexer) scanOne(src *source) Token {
	loc := src.loc
	r := rune(src.text[0])

	switch {
	case r == '\n':
		src.advance(1)
		return Token{Kind: Whitespace, Text: "\n", Loc: loc}

	case l.inBlockComment:
		return l.scanBlockCommentContinuation(src, loc)

	case isSpaceNoNewline(r):
		return l.scanWhitespace(src, loc)

	case r == '"' || r == '\'' || r == '`':
		return l.scanQuoted(src, loc)

	case r == '/' && strings.HasPrefix(src.text, "//"):
		return l.scanLineComment(src, loc)

	case r == '/' && strings.HasPrefix(src.text, "/*"):
		return l.scanBlockComment(src, loc)

	case isDigit(r):
		return l.scanNumber(src, loc)

	case isIdentStart(r):
		return l.scanIdentifier(src, loc)

	default:
		return l.scanSymbol(src, loc)
	}
}

func isSpaceNoNewline(r rune) bool { return r == ' ' || r == '\t' || r == '\r' }
func isDigit(r rune) bool          { return r >= '0' && r <= '9' }
func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
func isIdentCont(r rune) bool { return isIdentStart(r) || isDigit(r) }

func (l *Lexer) scanWhitespace(src *source, loc Location) Token {
	n := 0
	for n < len(src.text) && isSpaceNoNewline(rune(src.text[n])) {
		n++
	}
	text := src.advance(n)
	return Token{Kind: Whitespace, Text: text, Loc: loc}
}

func (l *Lexer) scanQuoted(src *source, loc Location) Token {
	quoteCh := src.text[0]
	var qk QuoteKind
	switch quoteCh {
	case '\'':
		qk = QuoteSingle
	case '`':
		qk = QuoteBack
	default:
		qk = QuoteDouble
	}
	i := 1
	terminated := false
	for i < len(src.text) {
		c := src.text[i]
		if c == '\\' && i+1 < len(src.text) {
			i += 2
			continue
		}
		if c == quoteCh {
			i++
			terminated = true
			break
		}
		if c == '\n' {
			break // unterminated: strings don't span newlines
		}
		i++
	}
	text := src.advance(i)
	return Token{Kind: QuotedString, Text: text, Loc: loc, QuoteKind: qk, Terminated: terminated}
}

func (l *Lexer) scanLineComment(src *source, loc Location) Token {
	i := 0
	for i < len(src.text) && src.text[i] != '\n' {
		i++
	}
	text := src.advance(i)
	return Token{Kind: Comment, Text: text, Loc: loc, CommentKind: CommentLine, Terminated: true}
}

func (l *Lexer) scanBlockComment(src *source, loc Location) Token {
	i := 2 // skip "/*"
	terminated := false
	for i < len(src.text)-1 {
		if src.text[i] == '\n' {
			i++
			continue
		}
		if src.text[i] == '*' && src.text[i+1] == '/' {
			i += 2
			terminated = true
			break
		}
		i++
	}
	if !terminated {
		i = len(src.text)
	}
	text := src.advance(i)
	l.inBlockComment = !terminated
	return Token{Kind: Comment, Text: text, Loc: loc, CommentKind: CommentBlock, Terminated: terminated}
}

// scanBlockCommentContinuation resumes an in-progress block comment after a
// newline, for sources pushed/popped mid-comment (pathological, but the
// state machine must not infinite-loop on it per Testable Property 2).
func (l *Lexer) scanBlockCommentContinuation(src *source, loc Location) Token {
	i := 0
	terminated := false
	for i < len(src.text)-1 {
		if src.text[i] == '*' && src.text[i+1] == '/' {
			i += 2
			terminated = true
			break
		}
		i++
	}
	if !terminated {
		i = len(src.text)
	}
	text := src.advance(i)
	l.inBlockComment = !terminated
	return Token{Kind: Comment, Text: text, Loc: loc, CommentKind: CommentBlock, Terminated: terminated}
}

func (l *Lexer) scanNumber(src *source, loc Location) Token {
	if strings.HasPrefix(src.text, "0x") || strings.HasPrefix(src.text, "0X") {
		i := 2
		for i < len(src.text) && isHexDigit(rune(src.text[i])) {
			i++
		}
		text := src.advance(i)
		return Token{Kind: Number, Text: text, Loc: loc, NumberKind: NumHex}
	}
	if strings.HasPrefix(src.text, "0b") || strings.HasPrefix(src.text, "0B") {
		i := 2
		for i < len(src.text) && (src.text[i] == '0' || src.text[i] == '1') {
			i++
		}
		text := src.advance(i)
		return Token{Kind: Number, Text: text, Loc: loc, NumberKind: NumBinary}
	}
	i := 0
	for i < len(src.text) && isDigit(rune(src.text[i])) {
		i++
	}
	kind := NumDecimal
	if i < len(src.text) && src.text[i] == '.' {
		// ".." terminates scanning before the second dot (e.g. a range op).
		if i+1 < len(src.text) && src.text[i+1] == '.' {
			text := src.advance(i)
			return Token{Kind: Number, Text: text, Loc: loc, NumberKind: kind}
		}
		kind = NumFloat
		i++
		for i < len(src.text) && isDigit(rune(src.text[i])) {
			i++
		}
	}
	text := src.advance(i)
	return Token{Kind: Number, Text: text, Loc: loc, NumberKind: kind}
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (l *Lexer) scanIdentifier(src *source, loc Location) Token {
	t := l.scanIdentifierRaw(src)
	t.Loc = loc
	if code, ok := l.lang.Keywords[t.Text]; ok {
		t.Kind = Keyword
		t.Code = code
	}
	return t
}

// scanIdentifierRaw scans an identifier without keyword retagging, used
// both by scanIdentifier and by the directive dispatcher's name lookup.
func (l *Lexer) scanIdentifierRaw(src *source) Token {
	loc := src.loc
	i := 0
	for i < len(src.text) && isIdentCont(rune(src.text[i])) {
		i++
	}
	text := src.advance(i)
	return Token{Kind: Identifier, Text: text, Loc: loc}
}

func (l *Lexer) scanSymbol(src *source, loc Location) Token {
	// Longest-match over the language's multi-character symbol table.
	best := ""
	bestCode := 0
	for spelling, code := range l.lang.Symbols {
		if len(spelling) > len(best) && strings.HasPrefix(src.text, spelling) {
			best, bestCode = spelling, code
		}
	}
	if best != "" {
		text := src.advance(len(best))
		return Token{Kind: Symbol, Text: text, Loc: loc, Code: bestCode}
	}
	ch := src.text[0]
	text := src.advance(1)
	return Token{Kind: Symbol, Text: text, Loc: loc, Code: int(ch)}
}
