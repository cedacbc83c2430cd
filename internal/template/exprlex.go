package template

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/scribble-lang/scribble/internal/errs"
)

type exprTokKind uint8

const (
	tokEOF exprTokKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp
)

type exprToken struct {
	kind exprTokKind
	text string
	num  int32 // §4.2: "numbers are 32-bit signed"
}

// exprOperators lists every multi-char operator the expression grammar
// recognises, longest first so scanning is a simple greedy match.
var exprOperators = []string{"<=", ">=", "==", "!=", "(", ")", ".", ",", "!", "+", "-", "*", "/", "%", "<", ">", "{", "}"}

func lexExpr(src string) ([]exprToken, error) {
	var toks []exprToken
	i := 0
	for i < len(src) {
		c := rune(src[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '\'' || c == '"':
			quote := byte(c)
			j := i + 1
			var b strings.Builder
			for j < len(src) && src[j] != quote {
				if src[j] == '\\' && j+1 < len(src) {
					j++
				}
				b.WriteByte(src[j])
				j++
			}
			if j >= len(src) {
				return nil, errs.NewTemplateError(errs.Location{}, "unterminated string literal in expression")
			}
			toks = append(toks, exprToken{kind: tokString, text: b.String()})
			i = j + 1
		case unicode.IsDigit(c):
			j := i
			for j < len(src) && (unicode.IsDigit(rune(src[j])) || src[j] == '.') {
				j++
			}
			n, err := strconv.ParseInt(strings.TrimRight(src[i:j], "."), 10, 32)
			if err != nil {
				return nil, errs.NewTemplateError(errs.Location{}, "bad number literal %q", src[i:j])
			}
			toks = append(toks, exprToken{kind: tokNumber, num: int32(n)})
			i = j
		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < len(src) && (unicode.IsLetter(rune(src[j])) || unicode.IsDigit(rune(src[j])) || src[j] == '_') {
				j++
			}
			toks = append(toks, exprToken{kind: tokIdent, text: src[i:j]})
			i = j
		default:
			matched := false
			for _, op := range exprOperators {
				if strings.HasPrefix(src[i:], op) {
					toks = append(toks, exprToken{kind: tokOp, text: op})
					i += len(op)
					matched = true
					break
				}
			}
			if !matched {
				return nil, errs.NewTemplateError(errs.Location{}, "unexpected character %q in expression", c)
			}
		}
	}
	return toks, nil
}
