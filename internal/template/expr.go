package template

import (
	"github.com/scribble-lang/scribble/internal/errs"
)

// ExprKind tags one node of the expression AST.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprIdent
	ExprMember  // a.b
	ExprCall    // f(args...)
	ExprUnary   // !x, -x, +x
	ExprBinary  // l op r
	ExprBraceUn // unary `{` per the precedence table (object/brace literal probe)
)

type Expr struct {
	Kind ExprKind

	// ExprLiteral
	Lit interface{}

	// ExprIdent
	Name string

	// ExprMember
	Base *Expr
	Prop string

	// ExprCall
	Callee *Expr
	Args   []*Expr

	// ExprUnary / ExprBraceUn
	Op      string
	Operand *Expr

	// ExprBinary
	Left  *Expr
	Right *Expr
}

// exprParser implements the precedence-climbing grammar of §4.2:
//
//	call `(` (15), subscript `.` (15), parens (16)
//	unary `!` `+` `-` `{` (14-15)
//	`*` `/` `%` (12)
//	`+` `-` (11)
//	`<` `<=` `>` `>=` (9)
//	`==` `!=` (8)
type exprParser struct {
	toks []exprToken
	pos  int
}

func parseExpr(src string) (*Expr, error) {
	toks, err := lexExpr(src)
	if err != nil {
		return nil, err
	}
	p := &exprParser{toks: toks}
	e, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, errs.NewTemplateError(errs.Location{}, "unexpected token %q in expression", p.peek().text)
	}
	return e, nil
}

func (p *exprParser) peek() exprToken {
	if p.pos >= len(p.toks) {
		return exprToken{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *exprParser) atEnd() bool { return p.peek().kind == tokEOF }

func (p *exprParser) advance() exprToken {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *exprParser) match(kinds ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, k := range kinds {
		if t.text == k {
			return true
		}
	}
	return false
}

// parseEquality..parseUnary implement precedence levels 8 down to 12,
// each calling the next-higher level first (precedence-climbing).
func (p *exprParser) parseEquality() (*Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.match("==", "!=") {
		op := p.advance().text
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: ExprBinary, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseRelational() (*Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.match("<", "<=", ">", ">=") {
		op := p.advance().text
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: ExprBinary, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseAdditive() (*Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.match("+", "-") {
		op := p.advance().text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: ExprBinary, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseMultiplicative() (*Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match("*", "/", "%") {
		op := p.advance().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: ExprBinary, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseUnary() (*Expr, error) {
	if p.match("!", "+", "-") {
		op := p.advance().text
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprUnary, Op: op, Operand: operand}, nil
	}
	if p.match("{") {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if p.match("}") {
			p.advance()
		}
		return &Expr{Kind: ExprBraceUn, Op: "{", Operand: operand}, nil
	}
	return p.parsePostfix()
}

// parsePostfix handles subscript `.` and call `(` at precedence 15, and
// parens at precedence 16, both binding tighter than unary.
func (p *exprParser) parsePostfix() (*Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match("."):
			p.advance()
			name := p.advance()
			if name.kind != tokIdent {
				return nil, errs.NewTemplateError(errs.Location{}, "expected member name after '.'")
			}
			e = &Expr{Kind: ExprMember, Base: e, Prop: name.text}
		case p.match("("):
			p.advance()
			var args []*Expr
			if !p.match(")") {
				for {
					a, err := p.parseEquality()
					if err != nil {
						return nil, err
					}
					args = append(args, a)
					if p.match(",") {
						p.advance()
						continue
					}
					break
				}
			}
			if !p.match(")") {
				return nil, errs.NewTemplateError(errs.Location{}, "expected ')' to close call")
			}
			p.advance()
			e = &Expr{Kind: ExprCall, Callee: e, Args: args}
		default:
			return e, nil
		}
	}
}

func (p *exprParser) parsePrimary() (*Expr, error) {
	t := p.advance()
	switch t.kind {
	case tokNumber:
		return &Expr{Kind: ExprLiteral, Lit: t.num}, nil
	case tokString:
		return &Expr{Kind: ExprLiteral, Lit: t.text}, nil
	case tokIdent:
		switch t.text {
		case "true":
			return &Expr{Kind: ExprLiteral, Lit: true}, nil
		case "false":
			return &Expr{Kind: ExprLiteral, Lit: false}, nil
		case "null":
			return &Expr{Kind: ExprLiteral, Lit: nil}, nil
		}
		return &Expr{Kind: ExprIdent, Name: t.text}, nil
	case tokOp:
		if t.text == "(" {
			e, err := p.parseEquality()
			if err != nil {
				return nil, err
			}
			if !p.match(")") {
				return nil, errs.NewTemplateError(errs.Location{}, "expected ')'")
			}
			p.advance()
			return e, nil
		}
	}
	return nil, errs.NewTemplateError(errs.Location{}, "unexpected token %q", t.text)
}
