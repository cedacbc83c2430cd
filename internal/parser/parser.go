package parser

import (
	"strconv"

	"github.com/scribble-lang/scribble/internal/ast"
	"github.com/scribble-lang/scribble/internal/errs"
	"github.com/scribble-lang/scribble/internal/lexer"
)

// ParserError wraps errs.CompileError with KindParser, raised on tokens the
// parser cannot place (§7). A failed Expect is recorded as the lexer's own
// error instead, and type names are not resolved here.
type ParserError struct{ *errs.CompileError }

func newErr(loc lexer.Location, msg string, args ...interface{}) *ParserError {
	return &ParserError{errs.NewParserError(loc.ToErrLocation(), msg, args...)}
}

// Parser drives internal/lexer with the scribble Language descriptor to
// build an internal/ast.Tree.
type Parser struct {
	lex  *lexer.Lexer
	tree *ast.Tree
	errs []error
}

// Parse lexes and parses source (named name) into a full program tree.
func Parse(source, name string) (*ast.Tree, []error) {
	l := lexer.New(Language())
	l.PushSource(source, name)
	p := &Parser{lex: l, tree: ast.NewTree()}
	p.tree.Root = p.parseProgram()
	return p.tree, p.errs
}

func (p *Parser) fail(tok lexer.Token, msg string, args ...interface{}) {
	p.errs = append(p.errs, newErr(tok.Loc, msg, args...))
}

func (p *Parser) expectKeyword(code int) lexer.Token {
	t := p.lex.Peek()
	tok, err := p.lex.Expect(lexer.Keyword, code)
	if err != nil {
		p.errs = append(p.errs, err)
		return t
	}
	return tok
}

func (p *Parser) expectSymbol(code int) lexer.Token {
	tok, err := p.lex.Expect(lexer.Symbol, code)
	if err != nil {
		p.errs = append(p.errs, err)
	}
	return tok
}

func (p *Parser) atKeyword(code int) bool { return p.lex.NextMatches(lexer.Keyword, code) }
func (p *Parser) atSymbol(code int) bool  { return p.lex.NextMatches(lexer.Symbol, code) }

func (p *Parser) parseProgram() ast.ID {
	startTok := p.lex.Peek()
	root := p.tree.New(ast.KProgram, startTok)
	for !p.lex.NextMatches(lexer.EndOfFile, -1) {
		if p.atKeyword(kwFunc) || p.atKeyword(kwNative) {
			fn := p.parseFunction()
			p.tree.AppendChild(root, fn)
			continue
		}
		if p.atKeyword(kwStruct) {
			p.tree.AppendChild(root, p.parseStruct())
			continue
		}
		if p.atKeyword(kwEnum) {
			p.tree.AppendChild(root, p.parseEnum())
			continue
		}
		bad := p.lex.Next()
		p.fail(bad, "unexpected token %q at top level", bad.Text)
	}
	return root
}

func (p *Parser) parseFunction() ast.ID {
	native := p.atKeyword(kwNative)
	if native {
		p.lex.Next()
	}
	fnTok := p.expectKeyword(kwFunc)
	nameTok, _ := p.lex.Expect(lexer.Identifier, -1)
	kind := ast.KFunctionImpl
	if native {
		kind = ast.KNativeFunction
	}
	fn := p.tree.New(kind, fnTok)
	p.tree.Mutate(fn, func(n *ast.Node) { n.Name = nameTok.Text })

	p.expectSymbol('(')
	for !p.atSymbol(')') && !p.lex.NextMatches(lexer.EndOfFile, -1) {
		paramTok := p.lex.Peek()
		nameT, _ := p.lex.Expect(lexer.Identifier, -1)
		p.expectSymbol(':')
		typeRef := p.parseTypeRef()
		param := p.tree.New(ast.KParameter, paramTok)
		p.tree.Mutate(param, func(n *ast.Node) { n.Name = nameT.Text; n.TypeRef = typeRef })
		p.tree.AppendChild(fn, param)
		if p.atSymbol(',') {
			p.lex.Next()
		} else if !p.atSymbol(')') && !p.lex.NextMatches(lexer.EndOfFile, -1) {
			bad := p.lex.Next()
			p.fail(bad, "unexpected token %q in parameter list", bad.Text)
		}
	}
	p.expectSymbol(')')

	if p.atSymbol('-') || p.lex.NextMatches(lexer.Symbol, symArrow) {
		p.expectSymbol(symArrow)
		ret := p.parseTypeRef()
		p.tree.Mutate(fn, func(n *ast.Node) { n.TypeRef = ret })
	}

	if native {
		p.expectSymbol(';')
		return fn
	}
	body := p.parseBlock()
	p.tree.Mutate(fn, func(n *ast.Node) { n.Body = body })
	return fn
}

func (p *Parser) parseTypeRef() ast.ID {
	tok, _ := p.lex.Expect(lexer.Identifier, -1)
	id := p.tree.New(ast.KTypeRef, tok)
	p.tree.Mutate(id, func(n *ast.Node) { n.Name = tok.Text })
	return id
}

func (p *Parser) parseStruct() ast.ID {
	tok := p.expectKeyword(kwStruct)
	nameTok, _ := p.lex.Expect(lexer.Identifier, -1)
	decl := p.tree.New(ast.KStructDecl, tok)
	p.tree.Mutate(decl, func(n *ast.Node) { n.Name = nameTok.Text })
	p.expectSymbol('{')
	for !p.atSymbol('}') && !p.lex.NextMatches(lexer.EndOfFile, -1) {
		fieldTok := p.lex.Peek()
		fnameT, _ := p.lex.Expect(lexer.Identifier, -1)
		p.expectSymbol(':')
		fieldType := p.parseTypeRef()
		field := p.tree.New(ast.KParameter, fieldTok)
		p.tree.Mutate(field, func(n *ast.Node) { n.Name = fnameT.Text; n.TypeRef = fieldType })
		p.tree.AppendChild(decl, field)
		if p.atSymbol(';') {
			p.lex.Next()
		}
	}
	p.expectSymbol('}')
	return decl
}

func (p *Parser) parseEnum() ast.ID {
	tok := p.expectKeyword(kwEnum)
	nameTok, _ := p.lex.Expect(lexer.Identifier, -1)
	decl := p.tree.New(ast.KEnumDecl, tok)
	p.tree.Mutate(decl, func(n *ast.Node) { n.Name = nameTok.Text })
	p.expectSymbol('{')
	for !p.atSymbol('}') && !p.lex.NextMatches(lexer.EndOfFile, -1) {
		valTok, _ := p.lex.Expect(lexer.Identifier, -1)
		val := p.tree.New(ast.KNameRef, valTok)
		p.tree.Mutate(val, func(n *ast.Node) { n.Name = valTok.Text })
		p.tree.AppendChild(decl, val)
		if p.atSymbol(',') {
			p.lex.Next()
		}
	}
	p.expectSymbol('}')
	return decl
}

func (p *Parser) parseBlock() ast.ID {
	tok := p.expectSymbol('{')
	block := p.tree.New(ast.KBlock, tok)
	for !p.atSymbol('}') && !p.lex.NextMatches(lexer.EndOfFile, -1) {
		stmt := p.parseStatement()
		p.tree.AppendSibling(block, stmt)
	}
	p.expectSymbol('}')
	return block
}

func (p *Parser) parseStatement() ast.ID {
	switch {
	case p.atKeyword(kwReturn):
		tok := p.lex.Next()
		n := p.tree.New(ast.KReturn, tok)
		if !p.atSymbol(';') {
			p.tree.Mutate(n, func(node *ast.Node) { node.Left = p.parseExpr() })
		}
		p.expectSymbol(';')
		return n

	case p.atKeyword(kwVar):
		tok := p.lex.Next()
		nameTok, _ := p.lex.Expect(lexer.Identifier, -1)
		n := p.tree.New(ast.KVariableDecl, tok)
		p.tree.Mutate(n, func(node *ast.Node) { node.Name = nameTok.Text })
		if p.atSymbol(':') {
			p.lex.Next()
			tref := p.parseTypeRef()
			p.tree.Mutate(n, func(node *ast.Node) { node.TypeRef = tref })
		}
		if p.atSymbol('=') {
			p.lex.Next()
			val := p.parseExpr()
			p.tree.Mutate(n, func(node *ast.Node) { node.Left = val })
		}
		p.expectSymbol(';')
		return n

	case p.atKeyword(kwIf):
		return p.parseIf()

	case p.atKeyword(kwWhile):
		tok := p.lex.Next()
		p.expectSymbol('(')
		cond := p.parseExpr()
		p.expectSymbol(')')
		body := p.parseBlock()
		n := p.tree.New(ast.KWhile, tok)
		p.tree.Mutate(n, func(node *ast.Node) { node.Cond = cond; node.Body = body })
		return n

	case p.atKeyword(kwLoop):
		tok := p.lex.Next()
		body := p.parseBlock()
		n := p.tree.New(ast.KLoop, tok)
		p.tree.Mutate(n, func(node *ast.Node) { node.Body = body })
		return n

	case p.atKeyword(kwFor):
		return p.parseFor()

	case p.atKeyword(kwBreak):
		tok := p.lex.Next()
		p.expectSymbol(';')
		return p.tree.New(ast.KBreak, tok)

	case p.atKeyword(kwContinue):
		tok := p.lex.Next()
		p.expectSymbol(';')
		return p.tree.New(ast.KContinue, tok)

	case p.atSymbol('{'):
		return p.parseBlock()

	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseIf() ast.ID {
	tok := p.lex.Next() // 'if'
	p.expectSymbol('(')
	cond := p.parseExpr()
	p.expectSymbol(')')
	thenB := p.parseBlock()
	n := p.tree.New(ast.KIf, tok)
	p.tree.Mutate(n, func(node *ast.Node) { node.Cond = cond; node.Then = thenB })
	if p.atKeyword(kwElse) {
		p.lex.Next()
		var elseB ast.ID
		if p.atKeyword(kwIf) {
			elseB = p.parseIf()
		} else {
			elseB = p.parseBlock()
		}
		p.tree.Mutate(n, func(node *ast.Node) { node.Else = elseB })
	}
	return n
}

func (p *Parser) parseFor() ast.ID {
	tok := p.lex.Next() // 'for'
	p.expectSymbol('(')
	var initID ast.ID
	if !p.atSymbol(';') {
		initID = p.parseStatement()
	} else {
		p.expectSymbol(';')
	}
	cond := p.parseExpr()
	p.expectSymbol(';')
	var postID ast.ID
	if !p.atSymbol(')') {
		postID = p.parseExprStatementNoSemi()
	}
	p.expectSymbol(')')
	body := p.parseBlock()
	n := p.tree.New(ast.KFor, tok)
	p.tree.Mutate(n, func(node *ast.Node) { node.Init = initID; node.Cond = cond; node.Post = postID; node.Body = body })
	return n
}

func (p *Parser) parseExprStatement() ast.ID {
	startTok := p.lex.Peek()
	expr := p.parseExpr()
	if p.atSymbol('=') {
		p.lex.Next()
		rhs := p.parseExpr()
		name := p.tree.Get(expr).Name
		n := p.tree.New(ast.KAssignment, startTok)
		p.tree.Mutate(n, func(node *ast.Node) { node.Name = name; node.Right = rhs })
		p.expectSymbol(';')
		return n
	}
	p.expectSymbol(';')
	return expr
}

func (p *Parser) parseExprStatementNoSemi() ast.ID {
	startTok := p.lex.Peek()
	expr := p.parseExpr()
	if p.atSymbol('=') {
		p.lex.Next()
		rhs := p.parseExpr()
		name := p.tree.Get(expr).Name
		n := p.tree.New(ast.KAssignment, startTok)
		p.tree.Mutate(n, func(node *ast.Node) { node.Name = name; node.Right = rhs })
		return n
	}
	return expr
}

// Expression grammar: precedence-climbing, lowest to highest precedence.
func (p *Parser) parseExpr() ast.ID          { return p.parseTernary() }

func (p *Parser) parseTernary() ast.ID {
	cond := p.parseOr()
	if p.atSymbol('?') {
		tok := p.lex.Next()
		thenE := p.parseExpr()
		p.expectSymbol(':')
		elseE := p.parseExpr()
		n := p.tree.New(ast.KTernaryExpr, tok)
		p.tree.Mutate(n, func(node *ast.Node) { node.Cond = cond; node.Then = thenE; node.Else = elseE })
		return n
	}
	return cond
}

func (p *Parser) parseOr() ast.ID  { return p.parseBinaryLevel(p.parseAnd, symOr) }
func (p *Parser) parseAnd() ast.ID { return p.parseBinaryLevel(p.parseEquality, symAnd) }

func (p *Parser) parseEquality() ast.ID {
	return p.parseBinaryLevel(p.parseRelational, symEq, symNe)
}

func (p *Parser) parseRelational() ast.ID {
	left := p.parseAdditive()
	for p.atSymbol('<') || p.atSymbol('>') || p.lex.NextMatches(lexer.Symbol, symLe) || p.lex.NextMatches(lexer.Symbol, symGe) {
		tok := p.lex.Next()
		right := p.parseAdditive()
		n := p.tree.New(ast.KBinaryExpr, tok)
		p.tree.Mutate(n, func(node *ast.Node) { node.Left = left; node.Right = right; node.Op = tok.Code })
		left = n
	}
	return left
}

func (p *Parser) parseAdditive() ast.ID {
	left := p.parseMultiplicative()
	for p.atSymbol('+') || p.atSymbol('-') {
		tok := p.lex.Next()
		right := p.parseMultiplicative()
		n := p.tree.New(ast.KBinaryExpr, tok)
		p.tree.Mutate(n, func(node *ast.Node) { node.Left = left; node.Right = right; node.Op = tok.Code })
		left = n
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.ID {
	left := p.parseUnary()
	for p.atSymbol('*') || p.atSymbol('/') || p.atSymbol('%') {
		tok := p.lex.Next()
		right := p.parseUnary()
		n := p.tree.New(ast.KBinaryExpr, tok)
		p.tree.Mutate(n, func(node *ast.Node) { node.Left = left; node.Right = right; node.Op = tok.Code })
		left = n
	}
	return left
}

func (p *Parser) parseUnary() ast.ID {
	if p.atSymbol('!') || p.atSymbol('-') || p.atSymbol('+') {
		tok := p.lex.Next()
		operand := p.parseUnary()
		n := p.tree.New(ast.KUnaryExpr, tok)
		p.tree.Mutate(n, func(node *ast.Node) { node.Left = operand; node.Op = tok.Code })
		return n
	}
	return p.parsePrimary()
}

// parseBinaryLevel folds one precedence level of left-associative binary
// operators matching any of codes (symbol Code values).
func (p *Parser) parseBinaryLevel(next func() ast.ID, codes ...int) ast.ID {
	left := next()
	for {
		matched := false
		for _, c := range codes {
			if p.lex.NextMatches(lexer.Symbol, c) {
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
		tok := p.lex.Next()
		right := next()
		n := p.tree.New(ast.KBinaryExpr, tok)
		p.tree.Mutate(n, func(node *ast.Node) { node.Left = left; node.Right = right; node.Op = tok.Code })
		left = n
	}
}

func (p *Parser) parsePrimary() ast.ID {
	tok := p.lex.Peek()
	switch {
	case tok.Kind == lexer.Number:
		p.lex.Next()
		return p.numberNode(tok)

	case tok.Kind == lexer.QuotedString:
		p.lex.Next()
		n := p.tree.New(ast.KStringLiteral, tok)
		p.tree.Mutate(n, func(node *ast.Node) { node.StrVal = unquote(tok.Text) })
		return n

	case tok.Kind == lexer.Keyword && tok.Code == kwTrue:
		p.lex.Next()
		n := p.tree.New(ast.KBoolLiteral, tok)
		p.tree.Mutate(n, func(node *ast.Node) { node.BoolVal = true })
		return n

	case tok.Kind == lexer.Keyword && tok.Code == kwFalse:
		p.lex.Next()
		return p.tree.New(ast.KBoolLiteral, tok)

	case tok.Kind == lexer.Identifier:
		p.lex.Next()
		if p.atSymbol('(') {
			return p.parseCall(tok)
		}
		n := p.tree.New(ast.KNameRef, tok)
		p.tree.Mutate(n, func(node *ast.Node) { node.Name = tok.Text })
		return n

	case tok.Kind == lexer.Symbol && tok.Code == '(':
		p.lex.Next()
		e := p.parseExpr()
		p.expectSymbol(')')
		return e

	default:
		p.lex.Next()
		p.fail(tok, "unexpected token %q in expression", tok.Text)
		return p.tree.New(ast.KIntLiteral, tok)
	}
}

func (p *Parser) parseCall(nameTok lexer.Token) ast.ID {
	p.expectSymbol('(')
	n := p.tree.New(ast.KFunctionCall, nameTok)
	p.tree.Mutate(n, func(node *ast.Node) { node.Name = nameTok.Text })
	for !p.atSymbol(')') && !p.lex.NextMatches(lexer.EndOfFile, -1) {
		arg := p.parseExpr()
		p.tree.AppendChild(n, arg)
		if p.atSymbol(',') {
			p.lex.Next()
		}
	}
	p.expectSymbol(')')
	return n
}

func (p *Parser) numberNode(tok lexer.Token) ast.ID {
	if tok.NumberKind == lexer.NumFloat {
		v, _ := strconv.ParseFloat(tok.Text, 64)
		n := p.tree.New(ast.KDecimalLiteral, tok)
		p.tree.Mutate(n, func(node *ast.Node) { node.FloatVal = v })
		return n
	}
	base := 10
	text := tok.Text
	switch tok.NumberKind {
	case lexer.NumHex:
		base, text = 16, text[2:]
	case lexer.NumBinary:
		base, text = 2, text[2:]
	}
	v, _ := strconv.ParseInt(text, base, 64)
	n := p.tree.New(ast.KIntLiteral, tok)
	p.tree.Mutate(n, func(node *ast.Node) { node.IntVal = v })
	return n
}

func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			default:
				out = append(out, body[i])
			}
			continue
		}
		out = append(out, body[i])
	}
	return string(out)
}
