package tsschema

import (
	"strconv"
	"strings"

	"github.com/scribble-lang/scribble/internal/errs"
	"github.com/scribble-lang/scribble/internal/lexer"
)

// parser drives a lexer.Lexer configured with Language() over the
// module source, producing an ordered (pre-sort) list of TypeDefs.
type parser struct {
	lx   *lexer.Lexer
	defs []*TypeDef
	seen map[string]bool
}

// Parse implements §4.3 steps 1-2: lex with the TypeScript-subset
// descriptor, then parse top-level `interface`, `type`, and `namespace`
// declarations into the §3 data model. Anonymous structs/variants are
// materialised inline: Type itself carries the inline payload, and no
// synthetic type name is minted for them here or in the emitter.
func Parse(src, name string) ([]*TypeDef, error) {
	lx := lexer.New(Language())
	lx.PushSource(src, name)
	p := &parser{lx: lx, seen: map[string]bool{}}
	for !p.lx.NextMatches(lexer.EndOfFile, -1) {
		if err := p.topLevel(); err != nil {
			return nil, err
		}
	}
	return p.defs, nil
}

func (p *parser) loc() errs.Location {
	return p.lx.Peek().Loc.ToErrLocation()
}

func (p *parser) topLevel() error {
	// "export" is optional and carries no semantic weight for this
	// subset (every top-level declaration is visible to the emitter).
	if p.lx.NextMatches(lexer.Keyword, kwExport) {
		p.lx.Next()
	}
	switch {
	case p.lx.NextMatches(lexer.Keyword, kwInterface):
		return p.parseInterface()
	case p.lx.NextMatches(lexer.Keyword, kwType):
		return p.parseAlias()
	case p.lx.NextMatches(lexer.Keyword, kwNamespace):
		return p.parseNamespace()
	default:
		t := p.lx.Peek()
		return errs.NewParserError(p.loc(), "expected 'interface', 'type', or 'namespace', got %s %q", t.Kind, t.Text)
	}
}

func (p *parser) addDef(d *TypeDef) error {
	if p.seen[d.Name] {
		return errs.NewParserError(p.loc(), "duplicate type declaration %q", d.Name)
	}
	p.seen[d.Name] = true
	p.defs = append(p.defs, d)
	return nil
}

// parseInterface: `interface Name extends A, B { prop: Type; prop2?: Type }`
func (p *parser) parseInterface() error {
	p.lx.Next() // 'interface'
	nameTok, err := p.lx.Expect(lexer.Identifier, -1)
	if err != nil {
		return err
	}
	iface := &Interface{}
	if p.lx.NextMatches(lexer.Keyword, kwExtends) {
		p.lx.Next()
		for {
			t, err := p.lx.Expect(lexer.Identifier, -1)
			if err != nil {
				return err
			}
			iface.Extends = append(iface.Extends, t.Text)
			if p.lx.NextMatches(lexer.Symbol, symComma) {
				p.lx.Next()
				continue
			}
			break
		}
	}
	props, err := p.parseStructBody()
	if err != nil {
		return err
	}
	iface.Properties = props
	return p.addDef(&TypeDef{Kind: KindInterface, Name: nameTok.Text, Interface: iface})
}

// parseStructBody parses a `{ ... }` property list shared by interface
// declarations and anonymous struct types.
func (p *parser) parseStructBody() ([]Property, error) {
	if _, err := p.lx.Expect(lexer.Symbol, symLBrace); err != nil {
		return nil, err
	}
	var props []Property
	for !p.lx.NextMatches(lexer.Symbol, symRBrace) {
		nameTok, err := p.lx.Expect(lexer.Identifier, -1)
		if err != nil {
			return nil, err
		}
		prop := Property{Name: nameTok.Text}
		if p.lx.NextMatches(lexer.Symbol, symQuestion) {
			p.lx.Next()
			prop.Optional = true
		}
		if _, err := p.lx.Expect(lexer.Symbol, symColon); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		prop.Type = ty
		props = append(props, prop)
		if p.lx.NextMatches(lexer.Symbol, symSemicolon) || p.lx.NextMatches(lexer.Symbol, symComma) {
			p.lx.Next()
		}
	}
	if _, err := p.lx.Expect(lexer.Symbol, symRBrace); err != nil {
		return nil, err
	}
	return props, nil
}

// parseAlias: `type Name = Type;`
func (p *parser) parseAlias() error {
	p.lx.Next() // 'type'
	nameTok, err := p.lx.Expect(lexer.Identifier, -1)
	if err != nil {
		return err
	}
	if _, err := p.lx.Expect(lexer.Symbol, symEquals); err != nil {
		return err
	}
	ty, err := p.parseType()
	if err != nil {
		return err
	}
	if p.lx.NextMatches(lexer.Symbol, symSemicolon) {
		p.lx.Next()
	}
	return p.addDef(&TypeDef{Kind: KindAlias, Name: nameTok.Text, Alias: &ty})
}

// parseNamespace: `namespace Name { export const A: integer = 1; ... }`,
// §4.3's "namespaces used as enumerations".
func (p *parser) parseNamespace() error {
	p.lx.Next() // 'namespace'
	nameTok, err := p.lx.Expect(lexer.Identifier, -1)
	if err != nil {
		return err
	}
	if _, err := p.lx.Expect(lexer.Symbol, symLBrace); err != nil {
		return err
	}
	enum := &Enumeration{Name: nameTok.Text}
	for !p.lx.NextMatches(lexer.Symbol, symRBrace) {
		if p.lx.NextMatches(lexer.Keyword, kwExport) {
			p.lx.Next()
		}
		if _, err := p.lx.Expect(lexer.Keyword, kwConst); err != nil {
			return err
		}
		memberTok, err := p.lx.Expect(lexer.Identifier, -1)
		if err != nil {
			return err
		}
		basic := ""
		if p.lx.NextMatches(lexer.Symbol, symColon) {
			p.lx.Next()
			basicTok := p.lx.Next()
			basic = basicTok.Text
		}
		if _, err := p.lx.Expect(lexer.Symbol, symEquals); err != nil {
			return err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return err
		}
		if basic == "" {
			switch lit.(type) {
			case string:
				basic = "string"
			default:
				basic = "integer"
			}
		}
		if enum.Basic == "" {
			enum.Basic = basic
		}
		enum.Values = append(enum.Values, EnumValue{Name: memberTok.Text, Literal: lit})
		if p.lx.NextMatches(lexer.Symbol, symSemicolon) || p.lx.NextMatches(lexer.Symbol, symComma) {
			p.lx.Next()
		}
	}
	if _, err := p.lx.Expect(lexer.Symbol, symRBrace); err != nil {
		return err
	}
	return p.addDef(&TypeDef{Kind: KindEnumeration, Name: nameTok.Text, Enum: enum})
}

func (p *parser) parseLiteral() (interface{}, error) {
	t := p.lx.Next()
	switch t.Kind {
	case lexer.Number:
		n, err := strconv.ParseInt(t.Text, 0, 64)
		if err != nil {
			return nil, errs.NewParserError(t.Loc.ToErrLocation(), "bad numeric literal %q", t.Text)
		}
		return n, nil
	case lexer.QuotedString:
		return unquote(t.Text), nil
	default:
		return nil, errs.NewParserError(t.Loc.ToErrLocation(), "expected literal, got %s %q", t.Kind, t.Text)
	}
}

func unquote(text string) string {
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// parseType parses a (possibly union/intersection/array) type expression.
// Precedence, loosest first: union `|`, intersection `&`, postfix `[]`.
func (p *parser) parseType() (Type, error) {
	return p.parseUnion()
}

func (p *parser) parseUnion() (Type, error) {
	first, err := p.parseIntersection()
	if err != nil {
		return Type{}, err
	}
	if !p.lx.NextMatches(lexer.Symbol, symPipe) {
		return first, nil
	}
	members := []Type{first}
	for p.lx.NextMatches(lexer.Symbol, symPipe) {
		p.lx.Next()
		m, err := p.parseIntersection()
		if err != nil {
			return Type{}, err
		}
		members = append(members, m)
	}
	return Type{Kind: TypeAnonymousVariant, Variant: members}, nil
}

func (p *parser) parseIntersection() (Type, error) {
	first, err := p.parsePostfix()
	if err != nil {
		return Type{}, err
	}
	if !p.lx.NextMatches(lexer.Symbol, symAmp) {
		return first, nil
	}
	merged := []Type{first}
	for p.lx.NextMatches(lexer.Symbol, symAmp) {
		p.lx.Next()
		m, err := p.parsePostfix()
		if err != nil {
			return Type{}, err
		}
		merged = append(merged, m)
	}
	// resolve.go merges intersection members into one property list only
	// when the intersection is a type alias's whole body; one nested in a
	// property or union is never merged. Here we record them as an inline
	// struct with no properties yet and stash the operands via Variant
	// so resolve.go can find them (reusing the Variant slot is safe: an
	// intersection never also needs to be a union at the same position).
	return Type{Kind: TypeAnonymousStruct, Variant: merged}, nil
}

func (p *parser) parsePostfix() (Type, error) {
	base, err := p.parsePrimaryType()
	if err != nil {
		return Type{}, err
	}
	for p.lx.NextMatches(lexer.Symbol, symLBracket) {
		p.lx.Next()
		if _, err := p.lx.Expect(lexer.Symbol, symRBracket); err != nil {
			return Type{}, err
		}
		base.Array = true
	}
	return base, nil
}

func (p *parser) parsePrimaryType() (Type, error) {
	t := p.lx.Peek()
	switch {
	case t.Kind == lexer.Symbol && t.Code == symLBrace:
		props, err := p.parseStructBody()
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: TypeAnonymousStruct, Struct: props}, nil

	case t.Kind == lexer.Symbol && t.Code == symLParen:
		p.lx.Next()
		inner, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		if _, err := p.lx.Expect(lexer.Symbol, symRParen); err != nil {
			return Type{}, err
		}
		return inner, nil

	case t.Kind == lexer.QuotedString:
		p.lx.Next()
		return Type{Kind: TypeConstant, Constant: unquote(t.Text)}, nil

	case t.Kind == lexer.Number:
		p.lx.Next()
		n, err := strconv.ParseInt(t.Text, 0, 64)
		if err != nil {
			return Type{}, errs.NewParserError(t.Loc.ToErrLocation(), "bad numeric literal type %q", t.Text)
		}
		return Type{Kind: TypeConstant, Constant: n}, nil

	case t.Kind == lexer.Keyword:
		p.lx.Next()
		switch t.Code {
		case kwString:
			return Type{Kind: TypeBasic, Basic: "string"}, nil
		case kwBoolean:
			return Type{Kind: TypeBasic, Basic: "boolean"}, nil
		case kwInteger:
			return Type{Kind: TypeBasic, Basic: "integer"}, nil
		case kwUinteger:
			return Type{Kind: TypeBasic, Basic: "uinteger"}, nil
		case kwDecimal:
			return Type{Kind: TypeBasic, Basic: "decimal"}, nil
		case kwNull:
			return Type{Kind: TypeBasic, Basic: "null"}, nil
		case kwLSPAny:
			return Type{Kind: TypeBasic, Basic: "LSPAny"}, nil
		default:
			return Type{}, errs.NewParserError(t.Loc.ToErrLocation(), "unexpected keyword %q in type position", t.Text)
		}

	case t.Kind == lexer.Identifier:
		p.lx.Next()
		name := t.Text
		for p.lx.NextMatches(lexer.Symbol, symDot) {
			p.lx.Next()
			prop, err := p.lx.Expect(lexer.Identifier, -1)
			if err != nil {
				return Type{}, err
			}
			name = name + "." + prop.Text
		}
		if IsBuiltin(name) {
			return Type{Kind: TypeBasic, Basic: name}, nil
		}
		return Type{Kind: TypeNamed, Named: name}, nil

	default:
		return Type{}, errs.NewParserError(t.Loc.ToErrLocation(), "unexpected token %q in type position", t.Text)
	}
}

// ModuleNameFromPath derives a module name from a source file path
// (e.g. "lsp-subset.d.ts" -> "lsp_subset"), since §3's Module only
// requires *a* name, not a specific derivation rule.
func ModuleNameFromPath(path string) string {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	base = strings.TrimSuffix(base, ".d.ts")
	base = strings.TrimSuffix(base, ".ts")
	return strings.NewReplacer("-", "_", ".", "_").Replace(base)
}
