package template

import (
	"strings"

	"github.com/scribble-lang/scribble/internal/errs"
)

// Program is a parsed template ready to be rendered.
type Program struct {
	Nodes  []*Node
	macros map[string]*Node
}

// Parse parses src into a Program. Text outside `@…@` markers is literal;
// `\` escapes the following character (§4.2).
func Parse(src string) (*Program, error) {
	p := &parser{src: src}
	nodes, tag, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	if tag != "" {
		return nil, errs.NewTemplateError(errs.Location{}, "unexpected %q with no matching opening block", tag)
	}
	prog := &Program{Nodes: nodes, macros: map[string]*Node{}}
	collectMacros(nodes, prog.macros)
	return prog, nil
}

func collectMacros(nodes []*Node, out map[string]*Node) {
	for _, n := range nodes {
		if n.Kind == NodeMacro {
			out[n.MacroName] = n
		}
		collectMacros(n.Then, out)
		collectMacros(n.Else, out)
		collectMacros(n.Body, out)
		for _, c := range n.Cases {
			collectMacros(c.Body, out)
		}
	}
}

type parser struct {
	src string
	pos int
}

// parseUntil scans nodes until EOF or a block-closing/continuing tag
// (`else`, `end`, or `case ...`), returning that tag's raw text (without
// the surrounding `@%`/`%@;` markers) so the caller can dispatch on it,
// or "" at EOF.
func (p *parser) parseUntil() ([]*Node, string, error) {
	var nodes []*Node
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, &Node{Kind: NodeText, Text: text.String()})
			text.Reset()
		}
	}

	for p.pos < len(p.src) {
		rest := p.src[p.pos:]
		switch {
		case strings.HasPrefix(rest, "\\"):
			if p.pos+1 < len(p.src) {
				text.WriteByte(p.src[p.pos+1])
				p.pos += 2
			} else {
				p.pos++
			}

		case strings.HasPrefix(rest, "@="):
			flush()
			p.pos += len("@=")
			body, err := p.readUntil("=@")
			if err != nil {
				return nil, "", err
			}
			e, err := parseExpr(strings.TrimSpace(body))
			if err != nil {
				return nil, "", err
			}
			nodes = append(nodes, &Node{Kind: NodeInterp, Expr: e})

		case strings.HasPrefix(rest, "@#"):
			flush()
			p.pos += len("@#")
			if _, err := p.readUntil("#@"); err != nil {
				return nil, "", err
			}

		case strings.HasPrefix(rest, "@%"):
			flush()
			p.pos += len("@%")
			tag, err := p.readUntil("%@;")
			if err != nil {
				return nil, "", err
			}
			tag = strings.TrimSpace(tag)
			kw, rest2 := splitKeyword(tag)
			switch kw {
			case "else", "end":
				return nodes, kw, nil
			case "case":
				return nodes, tag, nil
			case "if":
				node, err := p.parseIf(rest2)
				if err != nil {
					return nil, "", err
				}
				nodes = append(nodes, node)
			case "for":
				node, err := p.parseFor(rest2)
				if err != nil {
					return nil, "", err
				}
				nodes = append(nodes, node)
			case "switch":
				node, err := p.parseSwitch(rest2)
				if err != nil {
					return nil, "", err
				}
				nodes = append(nodes, node)
			case "set":
				node, err := parseSet(rest2)
				if err != nil {
					return nil, "", err
				}
				nodes = append(nodes, node)
			case "macro":
				node, err := p.parseMacro(rest2)
				if err != nil {
					return nil, "", err
				}
				nodes = append(nodes, node)
			case "call":
				node, err := parseCall(rest2)
				if err != nil {
					return nil, "", err
				}
				nodes = append(nodes, node)
			default:
				return nil, "", errs.NewTemplateError(errs.Location{}, "unknown control keyword %q", kw)
			}

		default:
			text.WriteByte(p.src[p.pos])
			p.pos++
		}
	}
	flush()
	return nodes, "", nil
}

// readUntil consumes and returns everything up to (not including) delim,
// advancing past delim itself. p.pos must already be past any opening
// marker.
func (p *parser) readUntil(delim string) (string, error) {
	idx := strings.Index(p.src[p.pos:], delim)
	if idx < 0 {
		return "", errs.NewTemplateError(errs.Location{}, "unterminated block, expected %q", delim)
	}
	body := p.src[p.pos : p.pos+idx]
	p.pos += idx + len(delim)
	return body, nil
}

func splitKeyword(tag string) (kw, rest string) {
	fields := strings.SplitN(tag, " ", 2)
	kw = fields[0]
	if len(fields) > 1 {
		rest = strings.TrimSpace(fields[1])
	}
	return
}

func (p *parser) parseIf(condSrc string) (*Node, error) {
	cond, err := parseExpr(condSrc)
	if err != nil {
		return nil, err
	}
	then, tag, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	n := &Node{Kind: NodeIf, Expr: cond, Then: then}
	if tag == "else" {
		elseBody, tag2, err := p.parseUntil()
		if err != nil {
			return nil, err
		}
		if tag2 != "end" {
			return nil, errs.NewTemplateError(errs.Location{}, "expected 'end' to close if/else, got %q", tag2)
		}
		n.Else = elseBody
	} else if tag != "end" {
		return nil, errs.NewTemplateError(errs.Location{}, "expected 'end' to close if, got %q", tag)
	}
	return n, nil
}

func (p *parser) parseFor(spec string) (*Node, error) {
	// "K, V in EXPR" or "V in EXPR"
	inIdx := strings.Index(spec, " in ")
	if inIdx < 0 {
		return nil, errs.NewTemplateError(errs.Location{}, "malformed for-loop header %q", spec)
	}
	vars := strings.Split(spec[:inIdx], ",")
	exprSrc := strings.TrimSpace(spec[inIdx+len(" in "):])
	e, err := parseExpr(exprSrc)
	if err != nil {
		return nil, err
	}
	n := &Node{Kind: NodeFor, ForExpr: e}
	if len(vars) == 2 {
		n.ForKey = strings.TrimSpace(vars[0])
		n.ForVal = strings.TrimSpace(vars[1])
	} else {
		n.ForVal = strings.TrimSpace(vars[0])
	}
	body, tag, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	if tag != "end" {
		return nil, errs.NewTemplateError(errs.Location{}, "expected 'end' to close for, got %q", tag)
	}
	n.Body = body
	return n, nil
}

// parseSwitch parses "switch EXPR" followed by one or more
// "@% case EXPR %@;" arms (each consuming body up to the next case or
// end) and a final "@% end %@;".
func (p *parser) parseSwitch(subjSrc string) (*Node, error) {
	subj, err := parseExpr(subjSrc)
	if err != nil {
		return nil, err
	}
	n := &Node{Kind: NodeSwitch, Expr: subj}

	// The text between "switch" and the first "case" is discarded (the
	// grammar has no meaningful content there); parseUntil stops at the
	// first case/end tag it meets.
	_, tag, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	for strings.HasPrefix(tag, "case") {
		_, caseExprSrc := splitKeyword(tag)
		caseExpr, err := parseExpr(caseExprSrc)
		if err != nil {
			return nil, err
		}
		body, nextTag, err := p.parseUntil()
		if err != nil {
			return nil, err
		}
		n.Cases = append(n.Cases, CaseClause{Expr: caseExpr, Body: body})
		tag = nextTag
	}
	if tag != "end" {
		return nil, errs.NewTemplateError(errs.Location{}, "expected 'end' to close switch, got %q", tag)
	}
	return n, nil
}

func parseSet(spec string) (*Node, error) {
	eq := strings.Index(spec, "=")
	if eq < 0 {
		return nil, errs.NewTemplateError(errs.Location{}, "malformed set statement %q", spec)
	}
	name := strings.TrimSpace(spec[:eq])
	e, err := parseExpr(strings.TrimSpace(spec[eq+1:]))
	if err != nil {
		return nil, err
	}
	return &Node{Kind: NodeSet, SetName: name, Expr: e}, nil
}

func (p *parser) parseMacro(spec string) (*Node, error) {
	name, params, err := parseSignature(spec)
	if err != nil {
		return nil, err
	}
	body, tag, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	if tag != "end" {
		return nil, errs.NewTemplateError(errs.Location{}, "expected 'end' to close macro, got %q", tag)
	}
	return &Node{Kind: NodeMacro, MacroName: name, MacroParams: params, Body: body}, nil
}

func parseSignature(spec string) (name string, params []MacroParam, err error) {
	open := strings.Index(spec, "(")
	close_ := strings.LastIndex(spec, ")")
	if open < 0 || close_ < open {
		return "", nil, errs.NewTemplateError(errs.Location{}, "malformed macro/call signature %q", spec)
	}
	name = strings.TrimSpace(spec[:open])
	inner := strings.TrimSpace(spec[open+1 : close_])
	if inner == "" {
		return name, nil, nil
	}
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		colon := strings.Index(part, ":")
		if colon < 0 {
			return "", nil, errs.NewTemplateError(errs.Location{}, "macro parameter %q missing type", part)
		}
		params = append(params, MacroParam{
			Name: strings.TrimSpace(part[:colon]),
			Type: strings.TrimSpace(part[colon+1:]),
		})
	}
	return name, params, nil
}

func parseCall(spec string) (*Node, error) {
	open := strings.Index(spec, "(")
	close_ := strings.LastIndex(spec, ")")
	if open < 0 || close_ < open {
		return nil, errs.NewTemplateError(errs.Location{}, "malformed call %q", spec)
	}
	name := strings.TrimSpace(spec[:open])
	inner := strings.TrimSpace(spec[open+1 : close_])
	var args []*Expr
	if inner != "" {
		for _, part := range strings.Split(inner, ",") {
			e, err := parseExpr(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
	}
	return &Node{Kind: NodeCall, CallName: name, CallArgs: args}, nil
}
