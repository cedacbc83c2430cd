package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/scribble-lang/scribble/internal/errs"
)

// scope is one link in the lexical chain used while rendering: macro
// bodies and for-loop bodies each push a fresh scope, `set` binds into
// the innermost one, and lookups walk outward to the context root.
type scope struct {
	vars   map[string]interface{}
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: map[string]interface{}{}, parent: parent}
}

func (s *scope) get(name string) (interface{}, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *scope) set(name string, v interface{}) { s.vars[name] = v }

type renderer struct {
	prog *Program
	out  strings.Builder
}

// Render evaluates prog against ctx (a JSON-shaped value: maps, slices,
// strings, numbers, bools, nil) and returns the generated text (§4.2).
func Render(prog *Program, ctx map[string]interface{}) (string, error) {
	r := &renderer{prog: prog}
	root := newScope(nil)
	for k, v := range ctx {
		root.set(k, v)
	}
	if err := r.renderNodes(prog.Nodes, root); err != nil {
		return "", err
	}
	return r.out.String(), nil
}

func (r *renderer) renderNodes(nodes []*Node, sc *scope) error {
	for _, n := range nodes {
		if err := r.renderNode(n, sc); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderNode(n *Node, sc *scope) error {
	switch n.Kind {
	case NodeText:
		r.out.WriteString(n.Text)
		return nil

	case NodeInterp:
		v, err := evalExpr(n.Expr, sc)
		if err != nil {
			return err
		}
		r.out.WriteString(stringify(v))
		return nil

	case NodeIf:
		v, err := evalExpr(n.Expr, sc)
		if err != nil {
			return err
		}
		if truthy(v) {
			return r.renderNodes(n.Then, newScope(sc))
		}
		return r.renderNodes(n.Else, newScope(sc))

	case NodeFor:
		return r.renderFor(n, sc)

	case NodeSwitch:
		return r.renderSwitch(n, sc)

	case NodeSet:
		v, err := evalExpr(n.Expr, sc)
		if err != nil {
			return err
		}
		sc.set(n.SetName, v)
		return nil

	case NodeMacro:
		// Declarations produce no output; the body is only rendered via `call`.
		return nil

	case NodeCall:
		return r.renderCall(n, sc)

	default:
		return errs.NewTemplateError(errs.Location{}, "unhandled node kind %d", n.Kind)
	}
}

func (r *renderer) renderFor(n *Node, sc *scope) error {
	iter, err := evalExpr(n.ForExpr, sc)
	if err != nil {
		return err
	}
	switch v := iter.(type) {
	case []interface{}:
		for i, elem := range v {
			inner := newScope(sc)
			if n.ForKey != "" {
				inner.set(n.ForKey, int32(i))
			}
			inner.set(n.ForVal, elem)
			if err := r.renderNodes(n.Body, inner); err != nil {
				return err
			}
		}
		return nil
	case map[string]interface{}:
		for k, val := range v {
			inner := newScope(sc)
			if n.ForKey != "" {
				inner.set(n.ForKey, k)
			}
			inner.set(n.ForVal, val)
			if err := r.renderNodes(n.Body, inner); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return nil
	default:
		return errs.NewTemplateError(errs.Location{}, "cannot iterate over %T", iter)
	}
}

func (r *renderer) renderSwitch(n *Node, sc *scope) error {
	subj, err := evalExpr(n.Expr, sc)
	if err != nil {
		return err
	}
	for _, c := range n.Cases {
		cv, err := evalExpr(c.Expr, sc)
		if err != nil {
			return err
		}
		if equalValues(subj, cv) {
			return r.renderNodes(c.Body, newScope(sc))
		}
	}
	return nil
}

func (r *renderer) renderCall(n *Node, sc *scope) error {
	macro, ok := r.prog.macros[n.CallName]
	if !ok {
		return errs.NewTemplateError(errs.Location{}, "call to undeclared macro %q", n.CallName)
	}
	if len(n.CallArgs) != len(macro.MacroParams) {
		return errs.NewTemplateError(errs.Location{}, "macro %q expects %d arguments, got %d",
			n.CallName, len(macro.MacroParams), len(n.CallArgs))
	}
	inner := newScope(nil) // macro bodies are not closures over the call site
	for i, param := range macro.MacroParams {
		v, err := evalExpr(n.CallArgs[i], sc)
		if err != nil {
			return err
		}
		if err := checkParamType(param, v); err != nil {
			return err
		}
		inner.set(param.Name, v)
	}
	return r.renderNodes(macro.Body, inner)
}

func checkParamType(param MacroParam, v interface{}) error {
	switch param.Type {
	case "", "any":
		return nil
	case "string":
		if _, ok := v.(string); !ok {
			return errs.NewTemplateError(errs.Location{}, "macro parameter %q expects string, got %T", param.Name, v)
		}
	case "number":
		switch v.(type) {
		case int32, int, int64, float64:
		default:
			return errs.NewTemplateError(errs.Location{}, "macro parameter %q expects number, got %T", param.Name, v)
		}
	case "bool":
		if _, ok := v.(bool); !ok {
			return errs.NewTemplateError(errs.Location{}, "macro parameter %q expects bool, got %T", param.Name, v)
		}
	case "array":
		if _, ok := v.([]interface{}); !ok {
			return errs.NewTemplateError(errs.Location{}, "macro parameter %q expects array, got %T", param.Name, v)
		}
	case "object":
		if _, ok := v.(map[string]interface{}); !ok {
			return errs.NewTemplateError(errs.Location{}, "macro parameter %q expects object, got %T", param.Name, v)
		}
	}
	return nil
}

// evalExpr walks the expression AST, evaluating ident/member/call nodes
// directly against sc and delegating binary/unary operator semantics to
// govaluate: each operand is computed first, then bound as a parameter
// to a tiny "L op R" (or "op V") evaluable, matching §4.2's numeric and
// string coercion rules via govaluate's own operator implementation.
func evalExpr(e *Expr, sc *scope) (interface{}, error) {
	switch e.Kind {
	case ExprLiteral:
		return e.Lit, nil

	case ExprIdent:
		v, ok := sc.get(e.Name)
		if !ok {
			return nil, nil
		}
		return v, nil

	case ExprMember:
		base, err := evalExpr(e.Base, sc)
		if err != nil {
			return nil, err
		}
		obj, ok := base.(map[string]interface{})
		if !ok {
			return nil, errs.NewTemplateError(errs.Location{}, "cannot access member %q of %T", e.Prop, base)
		}
		return obj[e.Prop], nil

	case ExprCall:
		return evalBuiltinCall(e, sc)

	case ExprUnary:
		operand, err := evalExpr(e.Operand, sc)
		if err != nil {
			return nil, err
		}
		return evalUnary(e.Op, operand)

	case ExprBraceUn:
		return evalExpr(e.Operand, sc)

	case ExprBinary:
		left, err := evalExpr(e.Left, sc)
		if err != nil {
			return nil, err
		}
		right, err := evalExpr(e.Right, sc)
		if err != nil {
			return nil, err
		}
		return evalBinary(e.Op, left, right)

	default:
		return nil, errs.NewTemplateError(errs.Location{}, "unhandled expression kind %d", e.Kind)
	}
}

func evalBuiltinCall(e *Expr, sc *scope) (interface{}, error) {
	if e.Callee.Kind != ExprIdent {
		return nil, errs.NewTemplateError(errs.Location{}, "expression calls are only supported on named functions")
	}
	args := make([]interface{}, len(e.Args))
	for i, a := range e.Args {
		v, err := evalExpr(a, sc)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	switch e.Callee.Name {
	case "len":
		if len(args) != 1 {
			return nil, errs.NewTemplateError(errs.Location{}, "len() takes exactly one argument")
		}
		switch v := args[0].(type) {
		case string:
			return int32(len(v)), nil
		case []interface{}:
			return int32(len(v)), nil
		case map[string]interface{}:
			return int32(len(v)), nil
		default:
			return nil, errs.NewTemplateError(errs.Location{}, "len() of unsupported type %T", args[0])
		}
	default:
		return nil, errs.NewTemplateError(errs.Location{}, "unknown function %q", e.Callee.Name)
	}
}

func evalUnary(op string, operand interface{}) (interface{}, error) {
	expr, err := govaluate.NewEvaluableExpression(op + "V")
	if err != nil {
		return nil, errs.NewTemplateError(errs.Location{}, "invalid unary operator %q: %v", op, err)
	}
	result, err := expr.Evaluate(map[string]interface{}{"V": govaluateOperand(operand)})
	if err != nil {
		return nil, errs.NewTemplateError(errs.Location{}, "evaluating unary %q: %v", op, err)
	}
	return normalizeResult(result), nil
}

func evalBinary(op string, left, right interface{}) (interface{}, error) {
	expr, err := govaluate.NewEvaluableExpression("L " + op + " R")
	if err != nil {
		return nil, errs.NewTemplateError(errs.Location{}, "invalid operator %q: %v", op, err)
	}
	result, err := expr.Evaluate(map[string]interface{}{
		"L": govaluateOperand(left),
		"R": govaluateOperand(right),
	})
	if err != nil {
		return nil, errs.NewTemplateError(errs.Location{}, "evaluating %q: %v", op, err)
	}
	return normalizeResult(result), nil
}

// govaluateOperand widens operands to the types govaluate's own operator
// set expects (float64 for numbers), since the template AST stores
// numbers as int32 (§4.2's "32-bit signed").
func govaluateOperand(v interface{}) interface{} {
	switch n := v.(type) {
	case int32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return v
	}
}

// normalizeResult narrows govaluate's float64 results back to int32 when
// the value is integral, keeping the template's number representation
// consistent (§4.2).
func normalizeResult(v interface{}) interface{} {
	if f, ok := v.(float64); ok {
		if f == float64(int32(f)) {
			return int32(f)
		}
		return f
	}
	return v
}

// truthy implements §4.2's exactly: bool true, non-zero number,
// non-empty string/array/object are truthy; null/false are falsy.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case int32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t != ""
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	default:
		return true
	}
}

func equalValues(a, b interface{}) bool {
	res, err := evalBinary("==", a, b)
	if err != nil {
		return false
	}
	eq, _ := res.(bool)
	return eq
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
