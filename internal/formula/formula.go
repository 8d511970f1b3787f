// Package formula compiles and evaluates the small arithmetic expressions used
// for formation slot coordinates.
//
// Grammar:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/" | "%") unary }
//	unary   = ("-" | "+") unary | primary
//	primary = number | ident | ident "(" [ expr { "," expr } ] ")" | "(" expr ")"
//
// Identifiers resolve against the Env passed to Eval. A "Math." prefix on
// function names and on PI is accepted and ignored, so plugin-style formulas
// such as "Math.floor(i / 2) * 3" compile unchanged.
package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrSyntax is returned by Compile for malformed expressions.
	ErrSyntax = errors.New("formula syntax error")
	// ErrUnknownIdent is returned by Eval when a variable is not bound.
	ErrUnknownIdent = errors.New("unknown identifier")
	// ErrDivideByZero is returned by Eval for x/0 and x%0.
	ErrDivideByZero = errors.New("division by zero")
)

// Env binds variable names to values for one evaluation.
type Env map[string]float64

// Expr is a compiled expression. It is immutable and safe to evaluate repeatedly.
type Expr struct {
	src  string
	root node
}

// String returns the source text the expression was compiled from.
func (e *Expr) String() string {
	return e.src
}

// Eval evaluates the expression against env.
func (e *Expr) Eval(env Env) (float64, error) {
	v, err := e.root.eval(env)
	if err != nil {
		return 0, fmt.Errorf("eval %q: %w", e.src, err)
	}
	return v, nil
}

// Variables returns the distinct variable names referenced by the expression.
func (e *Expr) Variables() []string {
	seen := make(map[string]bool)
	var names []string
	walk(e.root, func(n node) {
		if v, ok := n.(varNode); ok && !seen[string(v)] {
			seen[string(v)] = true
			names = append(names, string(v))
		}
	})
	return names
}

// Compile parses src into an Expr. An empty (or all-space) source compiles to 0.
func Compile(src string) (*Expr, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return &Expr{src: src, root: numNode(0)}, nil
	}

	toks, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, p.peek().text, p.peek().pos)
	}
	return &Expr{src: src, root: root}, nil
}

// Eval compiles and evaluates src in one step.
func Eval(src string, env Env) (float64, error) {
	e, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return e.Eval(env)
}

// ---------------------------------------------------------------------------
// tokens

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokKind
	text string
	num  float64
	pos  int
}

func tokenize(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := rune(s[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
				i++
			}
			// exponent part, e.g. 1e3
			if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
				j := i + 1
				if j < len(s) && (s[j] == '+' || s[j] == '-') {
					j++
				}
				if j < len(s) && s[j] >= '0' && s[j] <= '9' {
					i = j
					for i < len(s) && s[i] >= '0' && s[i] <= '9' {
						i++
					}
				}
			}
			v, err := strconv.ParseFloat(s[start:i], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q at offset %d", ErrSyntax, s[start:i], start)
			}
			toks = append(toks, token{kind: tokNum, text: s[start:i], num: v, pos: start})
		case c == '_' || unicode.IsLetter(c):
			start := i
			for i < len(s) && (s[i] == '_' || s[i] == '.' || unicode.IsLetter(rune(s[i])) || unicode.IsDigit(rune(s[i]))) {
				i++
			}
			name := strings.TrimPrefix(s[start:i], "Math.")
			if strings.Contains(name, ".") {
				return nil, fmt.Errorf("%w: unsupported member access %q at offset %d", ErrSyntax, s[start:i], start)
			}
			toks = append(toks, token{kind: tokIdent, text: name, pos: start})
		case strings.ContainsRune("+-*/%", c):
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrSyntax, c, i)
		}
	}
	toks = append(toks, token{kind: tokEOF, text: "end of input", pos: len(s)})
	return toks, nil
}

// ---------------------------------------------------------------------------
// parser

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binNode{op: t.text[0], l: left, r: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/" && t.text != "%") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binNode{op: t.text[0], l: left, r: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			return negNode{x: operand}, nil
		}
		return operand, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		return numNode(t.num), nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokRParen {
			return nil, fmt.Errorf("%w: missing ')' for '(' at offset %d", ErrSyntax, t.pos)
		}
		return inner, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(t)
		}
		if t.text == "PI" {
			return numNode(math.Pi), nil
		}
		return varNode(t.text), nil
	default:
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, t.text, t.pos)
	}
}

func (p *parser) parseCall(name token) (node, error) {
	fn, ok := functions[name.text]
	if !ok {
		return nil, fmt.Errorf("%w: unknown function %q at offset %d", ErrSyntax, name.text, name.pos)
	}
	p.next() // (

	var args []node
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if p.next().kind != tokRParen {
		return nil, fmt.Errorf("%w: missing ')' in call to %s", ErrSyntax, name.text)
	}
	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return nil, fmt.Errorf("%w: %s takes %s arguments, got %d", ErrSyntax, name.text, fn.arity(), len(args))
	}
	return callNode{name: name.text, fn: fn.apply, args: args}, nil
}

// ---------------------------------------------------------------------------
// functions

type function struct {
	minArgs int
	maxArgs int // -1 = variadic
	apply   func(args []float64) float64
}

func (f function) arity() string {
	switch {
	case f.maxArgs < 0:
		return fmt.Sprintf("at least %d", f.minArgs)
	case f.minArgs == f.maxArgs:
		return strconv.Itoa(f.minArgs)
	default:
		return fmt.Sprintf("%d to %d", f.minArgs, f.maxArgs)
	}
}

func unary(f func(float64) float64) function {
	return function{minArgs: 1, maxArgs: 1, apply: func(a []float64) float64 { return f(a[0]) }}
}

var functions = map[string]function{
	"abs":   unary(math.Abs),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	// JS Math.round rounds .5 towards +Inf
	"round": unary(func(x float64) float64 { return math.Floor(x + 0.5) }),
	"trunc": unary(math.Trunc),
	"sqrt":  unary(math.Sqrt),
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"min": {minArgs: 1, maxArgs: -1, apply: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {minArgs: 1, maxArgs: -1, apply: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}},
	"pow": {minArgs: 2, maxArgs: 2, apply: func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
}

// ---------------------------------------------------------------------------
// AST

type node interface {
	eval(env Env) (float64, error)
}

type numNode float64

func (n numNode) eval(Env) (float64, error) { return float64(n), nil }

type varNode string

func (n varNode) eval(env Env) (float64, error) {
	v, ok := env[string(n)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownIdent, string(n))
	}
	return v, nil
}

type negNode struct{ x node }

func (n negNode) eval(env Env) (float64, error) {
	v, err := n.x.eval(env)
	return -v, err
}

type binNode struct {
	op   byte
	l, r node
}

func (n binNode) eval(env Env) (float64, error) {
	l, err := n.l.eval(env)
	if err != nil {
		return 0, err
	}
	r, err := n.r.eval(env)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		if r == 0 {
			return 0, ErrDivideByZero
		}
		return l / r, nil
	case '%':
		if r == 0 {
			return 0, ErrDivideByZero
		}
		return math.Mod(l, r), nil
	}
	return 0, fmt.Errorf("%w: operator %q", ErrSyntax, n.op)
}

type callNode struct {
	name string
	fn   func([]float64) float64
	args []node
}

func (n callNode) eval(env Env) (float64, error) {
	vals := make([]float64, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(env)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}
	return n.fn(vals), nil
}

func walk(n node, visit func(node)) {
	visit(n)
	switch t := n.(type) {
	case negNode:
		walk(t.x, visit)
	case binNode:
		walk(t.l, visit)
		walk(t.r, visit)
	case callNode:
		for _, a := range t.args {
			walk(a, visit)
		}
	}
}
