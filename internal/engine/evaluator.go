package engine

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Evaluator computes the value of a finished expression.
type Evaluator func(expr string) (float64, error)

// Evaluate validates expr and computes its value. Only numbers, unary minus,
// the four arithmetic operators and parentheses are understood. The checks
// run in a fixed order and the first one to fail decides the error kind.
func Evaluate(expr string) (float64, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return 0, nil
	}

	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if !isDigit(c) && !isOperator(c) && c != '.' && c != '(' && c != ')' && !isSpace(c) {
			return 0, newEvalError(KindInvalidChars, trimmed)
		}
	}

	compact := stripSpaces(trimmed)

	if malformed(compact) {
		return 0, newEvalError(KindMalformed, trimmed)
	}

	if last := compact[len(compact)-1]; isOperator(last) || last == '.' {
		return 0, newEvalError(KindOperatorEnd, trimmed)
	}

	if !balanced(compact) {
		return 0, newEvalError(KindParentheses, trimmed)
	}

	tree, kind := newParser(Tokenize(compact)).parse()
	if kind != 0 {
		return 0, newEvalError(kind, trimmed)
	}

	result, ok := tree.eval()
	if !ok || math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, newEvalError(KindCalculation, trimmed)
	}

	// -0 renders as "0"
	if result == 0 {
		result = 0
	}

	return result, nil
}

func stripSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// malformed reports doubled operators or dots (except "*-" and "/-"), an
// operator right before ")", "(" followed by a binary-only operator, and "()".
func malformed(s string) bool {
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1], s[i]

		prevSym := isOperator(prev) || prev == '.'
		curSym := isOperator(cur) || cur == '.'
		if prevSym && curSym {
			if cur == '-' && (prev == '*' || prev == '/') {
				continue
			}
			return true
		}

		switch {
		case isOperator(prev) && cur == ')':
			return true
		case prev == '(' && (cur == '+' || cur == '*' || cur == '/'):
			return true
		case prev == '(' && cur == ')':
			return true
		}
	}
	return false
}

func balanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// ---------------------------------------------------------------------------
// Expression tree
// ---------------------------------------------------------------------------

type node interface {
	eval() (float64, bool)
}

type numberNode struct {
	value float64
}

func (n *numberNode) eval() (float64, bool) {
	return n.value, true
}

type negateNode struct {
	operand node
}

func (n *negateNode) eval() (float64, bool) {
	v, ok := n.operand.eval()
	return -v, ok
}

type binaryNode struct {
	op          byte
	left, right node
}

func (n *binaryNode) eval() (float64, bool) {
	l, ok := n.left.eval()
	if !ok {
		return 0, false
	}
	r, ok := n.right.eval()
	if !ok {
		return 0, false
	}

	switch n.op {
	case '+':
		return l + r, true
	case '-':
		return l - r, true
	case '*':
		return l * r, true
	case '/':
		if r == 0 {
			return 0, false
		}
		return l / r, true
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// Recursive-descent parser
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = "-" unary | primary
//	primary = number | "(" expr ")"
// ---------------------------------------------------------------------------

// MaxNesting bounds how deeply parentheses and unary minus may nest.
const MaxNesting = 1000

type parser struct {
	tokens []Token
	pos    int
	depth  int
}

// enter descends one nesting level; it reports false past MaxNesting.
func (p *parser) enter() bool {
	p.depth++
	return p.depth <= MaxNesting
}

func (p *parser) leave() {
	p.depth--
}

func newParser(tokens []Token) *parser {
	return &parser{tokens: tokens}
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

// parse returns the tree, or a non-zero kind when the tokens do not form an
// expression.
func (p *parser) parse() (node, ErrorKind) {
	tree, kind := p.expr()
	if kind != 0 {
		return nil, kind
	}

	if tok, ok := p.peek(); ok {
		// An operand directly followed by "(" has the shape of a call.
		if tok.Kind == TokenLParen {
			return nil, KindInvalid
		}
		return nil, KindSyntax
	}

	return tree, 0
}

func (p *parser) expr() (node, ErrorKind) {
	left, kind := p.term()
	if kind != 0 {
		return nil, kind
	}

	for {
		tok, ok := p.peek()
		if !ok || !(tok.isOperator('+') || tok.isOperator('-')) {
			return left, 0
		}
		p.pos++

		right, kind := p.term()
		if kind != 0 {
			return nil, kind
		}
		left = &binaryNode{op: tok.Text[0], left: left, right: right}
	}
}

func (p *parser) term() (node, ErrorKind) {
	left, kind := p.unary()
	if kind != 0 {
		return nil, kind
	}

	for {
		tok, ok := p.peek()
		if !ok || !(tok.isOperator('*') || tok.isOperator('/')) {
			return left, 0
		}
		p.pos++

		right, kind := p.unary()
		if kind != 0 {
			return nil, kind
		}
		left = &binaryNode{op: tok.Text[0], left: left, right: right}
	}
}

func (p *parser) unary() (node, ErrorKind) {
	tok, ok := p.peek()
	if ok && tok.isOperator('-') {
		p.pos++
		within := p.enter()
		defer p.leave()
		if !within {
			return nil, KindSyntax
		}
		operand, kind := p.unary()
		if kind != 0 {
			return nil, kind
		}
		return &negateNode{operand: operand}, 0
	}
	return p.primary()
}

func (p *parser) primary() (node, ErrorKind) {
	tok, ok := p.peek()
	if !ok {
		return nil, KindSyntax
	}

	switch tok.Kind {
	case TokenNumber:
		p.pos++
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, KindSyntax
		}
		return &numberNode{value: v}, 0

	case TokenLParen:
		p.pos++
		within := p.enter()
		defer p.leave()
		if !within {
			return nil, KindSyntax
		}
		inner, kind := p.expr()
		if kind != 0 {
			return nil, kind
		}
		closing, ok := p.peek()
		if !ok || closing.Kind != TokenRParen {
			return nil, KindSyntax
		}
		p.pos++
		return inner, 0
	}

	return nil, KindSyntax
}
