// Package engine implements the calculator core: building expressions from
// button presses, evaluating them, and formatting the results for a
// fixed-width display.
package engine

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	TokenInvalid TokenKind = iota
	TokenNumber
	TokenOperator
	TokenLParen
	TokenRParen
)

func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "number"
	case TokenOperator:
		return "operator"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	default:
		return "invalid"
	}
}

// Token is one lexical element of an expression. Pos is the byte offset of
// Text in the source string.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

// End is the byte offset just past the token.
func (t Token) End() int {
	return t.Pos + len(t.Text)
}

func (t Token) isOperator(op byte) bool {
	return t.Kind == TokenOperator && t.Text[0] == op
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isOperator(c byte) bool {
	return c == '+' || c == '-' || c == '*' || c == '/'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// Tokenize splits expr into a flat token list. A number is a maximal run of
// digits and dots; it is not checked for well-formedness here. Whitespace is
// skipped and any other byte becomes a TokenInvalid.
func Tokenize(expr string) []Token {
	var tokens []Token

	for i := 0; i < len(expr); {
		c := expr[i]

		switch {
		case isSpace(c):
			i++
		case isDigit(c) || c == '.':
			start := i
			for i < len(expr) && (isDigit(expr[i]) || expr[i] == '.') {
				i++
			}
			tokens = append(tokens, Token{Kind: TokenNumber, Text: expr[start:i], Pos: start})
		case isOperator(c):
			tokens = append(tokens, Token{Kind: TokenOperator, Text: expr[i : i+1], Pos: i})
			i++
		case c == '(':
			tokens = append(tokens, Token{Kind: TokenLParen, Text: "(", Pos: i})
			i++
		case c == ')':
			tokens = append(tokens, Token{Kind: TokenRParen, Text: ")", Pos: i})
			i++
		default:
			tokens = append(tokens, Token{Kind: TokenInvalid, Text: expr[i : i+1], Pos: i})
			i++
		}
	}

	return tokens
}

// trailingNumber returns the number token that ends expr, if any.
func trailingNumber(expr string, tokens []Token) (Token, bool) {
	if len(tokens) == 0 {
		return Token{}, false
	}
	last := tokens[len(tokens)-1]
	if last.Kind != TokenNumber || last.End() != len(expr) {
		return Token{}, false
	}
	return last, true
}
