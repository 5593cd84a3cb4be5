package engine

import "strings"

// MaxInputLength caps the expression length; parentheses may still be
// appended beyond it.
const MaxInputLength = 20

// Entry is the editable part of the calculator state: the expression, what
// the display shows for it, and whether that is a finished result.
type Entry struct {
	Expression string
	Display    string
	IsResult   bool
}

// IsInputToken reports whether token belongs to the input vocabulary
// accepted by Build.
func IsInputToken(token string) bool {
	if len(token) != 1 {
		return false
	}
	c := token[0]
	return isDigit(c) || isOperator(c) || c == '.' || c == '(' || c == ')'
}

func lastByte(s string) byte {
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}

func isParenToken(token string) bool {
	return token == "(" || token == ")"
}

func isOperatorToken(token string) bool {
	return len(token) == 1 && isOperator(token[0])
}

// displayFor mirrors an expression on the display.
func displayFor(expr string) string {
	if expr == "" {
		return "0"
	}
	return expr
}

// Build applies one input token to the current expression. Rejected input
// returns the entry unchanged.
func Build(expr, display string, isResult bool, token string) Entry {
	unchanged := Entry{Expression: expr, Display: display, IsResult: isResult}

	if isResult {
		var next string
		switch {
		case isOperatorToken(token):
			base := display
			if !isLiteral(base) {
				base = expr
			}
			next = base + token
		case token == ".":
			next = "0."
		default:
			next = token
		}
		return Entry{Expression: next, Display: next}
	}

	if len(expr) >= MaxInputLength && !isParenToken(token) {
		return unchanged
	}

	var next string
	switch last := lastByte(expr); {
	case token == ".":
		var ok bool
		next, ok = appendDot(expr)
		if !ok {
			return unchanged
		}

	case isOperatorToken(token) && isOperator(last):
		var ok bool
		next, ok = replaceOperator(expr, token[0])
		if !ok {
			return unchanged
		}

	case expr == "0" && !isOperatorToken(token) && !isParenToken(token):
		next = token

	case last == ')' && !isOperatorToken(token) && token != ")":
		next = expr + "*" + token

	case last == '(' && isOperatorToken(token) && token != "-":
		return unchanged

	default:
		next = expr + token
	}

	return Entry{Expression: next, Display: displayFor(next)}
}

// appendDot adds a decimal point to the operand being typed, inserting a
// leading zero when no digit precedes it.
func appendDot(expr string) (string, bool) {
	if num, ok := trailingNumber(expr, Tokenize(expr)); ok {
		if strings.Contains(num.Text, ".") {
			return expr, false
		}
		return expr + ".", true
	}

	last := lastByte(expr)
	if expr == "" || isOperator(last) || last == '(' {
		return expr + "0.", true
	}

	// After ")" there is no operand to extend.
	return expr, false
}

// replaceOperator swaps the trailing operator for op. A minus after "*" or
// "/" is kept as a negative sign instead.
func replaceOperator(expr string, op byte) (string, bool) {
	last := lastByte(expr)
	if op == '-' && (last == '*' || last == '/') {
		return expr + "-", true
	}

	base := expr[:len(expr)-1]
	// "5*-" followed by "+" replaces the whole "*-" pair.
	if last == '-' && op != '-' {
		if prev := lastByte(base); prev == '*' || prev == '/' {
			base = base[:len(base)-1]
		}
	}

	if op != '-' && lastByte(base) == '(' {
		return expr, false
	}
	return base + string(op), true
}
