package engine

// ToggleSign flips the sign of the trailing numeric term of expr, or of the
// whole value when expr is a single number. It is a no-op while the display
// shows an error or the default zero.
func ToggleSign(expr, display string, isResult bool) Entry {
	if display == ErrorDisplay || display == "0" {
		return Entry{Expression: expr, Display: display, IsResult: isResult}
	}

	next, ok := toggleWhole(expr, isResult)
	if !ok && isResult {
		next, ok = toggleWhole(display, isResult)
	}
	if !ok {
		next, ok = toggleTrailing(expr)
	}
	if !ok {
		next = expr
	}

	return Entry{Expression: next, Display: displayFor(next)}
}

// wholeNumber matches N, -N and (-N), returning the digits of N and whether
// the value is negative.
func wholeNumber(tokens []Token) (string, bool, bool) {
	switch {
	case len(tokens) == 1 && tokens[0].Kind == TokenNumber:
		return tokens[0].Text, false, true
	case len(tokens) == 2 && tokens[0].isOperator('-') && tokens[1].Kind == TokenNumber:
		return tokens[1].Text, true, true
	case len(tokens) == 4 && tokens[0].Kind == TokenLParen && tokens[1].isOperator('-') &&
		tokens[2].Kind == TokenNumber && tokens[3].Kind == TokenRParen:
		return tokens[2].Text, true, true
	}
	return "", false, false
}

func toggleWhole(expr string, isResult bool) (string, bool) {
	digits, negative, ok := wholeNumber(Tokenize(expr))
	if !ok || !isLiteral(digits) {
		return "", false
	}

	switch {
	case negative:
		return digits, true
	case isResult:
		return "-" + digits, true
	default:
		return "(-" + digits + ")", true
	}
}

// opensTerm reports whether a term may start right after tokens[i]: at the
// start of the expression, after an operator, or after "(".
func opensTerm(tokens []Token, i int) bool {
	if i < 0 {
		return true
	}
	k := tokens[i].Kind
	return k == TokenOperator || k == TokenLParen
}

func toggleTrailing(expr string) (string, bool) {
	tokens := Tokenize(expr)
	n := len(tokens)

	// ...(-N) becomes ...N
	if n >= 4 && tokens[n-1].Kind == TokenRParen && tokens[n-2].Kind == TokenNumber &&
		tokens[n-3].isOperator('-') && tokens[n-4].Kind == TokenLParen && opensTerm(tokens, n-5) {
		return expr[:tokens[n-4].Pos] + tokens[n-2].Text, true
	}

	num, ok := trailingNumber(expr, tokens)
	if !ok {
		return "", false
	}

	// A unary minus directly before the number, as in 5*-3 or (-3, is dropped.
	if n >= 2 && tokens[n-2].isOperator('-') && opensTerm(tokens, n-3) {
		return expr[:tokens[n-2].Pos] + num.Text, true
	}

	if opensTerm(tokens, n-2) {
		return expr[:num.Pos] + "(-" + num.Text + ")", true
	}
	return "", false
}
