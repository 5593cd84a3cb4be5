package engine

import (
	"math"
	"strconv"
	"strings"
)

const ellipsis = "..."

// FormatNumber renders v the way the display expects numbers to look:
// shortest round-trip digits, switching to exponent notation below 1e-6 and
// from 1e21 upwards, with an unpadded exponent ("1e-7", "1e+21").
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatExponential renders v with exactly digits fractional digits in
// exponent notation.
func formatExponential(v float64, digits int) string {
	return trimExponent(strconv.FormatFloat(v, 'e', digits, 64))
}

// trimExponent turns Go's "1.5e-07" into "1.5e-7".
func trimExponent(s string) string {
	idx := strings.IndexByte(s, 'e')
	if idx < 0 || idx+2 > len(s) {
		return s
	}

	mantissa, sign, exp := s[:idx], s[idx+1], strings.TrimLeft(s[idx+2:], "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + string(sign) + exp
}

// FormatDisplayValue fits v into maxLength characters. Values whose plain
// rendering is too long switch to exponent notation with as many digits as
// fit; values too small for that are cut off.
func FormatDisplayValue(v float64, maxLength int) string {
	s := FormatNumber(v)
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 0 {
		return ""
	}

	digits := maxLength - 7
	finite := !math.IsNaN(v) && !math.IsInf(v, 0)
	if finite && digits >= 0 && math.Abs(v) > math.Pow(10, -float64(digits)) {
		exp := formatExponential(v, digits)
		if len(exp) > maxLength {
			digits = maxLength - (len(exp) - maxLength) - 7
			if digits < 0 {
				return s[:maxLength]
			}
			exp = formatExponential(v, digits)
		}
		if len(exp) > maxLength {
			return exp[:maxLength]
		}
		return exp
	}

	return s[:maxLength]
}

// FormatExpressionPreview keeps the tail of expr, prefixed with "...", when
// it does not fit into maxLength characters.
func FormatExpressionPreview(expr string, maxLength int) string {
	if len(expr) <= maxLength {
		return expr
	}
	if maxLength <= len(ellipsis) {
		return ellipsis[:max(maxLength, 0)]
	}
	return ellipsis + expr[len(expr)-(maxLength-len(ellipsis)):]
}

// isLiteral reports whether s can be stored as an expression: an optional
// leading minus followed by digits and at most one dot.
func isLiteral(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	if s == "" || s == "." {
		return false
	}

	dots := 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '.':
			dots++
		case !isDigit(s[i]):
			return false
		}
	}
	return dots <= 1
}

// expressionLiteral picks the text stored as the expression after a result:
// the formatted text when it is a plain number, else v in full decimal form.
func expressionLiteral(formatted string, v float64) string {
	if isLiteral(formatted) {
		return formatted
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
