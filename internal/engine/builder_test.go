package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDecimalPoint(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"empty expression gets leading zero", "", "0."},
		{"after a number", "123", "123."},
		{"after an operator", "123+", "123+0."},
		{"after open paren", "(", "(0."},
		{"segment already has a dot", "1.23", "1.23"},
		{"only the last segment counts", "1.5+2", "1.5+2."},
		{"after close paren is rejected", "(5)", "(5)"},
		{"lone zero", "0", "0."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Build(tc.expr, displayFor(tc.expr), false, ".")
			assert.Equal(t, tc.want, got.Expression)
			assert.Equal(t, displayFor(tc.want), got.Display)
			assert.False(t, got.IsResult)
		})
	}
}

func TestBuildConsecutiveOperators(t *testing.T) {
	tests := []struct {
		expr  string
		token string
		want  string
	}{
		{"5+", "*", "5*"},
		{"5*", "-", "5*-"},
		{"10/", "-", "10/-"},
		{"5-", "+", "5+"},
		{"5+", "+", "5+"},
		{"5+", "-", "5-"},
		{"5-", "-", "5-"},
		{"5*-", "+", "5+"},
		{"5/-", "*", "5*"},
		{"5*-", "-", "5*-"},
		{"(-", "*", "(-"},
		{"(-", "-", "(-"},
	}

	for _, tc := range tests {
		t.Run(tc.expr+tc.token, func(t *testing.T) {
			got := Build(tc.expr, tc.expr, false, tc.token)
			assert.Equal(t, tc.want, got.Expression)
		})
	}
}

func TestBuildAfterResult(t *testing.T) {
	t.Run("operator continues from the result", func(t *testing.T) {
		got := Build("anyOldExpr", "10", true, "+")
		assert.Equal(t, Entry{Expression: "10+", Display: "10+"}, got)
	})

	t.Run("digit starts over", func(t *testing.T) {
		got := Build("anyOldExpr", "10", true, "5")
		assert.Equal(t, Entry{Expression: "5", Display: "5"}, got)
	})

	t.Run("dot starts over with a zero", func(t *testing.T) {
		got := Build("anyOldExpr", "10", true, ".")
		assert.Equal(t, Entry{Expression: "0.", Display: "0."}, got)
	})

	t.Run("exponent display continues from the stored literal", func(t *testing.T) {
		got := Build("999999998000000000", "9.999999980e+17", true, "*")
		assert.Equal(t, "999999998000000000*", got.Expression)
	})
}

func TestBuildLengthCap(t *testing.T) {
	long := strings.Repeat("1", MaxInputLength)

	got := Build(long, long, false, "5")
	assert.Equal(t, long, got.Expression)

	got = Build(long, long, false, "+")
	assert.Equal(t, long, got.Expression)

	got = Build(long, long, false, "(")
	assert.Equal(t, long+"(", got.Expression)

	got = Build(long+"(", long+"(", false, ")")
	assert.Equal(t, long+"()", got.Expression)
}

func TestBuildAppendRules(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		token string
		want  string
	}{
		{"leading zero replaced by digit", "0", "5", "5"},
		{"leading zero kept before operator", "0", "+", "0+"},
		{"implicit multiplication after paren", "(2+3)", "5", "(2+3)*5"},
		{"implicit multiplication before new group", "(2+3)", "(", "(2+3)*("},
		{"nested groups close without multiplication", "(2+(3)", ")", "(2+(3))"},
		{"operator after close paren", "(2+3)", "-", "(2+3)-"},
		{"binary operator after open paren rejected", "(", "*", "("},
		{"minus after open paren allowed", "(", "-", "(-"},
		{"digits append", "12", "3", "123"},
		{"operator appends", "123", "+", "123+"},
		{"digit after operator", "123+", "4", "123+4"},
		{"first token", "", "7", "7"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Build(tc.expr, displayFor(tc.expr), false, tc.token)
			assert.Equal(t, tc.want, got.Expression)
			assert.Equal(t, displayFor(tc.want), got.Display)
		})
	}
}

func TestBuildRejectionKeepsDisplay(t *testing.T) {
	got := Build("1.5", "custom", false, ".")
	assert.Equal(t, Entry{Expression: "1.5", Display: "custom"}, got)
}

func TestIsInputToken(t *testing.T) {
	for _, tok := range []string{"0", "9", ".", "+", "-", "*", "/", "(", ")"} {
		assert.True(t, IsInputToken(tok), tok)
	}
	for _, tok := range []string{"", "a", "=", "%", "C", "12", "+/-"} {
		assert.False(t, IsInputToken(tok), tok)
	}
}
