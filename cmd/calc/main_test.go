package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chi-calculator/internal/engine"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestEvalCommand(t *testing.T) {
	out, err := execute(t, "", "eval", "(2+3)*4")
	require.NoError(t, err)
	assert.Equal(t, "20\n", out)
}

func TestEvalCommandJoinsArgs(t *testing.T) {
	out, err := execute(t, "", "eval", "10", "/", "4")
	require.NoError(t, err)
	assert.Equal(t, "2.5\n", out)
}

func TestEvalCommandError(t *testing.T) {
	_, err := execute(t, "", "eval", "2++3")
	require.ErrorIs(t, err, engine.ErrMalformed)
	assert.Equal(t, "Error: Malformed", err.Error())
}

func TestEvalCommandWidth(t *testing.T) {
	out, err := execute(t, "", "eval", "123456789", "--width", "6")
	require.NoError(t, err)
	assert.Equal(t, "123456\n", out)
}

func TestKeysCommand(t *testing.T) {
	out, err := execute(t, "", "keys", "9", "*", "9", "=")
	require.NoError(t, err)
	assert.Equal(t, "9*9=\n81\n", out)
}

func TestKeysCommandShowsError(t *testing.T) {
	out, err := execute(t, "", "keys", "5", "/", "0", "=")
	require.NoError(t, err)
	assert.Equal(t, "5/0=\nError: Calculation\n", out)
}

func TestKeysCommandUnknownKey(t *testing.T) {
	_, err := execute(t, "", "keys", "1", "sqrt")
	assert.ErrorIs(t, err, engine.ErrUnknownKey)
}

func TestReplCommand(t *testing.T) {
	stdin := "1 + 2\n=\nbogus\n\n* 3 =\nquit\n7\n"

	out, err := execute(t, stdin, "repl")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "1+2", lines[0])
	assert.Equal(t, "1+2=", lines[1])
	assert.Equal(t, "3", lines[2])
	assert.Contains(t, lines[3], "unknown key")
	assert.Equal(t, "3*3=", lines[4])
	assert.Equal(t, "9", lines[5])
}

func TestVerboseFlagBuildsLogger(t *testing.T) {
	_, err := execute(t, "", "--verbose", "eval", "1+1")
	assert.NoError(t, err)
}
