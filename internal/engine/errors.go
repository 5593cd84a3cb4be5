package engine

import "errors"

// ErrorKind classifies why an expression could not be evaluated.
type ErrorKind int

const (
	KindInvalidChars ErrorKind = iota + 1
	KindMalformed
	KindOperatorEnd
	KindParentheses
	KindCalculation
	KindSyntax
	KindInvalid
)

var kindNames = map[ErrorKind]string{
	KindInvalidChars: "Invalid Chars",
	KindMalformed:    "Malformed",
	KindOperatorEnd:  "Operator End",
	KindParentheses:  "Parentheses",
	KindCalculation:  "Calculation",
	KindSyntax:       "Syntax",
	KindInvalid:      "Invalid",
}

var kindSlugs = map[ErrorKind]string{
	KindInvalidChars: "invalid_chars",
	KindMalformed:    "malformed",
	KindOperatorEnd:  "operator_end",
	KindParentheses:  "parentheses",
	KindCalculation:  "calculation",
	KindSyntax:       "syntax",
	KindInvalid:      "invalid",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindInvalid]
}

// Slug is the snake_case form used for metric attributes and JSON.
func (k ErrorKind) Slug() string {
	if slug, ok := kindSlugs[k]; ok {
		return slug
	}
	return kindSlugs[KindInvalid]
}

// EvalError is returned by Evaluate. Its message is what the calculator
// stores in State.Error.
type EvalError struct {
	Kind       ErrorKind
	Expression string
}

func (e *EvalError) Error() string {
	return "Error: " + e.Kind.String()
}

// Is matches any EvalError of the same kind, so the sentinels below work
// with errors.Is regardless of the expression.
func (e *EvalError) Is(target error) bool {
	var t *EvalError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidChars = &EvalError{Kind: KindInvalidChars}
	ErrMalformed    = &EvalError{Kind: KindMalformed}
	ErrOperatorEnd  = &EvalError{Kind: KindOperatorEnd}
	ErrParentheses  = &EvalError{Kind: KindParentheses}
	ErrCalculation  = &EvalError{Kind: KindCalculation}
	ErrSyntax       = &EvalError{Kind: KindSyntax}
	ErrInvalid      = &EvalError{Kind: KindInvalid}
)

// ErrUnknownKey is returned by ParseKey and Machine.Press for keys outside
// the calculator vocabulary.
var ErrUnknownKey = errors.New("unknown key")

// KindOf reports the kind of an evaluation error, or 0 if err is not one.
func KindOf(err error) ErrorKind {
	var e *EvalError
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newEvalError(kind ErrorKind, expr string) error {
	return &EvalError{Kind: kind, Expression: expr}
}
