package engine

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ErrorDisplay is what the display shows while an error is recorded.
	ErrorDisplay = "Error"

	DefaultDisplayWidth = 16
	DefaultPreviewWidth = 24
)

// State is the complete calculator state. An empty Error means no error.
type State struct {
	InternalExpression string `json:"internal_expression"`
	DisplayValue       string `json:"display_value"`
	ExpressionPreview  string `json:"expression_preview"`
	IsResultDisplayed  bool   `json:"is_result_displayed"`
	JustEvaluated      bool   `json:"just_evaluated"`
	Error              string `json:"error,omitempty"`
}

// DefaultState is the state of a freshly created or cleared calculator.
func DefaultState() State {
	return State{DisplayValue: "0"}
}

// Action is what a key press asks the machine to do.
type Action int

const (
	ActionInput Action = iota + 1
	ActionCalculate
	ActionClear
	ActionDelete
	ActionToggleSign
	ActionPercent
)

func (a Action) String() string {
	switch a {
	case ActionInput:
		return "input"
	case ActionCalculate:
		return "calculate"
	case ActionClear:
		return "clear"
	case ActionDelete:
		return "delete"
	case ActionToggleSign:
		return "toggle_sign"
	case ActionPercent:
		return "percent"
	default:
		return "unknown"
	}
}

// ParseKey maps a key label to its action. Input tokens map to ActionInput.
func ParseKey(key string) (Action, error) {
	switch key {
	case "C":
		return ActionClear, nil
	case "DEL", "Backspace":
		return ActionDelete, nil
	case "+/-":
		return ActionToggleSign, nil
	case "%":
		return ActionPercent, nil
	case "=", "Enter":
		return ActionCalculate, nil
	}
	if IsInputToken(key) {
		return ActionInput, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Machine owns a calculator State and applies user actions to it. It is not
// safe for concurrent use; callers serialise actions on one Machine.
type Machine struct {
	state        State
	displayWidth int
	previewWidth int
	evaluate     Evaluator
}

type Option func(*Machine)

// WithDisplayWidth sets the maximum length of a formatted result.
func WithDisplayWidth(n int) Option {
	return func(m *Machine) {
		m.displayWidth = n
	}
}

// WithPreviewWidth sets the maximum length of the expression preview.
func WithPreviewWidth(n int) Option {
	return func(m *Machine) {
		m.previewWidth = n
	}
}

// WithEvaluator replaces Evaluate, mainly for tests.
func WithEvaluator(fn Evaluator) Option {
	return func(m *Machine) {
		m.evaluate = fn
	}
}

// NewMachine returns a machine in the default state.
func NewMachine(opts ...Option) *Machine {
	return Restore(DefaultState(), opts...)
}

// Restore returns a machine continuing from a previously saved state.
func Restore(state State, opts ...Option) *Machine {
	m := &Machine{
		state:        state,
		displayWidth: DefaultDisplayWidth,
		previewWidth: DefaultPreviewWidth,
		evaluate:     Evaluate,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

func (m *Machine) formatDisplay(v float64) string {
	return FormatDisplayValue(v, m.displayWidth)
}

func (m *Machine) formatPreview(expr string) string {
	return FormatExpressionPreview(expr, m.previewWidth)
}

// Press dispatches a key from the calculator's vocabulary.
func (m *Machine) Press(key string) error {
	action, err := ParseKey(key)
	if err != nil {
		return err
	}
	m.Dispatch(action, key)
	return nil
}

// Dispatch runs action; token is only used by ActionInput.
func (m *Machine) Dispatch(action Action, token string) {
	switch action {
	case ActionInput:
		m.HandleInput(token)
	case ActionCalculate:
		m.Calculate()
	case ActionClear:
		m.ClearAll()
	case ActionDelete:
		m.DeleteLast()
	case ActionToggleSign:
		m.ToggleSign()
	case ActionPercent:
		m.ApplyPercentage()
	}
}

// clearError drops a recorded error and puts the expression back on the
// display.
func (m *Machine) clearError() {
	if m.state.Error == "" && m.state.DisplayValue != ErrorDisplay {
		return
	}
	m.state.Error = ""
	m.state.DisplayValue = displayFor(m.state.InternalExpression)
}

func (m *Machine) setEntry(e Entry) {
	m.state.InternalExpression = e.Expression
	m.state.DisplayValue = e.Display
	m.state.IsResultDisplayed = e.IsResult
}

// HandleInput applies one input token. Tokens outside the input vocabulary
// are ignored.
func (m *Machine) HandleInput(token string) {
	if !IsInputToken(token) {
		return
	}

	m.clearError()
	m.state.JustEvaluated = false

	e := Build(m.state.InternalExpression, m.state.DisplayValue, m.state.IsResultDisplayed, token)
	if !e.IsResult {
		m.state.ExpressionPreview = ""
	}
	m.setEntry(e)
}

// Calculate evaluates the expression and shows the result, or records the
// error.
func (m *Machine) Calculate() {
	m.clearError()

	expr := m.state.InternalExpression
	if isBlank(expr) {
		return
	}
	if m.state.JustEvaluated && m.showsValueOf(expr) {
		return
	}

	m.state.ExpressionPreview = m.formatPreview(expr + "=")

	value, err := m.evaluate(expr)
	if err != nil {
		m.state.Error = err.Error()
		m.state.DisplayValue = ErrorDisplay
		m.state.IsResultDisplayed = false
		return
	}

	formatted := m.formatDisplay(value)
	m.state.DisplayValue = formatted
	m.state.InternalExpression = expressionLiteral(formatted, value)
	m.state.IsResultDisplayed = true
	m.state.JustEvaluated = true
}

// showsValueOf reports whether the display already shows expr, either
// verbatim or as the formatted value of the literal stored for it.
func (m *Machine) showsValueOf(expr string) bool {
	if expr == m.state.DisplayValue {
		return true
	}
	if !isLiteral(expr) {
		return false
	}
	v, err := strconv.ParseFloat(expr, 64)
	if err != nil {
		return false
	}
	return m.formatDisplay(v) == m.state.DisplayValue
}

// ClearAll resets the machine to the default state.
func (m *Machine) ClearAll() {
	m.state = DefaultState()
}

// DeleteLast removes the last character of the expression. While a result
// is displayed it clears everything instead.
func (m *Machine) DeleteLast() {
	m.clearError()
	m.state.JustEvaluated = false

	if m.state.IsResultDisplayed {
		m.ClearAll()
		return
	}

	expr := m.state.InternalExpression
	if expr != "" {
		expr = expr[:len(expr)-1]
	}

	m.state.InternalExpression = expr
	m.state.DisplayValue = displayFor(expr)
	m.state.ExpressionPreview = ""
	m.state.IsResultDisplayed = false
}

// ToggleSign flips the sign of the trailing term. An error stays on the
// display until it is cleared by editing.
func (m *Machine) ToggleSign() {
	m.state.JustEvaluated = false
	if m.state.DisplayValue == ErrorDisplay {
		return
	}

	// The display shows a formatted value rather than the expression, as
	// after a result; keep it formatted to the display width.
	formatted := m.state.IsResultDisplayed || m.state.DisplayValue != displayFor(m.state.InternalExpression)

	e := ToggleSign(m.state.InternalExpression, m.state.DisplayValue, m.state.IsResultDisplayed)
	if formatted && isLiteral(e.Expression) {
		if v, err := strconv.ParseFloat(e.Expression, 64); err == nil {
			e.Display = m.formatDisplay(v)
		}
	}
	m.setEntry(e)
	if !e.IsResult {
		m.state.ExpressionPreview = ""
	}
}

// ApplyPercentage replaces the expression by its value divided by 100. It
// does nothing while an error is shown or the expression is blank.
func (m *Machine) ApplyPercentage() {
	if m.state.DisplayValue == ErrorDisplay || isBlank(m.state.InternalExpression) {
		m.state.JustEvaluated = false
		return
	}

	m.clearError()
	m.state.JustEvaluated = false

	res := applyPercent(m.state.InternalExpression, m.evaluate, m.formatDisplay, m.formatPreview)
	if res.Err != nil {
		m.state.Error = res.Err.Error()
		m.state.DisplayValue = ErrorDisplay
		m.state.IsResultDisplayed = false
		return
	}

	m.setEntry(res.Entry)
	if res.IsResult {
		m.state.ExpressionPreview = res.Preview
		m.state.JustEvaluated = true
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
