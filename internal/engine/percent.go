package engine

// PercentResult is the outcome of ApplyPercent. Err is set when the
// expression could not be evaluated; Preview is only meaningful when
// Entry.IsResult is true.
type PercentResult struct {
	Entry
	Preview string
	Err     error
}

// ApplyPercent evaluates the whole expression and divides the value by 100.
func ApplyPercent(expr string, formatDisplay func(float64) string, formatPreview func(string) string) PercentResult {
	return applyPercent(expr, Evaluate, formatDisplay, formatPreview)
}

func applyPercent(expr string, evaluate Evaluator, formatDisplay func(float64) string, formatPreview func(string) string) PercentResult {
	if isBlank(expr) {
		return PercentResult{Entry: Entry{Expression: "", Display: "0"}}
	}

	value, err := evaluate(expr)
	if err != nil {
		return PercentResult{
			Entry: Entry{Expression: expr, Display: ErrorDisplay},
			Err:   err,
		}
	}

	percent := value / 100
	formatted := formatDisplay(percent)

	return PercentResult{
		Entry: Entry{
			Expression: expressionLiteral(formatted, percent),
			Display:    formatted,
			IsResult:   true,
		},
		Preview: formatPreview("(" + expr + ")%"),
	}
}
