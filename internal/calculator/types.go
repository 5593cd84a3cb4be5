package calculator

import "go-chi-calculator/internal/engine"

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
	Display    string  `json:"display"` // result formatted to the display width
}

// EvaluateError is returned with 422 when the expression cannot be evaluated.
type EvaluateError struct {
	Error string `json:"error"` // e.g. "Error: Malformed"
	Kind  string `json:"kind"`  // e.g. "malformed"
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// SessionResponse is what the display panel of a session shows.
type SessionResponse struct {
	SessionID       string  `json:"session_id"`
	Display         string  `json:"display"`
	Preview         string  `json:"preview"`
	Error           *string `json:"error"`
	ResultDisplayed bool    `json:"result_displayed"`
}

func newSessionResponse(id string, state engine.State) SessionResponse {
	resp := SessionResponse{
		SessionID:       id,
		Display:         state.DisplayValue,
		Preview:         state.ExpressionPreview,
		ResultDisplayed: state.IsResultDisplayed,
	}
	if state.Error != "" {
		msg := state.Error
		resp.Error = &msg
	}
	return resp
}
