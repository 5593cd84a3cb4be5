package calculator

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MaxBodyBytes caps calculator request bodies.
const MaxBodyBytes = 64 << 10

// Handler serves the calculator HTTP endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ---------------------------------------------------------------------------
// Handler: stateless evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("calculator.operation", "evaluate"),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req EvaluateRequest
	if status, msg, err := decodeBody(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", msg, err, status, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.expression", req.Expression))

	start := time.Now()
	result, display, err := h.svc.Evaluate(ctx, req.Expression)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		var evalErr *engine.EvalError
		if !errors.As(err, &evalErr) {
			observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "evaluation failed", err, http.StatusInternalServerError, w)
			return
		}

		kind := evalErr.Kind.Slug()
		observability.RecordFailure(ctx, span, logger, errorCounter, "evaluate", err.Error(), err,
			attribute.String("kind", kind),
		)
		handlers.WriteJSON(w, http.StatusUnprocessableEntity, EvaluateError{
			Error: err.Error(),
			Kind:  kind,
		})
		return
	}

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("expression evaluated",
		zap.String("expression", req.Expression),
		zap.Float64("result", result),
		zap.String("display", display),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Expression: req.Expression,
		Result:     result,
		Display:    display,
	})
}

// ---------------------------------------------------------------------------
// Handlers: sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	id, state, err := h.svc.Create(ctx)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create_session", "could not create session", err, http.StatusInternalServerError, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.session", id))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", id),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusCreated, newSessionResponse(id, state))
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.get",
		trace.WithAttributes(attribute.String("calculator.session", id)),
	)
	defer span.End()

	state, err := h.svc.Get(ctx, id)
	if err != nil {
		writeSessionError(w, r.WithContext(ctx), span, logger, "get_session", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, newSessionResponse(id, state))
}

// PressKeys handles POST /calculator/sessions/{id}/keys. The batch is
// rejected with 400 if any key is unknown.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	span := trace.SpanFromContext(ctx)
	id := chi.URLParam(r, "id")

	var req KeysRequest
	if status, msg, err := decodeBody(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press_keys", msg, err, status, w)
		return
	}

	state, err := h.svc.Press(ctx, id, req.Keys)
	if err != nil {
		writeSessionError(w, r, span, logger, "press_keys", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, newSessionResponse(id, state))
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(attribute.String("calculator.session", id)),
	)
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		writeSessionError(w, r.WithContext(ctx), span, logger, "delete_session", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.WriteHeader(http.StatusNoContent)
}

// decodeBody reads at most MaxBodyBytes of JSON into dst. On failure it
// returns the status and message to answer with.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) (int, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, "request body too large", err
		}
		return http.StatusBadRequest, "invalid request body", err
	}
	return 0, "", nil
}

// writeSessionError maps service errors onto HTTP statuses.
func writeSessionError(w http.ResponseWriter, r *http.Request, span trace.Span, logger *zap.Logger, opName string, err error) {
	ctx := r.Context()

	switch {
	case errors.Is(err, session.ErrNotFound):
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session not found", err, http.StatusNotFound, w)
	case errors.Is(err, engine.ErrUnknownKey):
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
	default:
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session storage failed", err, http.StatusInternalServerError, w)
	}
}
