package calculator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Service runs calculator sessions on top of a session store. Actions on
// one session are applied one at a time.
type Service struct {
	store        session.Store
	displayWidth int
	previewWidth int
	newID        func() string

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock lives in Service.locks while any caller holds or waits on it.
type sessionLock struct {
	sync.Mutex
	refs int
}

type ServiceOption func(*Service)

// WithWidths sets the display and preview widths used by every session.
func WithWidths(display, preview int) ServiceOption {
	return func(s *Service) {
		s.displayWidth = display
		s.previewWidth = preview
	}
}

// WithIDGenerator replaces the uuid session id generator.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		s.newID = fn
	}
}

func NewService(store session.Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:        store,
		displayWidth: engine.DefaultDisplayWidth,
		previewWidth: engine.DefaultPreviewWidth,
		newID:        func() string { return uuid.New().String() },
		locks:        make(map[string]*sessionLock),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// lock serialises actions on one session and returns the unlock func. The
// entry is dropped once its last user unlocks.
func (s *Service) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

func (s *Service) lockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

func (s *Service) machine(state engine.State, opts ...engine.Option) *engine.Machine {
	opts = append([]engine.Option{
		engine.WithDisplayWidth(s.displayWidth),
		engine.WithPreviewWidth(s.previewWidth),
	}, opts...)
	return engine.Restore(state, opts...)
}

// Evaluate computes expr and formats the value for the display.
func (s *Service) Evaluate(ctx context.Context, expr string) (float64, string, error) {
	start := time.Now()
	value, err := engine.Evaluate(expr)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	attrs := metric.WithAttributes(attribute.String("action", "evaluate"))
	actionsCounter.Add(ctx, 1, attrs)
	actionHistogram.Record(ctx, elapsed, attrs)

	if err != nil {
		return 0, "", err
	}

	resultGauge.Record(ctx, value, attrs)
	return value, engine.FormatDisplayValue(value, s.displayWidth), nil
}

// Create opens a new session in the default state.
func (s *Service) Create(ctx context.Context) (string, engine.State, error) {
	id := s.newID()
	state := engine.DefaultState()

	if err := s.store.Save(ctx, id, state); err != nil {
		return "", engine.State{}, fmt.Errorf("create session: %w", err)
	}

	sessionsActive.Add(ctx, 1)
	return id, state, nil
}

func (s *Service) Get(ctx context.Context, id string) (engine.State, error) {
	state, err := s.store.Load(ctx, id)
	if err != nil {
		return engine.State{}, fmt.Errorf("load session: %w", err)
	}
	return state, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	sessionsActive.Add(ctx, -1)
	return nil
}

// Press applies keys to the session in order and saves the result. Every
// key is checked before any is applied, so an unknown key leaves the
// session untouched.
func (s *Service) Press(ctx context.Context, id string, keys []string) (engine.State, error) {
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	// Parent span for the whole batch
	ctx, span := tracer.Start(ctx, "calculator.press",
		trace.WithAttributes(
			attribute.String("calculator.session", id),
			attribute.Int("calculator.keys_count", len(keys)),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	actions := make([]engine.Action, len(keys))
	for i, key := range keys {
		action, err := engine.ParseKey(key)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "unknown key")
			return engine.State{}, err
		}
		actions[i] = action
	}

	unlock := s.lock(id)
	defer unlock()

	state, err := s.store.Load(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load session")
		return engine.State{}, fmt.Errorf("load session: %w", err)
	}

	// Capture evaluator failures so they can be counted by kind.
	var evalErr error
	m := s.machine(state, engine.WithEvaluator(func(expr string) (float64, error) {
		v, err := engine.Evaluate(expr)
		evalErr = err
		return v, err
	}))

	for i, action := range actions {
		key := keys[i]

		// --- Child span per key ---
		_, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.key.%s", action),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", i),
				attribute.String("calculator.key", key),
				attribute.String("calculator.action", action.String()),
			),
		)

		evalErr = nil
		start := time.Now()
		m.Dispatch(action, key)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0

		attrs := metric.WithAttributes(attribute.String("action", action.String()))
		actionsCounter.Add(ctx, 1, attrs)
		actionHistogram.Record(ctx, elapsed, attrs)
		keyPresses.WithLabelValues(action.String()).Inc()

		after := m.State()

		if evalErr != nil {
			kind := engine.KindOf(evalErr)
			keySpan.RecordError(evalErr)
			keySpan.SetStatus(codes.Error, evalErr.Error())
			errorCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("operation", action.String()),
				attribute.String("kind", kind.Slug()),
			))
			logger.Warn("expression evaluation failed",
				zap.String("session_id", id),
				zap.String("action", action.String()),
				zap.String("kind", kind.Slug()),
				zap.String("request_id", requestID),
			)
		} else {
			keySpan.SetStatus(codes.Ok, "")
		}

		if after.IsResultDisplayed && after.JustEvaluated {
			keySpan.AddEvent("result.displayed", trace.WithAttributes(
				attribute.String("display", after.DisplayValue),
			))
			if v, ok := resultValue(after); ok {
				resultGauge.Record(ctx, v, attrs)
			}
		}

		keySpan.End()
	}

	state = m.State()
	if err := s.store.Save(ctx, id, state); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save session")
		return engine.State{}, fmt.Errorf("save session: %w", err)
	}

	span.SetAttributes(attribute.String("calculator.display", state.DisplayValue))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator keys applied",
		zap.String("session_id", id),
		zap.Strings("keys", keys),
		zap.String("display", state.DisplayValue),
		zap.String("request_id", requestID),
	)

	return state, nil
}

// resultValue reads back the number held by a state showing a result.
func resultValue(state engine.State) (float64, bool) {
	v, err := engine.Evaluate(state.InternalExpression)
	if err != nil {
		return 0, false
	}
	return v, true
}
