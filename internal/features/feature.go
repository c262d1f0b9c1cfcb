// Package features binds remote operations to lifecycle machines.
//
// Every feature exposes the same contract: Trigger starts the machine, runs the
// request and settles the machine, and also hands the outcome back to the
// caller; Reset returns the machine to idle; State reads the current snapshot.
package features

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"society-platform/internal/lifecycle"
	"society-platform/internal/metrics"
)

// ErrInvalidInput is returned when trigger input fails to decode or validate.
// The machine is not touched in that case.
var ErrInvalidInput = errors.New("features: invalid input")

// ErrRequestPanic is recorded on the machine when a request function panics.
// The panic itself is re-raised to the caller.
var ErrRequestPanic = errors.New("features: request panicked")

// None is the input type of features that take no input.
type None struct{}

// Scope carries advisory identifiers used to scope a request. Empty fields
// are absent and must simply be left out of the request.
type Scope struct {
	UserID     string
	SocietyID  string
	BuildingID string
}

// ScopeFunc resolves the scope for a request.
type ScopeFunc func(ctx context.Context) Scope

// RequestFunc performs the remote call behind a feature.
type RequestFunc[I, T any] func(ctx context.Context, scope Scope, in I) (T, error)

// Env holds the dependencies shared by all features.
type Env struct {
	Scope   ScopeFunc
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Feature is one remote operation with its own lifecycle machine.
type Feature[I, T any] struct {
	name    string
	machine *lifecycle.Machine[T]
	request RequestFunc[I, T]
	scope   ScopeFunc
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type validator interface {
	Validate() error
}

// New returns an idle feature.
func New[I, T any](name string, env Env, request RequestFunc[I, T]) *Feature[I, T] {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := env.Metrics
	if m == nil {
		m = metrics.New(false, nil)
	}

	logger = logger.With("feature", name)
	machine := lifecycle.New[T](name,
		lifecycle.WithObserver(m.ObserveTransition),
		lifecycle.WithObserver(func(tr lifecycle.Transition) {
			logger.Debug("lifecycle transition",
				"from", tr.From,
				"to", tr.To,
				"generation", tr.Generation,
			)
		}),
	)

	return &Feature[I, T]{
		name:    name,
		machine: machine,
		request: request,
		scope:   env.Scope,
		logger:  logger,
		metrics: m,
	}
}

// Name returns the feature name.
func (f *Feature[I, T]) Name() string { return f.name }

// State returns the current lifecycle snapshot.
func (f *Feature[I, T]) State() lifecycle.State[T] { return f.machine.State() }

// Reset returns the feature to idle, dropping the result of any call in flight.
func (f *Feature[I, T]) Reset() { f.machine.Reset() }

// Trigger runs the feature. The outcome is recorded on the machine unless a
// newer Trigger or a Reset superseded this call; either way it is returned to
// the caller. A panicking request rejects the machine with ErrRequestPanic
// before the panic propagates.
func (f *Feature[I, T]) Trigger(ctx context.Context, in I) (T, error) {
	var zero T
	if v, ok := any(in).(validator); ok {
		if err := v.Validate(); err != nil {
			return zero, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	start := time.Now()
	ticket := f.machine.Start()

	defer func() {
		if r := recover(); r != nil {
			f.machine.Fail(ticket, fmt.Errorf("%w: %v", ErrRequestPanic, r))
			f.metrics.ObserveTrigger(f.name, "panic", time.Since(start).Seconds())
			f.logger.Error("feature request panicked", "panic", r)
			panic(r)
		}
	}()

	var scope Scope
	if f.scope != nil {
		scope = f.scope(ctx)
	}

	out, err := f.request(ctx, scope, in)

	var applied bool
	outcome := "resolved"
	if err != nil {
		applied = f.machine.Fail(ticket, err)
		outcome = "rejected"
	} else {
		applied = f.machine.Succeed(ticket, out)
	}
	if !applied {
		outcome = "superseded"
		f.logger.Debug("result dropped", "generation", ticket.Generation())
	}
	f.metrics.ObserveTrigger(f.name, outcome, time.Since(start).Seconds())

	if err != nil {
		f.logger.Warn("feature request failed", "err", err)
		return zero, err
	}
	return out, nil
}

// Snapshot is a type-erased view of a feature state, shaped for rendering.
// Settled is true once the latest call resolved or rejected.
type Snapshot struct {
	Name       string           `json:"name"`
	Status     lifecycle.Status `json:"status"`
	Settled    bool             `json:"settled"`
	Payload    any              `json:"payload,omitempty"`
	Error      string           `json:"error,omitempty"`
	Generation uint64           `json:"generation"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Snapshot returns the current state as a Snapshot.
func (f *Feature[I, T]) Snapshot() Snapshot {
	s := f.machine.State()
	out := Snapshot{
		Name:       f.name,
		Status:     s.Status,
		Settled:    s.Status.Terminal(),
		Generation: s.Generation,
		UpdatedAt:  s.UpdatedAt,
	}
	switch s.Status {
	case lifecycle.StatusResolved:
		out.Payload = s.Payload
	case lifecycle.StatusRejected:
		if s.Err != nil {
			out.Error = s.Err.Error()
		}
	}
	return out
}

// TriggerJSON decodes raw as the feature input and triggers it. Features that
// take None ignore raw.
func (f *Feature[I, T]) TriggerJSON(ctx context.Context, raw []byte) (any, error) {
	var in I
	if _, none := any(in).(None); !none && len(raw) > 0 {
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return f.Trigger(ctx, in)
}
