// Package lifecycle implements the idle/pending/resolved/rejected state machine
// that wraps every remote call.
//
// A Machine is reusable indefinitely. Each Start advances a generation counter;
// Succeed and Fail only apply when the machine is pending and the ticket is
// from the latest Start, so a late response from a superseded or reset call
// cannot overwrite newer state.
package lifecycle

import (
	"sync"
	"time"
)

// Machine tracks the lifecycle of one remote operation.
type Machine[T any] struct {
	name      string
	clock     func() time.Time
	observers []Observer

	mu    sync.Mutex
	state State[T]
}

// Option configures a Machine.
type Option func(*config)

type config struct {
	clock     func() time.Time
	observers []Observer
}

// WithObserver registers an observer for applied transitions.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.clock = now }
}

// New returns an idle Machine.
func New[T any](name string, opts ...Option) *Machine[T] {
	cfg := config{clock: time.Now}
	for _, o := range opts {
		o(&cfg)
	}
	return &Machine[T]{
		name:      name,
		clock:     cfg.clock,
		observers: cfg.observers,
		state:     State[T]{Status: StatusIdle, UpdatedAt: cfg.clock()},
	}
}

// Name returns the machine name.
func (m *Machine[T]) Name() string { return m.name }

// State returns the current snapshot.
func (m *Machine[T]) State() State[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start moves the machine to pending from any state, discarding any previous
// payload or error, and returns the ticket that may settle this call.
func (m *Machine[T]) Start() Ticket {
	m.mu.Lock()
	from := m.state.Status
	m.state = State[T]{
		Status:     StatusPending,
		Generation: m.state.Generation + 1,
		UpdatedAt:  m.clock(),
	}
	tr := m.transition(from)
	m.mu.Unlock()

	m.notify(tr)
	return Ticket{generation: tr.Generation}
}

// Succeed resolves the call identified by t. It reports false and changes
// nothing if the machine is not pending or t has been superseded.
func (m *Machine[T]) Succeed(t Ticket, payload T) bool {
	m.mu.Lock()
	if !m.settleable(t) {
		m.mu.Unlock()
		return false
	}
	m.state.Status = StatusResolved
	m.state.Payload = payload
	m.state.UpdatedAt = m.clock()
	tr := m.transition(StatusPending)
	m.mu.Unlock()

	m.notify(tr)
	return true
}

// Fail rejects the call identified by t. It reports false and changes nothing
// if the machine is not pending or t has been superseded.
func (m *Machine[T]) Fail(t Ticket, err error) bool {
	m.mu.Lock()
	if !m.settleable(t) {
		m.mu.Unlock()
		return false
	}
	m.state.Status = StatusRejected
	m.state.Err = err
	m.state.UpdatedAt = m.clock()
	tr := m.transition(StatusPending)
	m.mu.Unlock()

	m.notify(tr)
	return true
}

// Reset returns the machine to idle from any state. Calls still in flight are
// superseded and their results dropped.
func (m *Machine[T]) Reset() {
	m.mu.Lock()
	from := m.state.Status
	m.state = State[T]{
		Status:     StatusIdle,
		Generation: m.state.Generation + 1,
		UpdatedAt:  m.clock(),
	}
	tr := m.transition(from)
	m.mu.Unlock()

	m.notify(tr)
}

func (m *Machine[T]) settleable(t Ticket) bool {
	return m.state.Status == StatusPending && t.generation == m.state.Generation
}

// transition must be called with mu held, after state has been updated.
func (m *Machine[T]) transition(from Status) Transition {
	return Transition{
		Machine:    m.name,
		From:       from,
		To:         m.state.Status,
		Generation: m.state.Generation,
		Err:        m.state.Err,
		At:         m.state.UpdatedAt,
	}
}

func (m *Machine[T]) notify(tr Transition) {
	for _, o := range m.observers {
		o(tr)
	}
}
