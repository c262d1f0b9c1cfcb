package lifecycle

import "time"

// Status is the active variant of a request state.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether the status settles a call.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// State is a snapshot of a Machine.
//
// Invariants:
// - Payload is meaningful only when Status is StatusResolved.
// - Err is non-nil only when Status is StatusRejected.
type State[T any] struct {
	Status     Status
	Payload    T
	Err        error
	Generation uint64
	UpdatedAt  time.Time
}

// Ticket identifies one Start. Settling with a ticket from an older Start is
// ignored.
type Ticket struct {
	generation uint64
}

// Generation returns the generation captured by Start.
func (t Ticket) Generation() uint64 { return t.generation }

// Transition describes an applied state change.
type Transition struct {
	Machine    string
	From       Status
	To         Status
	Generation uint64
	Err        error
	At         time.Time
}

// Observer is called after every applied transition, outside the machine lock.
type Observer func(Transition)
