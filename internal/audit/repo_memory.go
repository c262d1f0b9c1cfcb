package audit

import (
	"context"
	"sync"
)

// MemoryRepo keeps the most recent events in process memory, bounded like
// RedisRepo. Used with the memory session store and in tests.
type MemoryRepo struct {
	mu     sync.Mutex
	cap    int
	events []Event
}

// NewMemoryRepo returns a repo holding at most capacity events; capacity <= 0
// uses DefaultCapacity.
func NewMemoryRepo(capacity int) *MemoryRepo {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryRepo{cap: capacity}
}

func (r *MemoryRepo) Append(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == r.cap {
		copy(r.events, r.events[1:])
		r.events = r.events[:len(r.events)-1]
	}
	r.events = append(r.events, e)
	return nil
}

// Events returns retained events, oldest first.
func (r *MemoryRepo) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
