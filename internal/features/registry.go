package features

import (
	"context"
	"sort"
	"sync"
)

// Runner is the type-erased feature contract used by the HTTP layer.
type Runner interface {
	Name() string
	TriggerJSON(ctx context.Context, raw []byte) (any, error)
	Snapshot() Snapshot
	Reset()
}

var _ Runner = (*Feature[None, int])(nil)

// Registry indexes features by name.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]Runner
}

func NewRegistry(runners ...Runner) *Registry {
	r := &Registry{runners: make(map[string]Runner, len(runners))}
	for _, rn := range runners {
		r.Register(rn)
	}
	return r
}

// Register adds or replaces a feature.
func (r *Registry) Register(rn Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[rn.Name()] = rn
}

// Get returns the named feature.
func (r *Registry) Get(name string) (Runner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rn, ok := r.runners[name]
	return rn, ok
}

// Names returns registered feature names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.runners))
	for name := range r.runners {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ResetAll returns every feature to idle, e.g. on logout.
func (r *Registry) ResetAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rn := range r.runners {
		rn.Reset()
	}
}
