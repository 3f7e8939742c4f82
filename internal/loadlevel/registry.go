package loadlevel

import "sync"

// Registry is a process-wide directory of per-worker states. Insertion of a
// first-use entry is safe under concurrency; a single entry is only ever
// mutated by the worker that owns it.
type Registry struct {
	states sync.Map // worker id -> *State
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// For returns the state for the given worker id, creating it on first use.
// reporter is consulted only when the state is created.
func (r *Registry) For(worker int, reporter Reporter) *State {
	if r == nil {
		return nil
	}
	if v, ok := r.states.Load(worker); ok {
		return v.(*State)
	}
	v, _ := r.states.LoadOrStore(worker, NewState(reporter))
	return v.(*State)
}

// Each calls fn for every registered state. Intended for post-run
// inspection, after all workers have finished.
func (r *Registry) Each(fn func(worker int, st *State)) {
	if r == nil {
		return
	}
	r.states.Range(func(k, v any) bool {
		fn(k.(int), v.(*State))
		return true
	})
}
