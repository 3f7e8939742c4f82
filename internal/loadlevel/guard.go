package loadlevel

import "fmt"

// Guard is a live (or inactive) scope on a worker's load-level stack.
// Release must be called exactly once, in reverse acquisition order; defer
// at the acquisition site gives that for free, including on panic unwind.
type Guard interface {
	Release()
}

// nopGuard is the inactive variant. It holds no state and its Release does
// nothing, so disabled or conditional call sites pay nothing at release.
type nopGuard struct{}

func (nopGuard) Release() {}

// Inactive is the shared inactive guard.
var Inactive Guard = nopGuard{}

// levelGuard is the live variant: it retains the pre-acquisition snapshot
// and the trace depth to truncate back to.
type levelGuard struct {
	st    *State
	prev  Snapshot
	depth int
}

// Acquire installs level as the worker's new ceiling for the lifetime of the
// returned guard.
//
// In ModeTriggers, raising the ceiling is a contract violation and is
// reported through the state's Reporter unless a suppression window for
// ViolationLoadsType or ViolationBadState is open. Either way the new
// ceiling is installed, so downstream checks stay consistent.
//
// Acquiring always re-arms ViolationLoadsType: a suppression window opened
// by an outer caller does not leak into the scope this guard protects.
//
// Acquire on a nil State returns Inactive.
func Acquire(st *State, level Level, mode Mode, site Site) Guard {
	if st == nil {
		return Inactive
	}

	prev := st.snapshot()

	if mode == ModeTriggers && level > st.maxLevel {
		if !st.suppressed.Has(ViolationLoadsType) && !st.suppressed.Has(ViolationBadState) {
			if st.reporter != nil {
				msg := fmt.Sprintf("illegal attempt to load a type beyond the current level limit (requested %s, limit %s)",
					level, st.maxLevel)
				st.reporter.ReportViolation(msg, st.Chain(), site)
			}
		}
	}

	st.suppressed = st.suppressed.without(ViolationLoadsType)
	st.maxLevel = level
	depth := len(st.trace)
	st.trace = append(st.trace, Record{Site: site, Mode: mode, MaxLevel: level})

	return &levelGuard{st: st, prev: prev, depth: depth}
}

// AcquireIf is Acquire when active is true and Inactive otherwise. It keeps
// conditional call sites branch-free.
func AcquireIf(active bool, st *State, level Level, mode Mode, site Site) Guard {
	if !active {
		return Inactive
	}
	return Acquire(st, level, mode, site)
}

// Release restores the pre-acquisition ceiling and suppression mask and pops
// this guard's trace record. Inner guards must already be released; the
// truncation assumes strict LIFO order.
func (g *levelGuard) Release() {
	g.st.restore(g.prev)
	if g.depth <= len(g.st.trace) {
		g.st.trace = g.st.trace[:g.depth]
	}
}
