package loadlevel

// Mode selects the enforcement direction of a guard.
type Mode uint8

const (
	// ModeTriggers only allows the ceiling to decrease. This is the default
	// for any call site that may recurse into loading.
	ModeTriggers Mode = iota
	// ModeOverride allows the ceiling to be raised. Reserved for loader
	// roots where recursion back into the same chain is structurally
	// impossible.
	ModeOverride
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	switch m {
	case ModeTriggers:
		return "triggers"
	case ModeOverride:
		return "override"
	default:
		return "unknown"
	}
}

// Record describes one live guard on a worker's trace stack.
type Record struct {
	Site     Site
	Mode     Mode
	MaxLevel Level // ceiling the guard installed
}

// Snapshot is an opaque copy of the restorable part of a State. It never
// includes the trace stack, which belongs to the guards themselves.
type Snapshot struct {
	maxLevel   Level
	suppressed Mask
}

// Reporter receives ordering-violation reports. What happens after a report
// (abort, log, collect) is the caller's policy, not this package's.
type Reporter interface {
	ReportViolation(msg string, chain []Record, site Site)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(msg string, chain []Record, site Site)

func (f ReporterFunc) ReportViolation(msg string, chain []Record, site Site) {
	f(msg, chain, site)
}

// State is the per-worker load-level record: the current ceiling, the
// suppression mask, and the stack of live guard records. A State must only
// ever be used from the goroutine that owns it; ownership is by convention
// and no locking is done.
//
// A nil *State is the disabled form: every operation on it, including guard
// acquisition, is a no-op. Code built against a nil State behaves identically
// modulo the missing checks.
type State struct {
	maxLevel   Level
	suppressed Mask
	trace      []Record
	reporter   Reporter
}

// NewState returns a State with the ceiling fully open (LevelLoaded) and no
// suppressions. reporter may be nil, in which case violations are dropped.
func NewState(reporter Reporter) *State {
	return &State{
		maxLevel: LevelLoaded,
		reporter: reporter,
	}
}

// MaxLevel returns the current ceiling.
func (s *State) MaxLevel() Level {
	if s == nil {
		return LevelLoaded
	}
	return s.maxLevel
}

// Suppress opens a one-shot suppression window for v. The next guard whose
// check would report v instead proceeds silently; entering any guard re-arms
// ViolationLoadsType (see Acquire).
func (s *State) Suppress(v Violation) {
	if s == nil || v >= violationCount {
		return
	}
	s.suppressed = s.suppressed.with(v)
}

// Suppressed reports whether v is currently suppressed.
func (s *State) Suppressed(v Violation) bool {
	if s == nil {
		return false
	}
	return s.suppressed.Has(v)
}

// Depth returns the number of live guards.
func (s *State) Depth() int {
	if s == nil {
		return 0
	}
	return len(s.trace)
}

// Chain returns a copy of the live guard records, innermost first.
func (s *State) Chain() []Record {
	if s == nil || len(s.trace) == 0 {
		return nil
	}
	out := make([]Record, len(s.trace))
	for i, r := range s.trace {
		out[len(s.trace)-1-i] = r
	}
	return out
}

// snapshot copies the restorable fields. The trace stack is deliberately
// excluded: guards pop their own record on release.
func (s *State) snapshot() Snapshot {
	return Snapshot{maxLevel: s.maxLevel, suppressed: s.suppressed}
}

// restore overwrites the restorable fields from snap. Called only by guard
// release, in strict LIFO order.
func (s *State) restore(snap Snapshot) {
	s.maxLevel = snap.maxLevel
	s.suppressed = snap.suppressed
}
