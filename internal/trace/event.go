package trace

import "time"

// Scope indicates the granularity level of the event.
// Lower numeric values represent higher-level/coarser events.
type Scope uint8

const (
	// ScopeRun represents a whole load run (highest level).
	ScopeRun Scope = iota + 1
	// ScopeModule represents per-module processing.
	ScopeModule
	// ScopeType represents per-type load progress.
	ScopeType
	// ScopeStep represents single phase advances (most detailed).
	ScopeStep
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeModule:
		return "module"
	case ScopeType:
		return "type"
	case ScopeStep:
		return "step"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time   time.Time // wall-clock timestamp
	Scope  Scope     // granularity level
	Name   string    // e.g., "module:core", "type:String"
	Detail string    // optional detail message
}
