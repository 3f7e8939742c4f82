package loadlevel

import "fmt"

// Level is one phase of the incremental type-loading pipeline.
// Higher values denote later, more complete phases.
type Level uint8

const (
	// LevelUnloaded means no descriptor exists yet.
	LevelUnloaded Level = iota // nothing done
	// LevelCreated means a descriptor has been allocated from metadata.
	LevelCreated
	// LevelApproxParents means the base type is resolved approximately
	// (handle only, layout unknown).
	LevelApproxParents
	// LevelExactParents means the base type and interfaces are fully resolved.
	LevelExactParents
	// LevelDependencies means field and element types are resolved.
	LevelDependencies
	// LevelLoaded is the final phase: the type is usable.
	LevelLoaded
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelUnloaded:
		return "unloaded"
	case LevelCreated:
		return "created"
	case LevelApproxParents:
		return "approx-parents"
	case LevelExactParents:
		return "exact-parents"
	case LevelDependencies:
		return "dependencies"
	case LevelLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "unloaded":
		return LevelUnloaded, nil
	case "created":
		return LevelCreated, nil
	case "approx-parents":
		return LevelApproxParents, nil
	case "exact-parents":
		return LevelExactParents, nil
	case "dependencies":
		return LevelDependencies, nil
	case "loaded":
		return LevelLoaded, nil
	default:
		return LevelUnloaded, fmt.Errorf("invalid load level: %q (expected: unloaded|created|approx-parents|exact-parents|dependencies|loaded)", s)
	}
}
