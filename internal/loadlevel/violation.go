package loadlevel

// Violation is one category of ordering-contract breach.
type Violation uint8

const (
	// ViolationLoadsType covers attempts to load a type past the current
	// ceiling inside a triggers-mode scope.
	ViolationLoadsType Violation = iota
	// ViolationBadState covers checks performed while the per-worker state
	// itself is suspect. Treated as an opaque category: it participates in
	// the suppression check but is never re-armed by guard entry.
	ViolationBadState

	violationCount
)

// String returns the string representation of Violation.
func (v Violation) String() string {
	switch v {
	case ViolationLoadsType:
		return "loads-type"
	case ViolationBadState:
		return "bad-state"
	default:
		return "unknown"
	}
}

// Mask is a bitset of suppressed violation categories.
type Mask uint8

// maskOf returns the single-bit mask for v.
func maskOf(v Violation) Mask {
	return Mask(1) << v
}

// Has reports whether v is set in the mask.
func (m Mask) Has(v Violation) bool {
	return m&maskOf(v) != 0
}

// with returns m with v set.
func (m Mask) with(v Violation) Mask {
	return m | maskOf(v)
}

// without returns m with v cleared.
func (m Mask) without(v Violation) Mask {
	return m &^ maskOf(v)
}
