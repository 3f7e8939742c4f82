package testkit

import (
	"fmt"

	"keel/internal/loadlevel"
)

// CheckGuardInvariants runs a minimal set of load-level state invariants:
// 1) reported depth matches the live guard chain
// 2) the current ceiling is exactly what the innermost guard installed
// 3) every record carries a recognizable mode and a call site
func CheckGuardInvariants(st *loadlevel.State) error {
	if st == nil {
		return nil // disabled state has nothing to check
	}
	chain := st.Chain()
	if len(chain) != st.Depth() {
		return fmt.Errorf("chain length %d does not match depth %d", len(chain), st.Depth())
	}
	if len(chain) == 0 {
		return nil
	}

	// 1) ceiling is owned by the innermost guard
	if st.MaxLevel() != chain[0].MaxLevel {
		return fmt.Errorf("ceiling %v does not match innermost guard %v", st.MaxLevel(), chain[0].MaxLevel)
	}

	// 2) record sanity
	for i, r := range chain {
		if r.Mode != loadlevel.ModeTriggers && r.Mode != loadlevel.ModeOverride {
			return fmt.Errorf("record %d: unknown mode %v", i, r.Mode)
		}
		if r.Site.Function == "" {
			return fmt.Errorf("record %d: missing call site", i)
		}
	}
	return nil
}

// CheckChain validates a chain copy (e.g. one attached to a violation
// report) independently of any live state.
func CheckChain(chain []loadlevel.Record) error {
	for i, r := range chain {
		if r.Mode != loadlevel.ModeTriggers && r.Mode != loadlevel.ModeOverride {
			return fmt.Errorf("record %d: unknown mode %v", i, r.Mode)
		}
		if r.Site.Function == "" {
			return fmt.Errorf("record %d: missing call site", i)
		}
	}
	return nil
}
