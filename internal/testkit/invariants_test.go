package testkit

import (
	"testing"

	"keel/internal/loadlevel"
)

func TestCheckGuardInvariantsOnLiveState(t *testing.T) {
	st := loadlevel.NewState(nil)
	if err := CheckGuardInvariants(st); err != nil {
		t.Fatalf("empty state: %v", err)
	}

	a := loadlevel.Acquire(st, loadlevel.LevelDependencies, loadlevel.ModeTriggers,
		loadlevel.Site{Function: "a", File: "x.go", Line: 1})
	b := loadlevel.Acquire(st, loadlevel.LevelCreated, loadlevel.ModeTriggers,
		loadlevel.Site{Function: "b", File: "x.go", Line: 2})
	if err := CheckGuardInvariants(st); err != nil {
		t.Fatalf("nested state: %v", err)
	}
	b.Release()
	a.Release()
	if err := CheckGuardInvariants(st); err != nil {
		t.Fatalf("drained state: %v", err)
	}
}

func TestCheckGuardInvariantsOnNilState(t *testing.T) {
	if err := CheckGuardInvariants(nil); err != nil {
		t.Fatalf("nil state: %v", err)
	}
}

func TestCheckChainRejectsBrokenRecords(t *testing.T) {
	good := []loadlevel.Record{
		{Site: loadlevel.Site{Function: "f"}, Mode: loadlevel.ModeOverride, MaxLevel: loadlevel.LevelLoaded},
	}
	if err := CheckChain(good); err != nil {
		t.Fatalf("good chain: %v", err)
	}
	bad := []loadlevel.Record{{Mode: loadlevel.ModeTriggers}}
	if err := CheckChain(bad); err == nil {
		t.Fatalf("missing call site must be rejected")
	}
}
