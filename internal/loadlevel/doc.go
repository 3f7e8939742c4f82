// Package loadlevel enforces the per-worker type-load ordering discipline.
//
// # Purpose
//
// The loader resolves types incrementally: a type's definition may reference
// types that are themselves only partially loaded, so any code path inside
// the loader may trigger a nested load. This package bounds how deep such a
// nested load may go. Each worker carries a ceiling — the maximum Level a
// nested load is permitted to target — and every call site that may recurse
// wraps the recursion in a Guard that tightens the ceiling for the duration
// of the scope and restores it on release.
//
// # Modes
//
//   - ModeTriggers: the ceiling may only decrease across a nested call.
//     Strict descent guarantees termination on any dependency graph that is
//     acyclic by phase, even when the type graph itself has cycles. An
//     attempted ascent is a contract violation (a loader bug, not bad
//     input) and is reported through the state's Reporter.
//   - ModeOverride: the ceiling may be raised. Only loader roots use this,
//     where recursion back into the same chain is structurally impossible.
//
// # Suppression
//
// A caller may open a one-shot window with Suppress(ViolationLoadsType)
// immediately before acquiring a guard, permitting one audited exception to
// the descent rule. Acquiring any guard re-arms detection, so a window never
// leaks into the code the guard protects.
//
// # Disabled form
//
// A nil *State disables the whole mechanism: Acquire returns the shared
// Inactive guard and every State method no-ops. Call sites are written once
// and behave identically with checking on or off.
//
// States are goroutine-confined; nothing in this package locks. The
// Registry only coordinates first-use creation of per-worker states.
package loadlevel
