package loadlevel

import "context"

// ctxKey is the key type for storing a *State in context.
type ctxKey struct{}

// FromContext extracts the *State from context. Returns nil (the disabled
// form) when none is attached, so call sites never need to branch.
func FromContext(ctx context.Context) *State {
	if ctx == nil {
		return nil
	}
	if st, ok := ctx.Value(ctxKey{}).(*State); ok {
		return st
	}
	return nil
}

// WithState attaches a *State to context.
func WithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, st)
}
