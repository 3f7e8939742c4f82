package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"keel/internal/loadlevel"
	"keel/internal/metadata"
	"keel/internal/trace"
	"keel/internal/types"
)

// Sentinel errors surfaced by Load.
var (
	ErrUnknownType = errors.New("unknown type")
	ErrLoadCycle   = errors.New("cyclic load dependency")
	ErrBaseCycle   = errors.New("inheritance cycle")
)

// Options configure one Loader.
type Options struct {
	// Strict disables the suppression window for eager fields, so their
	// out-of-order loads surface as violations instead of audited
	// exceptions.
	Strict bool
	// State is the load-level state for this loader's goroutine. nil
	// disables enforcement entirely.
	State *loadlevel.State
	// Events, when non-nil, receives per-type progress events.
	Events chan<- Event
}

// Event is one unit of load progress, consumed by the CLI progress UI.
type Event struct {
	Module string
	Type   string
	Level  loadlevel.Level
	Done   bool // type reached LevelLoaded
}

// Loader drives types of one compiled module through the load phases.
// A Loader is confined to a single goroutine, like the state it carries.
type Loader struct {
	payload *metadata.Payload
	reg     *types.Registry
	recs    map[string]*metadata.TypeRec
	ids     map[string]types.TypeID
	st      *loadlevel.State
	strict  bool
	events  chan<- Event

	// visiting tracks in-flight ensure targets to turn metadata that defeats
	// the phase order (mutually eager types) into an error instead of
	// unbounded recursion.
	visiting map[string]loadlevel.Level
}

// New returns a Loader over the payload.
func New(payload *metadata.Payload, opts Options) *Loader {
	l := &Loader{
		payload:  payload,
		reg:      types.NewRegistry(),
		recs:     make(map[string]*metadata.TypeRec, len(payload.Types)),
		ids:      make(map[string]types.TypeID, len(payload.Types)),
		st:       opts.State,
		strict:   opts.Strict,
		events:   opts.Events,
		visiting: make(map[string]loadlevel.Level),
	}
	for i := range payload.Types {
		rec := &payload.Types[i]
		l.recs[rec.Name] = rec
	}
	return l
}

// Registry exposes the descriptors built so far.
func (l *Loader) Registry() *types.Registry {
	return l.reg
}

// Load drives name to LevelLoaded as a fresh root. The ceiling is reset
// upward under an override guard: nothing above a root can recurse back
// into this chain.
func (l *Loader) Load(ctx context.Context, name string) (types.TypeID, error) {
	return l.LoadTo(ctx, name, loadlevel.LevelLoaded)
}

// LoadTo is Load with an explicit target level, for inspection tooling.
func (l *Loader) LoadTo(ctx context.Context, name string, target loadlevel.Level) (types.TypeID, error) {
	g := loadlevel.Acquire(l.st, target, loadlevel.ModeOverride, loadlevel.Here(0))
	defer g.Release()
	return l.ensure(ctx, types.NormalizeName(name), target)
}

// LoadAll drives every type of the module to LevelLoaded.
func (l *Loader) LoadAll(ctx context.Context) error {
	tr := trace.FromContext(ctx)
	trace.Point(tr, trace.ScopeModule, "module:"+l.payload.Module, fmt.Sprintf("%d types", len(l.payload.Types)))
	for i := range l.payload.Types {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := l.Load(ctx, l.payload.Types[i].Name); err != nil {
			return fmt.Errorf("module %s: %w", l.payload.Module, err)
		}
	}
	return nil
}

// ensure advances name to target, one phase at a time. Each phase runs
// under a triggers-mode guard capping nested loads strictly below the
// phase, which is what guarantees termination on cyclic type graphs.
func (l *Loader) ensure(ctx context.Context, name string, target loadlevel.Level) (types.TypeID, error) {
	if elem, ok := strings.CutSuffix(name, "[]"); ok {
		return l.ensureArray(ctx, elem, target)
	}
	rec, ok := l.recs[name]
	if !ok {
		return types.NoTypeID, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}

	id := l.ids[name]
	cur := l.reg.LevelOf(id)
	if cur >= target {
		return id, nil
	}
	if prev, busy := l.visiting[name]; busy && target > prev {
		return types.NoTypeID, fmt.Errorf("%w: %q demanded at %s while loading", ErrLoadCycle, name, target)
	}
	l.visiting[name] = cur
	defer delete(l.visiting, name)

	tr := trace.FromContext(ctx)
	for cur < target {
		next := cur + 1
		if err := l.advance(ctx, rec, &id, next); err != nil {
			return types.NoTypeID, err
		}
		l.reg.SetLevel(id, next)
		l.visiting[name] = next
		cur = next
		trace.Point(tr, trace.ScopeStep, "type:"+name, next.String())
	}
	l.emit(Event{Module: l.payload.Module, Type: name, Level: cur, Done: cur == loadlevel.LevelLoaded})
	return id, nil
}

// ensureArray derives the array type after loading its element.
func (l *Loader) ensureArray(ctx context.Context, elem string, target loadlevel.Level) (types.TypeID, error) {
	elemID, err := l.ensure(ctx, elem, target)
	if err != nil {
		return types.NoTypeID, fmt.Errorf("array element: %w", err)
	}
	id, err := l.reg.ArrayOf(elemID)
	if err != nil {
		return types.NoTypeID, err
	}
	l.reg.SetLevel(id, target)
	return id, nil
}

// advance performs exactly one phase transition for rec.
func (l *Loader) advance(ctx context.Context, rec *metadata.TypeRec, id *types.TypeID, next loadlevel.Level) error {
	// Nested loads triggered by this phase may only reach below it.
	g := loadlevel.Acquire(l.st, next-1, loadlevel.ModeTriggers, loadlevel.Here(0))
	defer g.Release()

	switch next {
	case loadlevel.LevelCreated:
		created, err := l.reg.Register(rec.Name, rec.Kind)
		if err != nil {
			return err
		}
		*id = created
		l.ids[rec.Name] = created
		return nil

	case loadlevel.LevelApproxParents:
		if rec.Base == "" {
			return nil
		}
		baseID, err := l.dep(ctx, rec.Base, loadlevel.LevelCreated)
		if err != nil {
			return fmt.Errorf("type %q: base: %w", rec.Name, err)
		}
		l.reg.MustLookup(*id).Base = baseID
		return nil

	case loadlevel.LevelExactParents:
		if rec.Base != "" {
			if _, err := l.dep(ctx, rec.Base, loadlevel.LevelApproxParents); err != nil {
				return fmt.Errorf("type %q: base: %w", rec.Name, err)
			}
		}
		for _, iface := range rec.Interfaces {
			ifaceID, err := l.dep(ctx, iface, loadlevel.LevelApproxParents)
			if err != nil {
				return fmt.Errorf("type %q: interface %q: %w", rec.Name, iface, err)
			}
			l.reg.MustLookup(*id).Interfaces = append(l.reg.MustLookup(*id).Interfaces, ifaceID)
		}
		return l.checkBaseChain(*id, rec.Name)

	case loadlevel.LevelDependencies:
		return l.loadDependencies(ctx, rec, *id)

	case loadlevel.LevelLoaded:
		// Everything below is in place; nothing left to resolve.
		return nil

	default:
		return fmt.Errorf("type %q: unexpected phase %s", rec.Name, next)
	}
}

// loadDependencies resolves field, target and element types. Eager fields
// demand a full load ahead of the phase order: the default path opens the
// documented one-shot suppression window, strict mode lets the ascent be
// reported.
func (l *Loader) loadDependencies(ctx context.Context, rec *metadata.TypeRec, id types.TypeID) error {
	if rec.Target != "" {
		targetID, err := l.dep(ctx, rec.Target, loadlevel.LevelExactParents)
		if err != nil {
			return fmt.Errorf("alias %q: %w", rec.Name, err)
		}
		l.reg.MustLookup(id).Elem = targetID
	}

	fields := make([]types.Field, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		want := loadlevel.LevelExactParents
		if f.Eager {
			want = loadlevel.LevelLoaded
			if !l.strict {
				l.st.Suppress(loadlevel.ViolationLoadsType)
			}
		}
		fieldID, err := l.dep(ctx, f.Type, want)
		if err != nil {
			return fmt.Errorf("type %q: field %q: %w", rec.Name, f.Name, err)
		}
		fields = append(fields, types.Field{Name: f.Name, Type: fieldID, Eager: f.Eager})
	}
	l.reg.MustLookup(id).Fields = fields
	return nil
}

// dep loads a referenced type to want under a triggers-mode guard. This is
// the call-site shape every recursion in the loader goes through.
func (l *Loader) dep(ctx context.Context, name string, want loadlevel.Level) (types.TypeID, error) {
	g := loadlevel.Acquire(l.st, want, loadlevel.ModeTriggers, loadlevel.Here(1))
	defer g.Release()
	return l.ensure(ctx, name, want)
}

// checkBaseChain rejects inheritance cycles once exact parents are known.
func (l *Loader) checkBaseChain(id types.TypeID, name string) error {
	seen := make(map[types.TypeID]bool)
	for cur := id; cur != types.NoTypeID; {
		if seen[cur] {
			return fmt.Errorf("%w involving %q", ErrBaseCycle, name)
		}
		seen[cur] = true
		d, ok := l.reg.Lookup(cur)
		if !ok {
			break
		}
		cur = d.Base
	}
	return nil
}

func (l *Loader) emit(ev Event) {
	if l.events != nil {
		l.events <- ev
	}
}
