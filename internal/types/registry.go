package types

import (
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"keel/internal/loadlevel"
)

// Registry stores type descriptors with stable TypeIDs and a name index.
// Names are NFC-normalized before lookup so metadata produced by different
// tools agrees on identity.
type Registry struct {
	defs   []Def
	byName map[string]TypeID
	arrays map[TypeID]TypeID // element -> derived array type
}

// NewRegistry returns a registry with slot 0 reserved as the invalid
// sentinel.
func NewRegistry() *Registry {
	return &Registry{
		defs:   []Def{{}}, // reserve 0 for NoTypeID
		byName: make(map[string]TypeID, 64),
		arrays: make(map[TypeID]TypeID, 8),
	}
}

// NormalizeName returns the canonical (NFC) form of a type name.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// Register allocates a descriptor for name and returns its TypeID. The
// descriptor starts at LevelUnloaded; the loader drives it forward.
func (r *Registry) Register(name string, kind Kind) (TypeID, error) {
	name = NormalizeName(name)
	if name == "" {
		return NoTypeID, fmt.Errorf("empty type name")
	}
	if _, exists := r.byName[name]; exists {
		return NoTypeID, fmt.Errorf("duplicate type %q", name)
	}
	id, err := r.append(Def{Name: name, Kind: kind})
	if err != nil {
		return NoTypeID, err
	}
	r.byName[name] = id
	return id, nil
}

// ArrayOf returns the derived array type over elem, creating it on first
// request. Derived types are deduplicated per element.
func (r *Registry) ArrayOf(elem TypeID) (TypeID, error) {
	if elem == NoTypeID || int(elem) >= len(r.defs) {
		return NoTypeID, fmt.Errorf("array over invalid element %d", elem)
	}
	if id, ok := r.arrays[elem]; ok {
		return id, nil
	}
	name := r.defs[elem].Name + "[]"
	id, err := r.append(Def{Name: name, Kind: KindArray, Elem: elem})
	if err != nil {
		return NoTypeID, err
	}
	r.arrays[elem] = id
	r.byName[name] = id
	return id, nil
}

func (r *Registry) append(d Def) (TypeID, error) {
	n, err := safecast.Conv[uint32](len(r.defs))
	if err != nil {
		return NoTypeID, fmt.Errorf("type id overflow: %w", err)
	}
	id := TypeID(n)
	r.defs = append(r.defs, d)
	return id, nil
}

// Lookup returns the descriptor for id.
func (r *Registry) Lookup(id TypeID) (*Def, bool) {
	if id == NoTypeID || int(id) >= len(r.defs) {
		return nil, false
	}
	return &r.defs[id], true
}

// MustLookup panics on an invalid id. Loader-internal use only, after the
// id has already been validated.
func (r *Registry) MustLookup(id TypeID) *Def {
	d, ok := r.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("types: invalid TypeID %d", id))
	}
	return d
}

// ByName resolves a (normalized) type name to its TypeID.
func (r *Registry) ByName(name string) (TypeID, bool) {
	id, ok := r.byName[NormalizeName(name)]
	return id, ok
}

// LevelOf returns the current load level of id, LevelUnloaded for invalid
// ids.
func (r *Registry) LevelOf(id TypeID) loadlevel.Level {
	if d, ok := r.Lookup(id); ok {
		return d.Level
	}
	return loadlevel.LevelUnloaded
}

// SetLevel records that the loader advanced id to lvl. Levels only move
// forward; a lower value is ignored.
func (r *Registry) SetLevel(id TypeID, lvl loadlevel.Level) {
	if d, ok := r.Lookup(id); ok && lvl > d.Level {
		d.Level = lvl
	}
}

// Len returns the number of registered descriptors, sentinel excluded.
func (r *Registry) Len() int {
	return len(r.defs) - 1
}

// All calls fn for every registered descriptor in id order.
func (r *Registry) All(fn func(id TypeID, d *Def)) {
	for i := 1; i < len(r.defs); i++ {
		fn(TypeID(i), &r.defs[i])
	}
}
