package metadata

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"keel/internal/types"
)

// Manifest is the on-disk TOML description of one module's types. All type
// references are by name; resolution to TypeIDs happens inside the loader,
// phase by phase.
type Manifest struct {
	Module ModuleSpec `toml:"module"`
	Types  []TypeSpec `toml:"types"`
}

// ModuleSpec names the module.
type ModuleSpec struct {
	Name string `toml:"name"`
}

// TypeSpec describes one type in the manifest.
type TypeSpec struct {
	Name       string      `toml:"name"`
	Kind       string      `toml:"kind"`
	Base       string      `toml:"base,omitempty"`
	Interfaces []string    `toml:"interfaces,omitempty"`
	Target     string      `toml:"target,omitempty"` // alias target
	Fields     []FieldSpec `toml:"fields,omitempty"`
}

// FieldSpec describes one field. Type may carry "[]" suffixes for derived
// array types. Eager demands the field's type fully loaded during
// dependency resolution.
type FieldSpec struct {
	Name  string `toml:"name"`
	Type  string `toml:"type"`
	Eager bool   `toml:"eager,omitempty"`
}

// ReadManifest loads and validates a manifest file.
func ReadManifest(path string) (*Manifest, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := ParseManifest(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, raw, nil
}

// ParseManifest decodes and validates manifest bytes.
func ParseManifest(raw []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(raw), &m)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("invalid manifest: unknown key %q", undecoded[0].String())
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Module.Name == "" {
		return fmt.Errorf("module.name is required")
	}
	if len(m.Types) == 0 {
		return fmt.Errorf("module %q declares no types", m.Module.Name)
	}
	seen := make(map[string]bool, len(m.Types))
	for i := range m.Types {
		ts := &m.Types[i]
		if ts.Name == "" {
			return fmt.Errorf("types[%d]: name is required", i)
		}
		name := types.NormalizeName(ts.Name)
		if seen[name] {
			return fmt.Errorf("duplicate type %q", ts.Name)
		}
		seen[name] = true
		kind, ok := types.ParseKind(ts.Kind)
		if !ok {
			return fmt.Errorf("type %q: invalid kind %q", ts.Name, ts.Kind)
		}
		switch kind {
		case types.KindAlias:
			if ts.Target == "" {
				return fmt.Errorf("alias %q: target is required", ts.Name)
			}
		case types.KindInterface:
			if len(ts.Fields) > 0 {
				return fmt.Errorf("interface %q: fields are not allowed", ts.Name)
			}
		case types.KindArray:
			return fmt.Errorf("type %q: array types are derived, not declared", ts.Name)
		}
		for j, f := range ts.Fields {
			if f.Name == "" || f.Type == "" {
				return fmt.Errorf("type %q: fields[%d]: name and type are required", ts.Name, j)
			}
		}
	}
	return nil
}
