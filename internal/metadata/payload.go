package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"keel/internal/types"
)

// Current schema version - increment when Payload format changes
const payloadSchemaVersion uint16 = 1

// Digest identifies manifest content.
type Digest [sha256.Size]byte

// DigestBytes hashes raw manifest bytes.
func DigestBytes(raw []byte) Digest {
	return sha256.Sum256(raw)
}

// String returns the hex form of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Payload is the compiled, cacheable form of a manifest: names normalized,
// kinds parsed, ready for the loader. Serialized with msgpack.
type Payload struct {
	Schema uint16
	Module string
	Types  []TypeRec
}

// TypeRec is one compiled type record. References stay name-based; the
// loader resolves them phase by phase.
type TypeRec struct {
	Name       string
	Kind       types.Kind
	Base       string
	Interfaces []string
	Target     string
	Fields     []FieldRec
	Eager      bool // any field is eager; cheap pre-check for the loader
}

// FieldRec is one compiled field record.
type FieldRec struct {
	Name  string
	Type  string
	Eager bool
}

// Compile turns a validated manifest into a loader-ready payload.
func Compile(m *Manifest) (*Payload, error) {
	p := &Payload{
		Schema: payloadSchemaVersion,
		Module: m.Module.Name,
		Types:  make([]TypeRec, 0, len(m.Types)),
	}
	for i := range m.Types {
		ts := &m.Types[i]
		kind, ok := types.ParseKind(ts.Kind)
		if !ok {
			return nil, fmt.Errorf("type %q: invalid kind %q", ts.Name, ts.Kind)
		}
		rec := TypeRec{
			Name:   types.NormalizeName(ts.Name),
			Kind:   kind,
			Base:   types.NormalizeName(ts.Base),
			Target: types.NormalizeName(ts.Target),
		}
		for _, iface := range ts.Interfaces {
			rec.Interfaces = append(rec.Interfaces, types.NormalizeName(iface))
		}
		for _, f := range ts.Fields {
			rec.Fields = append(rec.Fields, FieldRec{
				Name:  f.Name,
				Type:  types.NormalizeName(f.Type),
				Eager: f.Eager,
			})
			if f.Eager {
				rec.Eager = true
			}
		}
		p.Types = append(p.Types, rec)
	}
	return p, nil
}

// Find returns the record for a normalized type name.
func (p *Payload) Find(name string) (*TypeRec, bool) {
	for i := range p.Types {
		if p.Types[i].Name == name {
			return &p.Types[i], true
		}
	}
	return nil, false
}
