package metadata

import (
	"strings"
	"testing"

	"keel/internal/types"
)

const sampleManifest = `
[module]
name = "core"

[[types]]
name = "Object"
kind = "class"

[[types]]
name = "String"
kind = "class"
base = "Object"

  [[types.fields]]
  name = "data"
  type = "Char[]"

[[types]]
name = "Char"
kind = "value"

[[types]]
name = "Text"
kind = "alias"
target = "String"
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Module.Name != "core" || len(m.Types) != 4 {
		t.Fatalf("module=%q types=%d", m.Module.Name, len(m.Types))
	}
	if m.Types[1].Base != "Object" || m.Types[1].Fields[0].Type != "Char[]" {
		t.Fatalf("String spec = %+v", m.Types[1])
	}
}

func TestParseManifestRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"no module name", "[[types]]\nname = \"A\"\nkind = \"class\"\n", "module.name"},
		{"no types", "[module]\nname = \"m\"\n", "declares no types"},
		{"bad kind", "[module]\nname = \"m\"\n[[types]]\nname = \"A\"\nkind = \"enum\"\n", "invalid kind"},
		{"alias without target", "[module]\nname = \"m\"\n[[types]]\nname = \"A\"\nkind = \"alias\"\n", "target is required"},
		{"declared array", "[module]\nname = \"m\"\n[[types]]\nname = \"A\"\nkind = \"array\"\n", "derived, not declared"},
		{"duplicate type", "[module]\nname = \"m\"\n[[types]]\nname = \"A\"\nkind = \"class\"\n[[types]]\nname = \"A\"\nkind = \"class\"\n", "duplicate type"},
		{"unknown key", "[module]\nname = \"m\"\nowner = \"x\"\n[[types]]\nname = \"A\"\nkind = \"class\"\n", "unknown key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tc.src))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want substring %q", err, tc.want)
			}
		})
	}
}

func TestCompileNormalizesAndFlagsEager(t *testing.T) {
	src := `
[module]
name = "m"

[[types]]
name = "Café"
kind = "class"

  [[types.fields]]
  name = "tag"
  type = "Café"
  eager = true
`
	m, err := ParseManifest([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p, err := Compile(m)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	rec, ok := p.Find(types.NormalizeName("Café"))
	if !ok {
		t.Fatalf("composed-name lookup failed")
	}
	if !rec.Eager || !rec.Fields[0].Eager {
		t.Fatalf("eager flag lost: %+v", rec)
	}
	if rec.Fields[0].Type != rec.Name {
		t.Fatalf("field type not normalized: %q vs %q", rec.Fields[0].Type, rec.Name)
	}
}
