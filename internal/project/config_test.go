package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"keel/internal/trace"
)

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	src := `
manifests = ["mods/core.toml"]

[loader]
jobs = 2
strict = true

[trace]
level = "phase"
`
	if err := os.WriteFile(filepath.Join(root, ManifestName), []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, ok, err := Discover(nested)
	if err != nil || !ok {
		t.Fatalf("discover: ok=%v err=%v", ok, err)
	}
	if cfg.Loader.Jobs != 2 || !cfg.Loader.Strict {
		t.Fatalf("loader config = %+v", cfg.Loader)
	}
	if cfg.TraceLevel() != trace.LevelPhase {
		t.Fatalf("trace level = %v", cfg.TraceLevel())
	}
	want := filepath.Join(root, "mods", "core.toml")
	if len(cfg.Manifests) != 1 || cfg.Manifests[0] != want {
		t.Fatalf("manifests = %v, want [%s]", cfg.Manifests, want)
	}
}

func TestDiscoverFallsBackToDefaults(t *testing.T) {
	cfg, ok, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if ok {
		t.Fatalf("no keel.toml expected")
	}
	if !cfg.Loader.Enforce || cfg.TraceLevel() != trace.LevelOff {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"bad level", "[trace]\nlevel = \"loud\"\n", "invalid trace level"},
		{"negative jobs", "[loader]\njobs = -1\n", "non-negative"},
		{"unknown key", "threads = 8\n", "unknown key"},
		// A manifests key after a table header binds to that table.
		{"misplaced manifests", "[trace]\nmanifests = []\n", "unknown key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".toml")
			if err := os.WriteFile(path, []byte(tc.src), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want substring %q", err, tc.want)
			}
		})
	}
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("starter config must parse: %v", err)
	}
	if !cfg.Loader.Enforce || len(cfg.Manifests) != 0 {
		t.Fatalf("starter config = %+v", cfg)
	}
	if _, err := WriteDefault(dir); err == nil {
		t.Fatalf("must refuse to overwrite")
	}
}
