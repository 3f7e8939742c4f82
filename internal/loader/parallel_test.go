package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"keel/internal/metadata"
)

func writeManifest(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadModulesInParallel(t *testing.T) {
	dir := t.TempDir()
	coreSrc := `
[module]
name = "core"

[[types]]
name = "Object"
kind = "class"

[[types]]
name = "String"
kind = "class"
base = "Object"
`
	netSrc := `
[module]
name = "net"

[[types]]
name = "Socket"
kind = "class"

  [[types.fields]]
  name = "peer"
  type = "Socket"
`
	paths := []string{
		writeManifest(t, dir, "core.toml", coreSrc),
		writeManifest(t, dir, "net.toml", netSrc),
	}
	cache, err := metadata.NewCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("cache: %v", err)
	}

	events := make(chan Event, 64)
	results, collector, err := LoadModules(context.Background(), paths, RunOptions{
		Jobs:    2,
		Strict:  true,
		Enforce: true,
		Cache:   cache,
		Events:  events,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	close(events)

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	// Results come back sorted by module name.
	if results[0].Module != "core" || results[1].Module != "net" {
		t.Fatalf("modules = %q, %q", results[0].Module, results[1].Module)
	}
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("module %s: %v", r.Module, r.Err)
		}
	}
	if results[0].Loaded != 2 || results[1].Loaded != 1 {
		t.Fatalf("loaded counts = %d, %d", results[0].Loaded, results[1].Loaded)
	}
	if collector.Count() != 0 {
		t.Fatalf("violations: %+v", collector.Violations())
	}

	total, err := TotalLoaded(results)
	if err != nil || total != 3 {
		t.Fatalf("total = %d, err = %v", total, err)
	}

	done := 0
	for ev := range events {
		if ev.Done {
			done++
		}
	}
	if done < 3 {
		t.Fatalf("expected at least 3 completion events, got %d", done)
	}
}

func TestLoadModulesRecordsPerModuleFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeManifest(t, dir, "good.toml", `
[module]
name = "good"

[[types]]
name = "A"
kind = "class"
`)
	bad := writeManifest(t, dir, "bad.toml", `
[module]
name = "bad"

[[types]]
name = "A"
kind = "class"
base = "Missing"
`)

	results, _, err := LoadModules(context.Background(), []string{good, bad}, RunOptions{Enforce: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	byModule := make(map[string]ModuleResult, len(results))
	for _, r := range results {
		byModule[r.Module] = r
	}
	if byModule["good"].Err != nil {
		t.Fatalf("good module failed: %v", byModule["good"].Err)
	}
	if byModule["bad"].Err == nil {
		t.Fatalf("bad module must record its failure")
	}
}

func TestLoadModulesHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := LoadModules(ctx, []string{"nonexistent.toml"}, RunOptions{})
	if err == nil {
		t.Fatalf("cancelled run must fail")
	}
}
