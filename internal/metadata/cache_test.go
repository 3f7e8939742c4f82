package metadata

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"keel/internal/trace"
	"keel/internal/types"
)

func TestCacheMissThenHit(t *testing.T) {
	c, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	key := DigestBytes([]byte("manifest-bytes"))

	var out Payload
	if ok, err := c.Get(key, &out); err != nil || ok {
		t.Fatalf("fresh cache: ok=%v err=%v", ok, err)
	}

	in := &Payload{
		Schema: payloadSchemaVersion,
		Module: "core",
		Types:  []TypeRec{{Name: "Object", Kind: types.KindClass}},
	}
	if err := c.Put(key, in); err != nil {
		t.Fatalf("put: %v", err)
	}
	ok, err := c.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("get after put: ok=%v err=%v", ok, err)
	}
	if out.Module != "core" || len(out.Types) != 1 || out.Types[0].Name != "Object" {
		t.Fatalf("payload mismatch: %+v", out)
	}
}

func TestCacheRejectsStaleSchema(t *testing.T) {
	c, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	key := DigestBytes([]byte("x"))
	if err := c.Put(key, &Payload{Schema: payloadSchemaVersion + 1, Module: "m"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	var out Payload
	if ok, _ := c.Get(key, &out); ok {
		t.Fatalf("stale schema must be treated as a miss")
	}
}

func TestNilCacheIsTransparent(t *testing.T) {
	var c *Cache
	if err := c.Put(Digest{}, &Payload{}); err != nil {
		t.Fatalf("nil put: %v", err)
	}
	var out Payload
	if ok, err := c.Get(Digest{}, &out); ok || err != nil {
		t.Fatalf("nil get: ok=%v err=%v", ok, err)
	}
	if err := c.Clean(); err != nil {
		t.Fatalf("nil clean: %v", err)
	}
}

func TestLoadCompiledUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "core.toml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	c, err := NewCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	p1, key1, err := LoadCompiled(context.Background(), path, c)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	p2, key2, err := LoadCompiled(context.Background(), path, c)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if key1 != key2 {
		t.Fatalf("digest changed across loads")
	}
	if p1.Module != p2.Module || len(p1.Types) != len(p2.Types) {
		t.Fatalf("cached payload differs: %+v vs %+v", p1, p2)
	}

	if err := c.Clean(); err != nil {
		t.Fatalf("clean: %v", err)
	}
	var out Payload
	if ok, _ := c.Get(key1, &out); ok {
		t.Fatalf("clean must drop entries")
	}
}

func TestLoadCompiledSurvivesCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "core.toml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	c, err := NewCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	p1, key, err := LoadCompiled(context.Background(), path, c)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := os.WriteFile(c.pathFor(key), []byte("not msgpack"), 0o644); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}

	var buf bytes.Buffer
	ctx := trace.WithTracer(context.Background(), trace.NewWriterTracer(&buf, trace.LevelError))
	p2, _, err := LoadCompiled(ctx, path, c)
	if err != nil {
		t.Fatalf("load with corrupt entry: %v", err)
	}
	if p2.Module != p1.Module || len(p2.Types) != len(p1.Types) {
		t.Fatalf("recompiled payload differs: %+v vs %+v", p2, p1)
	}
	if !strings.Contains(buf.String(), "corrupt cache entry") {
		t.Fatalf("cache read failure not traced:\n%s", buf.String())
	}
}
