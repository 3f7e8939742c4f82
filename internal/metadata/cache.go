package metadata

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"keel/internal/trace"
)

// Cache stores compiled payloads by manifest digest on disk.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// OpenCache initializes a cache at the standard location for app
// (XDG_CACHE_HOME or ~/.cache).
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewCache(filepath.Join(base, app))
}

// NewCache initializes a cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "mods", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload, replacing any previous entry
// atomically.
func (c *Cache) Put(key Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. Returns (false, nil) on a miss or on a stale schema.
func (c *Cache) Get(key Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	if out.Schema != payloadSchemaVersion {
		return false, nil
	}
	return true, nil
}

// Clean removes all cached payloads.
func (c *Cache) Clean() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "mods"))
}

// LoadCompiled reads a manifest and returns its compiled payload, consulting
// the cache by content digest. cache may be nil. A corrupt cache entry is not
// fatal: the manifest is recompiled and the read failure is traced.
func LoadCompiled(ctx context.Context, path string, cache *Cache) (*Payload, Digest, error) {
	m, raw, err := ReadManifest(path)
	if err != nil {
		return nil, Digest{}, err
	}
	key := DigestBytes(raw)

	var cached Payload
	ok, err := cache.Get(key, &cached)
	if err != nil {
		trace.Fail(trace.FromContext(ctx), trace.ScopeModule, "cache:"+path, err.Error())
	}
	if err == nil && ok {
		return &cached, key, nil
	}

	p, err := Compile(m)
	if err != nil {
		return nil, Digest{}, err
	}
	if err := cache.Put(key, p); err != nil {
		return nil, Digest{}, fmt.Errorf("failed to cache %s: %w", path, err)
	}
	return p, key, nil
}
