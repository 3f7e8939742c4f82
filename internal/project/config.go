package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"keel/internal/trace"
)

// Config is the keel.toml project file.
type Config struct {
	Loader LoaderConfig `toml:"loader"`
	Trace  TraceConfig  `toml:"trace"`

	// Manifests lists module manifest paths, relative to the project root.
	Manifests []string `toml:"manifests"`
}

// LoaderConfig controls enforcement and parallelism.
type LoaderConfig struct {
	Jobs    int  `toml:"jobs"`
	Strict  bool `toml:"strict"`
	Enforce bool `toml:"enforce"`
}

// TraceConfig controls the tracer.
type TraceConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the config used when no keel.toml exists.
func DefaultConfig() Config {
	return Config{
		Loader: LoaderConfig{Enforce: true},
		Trace:  TraceConfig{Level: "off"},
	}
}

// LoadConfig reads and validates a keel.toml file. Manifest paths are
// resolved against the file's directory.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	root := filepath.Dir(path)
	for i, m := range cfg.Manifests {
		if !filepath.IsAbs(m) {
			cfg.Manifests[i] = filepath.Join(root, m)
		}
	}
	return cfg, nil
}

// Discover finds the project config starting at startDir, falling back to
// defaults when no keel.toml exists.
func Discover(startDir string) (Config, bool, error) {
	path, ok, err := FindKeelToml(startDir)
	if err != nil || !ok {
		return DefaultConfig(), false, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}

func (c Config) validate() error {
	if c.Loader.Jobs < 0 {
		return fmt.Errorf("loader.jobs must be non-negative, got %d", c.Loader.Jobs)
	}
	if c.Trace.Level != "" {
		if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
			return err
		}
	}
	for _, m := range c.Manifests {
		if m == "" {
			return fmt.Errorf("empty manifest path")
		}
	}
	return nil
}

// TraceLevel parses the configured trace level.
func (c Config) TraceLevel() trace.Level {
	if c.Trace.Level == "" {
		return trace.LevelOff
	}
	lvl, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.LevelOff
	}
	return lvl
}

// WriteDefault writes a starter keel.toml into dir. Fails if one exists.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	// manifests is a top-level key and has to precede the table headers.
	const starter = `manifests = []

[loader]
jobs = 0      # 0 = one worker per CPU
strict = false
enforce = true

[trace]
level = "off"
`
	if err := os.WriteFile(path, []byte(starter), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
