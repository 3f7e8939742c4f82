package loader

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"keel/internal/loadlevel"
	"keel/internal/metadata"
	"keel/internal/observ"
	"keel/internal/trace"
	"keel/internal/types"
)

// RunOptions configure a parallel load run over independent modules.
type RunOptions struct {
	// Jobs caps worker parallelism; 0 means GOMAXPROCS.
	Jobs int
	// Strict disables eager-field suppression windows (see Options.Strict).
	Strict bool
	// Enforce turns the load-level discipline on. When false, workers run
	// with a nil state and pay nothing.
	Enforce bool
	// Cache, when non-nil, serves compiled payloads by manifest digest.
	Cache *metadata.Cache
	// Events, when non-nil, receives progress events from all workers.
	Events chan<- Event
}

// ModuleResult is the outcome of loading one module.
type ModuleResult struct {
	Module   string
	Path     string
	Digest   metadata.Digest
	Registry *types.Registry
	Loaded   uint32 // types driven to LevelLoaded
	Timing   observ.Report
	Err      error
}

// LoadModules compiles and loads each manifest in parallel. Modules are
// independent, so each worker gets its own load-level state from the
// registry; violations from all workers land in the returned Collector.
// Per-module failures are recorded in the results, not returned: the run
// error only covers context cancellation.
func LoadModules(ctx context.Context, paths []string, opts RunOptions) ([]ModuleResult, *Collector, error) {
	collector := &Collector{}
	states := loadlevel.NewRegistry()
	results := make([]ModuleResult, len(paths))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	tr := trace.FromContext(ctx)
	trace.Point(tr, trace.ScopeRun, "load-run", fmt.Sprintf("%d modules, %d jobs", len(paths), jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = loadOne(gctx, i, path, collector, states, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Module < results[b].Module
	})
	return results, collector, nil
}

// loadOne compiles one manifest and drives all its types to LevelLoaded.
func loadOne(ctx context.Context, worker int, path string, collector *Collector, states *loadlevel.Registry, opts RunOptions) ModuleResult {
	timer := observ.NewTimer()

	stopCompile := timer.Begin("compile")
	payload, digest, err := metadata.LoadCompiled(ctx, path, opts.Cache)
	if err != nil {
		return ModuleResult{Path: path, Err: err}
	}
	stopCompile(fmt.Sprintf("%d types", len(payload.Types)))

	var st *loadlevel.State
	if opts.Enforce {
		st = states.For(worker, collector.ReporterFor(worker, payload.Module))
	}

	l := New(payload, Options{
		Strict: opts.Strict,
		State:  st,
		Events: opts.Events,
	})
	res := ModuleResult{
		Module:   payload.Module,
		Path:     path,
		Digest:   digest,
		Registry: l.Registry(),
	}
	stopLoad := timer.Begin("load")
	if err := l.LoadAll(ctx); err != nil {
		res.Err = err
		res.Timing = timer.Report()
		return res
	}
	stopLoad("")
	res.Timing = timer.Report()

	var loaded uint32
	l.Registry().All(func(_ types.TypeID, d *types.Def) {
		if d.Level == loadlevel.LevelLoaded {
			loaded++
		}
	})
	res.Loaded = loaded

	if st != nil && st.Depth() != 0 {
		// Every guard must have been released by the time a module finishes.
		res.Err = fmt.Errorf("module %s: %s left %d live guards", payload.Module, path, st.Depth())
	}
	return res
}

// TotalLoaded sums loaded-type counts across results.
func TotalLoaded(results []ModuleResult) (uint32, error) {
	var total uint64
	for _, r := range results {
		total += uint64(r.Loaded)
	}
	return safecast.Conv[uint32](total)
}
