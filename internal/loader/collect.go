package loader

import (
	"sync"

	"keel/internal/loadlevel"
)

// Violation is one collected ordering-contract report, annotated with the
// worker and module it came from.
type Violation struct {
	Worker int
	Module string
	Msg    string
	Chain  []loadlevel.Record
	Site   loadlevel.Site
}

// Collector aggregates violations across workers. The per-worker states
// stay lock-free; only the report path shares this sink.
type Collector struct {
	mu         sync.Mutex
	violations []Violation
}

// ReporterFor returns a loadlevel.Reporter that tags reports with the
// worker id and module name.
func (c *Collector) ReporterFor(worker int, module string) loadlevel.Reporter {
	return loadlevel.ReporterFunc(func(msg string, chain []loadlevel.Record, site loadlevel.Site) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.violations = append(c.violations, Violation{
			Worker: worker,
			Module: module,
			Msg:    msg,
			Chain:  chain,
			Site:   site,
		})
	})
}

// Violations returns a copy of everything collected so far.
func (c *Collector) Violations() []Violation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Violation, len(c.violations))
	copy(out, c.violations)
	return out
}

// Count returns the number of collected violations.
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.violations)
}
