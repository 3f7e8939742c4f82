package trace

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev Event)

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// Point emits an instant event through t, filling in the timestamp. It
// applies the level filter so call sites don't have to.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(Event{Time: time.Now(), Scope: scope, Name: name, Detail: detail})
}

// Fail emits a failure event through t. Failures bypass the scope filter
// and are visible at every level above LevelOff.
func Fail(t Tracer, scope Scope, name, detail string) {
	if t == nil || t.Level() == LevelOff {
		return
	}
	t.Emit(Event{Time: time.Now(), Scope: scope, Name: name, Detail: detail})
}

// writerTracer streams text lines to an io.Writer.
type writerTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

// NewWriterTracer returns a Tracer that writes one line per event to w.
func NewWriterTracer(w io.Writer, level Level) Tracer {
	if level == LevelOff {
		return Nop
	}
	return &writerTracer{w: w, level: level}
}

func (t *writerTracer) Emit(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ev.Detail != "" {
		fmt.Fprintf(t.w, "%s [%s] %s: %s\n", ev.Time.Format("15:04:05.000"), ev.Scope, ev.Name, ev.Detail)
		return
	}
	fmt.Fprintf(t.w, "%s [%s] %s\n", ev.Time.Format("15:04:05.000"), ev.Scope, ev.Name)
}

func (t *writerTracer) Level() Level { return t.level }

func (t *writerTracer) Enabled() bool { return true }
