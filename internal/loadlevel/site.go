package loadlevel

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Site records where a guard was acquired. Diagnostic only.
type Site struct {
	Function string
	File     string
	Line     int
}

// Here captures the caller's location. skip counts additional frames above
// the caller, as in runtime.Caller.
func Here(skip int) Site {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Site{Function: "unknown"}
	}
	fn := "unknown"
	if f := runtime.FuncForPC(pc); f != nil {
		fn = f.Name()
	}
	return Site{Function: fn, File: filepath.Base(file), Line: line}
}

// String returns "function (file:line)".
func (s Site) String() string {
	if s.File == "" {
		return s.Function
	}
	return fmt.Sprintf("%s (%s:%d)", s.Function, s.File, s.Line)
}
