package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"keel/internal/trace"
)

// setupTracing reads the trace flag, attaches a tracer to the command
// context and returns it.
func setupTracing(cmd *cobra.Command) (trace.Tracer, error) {
	levelStr, err := cmd.Root().PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	tr := trace.NewWriterTracer(os.Stderr, level)
	cmd.SetContext(trace.WithTracer(cmd.Context(), tr))
	return tr, nil
}
