package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"keel/internal/loader"
	"keel/internal/ui"
)

type checkOutcome struct {
	results   []loader.ModuleResult
	collector *loader.Collector
	err       error
}

// runCheckWithUI runs LoadModules behind a progress UI fed by loader
// events.
func runCheckWithUI(ctx context.Context, title string, paths []string, opts loader.RunOptions) ([]loader.ModuleResult, *loader.Collector, error) {
	events := make(chan loader.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = events
		results, collector, err := loader.LoadModules(ctx, paths, optsCopy)
		outcomeCh <- checkOutcome{results: results, collector: collector, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, outcome.collector, uiErr
	}
	return outcome.results, outcome.collector, outcome.err
}
