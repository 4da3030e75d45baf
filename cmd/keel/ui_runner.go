package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"keel/internal/scenario"
	"keel/internal/ui"
)

type batchOutcome struct {
	results []scenario.FileResult
	err     error
}

func runBatchWithUI(ctx context.Context, title string, paths []string, opts scenario.BatchOptions) ([]scenario.FileResult, error) {
	events := make(chan scenario.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = scenario.ChannelSink{Ch: events}
		res, err := scenario.RunFiles(ctx, paths, optsCopy)
		outcomeCh <- batchOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
