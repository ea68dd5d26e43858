package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"docsniff/internal/driver"
	"docsniff/internal/ui"
)

type checkOutcome struct {
	results []*driver.FileResult
	err     error
}

// checkDirWithUI runs CheckDir behind the bubbletea progress view.
// Quitting the view (ctrl+c) cancels the remaining files.
func checkDirWithUI(ctx context.Context, dir string, opts *driver.Options) ([]*driver.FileResult, error) {
	files, err := driver.ListFiles(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan ui.Event, 256)
	send := func(ev ui.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	runOpts := *opts
	runOpts.Observer = func(ev driver.PhaseEvent) {
		if e, ok := ui.FromPhase(ev); ok {
			send(e)
		}
	}
	runOpts.Progress = func(p driver.Progress) { send(ui.FromProgress(p)) }

	outcomeCh := make(chan checkOutcome, 1)
	go func() {
		res, err := driver.CheckDir(ctx, dir, &runOpts)
		outcomeCh <- checkOutcome{results: res, err: err}
		close(events)
	}()

	title := "checking"
	if opts.Fix {
		title = "fixing"
	}
	model := ui.NewProgressModel(title, dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// вид закрыт раньше времени: остальные файлы не нужны
	cancel()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
