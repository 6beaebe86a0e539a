package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/movievault/internal/repositories"
	"github.com/desertthunder/movievault/internal/shared"
	"github.com/desertthunder/movievault/internal/tasks"
	"github.com/desertthunder/movievault/internal/ui"
)

// TUI launches the interactive terminal UI.
//
// Changes made to the same database by other processes re-render the watchlist pane.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	store, err := r.Store()
	if err != nil {
		return err
	}
	defer r.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	presenter := ui.NewPresenter()
	ctrl := r.controller(store, presenter)

	model := ui.NewModel(ctx, ui.Options{Controller: ctrl, Preferences: store, Logger: r.logger})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	presenter.Attach(p)

	watcher := repositories.NewWatcher(store, r.config.Storage.WatchInterval, r.logger)
	go watcher.Run(ctx)

	listener := tasks.NewSyncListener(store, store.Origin(), func(repositories.Change) {
		ctrl.Watchlist().Render()
	}, r.logger)
	go listener.Run(ctx)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
