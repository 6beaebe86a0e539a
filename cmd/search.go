package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/movievault/internal/formatter"
	"github.com/desertthunder/movievault/internal/repositories"
	"github.com/desertthunder/movievault/internal/shared"
)

// Search runs one search and prints the results.
//
// The user has been notified of any failure before the error is returned.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")

	store, err := r.Store()
	if err != nil {
		return err
	}
	defer r.Close()

	presenter := newLinePresenter(r)
	ctrl := r.controller(store, presenter)

	if cmd.Bool("json") {
		presenter.write = func(string, ...any) error { return nil }
	}

	if err := ctrl.Submit(ctx, query); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		record, ok := repositories.ReadSearchCache(ctrl.Session(), r.logger)
		if !ok {
			return fmt.Errorf("%w: no results cached", shared.ErrNotFound)
		}
		return r.writeJSON(record, cmd.Bool("pretty"))
	}

	if presenter.results != nil {
		r.writePlain("%s", formatter.Text(*presenter.results))
	}
	return nil
}

// Details prints the full record of one movie.
func (r *Runner) Details(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.Args().First())
	if id == "" {
		return fmt.Errorf("%w: movie id is required", shared.ErrMissingArgument)
	}

	details, err := r.Provider().Details(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch details: %w", err)
	}

	if cmd.Bool("json") {
		details.Plot = formatter.SanitizePlot(details.Plot)
		return r.writeJSON(details, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.DetailsText(details))
}
