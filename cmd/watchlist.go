package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/movievault/internal/formatter"
	"github.com/desertthunder/movievault/internal/repositories"
	"github.com/desertthunder/movievault/internal/shared"
	"github.com/desertthunder/movievault/internal/tasks"
)

// WatchlistList prints the saved watchlist, most recent first.
func (r *Runner) WatchlistList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.Store()
	if err != nil {
		return err
	}
	defer r.Close()

	entries := repositories.ReadWatchlist(store, r.logger)
	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Watchlist (%d)", len(entries)))
	return r.writePlain("%s", formatter.Text(formatter.RenderWatchlist(entries)))
}

// WatchlistAdd fetches a movie by identifier and adds it.
func (r *Runner) WatchlistAdd(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.Args().First())
	if id == "" {
		return fmt.Errorf("%w: movie id is required", shared.ErrMissingArgument)
	}

	store, err := r.Store()
	if err != nil {
		return err
	}
	defer r.Close()

	err = r.controller(store, newLinePresenter(r)).AddFromResult(ctx, id)
	if errors.Is(err, shared.ErrAlreadyExists) {
		return nil
	}
	return err
}

// WatchlistRemove removes a movie by identifier.
func (r *Runner) WatchlistRemove(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.Args().First())
	if id == "" {
		return fmt.Errorf("%w: movie id is required", shared.ErrMissingArgument)
	}

	store, err := r.Store()
	if err != nil {
		return err
	}
	defer r.Close()

	return tasks.NewWatchlist(store, newLinePresenter(r), r.logger).Remove(id)
}

// WatchlistClear removes every movie after confirmation (or --yes).
func (r *Runner) WatchlistClear(ctx context.Context, cmd *cli.Command) error {
	store, err := r.Store()
	if err != nil {
		return err
	}
	defer r.Close()

	watchlist := tasks.NewWatchlist(store, newLinePresenter(r), r.logger)
	if len(watchlist.Entries()) == 0 {
		return r.writePlain("%s\n", formatter.EmptyWatchlistText)
	}

	confirm := tasks.Confirmer(r.confirm)
	if cmd.Bool("yes") {
		confirm = tasks.Always
	}

	cleared, err := watchlist.Clear(confirm)
	if err != nil {
		return err
	}
	if !cleared {
		r.writePlain("Cancelled.\n")
	}
	return nil
}

// WatchlistExport writes the watchlist as CSV, Markdown, JSON or text.
//
// Markdown with --posters writes a directory with README.md and downloaded posters.
func (r *Runner) WatchlistExport(ctx context.Context, cmd *cli.Command) error {
	store, err := r.Store()
	if err != nil {
		return err
	}
	defer r.Close()

	entries := repositories.ReadWatchlist(store, r.logger)
	format := cmd.String("format")
	output := cmd.String("output")

	if cmd.Bool("posters") {
		if format != formatter.FormatMarkdown && format != "md" {
			return fmt.Errorf("%w: --posters requires --format markdown", shared.ErrInvalidArgument)
		}

		result, err := formatter.WriteMarkdownExport(ctx, entries, output, r.httpClient)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		for _, id := range result.Failed {
			r.logger.Warn("poster download failed", "id", id)
		}
		return r.writePlain("✓ Exported %d movies (%d posters) to %s\n", len(entries), result.Posters, result.Directory)
	}

	if output == "" {
		return formatter.WriteExport(r.output, entries, format)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer f.Close()

	if err := formatter.WriteExport(f, entries, format); err != nil {
		return err
	}
	return r.writePlain("✓ Exported %d movies to %s\n", len(entries), output)
}
