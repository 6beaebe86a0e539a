package main

import (
	"context"
	"fmt"
	"net"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/movievault/internal/repositories"
	"github.com/desertthunder/movievault/internal/server"
	"github.com/desertthunder/movievault/internal/shared"
	"github.com/desertthunder/movievault/internal/web"
)

// Serve runs the web app until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	store, err := r.Store()
	if err != nil {
		return err
	}
	defer r.Close()

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	app := web.NewApp(web.Options{
		Provider:           r.Provider(),
		Store:              store,
		Sessions:           repositories.NewSessionRegistry(r.config.Storage.MaxValueBytes),
		Connectivity:       r.Connectivity(),
		Logger:             r.logger,
		Debounce:           r.config.Search.Debounce,
		MinTypeaheadLength: r.config.Search.MinTypeaheadLength,
	})

	watcher := repositories.NewWatcher(store, r.config.Storage.WatchInterval, r.logger)
	go watcher.Run(ctx)
	go app.Run(ctx)

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	url := "http://" + l.Addr().String()
	r.writePlain("Serving on %s\n", url)
	if cmd.Bool("open") {
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return server.NewServer(addr, app.Handler(), r.logger).Serve(ctx, l)
}
