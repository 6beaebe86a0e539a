package tasks

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/movievault/internal/repositories"
)

// SyncListener re-renders the watchlist when another context changes it.
//
// Last writer wins; the listener only reacts to changes, it never merges them.
type SyncListener struct {
	store      repositories.Store
	render     func(repositories.Change)
	skipOrigin string
	logger     *log.Logger
}

// NewSyncListener calls render for every watchlist change published by store.
// Changes whose origin equals skipOrigin are ignored; pass "" to receive all of them.
func NewSyncListener(store repositories.Store, skipOrigin string, render func(repositories.Change), logger *log.Logger) *SyncListener {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SyncListener{store: store, render: render, skipOrigin: skipOrigin, logger: logger}
}

// Run listens until ctx is cancelled or the subscription is closed.
func (l *SyncListener) Run(ctx context.Context) error {
	changes, unsubscribe := l.store.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			if c.Key != repositories.WatchlistKey {
				continue
			}
			if l.skipOrigin != "" && c.Origin == l.skipOrigin {
				continue
			}
			l.logger.Debug("watchlist changed elsewhere", "origin", c.Origin)
			l.render(c)
		}
	}
}
