package main

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/movievault/internal/formatter"
	"github.com/desertthunder/movievault/internal/tasks"
)

// linePresenter prints notices as they arrive and keeps the last render of each list
// for the command to print once the action returns.
type linePresenter struct {
	mu        sync.Mutex
	write     func(format string, args ...any) error
	logger    *log.Logger
	results   *formatter.View
	watchlist *formatter.View
}

func newLinePresenter(r *Runner) *linePresenter {
	return &linePresenter{write: r.writePlain, logger: r.logger}
}

func (p *linePresenter) Notify(n tasks.Notice) {
	if n.Text == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if n.IsError() {
		p.write("✗ %s\n", n.Text)
		return
	}
	p.write("%s\n", n.Text)
}

func (p *linePresenter) SetBusy(busy bool) {
	p.logger.Debug("busy", "busy", busy)
}

func (p *linePresenter) RenderResults(v formatter.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = &v
}

func (p *linePresenter) RenderWatchlist(v formatter.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.watchlist = &v
}
