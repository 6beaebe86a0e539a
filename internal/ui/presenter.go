package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/movievault/internal/formatter"
	"github.com/desertthunder/movievault/internal/tasks"
)

var _ tasks.Presenter = (*Presenter)(nil)

// Presenter forwards [tasks.Presenter] calls to a running [tea.Program] as [Msg] values.
//
// Calls made before [Presenter.Attach] are dropped.
type Presenter struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func NewPresenter() *Presenter {
	return &Presenter{}
}

// Attach routes messages to p.
func (pr *Presenter) Attach(p *tea.Program) {
	pr.AttachFunc(p.Send)
}

// AttachFunc routes messages to send.
func (pr *Presenter) AttachFunc(send func(tea.Msg)) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.send = send
}

func (pr *Presenter) emit(msg tea.Msg) {
	pr.mu.RLock()
	send := pr.send
	pr.mu.RUnlock()

	if send != nil {
		send(msg)
	}
}

func (pr *Presenter) Notify(n tasks.Notice)             { pr.emit(noticeMsg(n)) }
func (pr *Presenter) SetBusy(b bool)                    { pr.emit(busyMsg(b)) }
func (pr *Presenter) RenderResults(v formatter.View)   { pr.emit(resultsMsg(v)) }
func (pr *Presenter) RenderWatchlist(v formatter.View) { pr.emit(watchlistMsg(v)) }
