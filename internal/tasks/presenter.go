package tasks

import "github.com/desertthunder/movievault/internal/formatter"

// Presenter is implemented by each presentation layer (CLI, TUI, web).
//
// Calls may arrive from several goroutines. SetBusy calls are serialized and
// must not call back into the [SearchController].
type Presenter interface {
	Notify(Notice)
	SetBusy(bool)
	RenderResults(formatter.View)
	RenderWatchlist(formatter.View)
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer func(prompt string) bool

// Always and Never are fixed [Confirmer] answers.
var (
	Always Confirmer = func(string) bool { return true }
	Never  Confirmer = func(string) bool { return false }
)

// NopPresenter discards everything.
type NopPresenter struct{}

func (NopPresenter) Notify(Notice)                  {}
func (NopPresenter) SetBusy(bool)                   {}
func (NopPresenter) RenderResults(formatter.View)   {}
func (NopPresenter) RenderWatchlist(formatter.View) {}
