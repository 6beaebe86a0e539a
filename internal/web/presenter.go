package web

import (
	"sync"

	"github.com/desertthunder/movievault/internal/formatter"
	"github.com/desertthunder/movievault/internal/tasks"
)

var _ tasks.Presenter = (*pagePresenter)(nil)

// pagePresenter keeps the final state of one request's renders.
//
// An empty notice clears the previous one, as in the other presentations.
type pagePresenter struct {
	mu        sync.Mutex
	notice    tasks.Notice
	results   *formatter.View
	watchlist *formatter.View
}

func (p *pagePresenter) Notify(n tasks.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notice = n
}

func (p *pagePresenter) SetBusy(bool) {}

func (p *pagePresenter) RenderResults(v formatter.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = &v
}

func (p *pagePresenter) RenderWatchlist(v formatter.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.watchlist = &v
}

// noticeJSON is the wire form of a [tasks.Notice].
type noticeJSON struct {
	Text  string `json:"text"`
	Level string `json:"level"`
}

// fragmentResponse carries the markup a request changed.
type fragmentResponse struct {
	Notice    *noticeJSON `json:"notice,omitempty"`
	Results   *string     `json:"results,omitempty"`
	Watchlist *string     `json:"watchlist,omitempty"`
}

// response renders whatever the request touched. Lists that were not rendered are omitted.
func (p *pagePresenter) response() (fragmentResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := fragmentResponse{Notice: &noticeJSON{Text: p.notice.Text, Level: p.notice.Level.String()}}
	if p.results != nil {
		markup, err := formatter.HTML(*p.results)
		if err != nil {
			return out, err
		}
		s := string(markup)
		out.Results = &s
	}
	if p.watchlist != nil {
		markup, err := formatter.HTML(*p.watchlist)
		if err != nil {
			return out, err
		}
		s := string(markup)
		out.Watchlist = &s
	}
	return out, nil
}
