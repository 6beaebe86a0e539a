package tasks

import (
	"context"
	"sync"

	"github.com/desertthunder/movievault/internal/formatter"
	"github.com/desertthunder/movievault/internal/models"
	"github.com/desertthunder/movievault/internal/services"
)

// recordingPresenter stores every call for assertions.
type recordingPresenter struct {
	mu        sync.Mutex
	notices   []Notice
	busy      []bool
	results   []formatter.View
	watchlist []formatter.View
}

func (p *recordingPresenter) Notify(n Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, n)
}

func (p *recordingPresenter) SetBusy(b bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy = append(p.busy, b)
}

func (p *recordingPresenter) RenderResults(v formatter.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, v)
}

func (p *recordingPresenter) RenderWatchlist(v formatter.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.watchlist = append(p.watchlist, v)
}

// lastNotice returns the last non-empty notice.
func (p *recordingPresenter) lastNotice() Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.notices) - 1; i >= 0; i-- {
		if p.notices[i].Text != "" {
			return p.notices[i]
		}
	}
	return Notice{}
}

func (p *recordingPresenter) lastResults() formatter.View {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.results) == 0 {
		return formatter.View{}
	}
	return p.results[len(p.results)-1]
}

func (p *recordingPresenter) lastWatchlist() formatter.View {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.watchlist) == 0 {
		return formatter.View{}
	}
	return p.watchlist[len(p.watchlist)-1]
}

func (p *recordingPresenter) lastBusy() (bool, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.busy) == 0 {
		return false, false
	}
	return p.busy[len(p.busy)-1], true
}

// fakeProvider answers with the configured funcs and counts calls.
type fakeProvider struct {
	mu          sync.Mutex
	searches    []string
	detailCalls []string
	search      func(ctx context.Context, query string) (*services.SearchResponse, error)
	details     func(ctx context.Context, id string) (*models.MovieDetails, error)
	keySet      bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{keySet: true}
}

func (f *fakeProvider) Name() string    { return "OMDb" }
func (f *fakeProvider) APIKeySet() bool { return f.keySet }

func (f *fakeProvider) Search(ctx context.Context, query string) (*services.SearchResponse, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	fn := f.search
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, query)
	}
	return &services.SearchResponse{Items: []models.SearchResultItem{{ID: "tt1", Title: query, Year: "2000"}}, Total: 1}, nil
}

func (f *fakeProvider) Details(ctx context.Context, id string) (*models.MovieDetails, error) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, id)
	fn := f.details
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, id)
	}
	return &models.MovieDetails{ID: id, Title: "Movie " + id, Year: "2000", Poster: "N/A"}, nil
}

func (f *fakeProvider) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}
