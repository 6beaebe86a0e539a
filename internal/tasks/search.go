package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/movievault/internal/formatter"
	"github.com/desertthunder/movievault/internal/models"
	"github.com/desertthunder/movievault/internal/repositories"
	"github.com/desertthunder/movievault/internal/services"
	"github.com/desertthunder/movievault/internal/shared"
)

const (
	defaultDebounce           = 500 * time.Millisecond
	defaultMinTypeaheadLength = 3
)

// ErrSuperseded is returned for a search whose response arrived after a newer search was issued.
// Nothing was rendered for it.
var ErrSuperseded = errors.New("search superseded by a newer one")

// keyChecker is implemented by providers that can tell whether their credentials are usable.
type keyChecker interface {
	APIKeySet() bool
}

// SearchOptions configures a [SearchController].
type SearchOptions struct {
	Provider     services.Provider
	Session      repositories.Store
	Watchlist    *Watchlist
	Presenter    Presenter
	Connectivity shared.Connectivity
	Logger       *log.Logger
	// State carries the sequence and last submitted query; controllers of one
	// session share it. A fresh state is used when nil.
	State *SearchState

	Debounce           time.Duration
	MinTypeaheadLength int
}

// SearchState is the query history of one session.
type SearchState struct {
	mu            sync.Mutex
	seq           uint64
	lastSubmitted string
}

func NewSearchState() *SearchState { return &SearchState{} }

// submit records query as last submitted and issues its sequence number.
func (s *SearchState) submit(query string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSubmitted = query
	s.seq++
	return s.seq
}

// claim is submit for typeahead: it refuses a query equal to the last submitted one.
func (s *SearchState) claim(query string) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if query == s.lastSubmitted {
		return 0, false
	}
	s.lastSubmitted = query
	s.seq++
	return s.seq, true
}

func (s *SearchState) isLatest(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.seq
}

// LastSubmitted returns the last query sent to the provider.
func (s *SearchState) LastSubmitted() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSubmitted
}

// SearchController owns the query lifecycle of one presentation session.
//
// Searches may overlap (typeahead plus an explicit submit). Each one is counted
// while in flight and the busy indicator is hidden only when the count drops to
// zero. Each search also takes a sequence number; only the latest issued search
// may render results or write the session cache.
type SearchController struct {
	provider  services.Provider
	session   repositories.Store
	watchlist *Watchlist
	presenter Presenter
	online    shared.Connectivity
	logger    *log.Logger
	debouncer *Debouncer
	minLength int
	state     *SearchState

	mu       sync.Mutex
	inFlight int
}

// NewSearchController creates a new [SearchController], filling zero options with defaults.
func NewSearchController(opts SearchOptions) *SearchController {
	if opts.Presenter == nil {
		opts.Presenter = NopPresenter{}
	}
	if opts.Connectivity == nil {
		opts.Connectivity = shared.AlwaysOnline
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Session == nil {
		opts.Session = repositories.NewSessionStore(0)
	}
	if opts.Watchlist == nil {
		opts.Watchlist = NewWatchlist(repositories.NewSessionStore(0), opts.Presenter, opts.Logger)
	}
	if opts.State == nil {
		opts.State = NewSearchState()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.MinTypeaheadLength <= 0 {
		opts.MinTypeaheadLength = defaultMinTypeaheadLength
	}

	return &SearchController{
		provider:  opts.Provider,
		session:   opts.Session,
		watchlist: opts.Watchlist,
		presenter: opts.Presenter,
		online:    opts.Connectivity,
		logger:    opts.Logger,
		debouncer: NewDebouncer(opts.Debounce),
		minLength: opts.MinTypeaheadLength,
		state:     opts.State,
	}
}

// Watchlist returns the watchlist manager used for adds.
func (c *SearchController) Watchlist() *Watchlist { return c.watchlist }

// Session returns the store holding the search cache.
func (c *SearchController) Session() repositories.Store { return c.session }

// InFlight returns the number of requests currently running.
func (c *SearchController) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// LastSubmitted returns the last query sent to the provider.
func (c *SearchController) LastSubmitted() string {
	return c.state.LastSubmitted()
}

// Submit validates query and runs the search. Validation failures are reported
// to the presenter and no request is made.
//
// The returned error is the classified failure, for callers that need an exit status;
// the user has already been notified.
func (c *SearchController) Submit(ctx context.Context, query string) error {
	c.presenter.Notify(clearNotice())

	if kc, ok := c.provider.(keyChecker); ok && !kc.APIKeySet() {
		c.presenter.Notify(missingKeyNotice())
		return fmt.Errorf("%w: OMDb API key is not configured", shared.ErrMissingCredentials)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		c.presenter.Notify(emptyQueryNotice())
		return fmt.Errorf("%w: empty query", shared.ErrInvalidInput)
	}

	if !c.online.Online() {
		c.presenter.Notify(offlineNotice())
		return shared.ErrOffline
	}

	return c.search(ctx, query, c.state.submit(query))
}

// Typeahead schedules a search for query after the debounce delay. It runs
// only when the trimmed query is long enough and differs from the last submitted query.
func (c *SearchController) Typeahead(ctx context.Context, query string) {
	c.debouncer.Schedule(func() {
		if _, err := c.RunTypeahead(ctx, query); err != nil && !errors.Is(err, ErrSuperseded) {
			c.logger.Debug("typeahead search failed", "query", query, "error", err)
		}
	})
}

// RunTypeahead applies the typeahead rules to query without the debounce delay
// and reports whether a search ran.
func (c *SearchController) RunTypeahead(ctx context.Context, query string) (bool, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < c.minLength {
		return false, nil
	}

	seq, ok := c.state.claim(q)
	if !ok {
		return false, nil
	}
	return true, c.search(ctx, q, seq)
}

// CancelTypeahead drops a pending typeahead search.
func (c *SearchController) CancelTypeahead() {
	c.debouncer.Cancel()
}

// Warm renders the cached search of this session, or the initial placeholder,
// followed by the watchlist.
func (c *SearchController) Warm() {
	if record, ok := repositories.ReadSearchCache(c.session, c.logger); ok && len(record.Items) > 0 {
		c.presenter.Notify(cachedResultsNotice(record.Query))
		c.presenter.RenderResults(formatter.RenderResults(record.Items))
	} else {
		c.presenter.RenderResults(formatter.PlaceholderView(models.ModeSearchResults, formatter.InitialResultsText))
	}

	c.watchlist.Render()
}

// AddFromResult fetches the full record for id and adds it to the watchlist.
func (c *SearchController) AddFromResult(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}

	c.begin()
	defer c.end()

	details, err := c.provider.Details(ctx, id)
	if err != nil {
		c.logger.Error("details fetch failed", "id", id, "error", err)
		c.reportFailure(err, detailsFailedNotice())
		return err
	}

	return c.watchlist.Add(details.Entry())
}

// search runs one request. Every path releases the in-flight count.
func (c *SearchController) search(ctx context.Context, query string, seq uint64) error {
	c.begin()
	defer c.end()

	c.presenter.RenderResults(formatter.View{Mode: models.ModeSearchResults, Cards: []formatter.Card{}})
	c.presenter.Notify(clearNotice())

	c.logger.Info("searching", "query", query, "seq", seq)
	resp, err := c.provider.Search(ctx, query)

	if !c.state.isLatest(seq) {
		c.logger.Debug("discarding stale response", "query", query, "seq", seq)
		return ErrSuperseded
	}

	if err != nil {
		c.logger.Error("search failed", "query", query, "error", err)

		var perr *services.ProviderError
		if errors.As(err, &perr) {
			c.presenter.Notify(providerNotice(perr))
			c.presenter.RenderResults(formatter.PlaceholderView(models.ModeSearchResults, perr.Message))
			return err
		}

		c.reportFailure(err, searchFailedNotice())
		return err
	}

	record := models.SearchCacheRecord{Query: query, Items: resp.Items}
	if err := repositories.WriteSearchCache(c.session, record); err != nil {
		c.logger.Warn("failed to cache search", "query", query, "error", err)
	}

	c.presenter.Notify(resultsNotice(query))
	c.presenter.RenderResults(formatter.RenderResults(resp.Items))
	return nil
}

// reportFailure notifies status, provider and timeout errors with their own
// message and everything else with fallback.
func (c *SearchController) reportFailure(err error, fallback Notice) {
	var (
		serr *services.HTTPStatusError
		perr *services.ProviderError
	)

	switch {
	case errors.As(err, &serr):
		c.presenter.Notify(statusNotice(serr))
	case errors.As(err, &perr):
		c.presenter.Notify(providerNotice(perr))
	case errors.Is(err, shared.ErrTimeout):
		c.presenter.Notify(timeoutNotice())
	default:
		c.presenter.Notify(fallback)
	}
}

// begin counts a request in.
func (c *SearchController) begin() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight++
	if c.inFlight == 1 {
		c.presenter.SetBusy(true)
	}
}

// end counts a request out and hides the busy indicator at zero.
func (c *SearchController) end() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = max(0, c.inFlight-1)
	if c.inFlight == 0 {
		c.presenter.SetBusy(false)
	}
}
