package web

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/desertthunder/movievault/internal/repositories"
	"github.com/desertthunder/movievault/internal/server"
	"github.com/desertthunder/movievault/internal/services"
	"github.com/desertthunder/movievault/internal/shared"
	"github.com/desertthunder/movievault/internal/tasks"
)

const (
	defaultSessionTTL = 2 * time.Hour
	defaultDebounce   = 500 * time.Millisecond
)

// Options holds the dependencies of an [App].
type Options struct {
	Provider services.Provider
	// Store persists the watchlist and theme, shared by every tab.
	Store repositories.Store
	// Sessions holds per-browser search caches.
	Sessions     *repositories.SessionRegistry
	Connectivity shared.Connectivity
	Logger       *log.Logger

	Debounce           time.Duration
	MinTypeaheadLength int
	SessionTTL         time.Duration
}

// App serves the web presentation of the search controller and watchlist.
//
// Each request builds its own [tasks.SearchController] around a presenter that
// records what the request rendered. Watchlist mutations are serialized.
type App struct {
	provider   services.Provider
	store      repositories.Store
	sessions   *repositories.SessionRegistry
	online     shared.Connectivity
	logger     *log.Logger
	hub        *Hub
	debounce   time.Duration
	minLength  int
	sessionTTL time.Duration

	writes sync.Mutex

	searchesMu sync.Mutex
	searches   map[string]*tasks.SearchState
}

func NewApp(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Sessions == nil {
		opts.Sessions = repositories.NewSessionRegistry(0)
	}
	if opts.Connectivity == nil {
		opts.Connectivity = shared.AlwaysOnline
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.MinTypeaheadLength <= 0 {
		opts.MinTypeaheadLength = 3
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}

	return &App{
		provider:   opts.Provider,
		store:      opts.Store,
		sessions:   opts.Sessions,
		online:     opts.Connectivity,
		logger:     opts.Logger,
		hub:        NewHub(opts.Logger),
		debounce:   opts.Debounce,
		minLength:  opts.MinTypeaheadLength,
		sessionTTL: opts.SessionTTL,
		searches:   make(map[string]*tasks.SearchState),
	}
}

// Hub returns the websocket hub that pushes watchlist changes.
func (a *App) Hub() *Hub { return a.hub }

// Handler builds the router with every page, API and websocket route.
func (a *App) Handler() http.Handler {
	r := server.NewRouter()
	r.Use(server.RequestID(), server.RequestLogger(a.logger), server.Recoverer(a.logger), a.withSession)

	r.Handle(http.MethodGet, "/", http.HandlerFunc(a.handleIndex))
	r.Handle(http.MethodGet, "/fragments", http.HandlerFunc(a.handleFragments))
	r.Handle(http.MethodGet, "/fragments/watchlist", http.HandlerFunc(a.handleWatchlistFragment))

	r.Handle(http.MethodGet, "/api/search", http.HandlerFunc(a.handleSearch))
	r.Handle(http.MethodGet, "/api/details/{id}", http.HandlerFunc(a.handleDetails))
	r.Handle(http.MethodGet, "/api/watchlist", http.HandlerFunc(a.handleWatchlist))
	r.Handle(http.MethodPost, "/api/watchlist/clear", http.HandlerFunc(a.handleClear))
	r.Handle(http.MethodPost, "/api/watchlist/{id}", http.HandlerFunc(a.handleAdd))
	r.Handle(http.MethodDelete, "/api/watchlist/{id}", http.HandlerFunc(a.handleRemove))
	r.Handle(http.MethodGet, "/api/theme", http.HandlerFunc(a.handleGetTheme))
	r.Handle(http.MethodPost, "/api/theme", http.HandlerFunc(a.handleSetTheme))

	static, _ := fs.Sub(assets, "assets")
	r.Handle(http.MethodGet, "/assets/*", http.StripPrefix("/assets/", http.FileServerFS(static)))
	r.Handler(a.hub)

	return r
}

// Run pushes watchlist changes to connected tabs and expires idle sessions until ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.hub.Close()

	listener := tasks.NewSyncListener(a.store, "", func(repositories.Change) {
		a.hub.Broadcast(WatchlistChanged)
	}, a.logger)
	go func() {
		if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("sync listener stopped", "error", err)
		}
	}()

	ticker := time.NewTicker(a.sessionTTL / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := a.sessions.Expire(a.sessionTTL); n > 0 {
				a.pruneSearchStates()
				a.logger.Debug("expired sessions", "count", n, "live", a.sessions.Len())
			}
		}
	}
}

// controller builds the per-request [tasks.SearchController] rendering into p.
func (a *App) controller(r *http.Request, p *pagePresenter) *tasks.SearchController {
	logger := shared.WithLogger(a.logger, "request_id", middleware.GetReqID(r.Context()))
	watchlist := tasks.NewWatchlist(a.store, p, logger)
	return tasks.NewSearchController(tasks.SearchOptions{
		Provider:           a.provider,
		Session:            sessionFrom(r.Context()),
		State:              searchStateFrom(r.Context()),
		Watchlist:          watchlist,
		Presenter:          p,
		Connectivity:       a.online,
		Logger:             logger,
		Debounce:           a.debounce,
		MinTypeaheadLength: a.minLength,
	})
}
