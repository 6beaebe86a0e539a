package web

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/desertthunder/movievault/internal/repositories"
	"github.com/desertthunder/movievault/internal/tasks"
)

// SessionCookie names the cookie holding the browser session id.
const SessionCookie = "mv_session"

type sessionKey struct{}

// browserSession is what one browser shares across its requests and tabs.
type browserSession struct {
	store  *repositories.SessionStore
	search *tasks.SearchState
}

// withSession attaches the browser's [repositories.SessionStore] and [tasks.SearchState] to the request context,
// issuing a new session id when the cookie is missing or malformed.
func (a *App) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}

		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, browserSession{
			store:  a.sessions.Get(id),
			search: a.searchState(id),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session store of the request, or a throwaway store outside [App.withSession].
func sessionFrom(ctx context.Context) repositories.Store {
	if s, ok := ctx.Value(sessionKey{}).(browserSession); ok {
		return s.store
	}
	return repositories.NewSessionStore(0)
}

// searchStateFrom returns the query history of the request's session, or nil outside [App.withSession].
func searchStateFrom(ctx context.Context) *tasks.SearchState {
	if s, ok := ctx.Value(sessionKey{}).(browserSession); ok {
		return s.search
	}
	return nil
}

// searchState returns the query history for session id, creating it on first use.
func (a *App) searchState(id string) *tasks.SearchState {
	a.searchesMu.Lock()
	defer a.searchesMu.Unlock()

	s, ok := a.searches[id]
	if !ok {
		s = tasks.NewSearchState()
		a.searches[id] = s
	}
	return s
}

// pruneSearchStates drops the query history of sessions the registry expired.
func (a *App) pruneSearchStates() {
	a.searchesMu.Lock()
	defer a.searchesMu.Unlock()

	for id := range a.searches {
		if !a.sessions.Has(id) {
			delete(a.searches, id)
		}
	}
}
