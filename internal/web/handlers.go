package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/desertthunder/movievault/internal/formatter"
	"github.com/desertthunder/movievault/internal/models"
	"github.com/desertthunder/movievault/internal/repositories"
	"github.com/desertthunder/movievault/internal/services"
	"github.com/desertthunder/movievault/internal/shared"
	"github.com/desertthunder/movievault/internal/tasks"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps a classified failure to an HTTP status.
func statusFor(err error) int {
	var perr *services.ProviderError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, shared.ErrMissingCredentials), errors.Is(err, shared.ErrOffline):
		return http.StatusServiceUnavailable
	case errors.Is(err, shared.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, shared.ErrQuotaExceeded):
		return http.StatusInsufficientStorage
	case errors.Is(err, shared.ErrStorage):
		return http.StatusInternalServerError
	case errors.As(err, &perr):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// respond writes the fragments p recorded with the status of err.
func (a *App) respond(w http.ResponseWriter, p *pagePresenter, status int) {
	resp, err := p.response()
	if err != nil {
		a.logger.Error("failed to render fragments", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "render failed"})
		return
	}
	writeJSON(w, status, resp)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	p := &pagePresenter{}
	a.controller(r, p).Warm()

	data := pageData{
		Theme:     repositories.ReadTheme(a.store),
		Notice:    p.notice,
		Results:   formatter.PlaceholderView(models.ModeSearchResults, formatter.InitialResultsText),
		Watchlist: formatter.RenderWatchlist(nil),
		Debounce:  a.debounce.Milliseconds(),
	}
	if p.results != nil {
		data.Results = *p.results
	}
	if p.watchlist != nil {
		data.Watchlist = *p.watchlist
	}

	var buf bytes.Buffer
	if err := pageTmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		a.logger.Error("failed to render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (a *App) handleFragments(w http.ResponseWriter, r *http.Request) {
	p := &pagePresenter{}
	a.controller(r, p).Warm()
	a.respond(w, p, http.StatusOK)
}

func (a *App) handleWatchlistFragment(w http.ResponseWriter, r *http.Request) {
	p := &pagePresenter{}
	a.controller(r, p).Watchlist().Render()
	a.respond(w, p, http.StatusOK)
}

// handleSearch runs an explicit search, or a typeahead search when typeahead is set.
//
// Typeahead queries that are too short or repeat the session's last submitted
// query get 204, as does a search overtaken by a newer one from the same session.
func (a *App) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	p := &pagePresenter{}
	ctrl := a.controller(r, p)

	var err error
	if r.URL.Query().Get("typeahead") != "" {
		var ran bool
		ran, err = ctrl.RunTypeahead(r.Context(), query)
		if !ran {
			w.WriteHeader(http.StatusNoContent)
			return
		}
	} else {
		err = ctrl.Submit(r.Context(), query)
	}

	if errors.Is(err, tasks.ErrSuperseded) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	a.respond(w, p, statusFor(err))
}

func (a *App) handleDetails(w http.ResponseWriter, r *http.Request) {
	details, err := a.provider.Details(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.logger.Error("details fetch failed", "error", err)
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	details.Plot = formatter.SanitizePlot(details.Plot)
	writeJSON(w, http.StatusOK, details)
}

func (a *App) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, repositories.ReadWatchlist(a.store, a.logger))
}

func (a *App) handleAdd(w http.ResponseWriter, r *http.Request) {
	a.writes.Lock()
	defer a.writes.Unlock()

	p := &pagePresenter{}
	err := a.controller(r, p).AddFromResult(r.Context(), chi.URLParam(r, "id"))

	status := statusFor(err)
	if err == nil {
		status = http.StatusCreated
	}
	a.respond(w, p, status)
}

func (a *App) handleRemove(w http.ResponseWriter, r *http.Request) {
	a.writes.Lock()
	defer a.writes.Unlock()

	p := &pagePresenter{}
	err := a.controller(r, p).Watchlist().Remove(chi.URLParam(r, "id"))
	a.respond(w, p, statusFor(err))
}

// handleClear clears the watchlist only when the request carries confirm=true.
func (a *App) handleClear(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	a.writes.Lock()
	defer a.writes.Unlock()

	p := &pagePresenter{}
	cleared, err := a.controller(r, p).Watchlist().Clear(func(string) bool { return confirmed })

	switch {
	case err != nil:
		a.respond(w, p, statusFor(err))
	case !cleared:
		writeJSON(w, http.StatusPreconditionRequired, errorResponse{Error: "confirmation required"})
	default:
		a.respond(w, p, http.StatusOK)
	}
}

type themeBody struct {
	Theme string `json:"theme"`
}

func (a *App) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeBody{Theme: repositories.ReadTheme(a.store)})
}

func (a *App) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	theme := r.URL.Query().Get("theme")
	if err := repositories.WriteTheme(a.store, theme); err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: theme})
}
