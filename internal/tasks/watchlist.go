package tasks

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/movievault/internal/formatter"
	"github.com/desertthunder/movievault/internal/models"
	"github.com/desertthunder/movievault/internal/repositories"
	"github.com/desertthunder/movievault/internal/shared"
)

// ClearPrompt is the question asked before clearing the watchlist.
const ClearPrompt = "Clear all watchlist items?"

// Watchlist manages the persisted watchlist, keeping identifiers unique.
//
// Every mutation re-renders the watchlist through the [Presenter] and reports a [Notice].
// Errors are returned for callers that need them, after the user has been notified.
type Watchlist struct {
	store     repositories.Store
	presenter Presenter
	logger    *log.Logger

	mu sync.Mutex
}

func NewWatchlist(store repositories.Store, presenter Presenter, logger *log.Logger) *Watchlist {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Watchlist{store: store, presenter: presenter, logger: logger}
}

// Entries returns the watchlist, most recent first. Unreadable data reads as empty.
func (w *Watchlist) Entries() []models.WatchlistEntry {
	return repositories.ReadWatchlist(w.store, w.logger)
}

// Contains reports whether id is in the watchlist.
func (w *Watchlist) Contains(id string) bool {
	for _, e := range w.Entries() {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Render pushes the current watchlist to the presenter.
func (w *Watchlist) Render() {
	w.presenter.RenderWatchlist(formatter.RenderWatchlist(w.Entries()))
}

// Add prepends entry unless its identifier is missing or already present.
func (w *Watchlist) Add(entry models.WatchlistEntry) error {
	if strings.TrimSpace(entry.ID) == "" {
		w.presenter.Notify(invalidEntryNotice())
		return fmt.Errorf("%w: movie has no identifier", shared.ErrInvalidInput)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	list := w.Entries()
	for _, e := range list {
		if e.ID == entry.ID {
			w.presenter.Notify(duplicateNotice(entry.Title))
			return fmt.Errorf("%w: %s", shared.ErrAlreadyExists, entry.ID)
		}
	}

	compact := models.NewWatchlistEntry(entry.ID, entry.Title, entry.Year, entry.Poster)
	list = append([]models.WatchlistEntry{compact}, list...)

	if err := repositories.WriteWatchlist(w.store, list); err != nil {
		w.logger.Error("failed to save watchlist", "id", compact.ID, "error", err)
		w.presenter.Notify(storageNotice())
		return err
	}

	w.logger.Info("added to watchlist", "id", compact.ID, "title", compact.Title)
	w.presenter.Notify(addedNotice(compact.Title))
	w.presenter.RenderWatchlist(formatter.RenderWatchlist(list))
	return nil
}

// Remove filters id out of the watchlist. An empty id does nothing; a missing one leaves the list unchanged.
func (w *Watchlist) Remove(id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	current := w.Entries()
	list := make([]models.WatchlistEntry, 0, len(current))
	for _, e := range current {
		if e.ID != id {
			list = append(list, e)
		}
	}

	if err := repositories.WriteWatchlist(w.store, list); err != nil {
		w.logger.Error("failed to save watchlist", "id", id, "error", err)
		w.presenter.Notify(storageNotice())
		return err
	}

	w.logger.Info("removed from watchlist", "id", id, "found", len(list) < len(current))
	w.presenter.RenderWatchlist(formatter.RenderWatchlist(list))
	w.presenter.Notify(removedNotice())
	return nil
}

// Clear removes the whole watchlist after confirm approves [ClearPrompt].
// A nil confirm counts as a refusal. It reports whether the list was cleared.
func (w *Watchlist) Clear(confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm(ClearPrompt) {
		return false, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := repositories.ClearWatchlist(w.store); err != nil {
		w.logger.Error("failed to clear watchlist", "error", err)
		w.presenter.Notify(storageNotice())
		return false, err
	}

	w.logger.Info("watchlist cleared")
	w.presenter.RenderWatchlist(formatter.RenderWatchlist(nil))
	w.presenter.Notify(clearedNotice())
	return true, nil
}
