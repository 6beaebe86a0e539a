package tasks

import (
	"errors"
	"testing"

	"github.com/desertthunder/movievault/internal/formatter"
	"github.com/desertthunder/movievault/internal/models"
	"github.com/desertthunder/movievault/internal/repositories"
	"github.com/desertthunder/movievault/internal/shared"
)

func newTestWatchlist() (*Watchlist, *recordingPresenter, *repositories.SessionStore) {
	p := &recordingPresenter{}
	store := repositories.NewSessionStore(0)
	return NewWatchlist(store, p, nil), p, store
}

var (
	mi1 = models.WatchlistEntry{ID: "tt0117060", Title: "Mission: Impossible", Year: "1996", Poster: "N/A"}
	mi4 = models.WatchlistEntry{ID: "tt1229238", Title: "Mission: Impossible - Ghost Protocol", Year: "2011", Poster: "N/A"}
)

func TestWatchlistAdd(t *testing.T) {
	t.Run("Two Entries Most Recent First", func(t *testing.T) {
		w, p, _ := newTestWatchlist()

		if err := w.Add(mi1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.Add(mi4); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		list := w.Entries()
		if len(list) != 2 || list[0].ID != mi4.ID || list[1].ID != mi1.ID {
			t.Errorf("expected [%s %s], got %+v", mi4.ID, mi1.ID, list)
		}
		if view := p.lastWatchlist(); len(view.Cards) != 2 || !view.ShowClearAll {
			t.Errorf("expected rendered watchlist with 2 cards, got %+v", view)
		}
	})

	t.Run("Duplicate Leaves Length Unchanged", func(t *testing.T) {
		w, p, _ := newTestWatchlist()
		w.Add(mi1)

		err := w.Add(mi1)
		if !errors.Is(err, shared.ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
		if n := len(w.Entries()); n != 1 {
			t.Errorf("expected length 1, got %d", n)
		}
		if got := p.lastNotice().Text; got != `⚠️ "Mission: Impossible" is already in your Watchlist.` {
			t.Errorf("unexpected notice %q", got)
		}
	})

	t.Run("Missing Identifier", func(t *testing.T) {
		w, p, _ := newTestWatchlist()

		err := w.Add(models.WatchlistEntry{Title: "No ID"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if n := p.lastNotice(); n.Text != "Invalid movie data; cannot add." || !n.IsError() {
			t.Errorf("unexpected notice %+v", n)
		}
		if len(w.Entries()) != 0 {
			t.Error("nothing should be stored")
		}
	})

	t.Run("Normalizes To Sentinels", func(t *testing.T) {
		w, _, _ := newTestWatchlist()
		w.Add(models.WatchlistEntry{ID: "tt1"})

		got := w.Entries()[0]
		want := models.WatchlistEntry{ID: "tt1", Title: models.UnknownTitle, Year: models.NoYear, Poster: models.NoPoster}
		if got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("Storage Failure", func(t *testing.T) {
		p := &recordingPresenter{}
		w := NewWatchlist(repositories.NewSessionStore(10), p, nil)

		err := w.Add(mi1)
		if !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage, got %v", err)
		}
		if got := p.lastNotice().Text; got != "Failed to save watchlist (storage error)." {
			t.Errorf("unexpected notice %q", got)
		}
		if len(p.watchlist) != 0 {
			t.Error("nothing should be rendered on failure")
		}
	})

	t.Run("Corrupt Data Reads As Empty", func(t *testing.T) {
		w, _, store := newTestWatchlist()
		store.Set(repositories.WatchlistKey, "not json")

		if len(w.Entries()) != 0 {
			t.Error("expected empty list")
		}
		if err := w.Add(mi1); err != nil {
			t.Fatalf("add should recover from corrupt data: %v", err)
		}
		if len(w.Entries()) != 1 {
			t.Error("expected one entry")
		}
	})
}

func TestWatchlistRemove(t *testing.T) {
	t.Run("Removes Entry", func(t *testing.T) {
		w, p, _ := newTestWatchlist()
		w.Add(mi1)
		w.Add(mi4)

		if err := w.Remove(mi1.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if list := w.Entries(); len(list) != 1 || list[0].ID != mi4.ID {
			t.Errorf("unexpected list %+v", list)
		}
		if got := p.lastNotice().Text; got != "🗑️ Removed from Watchlist." {
			t.Errorf("unexpected notice %q", got)
		}
	})

	t.Run("Missing ID Leaves List Unchanged", func(t *testing.T) {
		w, _, _ := newTestWatchlist()
		w.Add(mi1)
		w.Add(mi4)
		before := w.Entries()

		if err := w.Remove("tt0000000"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		after := w.Entries()
		if len(after) != len(before) || after[0] != before[0] || after[1] != before[1] {
			t.Errorf("list changed: %+v -> %+v", before, after)
		}
	})

	t.Run("Empty ID Is No-op", func(t *testing.T) {
		w, p, _ := newTestWatchlist()
		if err := w.Remove(""); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(p.notices) != 0 || len(p.watchlist) != 0 {
			t.Error("empty id should do nothing")
		}
	})
}

func TestWatchlistClear(t *testing.T) {
	t.Run("Requires Confirmation", func(t *testing.T) {
		w, _, _ := newTestWatchlist()
		w.Add(mi1)

		var asked string
		cleared, err := w.Clear(func(prompt string) bool {
			asked = prompt
			return false
		})
		if err != nil || cleared {
			t.Errorf("refusal should not clear (cleared=%v, err=%v)", cleared, err)
		}
		if asked != "Clear all watchlist items?" {
			t.Errorf("unexpected prompt %q", asked)
		}
		if len(w.Entries()) != 1 {
			t.Error("list should be unchanged")
		}

		if cleared, _ := w.Clear(nil); cleared {
			t.Error("nil confirmer should not clear")
		}
	})

	t.Run("Empties Store And View", func(t *testing.T) {
		w, p, store := newTestWatchlist()
		w.Add(mi1)

		cleared, err := w.Clear(Always)
		if err != nil || !cleared {
			t.Fatalf("expected clear, got cleared=%v err=%v", cleared, err)
		}

		if _, ok, _ := store.Get(repositories.WatchlistKey); ok {
			t.Error("watchlist key should be removed")
		}
		if len(w.Entries()) != 0 {
			t.Error("expected empty list")
		}

		view := p.lastWatchlist()
		if !view.Empty() || view.Placeholder != formatter.EmptyWatchlistText {
			t.Errorf("expected empty placeholder, got %+v", view)
		}
		if got := p.lastNotice().Text; got != "All watchlist items cleared." {
			t.Errorf("unexpected notice %q", got)
		}
	})

	t.Run("Render After Clear Shows Placeholder", func(t *testing.T) {
		w, p, _ := newTestWatchlist()
		w.Add(mi1)
		w.Clear(Always)

		w.Render()
		if view := p.lastWatchlist(); view.Placeholder != "Your watchlist is empty 🍿" {
			t.Errorf("unexpected view %+v", view)
		}
	})
}
