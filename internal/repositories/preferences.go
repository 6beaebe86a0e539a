package repositories

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/movievault/internal/models"
	"github.com/desertthunder/movievault/internal/shared"
)

// Theme values stored under [ThemeKey].
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}

// ReadWatchlist returns the persisted watchlist, most recent first.
//
// A missing key, a read failure or corrupt JSON all read as an empty list; failures are logged.
func ReadWatchlist(store Store, logger *log.Logger) []models.WatchlistEntry {
	raw, ok, err := store.Get(WatchlistKey)
	if err != nil {
		orDiscard(logger).Warn("failed to read watchlist", "error", err)
		return []models.WatchlistEntry{}
	}
	if !ok || raw == "" {
		return []models.WatchlistEntry{}
	}

	var list []models.WatchlistEntry
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		orDiscard(logger).Warn("corrupt watchlist, treating as empty", "error", err)
		return []models.WatchlistEntry{}
	}
	if list == nil {
		list = []models.WatchlistEntry{}
	}
	return list
}

// WriteWatchlist persists list as a JSON array.
func WriteWatchlist(store Store, list []models.WatchlistEntry) error {
	if list == nil {
		list = []models.WatchlistEntry{}
	}

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("%w: failed to encode watchlist: %v", shared.ErrStorage, err)
	}

	if err := store.Set(WatchlistKey, string(data)); err != nil {
		return fmt.Errorf("%w: failed to save watchlist: %w", shared.ErrStorage, err)
	}
	return nil
}

// ClearWatchlist removes the watchlist key entirely.
func ClearWatchlist(store Store) error {
	if err := store.Remove(WatchlistKey); err != nil {
		return fmt.Errorf("%w: failed to clear watchlist: %w", shared.ErrStorage, err)
	}
	return nil
}

// ReadSearchCache returns the last search of the session, if any.
func ReadSearchCache(store Store, logger *log.Logger) (*models.SearchCacheRecord, bool) {
	raw, ok, err := store.Get(SearchCacheKey)
	if err != nil {
		orDiscard(logger).Warn("failed to read search cache", "error", err)
		return nil, false
	}
	if !ok || raw == "" {
		return nil, false
	}

	var record models.SearchCacheRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		orDiscard(logger).Warn("corrupt search cache, ignoring", "error", err)
		return nil, false
	}
	return &record, true
}

// WriteSearchCache overwrites the session's last search.
func WriteSearchCache(store Store, record models.SearchCacheRecord) error {
	if record.Items == nil {
		record.Items = []models.SearchResultItem{}
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: failed to encode search cache: %v", shared.ErrStorage, err)
	}

	if err := store.Set(SearchCacheKey, string(data)); err != nil {
		return fmt.Errorf("%w: failed to save search cache: %w", shared.ErrStorage, err)
	}
	return nil
}

// ReadTheme returns the stored theme, defaulting to light.
func ReadTheme(store Store) string {
	v, ok, err := store.Get(ThemeKey)
	if err != nil || !ok || v != ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// WriteTheme stores theme, which must be light or dark.
func WriteTheme(store Store, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("%w: theme must be %q or %q, got %q", shared.ErrInvalidArgument, ThemeLight, ThemeDark, theme)
	}
	if err := store.Set(ThemeKey, theme); err != nil {
		return fmt.Errorf("%w: failed to save theme: %w", shared.ErrStorage, err)
	}
	return nil
}
