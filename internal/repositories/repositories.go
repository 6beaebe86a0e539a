// package repositories provides the key-value stores that hold the watchlist,
// the session search cache and user preferences.
package repositories

import (
	"database/sql"
	"fmt"
)

// Fixed storage keys.
const (
	WatchlistKey   = "movieWatchlist_v1"
	SearchCacheKey = "mv_last_search_json"
	ThemeKey       = "theme"
)

// OriginExternal marks changes written by another process.
const OriginExternal = "external"

// Store is a synchronous string key-value store with change notifications.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error

	// Subscribe returns a channel of changes and a function that ends the subscription.
	Subscribe() (<-chan Change, func())
}

// Change describes one mutation of a store.
type Change struct {
	Key    string
	Origin string
}

// NextSequence atomically increments and returns the next value of a single-row sequence table.
//
// Every write to the kv table takes a value so revisions are unique across keys and never reused.
func NextSequence(tx *sql.Tx, table string) (int64, error) {
	sequenceTable := table + "_sequence"

	if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable)); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int64
	if err := tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	return sequence, nil
}
