// Package repositories implements the key-value stores behind the watchlist and the session search cache.
//
// Key Implementations:
//   - [KVRepository] : persistent store on the SQLite kv table with a per-value quota
//   - [SessionStore] : in-memory store scoped to one TUI process or one browser session
//   - [SessionRegistry] : session stores keyed by the web session cookie
//   - [Broadcaster] : non-blocking fan-out of [Change] events to subscribers
//   - [Watcher] : detects writes made by other processes and republishes them
//
// Every write to the kv table takes the next value of a table-wide sequence as its revision,
// so a revision is never reused even when a key is removed and written again.
//
// The typed helpers ([ReadWatchlist], [WriteWatchlist], [ReadSearchCache], [WriteSearchCache],
// [ReadTheme], [WriteTheme]) own the JSON encoding. Reads degrade to empty values; writes
// return errors wrapping [shared.ErrStorage].
package repositories
