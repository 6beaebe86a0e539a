// Package tasks coordinates searches and watchlist changes between the provider, the stores and a presentation layer.
//
// # Search Controller
//
// [SearchController] owns one session's query lifecycle:
//
//  1. [SearchController.Submit] : validates the API key, the query and connectivity, then searches
//  2. [SearchController.Typeahead] : debounced search as the user types (minimum length, no repeats)
//  3. [SearchController.Warm] : renders the session's cached search or the initial placeholder
//  4. [SearchController.AddFromResult] : fetches details and adds the movie to the watchlist
//
// An in-flight counter keeps the busy indicator visible while any request runs.
// Sequence numbers discard responses that arrive after a newer search was issued.
//
// # Watchlist
//
// [Watchlist] adds, removes and clears entries over a [repositories.Store]. Identifiers are unique
// and the most recent entry comes first. Clearing asks a [Confirmer] first.
//
// # Presentation
//
// Results and notices flow out through the [Presenter] interface as [formatter.View] values and [Notice]s.
// Presenter calls are the only output; no error escapes as a panic or a crash.
//
// # Sync
//
// [SyncListener] subscribes to a store and re-renders the watchlist when it changes in another
// context (another process through the [repositories.Watcher], or another browser tab).
package tasks
