// Package models defines the movie records shared by the provider client, the storage layer and the renderers.
//
// Three shapes move through the application:
//   - [SearchResultItem] : one candidate from a title search; ephemeral
//   - [WatchlistEntry] : the compact record persisted in the watchlist, most recent first
//   - [SearchCacheRecord] : the last search, kept for the lifetime of a session to warm the first render
//
// [MovieDetails] is the full record returned by a lookup by identifier; it is reduced to a [WatchlistEntry] before it is stored.
//
// JSON field names follow the provider (imdbID, Title, Year, Poster) so persisted data stays readable by other clients.
package models
