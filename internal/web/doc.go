// Package web implements the browser interface over the same search controller and watchlist as the TUI.
//
// # Routes
//
//	GET    /                      → full page: cached results for this browser session plus the watchlist
//	GET    /fragments             → JSON fragments for both lists
//	GET    /fragments/watchlist   → JSON fragment for the watchlist
//	GET    /api/search?q=         → run a search (typeahead=1 applies the minimum length and repeat rules);
//	                                204 when skipped or overtaken by a newer search of the same session
//	GET    /api/details/{id}      → full movie record with plain-text plot
//	GET    /api/watchlist         → watchlist entries
//	POST   /api/watchlist/{id}    → fetch details and add
//	DELETE /api/watchlist/{id}    → remove
//	POST   /api/watchlist/clear   → clear, only with confirm=true
//	GET    /api/theme, POST /api/theme?theme= → read or store the light/dark preference
//	GET    /ws                    → websocket; receives {"type":"watchlist"} on every change
//
// # State
//
// The watchlist and theme live in the persistent store shared by every tab and process.
// The last search of each browser lives in a session store keyed by the mv_session cookie,
// next to a [tasks.SearchState] holding its last submitted query and search sequence.
//
// Fragment responses carry the current notice and the rendered markup of each list the request touched.
// Markup is produced by html/template, which escapes titles and notice text.
package web
