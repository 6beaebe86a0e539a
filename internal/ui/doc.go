// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [SearchView] : Type to search (debounced typeahead, enter to submit), browse results and add them
//  2. [WatchlistView] : Browse the saved watchlist, remove entries or clear it
//  3. [ConfirmClearView] : Confirm clearing the whole watchlist
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Search and watchlist actions run as commands; their results reach the model through a [Presenter]
// that forwards each render and notice to the running program.
//
// Key bindings are contextual and displayed via charmbracelet/bubbles/help.
package ui
