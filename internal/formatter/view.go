// package formatter renders movie lists as view models, HTML and plain text, and exports the watchlist to CSV, Markdown, JSON and text
package formatter

import (
	"strings"

	"github.com/desertthunder/movievault/internal/models"
)

// PlaceholderPoster is shown when a movie has no poster.
const PlaceholderPoster = "./assets/placeholder.png"

// Placeholder messages.
const (
	NoResultsText      = "No results."
	EmptyWatchlistText = "Your watchlist is empty 🍿"
	InitialResultsText = "Search for your favorite movies 🎥"
)

// ActionKind is the interactive control attached to a card.
type ActionKind string

const (
	ActionAdd    ActionKind = "add"
	ActionRemove ActionKind = "remove"
)

// Action is the button on a card. TargetID is the movie identifier it acts on.
type Action struct {
	Kind     ActionKind
	Label    string
	TargetID string
}

// Class returns the markup class of the button.
func (a Action) Class() string {
	return string(a.Kind) + "-btn"
}

// Card is one rendered movie.
type Card struct {
	ID        string
	Title     string
	Meta      string
	PosterURL string
	Action    Action
}

// View is a declarative description of one rendered list.
//
// When Cards is empty, Placeholder holds the message to show instead.
// ShowClearAll requests a single clear-all control after the list.
type View struct {
	Mode         models.Mode
	Cards        []Card
	Placeholder  string
	ShowClearAll bool
}

// Empty reports whether the view renders a placeholder instead of cards.
func (v View) Empty() bool { return len(v.Cards) == 0 }

// RenderList builds the view for items in the given mode.
func RenderList(items []models.WatchlistEntry, mode models.Mode) View {
	view := View{Mode: mode, Cards: make([]Card, 0, len(items))}

	for _, item := range items {
		view.Cards = append(view.Cards, Card{
			ID:        item.ID,
			Title:     item.Title,
			Meta:      meta(item.Year),
			PosterURL: posterURL(item.Poster),
			Action:    action(mode, item.ID),
		})
	}

	if len(view.Cards) == 0 {
		view.Placeholder = placeholder(mode)
		return view
	}

	view.ShowClearAll = mode == models.ModeWatchlist
	return view
}

// RenderResults builds the search-results view.
func RenderResults(items []models.SearchResultItem) View {
	entries := make([]models.WatchlistEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, models.WatchlistEntry{ID: it.ID, Title: it.Title, Year: it.Year, Poster: it.Poster})
	}
	return RenderList(entries, models.ModeSearchResults)
}

// RenderWatchlist builds the watchlist view.
func RenderWatchlist(entries []models.WatchlistEntry) View {
	return RenderList(entries, models.ModeWatchlist)
}

// PlaceholderView is an empty view showing message, e.g. a provider error or the initial prompt.
func PlaceholderView(mode models.Mode, message string) View {
	return View{Mode: mode, Cards: []Card{}, Placeholder: message}
}

func placeholder(mode models.Mode) string {
	if mode == models.ModeWatchlist {
		return EmptyWatchlistText
	}
	return NoResultsText
}

func action(mode models.Mode, id string) Action {
	if mode == models.ModeWatchlist {
		return Action{Kind: ActionRemove, Label: "❌ Remove", TargetID: id}
	}
	return Action{Kind: ActionAdd, Label: "➕ Add to Watchlist", TargetID: id}
}

func meta(year string) string {
	if strings.TrimSpace(year) == "" {
		return models.NoYear
	}
	return year
}

func posterURL(poster string) string {
	if !models.HasPoster(poster) {
		return PlaceholderPoster
	}
	return poster
}
