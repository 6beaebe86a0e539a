// package models defines the data model for the movie watchlist
package models

import "strings"

// Sentinels substituted when the provider omits a value.
const (
	NotAvailable = "N/A"
	NoPoster     = NotAvailable
	NoYear       = "—"
	UnknownTitle = "Unknown title"
)

// Mode selects how a list of movies is rendered.
type Mode int

const (
	ModeSearchResults Mode = iota
	ModeWatchlist
)

func (m Mode) String() string {
	switch m {
	case ModeSearchResults:
		return "search-results"
	case ModeWatchlist:
		return "watchlist"
	default:
		return ""
	}
}

// SearchResultItem is one candidate returned by a title search.
type SearchResultItem struct {
	ID     string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Poster string `json:"Poster"`
	Type   string `json:"Type,omitempty"`
}

// WatchlistEntry is the compact record persisted in the watchlist.
type WatchlistEntry struct {
	ID     string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Poster string `json:"Poster"`
}

// SearchCacheRecord is the last successful search of a session.
type SearchCacheRecord struct {
	Query string             `json:"q"`
	Items []SearchResultItem `json:"data"`
}

// MovieDetails is the full record returned by a lookup by identifier.
type MovieDetails struct {
	ID         string `json:"imdbID"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDbRating string `json:"imdbRating"`
}

// Entry reduces the details to the compact watchlist shape.
func (d MovieDetails) Entry() WatchlistEntry {
	return NewWatchlistEntry(d.ID, d.Title, firstNonEmpty(d.Year, d.Released), d.Poster)
}

// Entry converts a search result to a watchlist entry without a detail lookup.
func (i SearchResultItem) Entry() WatchlistEntry {
	return NewWatchlistEntry(i.ID, i.Title, i.Year, i.Poster)
}

// NewWatchlistEntry builds an entry, substituting sentinels for missing values.
func NewWatchlistEntry(id, title, year, poster string) WatchlistEntry {
	return WatchlistEntry{
		ID:     strings.TrimSpace(id),
		Title:  firstNonEmpty(title, UnknownTitle),
		Year:   firstNonEmpty(year, NoYear),
		Poster: firstNonEmpty(poster, NoPoster),
	}
}

// HasPoster reports whether poster is a usable URL rather than the sentinel.
func HasPoster(poster string) bool {
	return poster != "" && poster != NoPoster
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
