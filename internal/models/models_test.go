package models

import (
	"encoding/json"
	"testing"
)

func TestNewWatchlistEntry(t *testing.T) {
	tc := []struct {
		name string
		got  WatchlistEntry
		want WatchlistEntry
	}{
		{
			name: "all fields present",
			got:  NewWatchlistEntry("tt0117060", "Mission: Impossible", "1996", "https://example.com/p.jpg"),
			want: WatchlistEntry{ID: "tt0117060", Title: "Mission: Impossible", Year: "1996", Poster: "https://example.com/p.jpg"},
		},
		{
			name: "missing values use sentinels",
			got:  NewWatchlistEntry("tt1", "", "", ""),
			want: WatchlistEntry{ID: "tt1", Title: UnknownTitle, Year: NoYear, Poster: NoPoster},
		},
		{
			name: "whitespace title counts as missing",
			got:  NewWatchlistEntry(" tt2 ", "   ", "2001", "N/A"),
			want: WatchlistEntry{ID: "tt2", Title: UnknownTitle, Year: "2001", Poster: NoPoster},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("NewWatchlistEntry() = %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestMovieDetailsEntry(t *testing.T) {
	t.Run("year preferred over release date", func(t *testing.T) {
		d := MovieDetails{ID: "tt0117060", Title: "Mission: Impossible", Year: "1996", Released: "22 May 1996"}
		if got := d.Entry().Year; got != "1996" {
			t.Errorf("expected 1996, got %s", got)
		}
	})

	t.Run("release date used when year missing", func(t *testing.T) {
		d := MovieDetails{ID: "tt0117060", Released: "22 May 1996"}
		if got := d.Entry().Year; got != "22 May 1996" {
			t.Errorf("expected release date, got %s", got)
		}
	})
}

func TestJSONShape(t *testing.T) {
	raw := `{"Title":"Mission: Impossible","Year":"1996","imdbID":"tt0117060","Type":"movie","Poster":"N/A"}`

	var item SearchResultItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if item.ID != "tt0117060" || item.Title != "Mission: Impossible" {
		t.Errorf("unexpected item: %+v", item)
	}
	if HasPoster(item.Poster) {
		t.Error("N/A poster should not count as a poster")
	}

	out, err := json.Marshal(item.Entry())
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	if string(out) != `{"imdbID":"tt0117060","Title":"Mission: Impossible","Year":"1996","Poster":"N/A"}` {
		t.Errorf("unexpected persisted shape: %s", out)
	}
}

func TestModeString(t *testing.T) {
	if ModeSearchResults.String() != "search-results" || ModeWatchlist.String() != "watchlist" {
		t.Error("unexpected mode names")
	}
}
