package tasks

import (
	"fmt"

	"github.com/desertthunder/movievault/internal/services"
)

// Level is the severity of a [Notice].
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	default:
		return ""
	}
}

// Notice is a user-facing status message. An empty Text clears the message area.
type Notice struct {
	Text  string
	Level Level
}

// IsError reports whether the notice should be styled as an error.
func (n Notice) IsError() bool { return n.Level == LevelError }

func infoNotice(text string) Notice  { return Notice{Text: text, Level: LevelInfo} }
func errorNotice(text string) Notice { return Notice{Text: text, Level: LevelError} }

func clearNotice() Notice { return Notice{} }

func emptyQueryNotice() Notice {
	return infoNotice("Please enter a movie name.")
}

func missingKeyNotice() Notice {
	return errorNotice("Put your OMDb API key in config.toml (credentials.omdb.api_key).")
}

func offlineNotice() Notice {
	return errorNotice("You're offline — check your connection.")
}

func statusNotice(err *services.HTTPStatusError) Notice {
	return errorNotice(err.Error())
}

func providerNotice(err *services.ProviderError) Notice {
	return errorNotice(err.Error())
}

func resultsNotice(query string) Notice {
	return infoNotice(fmt.Sprintf("Showing results for \"%s\"", query))
}

func cachedResultsNotice(query string) Notice {
	return infoNotice(fmt.Sprintf("Showing cached results for \"%s\"", query))
}

func timeoutNotice() Notice {
	return errorNotice("Request timed out. Try again.")
}

func searchFailedNotice() Notice {
	return errorNotice("Failed to load movies. See log for details.")
}

func detailsFailedNotice() Notice {
	return errorNotice("Failed to fetch details. See log for details.")
}

func invalidEntryNotice() Notice {
	return errorNotice("Invalid movie data; cannot add.")
}

func duplicateNotice(title string) Notice {
	return infoNotice(fmt.Sprintf("⚠️ \"%s\" is already in your Watchlist.", title))
}

func addedNotice(title string) Notice {
	return infoNotice(fmt.Sprintf("✅ Added \"%s\" to your Watchlist.", title))
}

func storageNotice() Notice {
	return errorNotice("Failed to save watchlist (storage error).")
}

func removedNotice() Notice {
	return infoNotice("🗑️ Removed from Watchlist.")
}

func clearedNotice() Notice {
	return infoNotice("All watchlist items cleared.")
}
