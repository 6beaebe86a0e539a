// package services defines interface Provider for querying the movie database over HTTP
package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/movievault/internal/models"
)

// Provider is the external movie database.
type Provider interface {
	// Search looks up movies by title.
	// A provider-level failure (no matches, bad key) is returned as [*ProviderError].
	Search(ctx context.Context, query string) (*SearchResponse, error)

	// Details fetches the full record for one identifier.
	Details(ctx context.Context, id string) (*models.MovieDetails, error)

	// Name returns the name of the provider (e.g., "OMDb")
	Name() string
}

// SearchResponse holds the candidates returned by a title search.
type SearchResponse struct {
	Items []models.SearchResultItem
	Total int
}

// HTTPStatusError is returned when the provider answers with a non-2xx status.
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("Network error: %d %s", e.StatusCode, e.Status)
}

// ProviderError is returned when the provider reports Response "False".
type ProviderError struct {
	Provider string
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}
