// OMDb implementation of [Provider]
//
// Response shapes follow https://www.omdbapi.com/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/desertthunder/movievault/internal/models"
	"github.com/desertthunder/movievault/internal/shared"
)

const (
	omdbBaseURL           = "https://www.omdbapi.com/"
	defaultSearchTimeout  = 8 * time.Second
	defaultDetailsTimeout = 7 * time.Second

	noResultsMessage     = "No results"
	detailsFailedMessage = "Failed to fetch details"
)

// omdbSearch is the body of a search response.
type omdbSearch struct {
	Search       []models.SearchResultItem `json:"Search"`
	TotalResults string                    `json:"totalResults"`
	Response     string                    `json:"Response"`
	Error        string                    `json:"Error"`
}

// omdbDetails is the body of a lookup by identifier.
type omdbDetails struct {
	models.MovieDetails
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// OMDbOptions configures an [OMDbService].
type OMDbOptions struct {
	APIKey            string
	BaseURL           string
	SearchTimeout     time.Duration
	DetailsTimeout    time.Duration
	RequestsPerSecond float64
	Client            *http.Client
	Logger            *log.Logger
}

// OMDbService implements [Provider] for the OMDb API.
//
// Requests are paced by a token bucket and concurrent lookups of the same
// identifier share one round trip.
type OMDbService struct {
	apiKey         string
	baseURL        string
	searchTimeout  time.Duration
	detailsTimeout time.Duration
	httpClient     *http.Client
	limiter        *rate.Limiter
	group          singleflight.Group
	logger         *log.Logger
}

// NewOMDbService creates a new OMDb client, filling zero options with defaults.
func NewOMDbService(opts OMDbOptions) *OMDbService {
	if opts.BaseURL == "" {
		opts.BaseURL = omdbBaseURL
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = defaultSearchTimeout
	}
	if opts.DetailsTimeout <= 0 {
		opts.DetailsTimeout = defaultDetailsTimeout
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &OMDbService{
		apiKey:         strings.TrimSpace(opts.APIKey),
		baseURL:        opts.BaseURL,
		searchTimeout:  opts.SearchTimeout,
		detailsTimeout: opts.DetailsTimeout,
		httpClient:     opts.Client,
		limiter:        rate.NewLimiter(limit, 1),
		logger:         opts.Logger,
	}
}

// NewOMDbServiceFromConfig builds the client from the loaded configuration.
func NewOMDbServiceFromConfig(cfg *shared.Config, client *http.Client, logger *log.Logger) *OMDbService {
	return NewOMDbService(OMDbOptions{
		APIKey:            cfg.Credentials.OMDb.APIKey,
		BaseURL:           cfg.Credentials.OMDb.BaseURL,
		SearchTimeout:     cfg.OMDb.SearchTimeout,
		DetailsTimeout:    cfg.OMDb.DetailsTimeout,
		RequestsPerSecond: cfg.OMDb.RequestsPerSecond,
		Client:            client,
		Logger:            logger,
	})
}

// Name returns "OMDb"
func (s *OMDbService) Name() string { return "OMDb" }

// APIKeySet reports whether the configured key looks usable.
func (s *OMDbService) APIKeySet() bool {
	return s.apiKey != "" && s.apiKey != shared.PlaceholderAPIKey && len(s.apiKey) >= 6
}

// SearchURL returns the request URL for a title search.
func (s *OMDbService) SearchURL(query string) string {
	return s.endpoint(fmt.Sprintf("apikey=%s&type=movie&s=%s", escapeComponent(s.apiKey), escapeComponent(query)))
}

// DetailsURL returns the request URL for a lookup by identifier.
func (s *OMDbService) DetailsURL(id string) string {
	return s.endpoint(fmt.Sprintf("apikey=%s&i=%s", escapeComponent(s.apiKey), escapeComponent(id)))
}

func (s *OMDbService) endpoint(rawQuery string) string {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return strings.TrimRight(s.baseURL, "?") + "?" + rawQuery
	}
	u.RawQuery = rawQuery
	return u.String()
}

// Search looks up movies whose title matches query.
func (s *OMDbService) Search(ctx context.Context, query string) (*SearchResponse, error) {
	var body omdbSearch
	if err := s.get(ctx, s.SearchURL(query), s.searchTimeout, &body); err != nil {
		return nil, err
	}

	if body.Response == "False" {
		return nil, &ProviderError{Provider: s.Name(), Message: orDefault(body.Error, noResultsMessage)}
	}

	total, _ := strconv.Atoi(body.TotalResults)
	if body.Search == nil {
		body.Search = []models.SearchResultItem{}
	}

	s.logger.Debug("search complete", "query", query, "results", len(body.Search), "total", total)
	return &SearchResponse{Items: body.Search, Total: total}, nil
}

// Details fetches the full record for id.
//
// Concurrent calls for the same id share one request.
func (s *OMDbService) Details(ctx context.Context, id string) (*models.MovieDetails, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: movie id is required", shared.ErrInvalidInput)
	}

	v, err, dup := s.group.Do(id, func() (any, error) {
		var body omdbDetails
		if err := s.get(ctx, s.DetailsURL(id), s.detailsTimeout, &body); err != nil {
			return nil, err
		}
		if body.Response == "False" {
			return nil, &ProviderError{Provider: s.Name(), Message: orDefault(body.Error, detailsFailedMessage)}
		}
		return &body.MovieDetails, nil
	})
	if err != nil {
		return nil, err
	}

	if dup {
		s.logger.Debug("details request shared", "id", id)
	}

	details := *v.(*models.MovieDetails)
	return &details, nil
}

func (s *OMDbService) get(ctx context.Context, rawURL string, timeout time.Duration, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	resp, err := FetchWithTimeout(ctx, s.httpClient, rawURL, timeout)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPStatusError{StatusCode: resp.StatusCode, Status: statusText(resp)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, shared.ErrTimeout) {
			return err
		}
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

// statusText returns the reason phrase without the leading code.
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// escapeComponent percent-encodes s for a query value, spaces as %20.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
