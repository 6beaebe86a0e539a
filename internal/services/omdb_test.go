package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/movievault/internal/shared"
	tu "github.com/desertthunder/movievault/internal/testing"
)

func newTestService(baseURL string) *OMDbService {
	return NewOMDbService(OMDbOptions{APIKey: "abc12345", BaseURL: baseURL + "/"})
}

func TestOMDbService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("Defaults", func(t *testing.T) {
			svc := NewOMDbService(OMDbOptions{})

			if svc.baseURL != omdbBaseURL {
				t.Errorf("expected base URL %s, got %s", omdbBaseURL, svc.baseURL)
			}
			if svc.searchTimeout != 8*time.Second || svc.detailsTimeout != 7*time.Second {
				t.Errorf("unexpected timeouts %s/%s", svc.searchTimeout, svc.detailsTimeout)
			}
			if svc.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("From Config", func(t *testing.T) {
			cfg := shared.DefaultConfig()
			cfg.Credentials.OMDb.APIKey = "from-config"

			svc := NewOMDbServiceFromConfig(cfg, nil, nil)
			if svc.apiKey != "from-config" {
				t.Errorf("expected key from config, got %s", svc.apiKey)
			}
			if svc.searchTimeout != cfg.OMDb.SearchTimeout {
				t.Errorf("expected search timeout %s, got %s", cfg.OMDb.SearchTimeout, svc.searchTimeout)
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if name := NewOMDbService(OMDbOptions{}).Name(); name != "OMDb" {
			t.Errorf("expected OMDb, got %s", name)
		}
	})

	t.Run("APIKeySet", func(t *testing.T) {
		tc := []struct {
			key  string
			want bool
		}{
			{"", false},
			{shared.PlaceholderAPIKey, false},
			{"abc", false},
			{"a8d077ff", true},
		}
		for _, tt := range tc {
			if got := NewOMDbService(OMDbOptions{APIKey: tt.key}).APIKeySet(); got != tt.want {
				t.Errorf("APIKeySet(%q) = %v, want %v", tt.key, got, tt.want)
			}
		}
	})

	t.Run("URLs", func(t *testing.T) {
		svc := NewOMDbService(OMDbOptions{APIKey: "a8d077ff"})

		if got := svc.SearchURL("mission impossible"); got != "https://www.omdbapi.com/?apikey=a8d077ff&type=movie&s=mission%20impossible" {
			t.Errorf("unexpected search URL %s", got)
		}
		if got := svc.SearchURL("tom & jerry"); !strings.HasSuffix(got, "s=tom%20%26%20jerry") {
			t.Errorf("query not percent-encoded: %s", got)
		}
		if got := svc.DetailsURL("tt0117060"); got != "https://www.omdbapi.com/?apikey=a8d077ff&i=tt0117060" {
			t.Errorf("unexpected details URL %s", got)
		}
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("Issues One Encoded Request", func(t *testing.T) {
			server := tu.NewOMDbServer(t)
			svc := newTestService(server.URL)

			resp, err := svc.Search(context.Background(), "mission impossible")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			reqs := server.Requests()
			if len(reqs) != 1 {
				t.Fatalf("expected exactly one request, got %d", len(reqs))
			}
			if !strings.Contains(reqs[0], "s=mission%20impossible") || !strings.Contains(reqs[0], "type=movie") {
				t.Errorf("unexpected request %s", reqs[0])
			}

			if len(resp.Items) != 2 || resp.Total != 2 {
				t.Fatalf("expected 2 items, got %d (total %d)", len(resp.Items), resp.Total)
			}
			if resp.Items[0].ID != "tt0117060" || resp.Items[1].ID != "tt1229238" {
				t.Errorf("unexpected items %+v", resp.Items)
			}
		})

		t.Run("Provider Failure", func(t *testing.T) {
			server := tu.NewOMDbServer(t)
			server.Handle(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tu.NotFound)
			})

			_, err := newTestService(server.URL).Search(context.Background(), "zzzz")

			var perr *ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ProviderError, got %v", err)
			}
			if perr.Message != "Movie not found!" {
				t.Errorf("expected provider message, got %q", perr.Message)
			}
			if perr.Error() != "OMDb: Movie not found!" {
				t.Errorf("unexpected error text %q", perr.Error())
			}
		})

		t.Run("Provider Failure Without Message", func(t *testing.T) {
			server := tu.NewOMDbServer(t)
			server.Handle(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"Response":"False"}`)
			})

			_, err := newTestService(server.URL).Search(context.Background(), "zzzz")

			var perr *ProviderError
			if !errors.As(err, &perr) || perr.Message != "No results" {
				t.Fatalf("expected 'No results', got %v", err)
			}
		})

		t.Run("HTTP Status Error", func(t *testing.T) {
			server := tu.NewOMDbServer(t)
			server.Handle(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			})

			_, err := newTestService(server.URL).Search(context.Background(), "alien")

			var serr *HTTPStatusError
			if !errors.As(err, &serr) {
				t.Fatalf("expected HTTPStatusError, got %v", err)
			}
			if serr.Error() != "Network error: 401 Unauthorized" {
				t.Errorf("unexpected message %q", serr.Error())
			}
		})

		t.Run("Malformed Body", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(tu.JSONResponse(http.StatusOK, "{not json"), nil)}
			svc := NewOMDbService(OMDbOptions{APIKey: "abc12345", Client: client})

			_, err := svc.Search(context.Background(), "alien")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Read Failure", func(t *testing.T) {
			resp := tu.JSONResponse(http.StatusOK, "")
			resp.Body = &tu.FCloser{}
			client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
			svc := NewOMDbService(OMDbOptions{APIKey: "abc12345", Client: client})

			if _, err := svc.Search(context.Background(), "alien"); err == nil {
				t.Error("expected error when body cannot be read")
			}
		})

		t.Run("Timeout", func(t *testing.T) {
			server := tu.NewOMDbServer(t)
			server.Handle(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			})
			svc := NewOMDbService(OMDbOptions{APIKey: "abc12345", BaseURL: server.URL, SearchTimeout: 30 * time.Millisecond})

			_, err := svc.Search(context.Background(), "alien")
			if !errors.Is(err, shared.ErrTimeout) {
				t.Errorf("expected ErrTimeout, got %v", err)
			}
		})

		t.Run("Body Stalls Mid Response", func(t *testing.T) {
			server := tu.NewOMDbServer(t)
			server.Handle(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"Search":[{"Title":"Alien",`))
				w.(http.Flusher).Flush()
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			})
			svc := NewOMDbService(OMDbOptions{APIKey: "abc12345", BaseURL: server.URL, SearchTimeout: 30 * time.Millisecond})

			_, err := svc.Search(context.Background(), "alien")
			if !errors.Is(err, shared.ErrTimeout) {
				t.Errorf("expected ErrTimeout, got %v", err)
			}
		})
	})

	t.Run("Details", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			server := tu.NewOMDbServer(t)

			details, err := newTestService(server.URL).Details(context.Background(), "tt0117060")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if details.Title != "Mission: Impossible" || details.Released != "22 May 1996" {
				t.Errorf("unexpected details %+v", details)
			}

			entry := details.Entry()
			if entry.ID != "tt0117060" || entry.Year != "1996" {
				t.Errorf("unexpected entry %+v", entry)
			}
		})

		t.Run("Empty ID", func(t *testing.T) {
			_, err := NewOMDbService(OMDbOptions{}).Details(context.Background(), " ")
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("Provider Failure", func(t *testing.T) {
			server := tu.NewOMDbServer(t)
			server.Handle(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"Response":"False"}`)
			})

			_, err := newTestService(server.URL).Details(context.Background(), "tt0000000")

			var perr *ProviderError
			if !errors.As(err, &perr) || perr.Message != "Failed to fetch details" {
				t.Fatalf("expected default details message, got %v", err)
			}
		})

		t.Run("Concurrent Calls Share One Request", func(t *testing.T) {
			var hits atomic.Int32
			release := make(chan struct{})
			server := tu.NewOMDbServer(t)
			server.Handle(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				<-release
				io.WriteString(w, tu.DetailsOK)
			})
			svc := newTestService(server.URL)

			var wg sync.WaitGroup
			results := make([]string, 2)
			for i := range 2 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					d, err := svc.Details(context.Background(), "tt0117060")
					if err == nil {
						results[i] = d.ID
					}
				}()
			}

			time.Sleep(50 * time.Millisecond)
			close(release)
			wg.Wait()

			if hits.Load() != 1 {
				t.Errorf("expected one request, got %d", hits.Load())
			}
			for i, id := range results {
				if id != "tt0117060" {
					t.Errorf("call %d: expected tt0117060, got %q", i, id)
				}
			}
		})
	})

	t.Run("Rate Limit Respects Context", func(t *testing.T) {
		server := tu.NewOMDbServer(t)
		svc := NewOMDbService(OMDbOptions{APIKey: "abc12345", BaseURL: server.URL, RequestsPerSecond: 0.01})

		if _, err := svc.Search(context.Background(), "first"); err != nil {
			t.Fatalf("first request should pass: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if _, err := svc.Search(ctx, "second"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected limiter error, got %v", err)
		}
	})
}
