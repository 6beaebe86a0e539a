// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// JSONResponse builds a response with the given status and body for [MockRoundTripper].
func JSONResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Status:     http.StatusText(code),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// OMDbServer is an httptest server that records every request URL and
// answers searches with SearchOK and lookups with DetailsOK unless a handler is set.
type OMDbServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
	handler  http.HandlerFunc
}

// NewOMDbServer starts a fake provider; it is closed by t.Cleanup.
func NewOMDbServer(t *testing.T) *OMDbServer {
	t.Helper()

	s := &OMDbServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.RequestURI())
		h := s.handler
		s.mu.Unlock()

		if h != nil {
			h(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Query().Get("s") != "":
			io.WriteString(w, SearchOK)
		case r.URL.Query().Get("i") == "tt0117060":
			io.WriteString(w, DetailsOK)
		default:
			io.WriteString(w, `{"Response":"False","Error":"Incorrect IMDb ID."}`)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

// Handle replaces the default responses.
func (s *OMDbServer) Handle(h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// Requests returns the request URIs received so far.
func (s *OMDbServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

const SearchOK = `{
  "Search": [
    {"Title":"Mission: Impossible","Year":"1996","imdbID":"tt0117060","Type":"movie","Poster":"https://m.media-amazon.com/images/M/mi1.jpg"},
    {"Title":"Mission: Impossible - Ghost Protocol","Year":"2011","imdbID":"tt1229238","Type":"movie","Poster":"N/A"}
  ],
  "totalResults":"2",
  "Response":"True"
}`

const DetailsOK = `{
  "Title":"Mission: Impossible",
  "Year":"1996",
  "Released":"22 May 1996",
  "Runtime":"110 min",
  "Genre":"Action, Adventure, Thriller",
  "Director":"Brian De Palma",
  "Plot":"An American agent, under false suspicion of disloyalty, must discover and expose the real spy.",
  "Poster":"https://m.media-amazon.com/images/M/mi1.jpg",
  "imdbRating":"7.2",
  "imdbID":"tt0117060",
  "Response":"True"
}`

const NotFound = `{"Response":"False","Error":"Movie not found!"}`

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
