package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/movievault/internal/models"
	"github.com/desertthunder/movievault/internal/repositories"
	"github.com/desertthunder/movievault/internal/services"
	"github.com/desertthunder/movievault/internal/shared"
	tu "github.com/desertthunder/movievault/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			provider := services.NewOMDbService(services.OMDbOptions{APIKey: "abc12345"})

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Provider:   provider,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.provider != provider {
				t.Error("expected provider to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("builds provider from config when unset", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.Provider() == nil {
				t.Fatal("expected provider to be built")
			}
			if runner.Provider().Name() != "OMDb" {
				t.Errorf("expected OMDb provider, got %s", runner.Provider().Name())
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("confirm", func(t *testing.T) {
		tests := []struct {
			input string
			want  bool
		}{
			{"y\n", true},
			{"YES\n", true},
			{"n\n", false},
			{"\n", false},
			{"", false},
			{"y", true},
		}

		for _, tt := range tests {
			t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
				output := &bytes.Buffer{}
				runner := NewRunner(RunnerOpts{Output: output, Input: strings.NewReader(tt.input)})

				if got := runner.confirm("Clear?"); got != tt.want {
					t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
				}
				if !strings.Contains(output.String(), "Clear? [y/N]") {
					t.Errorf("expected prompt, got %q", output.String())
				}
			})
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

type testCLI struct {
	runner *Runner
	output *bytes.Buffer
	store  *repositories.KVRepository
	omdb   *tu.OMDbServer
}

func newTestCLI(t *testing.T, input string) *testCLI {
	t.Helper()
	t.Chdir(t.TempDir())

	omdb := tu.NewOMDbServer(t)
	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := repositories.NewKVRepository(db, 0)
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Provider:     services.NewOMDbService(services.OMDbOptions{APIKey: "abc12345", BaseURL: omdb.URL + "/"}),
		Connectivity: shared.AlwaysOnline,
		Store:        store,
		Logger:       log.New(&bytes.Buffer{}),
		Output:       output,
		Input:        strings.NewReader(input),
	})

	return &testCLI{runner: runner, output: output, store: store, omdb: omdb}
}

func (c *testCLI) run(t *testing.T, args ...string) error {
	t.Helper()
	c.output.Reset()
	return newApp(c.runner).Run(context.Background(), append([]string{"movievault"}, args...))
}

func TestCommands(t *testing.T) {
	t.Run("search prints notice and results", func(t *testing.T) {
		c := newTestCLI(t, "")

		if err := c.run(t, "search", "mission", "impossible"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := c.output.String()
		for _, want := range []string{`Showing results for "mission impossible"`, "Mission: Impossible", "[tt0117060]", "[tt1229238]"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got %q", want, out)
			}
		}
	})

	t.Run("search --json prints the cached record", func(t *testing.T) {
		c := newTestCLI(t, "")

		if err := c.run(t, "search", "--json", "--pretty", "mission"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := c.output.String()
		if !strings.Contains(out, `"q": "mission"`) || !strings.Contains(out, `"imdbID": "tt0117060"`) {
			t.Errorf("expected cached record JSON, got %q", out)
		}
		if strings.Contains(out, "Showing results") {
			t.Error("expected notices to be suppressed in JSON mode")
		}
	})

	t.Run("empty search fails without a request", func(t *testing.T) {
		c := newTestCLI(t, "")

		if err := c.run(t, "search"); err == nil {
			t.Fatal("expected error for empty query")
		}
		if !strings.Contains(c.output.String(), "Please enter a movie name.") {
			t.Errorf("expected empty query notice, got %q", c.output.String())
		}
		if len(c.omdb.Requests()) != 0 {
			t.Errorf("expected no provider requests, got %v", c.omdb.Requests())
		}
	})

	t.Run("details prints the record", func(t *testing.T) {
		c := newTestCLI(t, "")

		if err := c.run(t, "details", "tt0117060"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(c.output.String(), "Director: Brian De Palma") {
			t.Errorf("expected director line, got %q", c.output.String())
		}
	})

	t.Run("watchlist add, list, remove", func(t *testing.T) {
		c := newTestCLI(t, "")

		if err := c.run(t, "watchlist", "add", "tt0117060"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if !strings.Contains(c.output.String(), `Added "Mission: Impossible"`) {
			t.Errorf("expected added notice, got %q", c.output.String())
		}

		if err := c.run(t, "watchlist", "add", "tt0117060"); err != nil {
			t.Fatalf("duplicate add should not fail, got %v", err)
		}
		if !strings.Contains(c.output.String(), "already in your Watchlist") {
			t.Errorf("expected duplicate notice, got %q", c.output.String())
		}

		if err := c.run(t, "watchlist", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(c.output.String(), "Watchlist (1)") {
			t.Errorf("expected one entry, got %q", c.output.String())
		}

		if err := c.run(t, "watchlist", "rm", "tt0117060"); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if got := repositories.ReadWatchlist(c.store, nil); len(got) != 0 {
			t.Errorf("expected empty watchlist, got %v", got)
		}
	})

	t.Run("watchlist clear asks for confirmation", func(t *testing.T) {
		c := newTestCLI(t, "n\n")
		entry := models.NewWatchlistEntry("tt1", "One", "2001", "")
		if err := repositories.WriteWatchlist(c.store, []models.WatchlistEntry{entry}); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		if err := c.run(t, "watchlist", "clear"); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if !strings.Contains(c.output.String(), "Cancelled.") {
			t.Errorf("expected cancellation, got %q", c.output.String())
		}
		if len(repositories.ReadWatchlist(c.store, nil)) != 1 {
			t.Fatal("expected watchlist to be untouched")
		}

		if err := c.run(t, "watchlist", "clear", "--yes"); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if !strings.Contains(c.output.String(), "All watchlist items cleared.") {
			t.Errorf("expected cleared notice, got %q", c.output.String())
		}
		if len(repositories.ReadWatchlist(c.store, nil)) != 0 {
			t.Error("expected watchlist to be empty")
		}
	})

	t.Run("watchlist export", func(t *testing.T) {
		c := newTestCLI(t, "")
		entry := models.NewWatchlistEntry("tt1", "One", "2001", "")
		if err := repositories.WriteWatchlist(c.store, []models.WatchlistEntry{entry}); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		if err := c.run(t, "watchlist", "export", "--format", "csv"); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if !strings.HasPrefix(c.output.String(), "ID,Title,Year,Poster\n") {
			t.Errorf("expected CSV header, got %q", c.output.String())
		}

		path := filepath.Join(t.TempDir(), "watchlist.json")
		if err := c.run(t, "watchlist", "export", "-f", "json", "-o", path); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, `"imdbID": "tt1"`) {
			t.Errorf("expected JSON export, got %q", content)
		}

		if err := c.run(t, "watchlist", "export", "-f", "xml"); err == nil {
			t.Error("expected error for unknown format")
		}
		if err := c.run(t, "watchlist", "export", "-f", "csv", "--posters"); err == nil {
			t.Error("expected error for posters without markdown")
		}
	})

	t.Run("theme", func(t *testing.T) {
		c := newTestCLI(t, "")

		if err := c.run(t, "theme"); err != nil {
			t.Fatalf("theme failed: %v", err)
		}
		if c.output.String() != "light\n" {
			t.Errorf("expected light, got %q", c.output.String())
		}

		if err := c.run(t, "theme", "DARK"); err != nil {
			t.Fatalf("theme failed: %v", err)
		}
		if got := repositories.ReadTheme(c.store); got != repositories.ThemeDark {
			t.Errorf("expected dark, got %s", got)
		}

		if err := c.run(t, "theme", "purple"); err == nil {
			t.Error("expected error for unknown theme")
		}
	})

	t.Run("setup config", func(t *testing.T) {
		c := newTestCLI(t, "")

		if err := c.run(t, "setup", "config"); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		tu.AssertFileExists(t, "config.toml")

		if err := c.run(t, "setup", "config"); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("setup database", func(t *testing.T) {
		c := newTestCLI(t, "")
		t.Setenv(shared.EnvDBPath, filepath.Join(t.TempDir(), "test.db"))

		if err := c.run(t, "setup", "database"); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}
		if !strings.Contains(c.output.String(), "✓ 0000") {
			t.Errorf("expected applied migrations, got %q", c.output.String())
		}
	})
}
