package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/movievault/internal/models"
	"github.com/desertthunder/movievault/internal/shared"
)

// Export formats accepted by [WriteExport].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatJSON     = "json"
)

// ExportToCSV converts watchlist entries to CSV with columns: ID, Title, Year, Poster
func ExportToCSV(entries []models.WatchlistEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Title", "Year", "Poster"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range entries {
		if err := writer.Write([]string{e.ID, e.Title, e.Year, e.Poster}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts watchlist entries to a Markdown document.
//
// posters maps identifiers to local image paths; entries without one link the remote poster when there is one.
func ExportToMarkdown(entries []models.WatchlistEntry, posters map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Watchlist\n\n")
	fmt.Fprintf(&buf, "**Movies**: %d\n\n", len(entries))

	for i, e := range entries {
		fmt.Fprintf(&buf, "%d. **%s** (%s) [IMDb](https://www.imdb.com/title/%s/)\n", i+1, e.Title, e.Year, e.ID)

		if path, ok := posters[e.ID]; ok {
			fmt.Fprintf(&buf, "   ![%s](%s)\n", e.Title, path)
		} else if models.HasPoster(e.Poster) {
			fmt.Fprintf(&buf, "   ![%s](%s)\n", e.Title, e.Poster)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts watchlist entries to plain text
func ExportToText(entries []models.WatchlistEntry) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Watchlist: %d movies\n\n", len(entries))
	buf.WriteString(Text(RenderWatchlist(entries)))

	return buf.Bytes(), nil
}

// ExportToJSON writes entries in the persisted compact shape, indented.
func ExportToJSON(entries []models.WatchlistEntry) ([]byte, error) {
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode watchlist: %w", err)
	}
	return append(data, '\n'), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidArgument)
	}

	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Posters   int
	Failed    []string
}

// WriteMarkdownExport writes {dir}/README.md and, when client is non-nil, downloads posters to {dir}/posters/{id}.jpg.
//
// A poster that cannot be downloaded is recorded in Failed and linked remotely instead.
func WriteMarkdownExport(ctx context.Context, entries []models.WatchlistEntry, outputDir string, client *http.Client) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "watchlist"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}
	posters := make(map[string]string)

	if client != nil {
		posterDir := filepath.Join(outputDir, "posters")
		for _, e := range entries {
			if !models.HasPoster(e.Poster) {
				continue
			}
			if err := os.MkdirAll(posterDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create poster directory: %w", err)
			}

			data, err := DownloadImage(ctx, client, e.Poster)
			if err != nil {
				result.Failed = append(result.Failed, e.ID)
				continue
			}

			name := sanitizeFilename(e.ID) + ".jpg"
			path := filepath.Join(posterDir, name)
			if err := os.WriteFile(path, data, 0644); err != nil {
				result.Failed = append(result.Failed, e.ID)
				continue
			}

			posters[e.ID] = "posters/" + name
			result.Files = append(result.Files, path)
			result.Posters++
		}
	}

	mdData, err := ExportToMarkdown(entries, posters)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteExport renders entries in format and writes them to w.
func WriteExport(w io.Writer, entries []models.WatchlistEntry, format string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(format) {
	case FormatCSV:
		data, err = ExportToCSV(entries)
	case FormatMarkdown, "md":
		data, err = ExportToMarkdown(entries, nil)
	case FormatText, "txt", "":
		data, err = ExportToText(entries)
	case FormatJSON:
		data, err = ExportToJSON(entries)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
