package formatter

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const listTemplate = `{{define "list"}}{{if .Empty}}<p class="placeholder">{{.Placeholder}}</p>{{else}}{{range .Cards}}
<div class="movie-card" role="listitem" tabindex="0">
  <img src="{{.PosterURL}}" alt="{{.Title}} poster" class="movie-poster" loading="lazy" decoding="async" width="300" height="450" />
  <div class="movie-info">
    <h3 class="movie-title">{{.Title}}</h3>
    <p class="movie-meta">{{.Meta}}</p>
    <button class="{{.Action.Class}}" data-id="{{.Action.TargetID}}">{{.Action.Label}}</button>
  </div>
</div>{{end}}{{if .ShowClearAll}}
<div class="clear-all">
  <button id="clearWatchlistBtn" class="favorite-btn">Clear Watchlist</button>
</div>{{end}}{{end}}{{end}}`

var (
	listTmpl     = template.Must(template.New("movies").Parse(listTemplate))
	plotPolicy   = bluemonday.StrictPolicy()
	htmlReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// ListTemplate returns the list fragment template for embedding in pages.
func ListTemplate() *template.Template {
	return listTmpl
}

// HTML renders the view as markup. Buttons carry data-id with the movie identifier.
func HTML(view View) (template.HTML, error) {
	var buf bytes.Buffer
	if err := listTmpl.ExecuteTemplate(&buf, "list", view); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", view.Mode, err)
	}
	return template.HTML(buf.String()), nil
}

// EscapeHTML escapes &, <, > and double quotes.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// SanitizePlot strips all markup from provider text and returns plain text.
func SanitizePlot(s string) string {
	return strings.TrimSpace(html.UnescapeString(plotPolicy.Sanitize(s)))
}
