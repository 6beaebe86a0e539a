package formatter

import (
	"fmt"
	"strings"

	"github.com/desertthunder/movievault/internal/models"
)

// Text renders the view for a terminal, one numbered line per card.
func Text(view View) string {
	if view.Empty() {
		return view.Placeholder + "\n"
	}

	var b strings.Builder
	for i, c := range view.Cards {
		fmt.Fprintf(&b, "%d. %s (%s) [%s]\n", i+1, c.Title, c.Meta, c.ID)
	}
	return b.String()
}

// DetailsText renders a full movie record.
func DetailsText(d *models.MovieDetails) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", orSentinel(d.Title, models.UnknownTitle), orSentinel(d.Year, models.NoYear))
	fmt.Fprintf(&b, "ID: %s\n", d.ID)

	fields := []struct{ label, value string }{
		{"Released", d.Released},
		{"Runtime", d.Runtime},
		{"Genre", d.Genre},
		{"Director", d.Director},
		{"Rating", d.IMDbRating},
	}
	for _, f := range fields {
		if v := strings.TrimSpace(f.value); v != "" && v != models.NotAvailable {
			fmt.Fprintf(&b, "%s: %s\n", f.label, v)
		}
	}

	if models.HasPoster(d.Poster) {
		fmt.Fprintf(&b, "Poster: %s\n", d.Poster)
	}

	if plot := SanitizePlot(d.Plot); plot != "" && plot != models.NotAvailable {
		fmt.Fprintf(&b, "\n%s\n", plot)
	}

	return b.String()
}

func orSentinel(s, sentinel string) string {
	if strings.TrimSpace(s) == "" {
		return sentinel
	}
	return s
}
