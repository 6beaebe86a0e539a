package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/movievault/internal/repositories"
)

var (
	lightPalette = NewPalette("#7D56F4", "#04B575", "#BB0011", "#FFA500", "#626262")
	darkPalette  = NewPalette("#B4A1FF", "#5AF78E", "#FF5C57", "#F3F99D", "#9A9A9A")
)

// PaletteFor returns the palette of a stored theme name.
func PaletteFor(theme string) *Palette {
	if theme == repositories.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	pane  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		pane:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t)).Padding(0, 1),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
