package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/movievault/internal/formatter"
)

var _ list.Item = cardItem{}

// cardItem wraps [formatter.Card] to implement [list.Item].
type cardItem struct {
	card formatter.Card
}

func (i cardItem) FilterValue() string { return i.card.Title }
func (i cardItem) Title() string       { return i.card.Title }
func (i cardItem) Description() string {
	return fmt.Sprintf("%s • %s • %s", i.card.Meta, i.card.ID, i.card.Action.Label)
}

func cardItems(view formatter.View) []list.Item {
	items := make([]list.Item, len(view.Cards))
	for i, c := range view.Cards {
		items[i] = cardItem{card: c}
	}
	return items
}

func newCardList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return l
}

// selectedID returns the identifier of the highlighted card, if any.
func selectedID(l list.Model) string {
	if item, ok := l.SelectedItem().(cardItem); ok {
		return item.card.Action.TargetID
	}
	return ""
}
