package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Letter bindings only apply while the search input is blurred.
type keyMap struct {
	search    key.Binding
	submit    key.Binding
	blur      key.Binding
	add       key.Binding
	remove    key.Binding
	clear     key.Binding
	watchlist key.Binding
	theme     key.Binding
	yes       key.Binding
	no        key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		blur:      key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "results")),
		add:       key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "add")),
		remove:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear all")),
		watchlist: key.NewBinding(key.WithKeys("w", "tab"), key.WithHelp("w", "watchlist")),
		theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.watchlist, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.search, k.submit, k.blur},
		{k.add, k.remove, k.clear},
		{k.watchlist, k.theme, k.quit},
	}
}
