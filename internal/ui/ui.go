package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/movievault/internal/formatter"
	"github.com/desertthunder/movievault/internal/models"
	"github.com/desertthunder/movievault/internal/repositories"
	"github.com/desertthunder/movievault/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	WatchlistView
	ConfirmClearView
)

// Options holds the dependencies of a [Model].
type Options struct {
	Controller *tasks.SearchController
	// Preferences stores the theme.
	Preferences repositories.Store
	Logger      *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	controller  *tasks.SearchController
	watchlist   *tasks.Watchlist
	preferences repositories.Store
	logger      *log.Logger

	width  int
	height int

	input       textinput.Model
	spinner     spinner.Model
	busy        bool
	results     list.Model
	resultsView formatter.View
	saved       list.Model
	savedView   formatter.View
	notice      tasks.Notice

	theme   string
	palette *Palette
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	input := textinput.New()
	input.Placeholder = "Search movies..."
	input.Prompt = "🔎 "
	input.CharLimit = 120
	input.Focus()

	theme := repositories.ReadTheme(opts.Preferences)

	return &Model{
		ctx:         ctx,
		view:        SearchView,
		controller:  opts.Controller,
		watchlist:   opts.Controller.Watchlist(),
		preferences: opts.Preferences,
		logger:      logger,
		input:       input,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		results:     newCardList("Results"),
		resultsView: formatter.PlaceholderView(models.ModeSearchResults, formatter.InitialResultsText),
		saved:       newCardList("Watchlist"),
		savedView:   formatter.RenderWatchlist(nil),
		theme:       theme,
		palette:     PaletteFor(theme),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init renders the cached results and the stored watchlist.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.run(func(context.Context) error {
		m.controller.Warm()
		return nil
	}))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height-10)
		m.saved.SetSize(msg.Width-4, msg.Height-10)
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			if m.input.Focused() {
				return m.handleInputKeys(msg)
			}
			return m.handleResultsKeys(msg)
		case WatchlistView:
			return m.handleWatchlistKeys(msg)
		case ConfirmClearView:
			return m.handleConfirmKeys(msg)
		}
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgNotice:
		m.notice = msg.data.(tasks.Notice)
	case MsgBusy:
		m.busy = msg.data.(bool)
		if m.busy {
			return m, m.spinner.Tick
		}
	case MsgResults:
		m.resultsView = msg.data.(formatter.View)
		return m, m.results.SetItems(cardItems(m.resultsView))
	case MsgWatchlist:
		m.savedView = msg.data.(formatter.View)
		if m.view == ConfirmClearView && !m.savedView.ShowClearAll {
			m.view = WatchlistView
		}
		return m, m.saved.SetItems(cardItems(m.savedView))
	case MsgTaskDone:
		if err, _ := msg.data.(error); err != nil {
			m.logger.Debug("action finished", "error", err)
		}
	}
	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.submit):
		query := m.input.Value()
		m.controller.CancelTypeahead()
		return m, m.run(func(ctx context.Context) error {
			return m.controller.Submit(ctx, query)
		})
	case key.Matches(msg, m.keys.blur):
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.controller.Typeahead(m.ctx, after)
	}
	return m, cmd
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.add):
		id := selectedID(m.results)
		if id == "" {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) error {
			return m.controller.AddFromResult(ctx, id)
		})
	case key.Matches(msg, m.keys.watchlist):
		m.view = WatchlistView
		return m, nil
	case key.Matches(msg, m.keys.theme):
		m.toggleTheme()
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleWatchlistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.watchlist), msg.Type == tea.KeyEsc:
		m.view = SearchView
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.remove):
		id := selectedID(m.saved)
		if id == "" {
			return m, nil
		}
		return m, m.run(func(context.Context) error {
			return m.watchlist.Remove(id)
		})
	case key.Matches(msg, m.keys.clear):
		if m.savedView.ShowClearAll {
			m.view = ConfirmClearView
		}
		return m, nil
	case key.Matches(msg, m.keys.theme):
		m.toggleTheme()
		return m, nil
	}

	var cmd tea.Cmd
	m.saved, cmd = m.saved.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = WatchlistView
		return m, m.run(func(context.Context) error {
			_, err := m.watchlist.Clear(tasks.Always)
			return err
		})
	case key.Matches(msg, m.keys.no), msg.Type == tea.KeyCtrlC:
		m.view = WatchlistView
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		if m.input.Focused() {
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		m.results, cmd = m.results.Update(msg)
	case WatchlistView:
		m.saved, cmd = m.saved.Update(msg)
	}
	return m, cmd
}

// run executes fn off the update loop; its effects arrive through the [Presenter].
func (m *Model) run(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return taskDoneMsg(fn(ctx))
	}
}

func (m *Model) toggleTheme() {
	next := repositories.ThemeDark
	if m.theme == repositories.ThemeDark {
		next = repositories.ThemeLight
	}
	if err := repositories.WriteTheme(m.preferences, next); err != nil {
		m.logger.Warn("failed to save theme", "error", err)
		m.notice = tasks.Notice{Text: "Failed to save theme.", Level: tasks.LevelError}
	}
	m.theme = next
	m.palette = PaletteFor(next)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.palette.title.Render("🎬 MovieVault"))
	b.WriteString(m.palette.help.Render(fmt.Sprintf("  %s theme", m.theme)))
	b.WriteString("\n")

	switch m.view {
	case SearchView:
		b.WriteString(m.renderSearch())
	case WatchlistView:
		b.WriteString(m.renderWatchlist())
	case ConfirmClearView:
		b.WriteString(m.renderConfirm())
	}
	return b.String()
}

func (m *Model) renderNotice() string {
	switch {
	case m.notice.Text == "":
		return ""
	case m.notice.IsError():
		return m.palette.err.Render(m.notice.Text)
	default:
		return m.palette.ok.Render(m.notice.Text)
	}
}

func (m *Model) renderPane(l list.Model, v formatter.View) string {
	if v.Empty() {
		return m.palette.pane.Render(m.palette.help.Render(v.Placeholder))
	}
	return l.View()
}

func (m *Model) renderSearch() string {
	status := ""
	if m.busy {
		status = m.spinner.View() + " Searching..."
	}

	helpKeys := []key.Binding{m.keys.submit, m.keys.blur, m.keys.quit}
	if !m.input.Focused() {
		helpKeys = []key.Binding{m.keys.search, m.keys.add, m.keys.watchlist, m.keys.theme, m.keys.quit}
	}

	return fmt.Sprintf("%s %s\n%s\n\n%s\n\n%s",
		m.input.View(), status,
		m.renderNotice(),
		m.renderPane(m.results, m.resultsView),
		m.help.ShortHelpView(helpKeys),
	)
}

func (m *Model) renderWatchlist() string {
	helpKeys := []key.Binding{m.keys.remove, m.keys.watchlist, m.keys.theme, m.keys.quit}
	if m.savedView.ShowClearAll {
		helpKeys = []key.Binding{m.keys.remove, m.keys.clear, m.keys.watchlist, m.keys.theme, m.keys.quit}
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s",
		m.renderNotice(),
		m.renderPane(m.saved, m.savedView),
		m.help.ShortHelpView(helpKeys),
	)
}

func (m *Model) renderConfirm() string {
	title := m.palette.warn.Render(tasks.ClearPrompt)
	detail := fmt.Sprintf("%d movies will be removed.", len(m.savedView.Cards))
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, detail, m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no}))
}
