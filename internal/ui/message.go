package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/movievault/internal/formatter"
	"github.com/desertthunder/movievault/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgNotice MsgKind = iota
	MsgBusy
	MsgResults
	MsgWatchlist
	MsgTaskDone
)

// noticeMsg is the constructor for [MsgNotice]
func noticeMsg(n tasks.Notice) Msg {
	return Msg{kind: MsgNotice, data: n}
}

// busyMsg is the constructor for [MsgBusy]
func busyMsg(busy bool) Msg {
	return Msg{kind: MsgBusy, data: busy}
}

// resultsMsg is the constructor for [MsgResults]
func resultsMsg(view formatter.View) Msg {
	return Msg{kind: MsgResults, data: view}
}

// watchlistMsg is the constructor for [MsgWatchlist]
func watchlistMsg(view formatter.View) Msg {
	return Msg{kind: MsgWatchlist, data: view}
}

// taskDoneMsg is the constructor for [MsgTaskDone], sent when a background action returns.
func taskDoneMsg(err error) Msg {
	return Msg{kind: MsgTaskDone, data: err}
}
