package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tdq/internal/tasks"
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
	MsgProgressUpdate MsgKind = iota
	MsgTasksFetched
)

type tasksFetched struct {
	result *tasks.RetrieveResult
	err    error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// tasksFetchedMsg is the constructor for [MsgTasksFetched]
func tasksFetchedMsg(result *tasks.RetrieveResult, err error) Msg {
	return Msg{kind: MsgTasksFetched, data: tasksFetched{result, err}}
}
