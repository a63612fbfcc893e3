package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is a screen the menu can switch to. Title and ShortHelp feed the
// footer line rendered under every screen.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// BackMsg asks the root model to return to the menu.
type BackMsg struct{}

// Back is a tea.Cmd emitting BackMsg.
func Back() tea.Msg {
	return BackMsg{}
}
