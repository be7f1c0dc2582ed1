package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/photopipe/photo"
)

// TUI Message Types for pipeline communication
type EventMsg struct {
	Event photo.Event
}

// ProgramListener forwards pipeline events into a running program
func ProgramListener(p *tea.Program) photo.Listener {
	return func(e photo.Event) {
		p.Send(EventMsg{Event: e})
	}
}

// TUI Message Types for similar preview review
type DeletionCompleteMsg struct {
	Deleted []string
	Failed  string
	Error   error
}
