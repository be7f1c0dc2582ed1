package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/photopipe/photo"
)

// reviewGroup is a similar-preview group with per-file selection state
type reviewGroup struct {
	files       []string
	selected    []bool
	maxDistance int
}

// SimilarModel lets the user pick near-duplicate previews to delete
type SimilarModel struct {
	groups       []reviewGroup
	currentGroup int
	currentFile  int

	confirming bool
	pending    []string
	deleted    []string
	lastError  string
	showHelp   bool
	quitting   bool

	remove func(string) error
}

// NewSimilarModel creates a review model over groups of similar previews
func NewSimilarModel(groups []photo.SimilarGroup) SimilarModel {
	review := make([]reviewGroup, 0, len(groups))
	for _, g := range groups {
		if len(g.Files) < 2 {
			continue
		}
		review = append(review, reviewGroup{
			files:       slices.Clone(g.Files),
			selected:    make([]bool, len(g.Files)),
			maxDistance: g.MaxDistance,
		})
	}
	return SimilarModel{groups: review, showHelp: true, remove: os.Remove}
}

// Deleted returns the files removed during the session
func (m SimilarModel) Deleted() []string { return m.deleted }

// Init implements tea.Model
func (m SimilarModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m SimilarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirming {
			return m.handleConfirmation(msg)
		}
		return m.handleKey(msg)

	case DeletionCompleteMsg:
		m.applyDeletion(msg)
		if len(m.groups) == 0 {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SimilarModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	if len(m.groups) == 0 {
		return m, nil
	}

	group := &m.groups[m.currentGroup]
	switch msg.String() {
	case "up", "k":
		m.currentFile = max(m.currentFile-1, 0)
	case "down", "j":
		m.currentFile = min(m.currentFile+1, len(group.files)-1)
	case "left", "p":
		if m.currentGroup > 0 {
			m.currentGroup--
			m.currentFile = 0
		}
	case "right", "n":
		if m.currentGroup < len(m.groups)-1 {
			m.currentGroup++
			m.currentFile = 0
		}
	case " ":
		group.selected[m.currentFile] = !group.selected[m.currentFile]
	case "a":
		// keep the current file, reject the rest
		for i := range group.selected {
			group.selected[i] = i != m.currentFile
		}
	case "c":
		clear(group.selected)
	case "enter":
		m.pending = m.selectedFiles()
		m.confirming = len(m.pending) > 0
	}
	return m, nil
}

func (m SimilarModel) handleConfirmation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirming = false
		return m, m.deleteCmd(m.pending)
	case "n", "N", "esc", "ctrl+c":
		m.confirming = false
		m.pending = nil
	}
	return m, nil
}

func (m SimilarModel) selectedFiles() []string {
	var files []string
	for _, g := range m.groups {
		for i, sel := range g.selected {
			if sel {
				files = append(files, g.files[i])
			}
		}
	}
	return files
}

func (m SimilarModel) deleteCmd(files []string) tea.Cmd {
	remove := m.remove
	return func() tea.Msg {
		var done []string
		for _, f := range files {
			if err := remove(f); err != nil {
				return DeletionCompleteMsg{Deleted: done, Failed: f, Error: err}
			}
			done = append(done, f)
		}
		return DeletionCompleteMsg{Deleted: done}
	}
}

func (m *SimilarModel) applyDeletion(msg DeletionCompleteMsg) {
	m.pending = nil
	m.lastError = ""
	if msg.Error != nil {
		m.lastError = fmt.Sprintf("failed to delete %s: %v", msg.Failed, msg.Error)
	}
	m.deleted = append(m.deleted, msg.Deleted...)

	remaining := m.groups[:0]
	for _, g := range m.groups {
		var kept reviewGroup
		kept.maxDistance = g.maxDistance
		for i, f := range g.files {
			if slices.Contains(msg.Deleted, f) {
				continue
			}
			kept.files = append(kept.files, f)
			kept.selected = append(kept.selected, g.selected[i])
		}
		if len(kept.files) > 1 {
			remaining = append(remaining, kept)
		}
	}
	m.groups = remaining

	if m.currentGroup >= len(m.groups) {
		m.currentGroup = max(len(m.groups)-1, 0)
	}
	if len(m.groups) > 0 {
		m.currentFile = min(m.currentFile, len(m.groups[m.currentGroup].files)-1)
	} else {
		m.currentFile = 0
	}
}

// View implements tea.Model
func (m SimilarModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if len(m.groups) == 0 {
		return SuccessStyle.MarginTop(2).MarginLeft(2).Render("✅ No similar previews left to review!\n\nPress 'q' to quit.")
	}
	if m.confirming {
		return m.renderConfirmation()
	}

	var b strings.Builder
	group := m.groups[m.currentGroup]
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("photopipe - Similar Previews (Group %d of %d)", m.currentGroup+1, len(m.groups))))
	b.WriteString("\n\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("%d files, max distance %d", len(group.files), group.maxDistance)))
	b.WriteString("\n\n")

	for i, file := range group.files {
		box := "[ ] "
		if group.selected[i] {
			box = "[✓] "
		}
		name := filepath.Base(file)
		style := lipgloss.NewStyle()
		if group.selected[i] {
			style = ErrorStyle
		}
		if i == m.currentFile {
			style = style.Reverse(true)
		}
		fmt.Fprintf(&b, "%s%s (%s)\n", box, style.Render(name), filepath.Dir(file))
	}

	if m.lastError != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.lastError))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(strings.Join([]string{
			"  ↑/↓ or j/k   Move between files",
			"  ←/→ or p/n   Previous/next group",
			"  Space        Toggle file for deletion",
			"  a            Keep current file, mark the rest",
			"  c            Clear marks in group",
			"  Enter        Delete marked files (with confirmation)",
			"  h/?          Toggle this help",
			"  q            Quit",
		}, "\n"))
	} else {
		b.WriteString("Press 'h' for help")
	}
	return b.String()
}

func (m SimilarModel) renderConfirmation() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("⚠️  Confirm Deletion"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Delete %d preview(s)?\n\n", len(m.pending))
	for _, f := range m.pending {
		fmt.Fprintf(&b, "  • %s\n", f)
	}
	b.WriteString("\n")
	b.WriteString(ErrorStyle.Render("This action cannot be undone!"))
	b.WriteString("\n\nPress 'y' to confirm, 'n' to cancel")
	return b.String()
}
