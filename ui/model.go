package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/photopipe/photo"
)

// Stage log entry for the pipeline status list
type StageEntry struct {
	Message string
	Failed  bool
}

func (s StageEntry) FilterValue() string { return s.Message }
func (s StageEntry) Title() string {
	title, _, _ := strings.Cut(s.Message, "\n")
	return title
}
func (s StageEntry) Description() string {
	if s.Failed {
		return "❌ failed"
	}
	if _, rest, ok := strings.Cut(s.Message, "\n"); ok {
		return strings.TrimSpace(rest)
	}
	return "✓"
}

// PipelineModel renders a processing run from its event stream
type PipelineModel struct {
	// Application state
	inputDir     string
	status       string
	copied       int
	total        int
	entries      []StageEntry
	result       *photo.ProcessingResult
	err          string
	done         bool
	cancelled    bool
	cancelOnQuit func()

	// UI components
	copyProgress progress.Model
	stageList    list.Model

	// Layout
	width  int
	height int

	// Version for display
	Version string
}

// NewPipelineModel creates a new pipeline model; cancel is called when the
// user quits before the run finishes
func NewPipelineModel(inputDir, version string, cancel func()) PipelineModel {
	stageList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	stageList.Title = "Stages"
	stageList.SetShowHelp(false)

	return PipelineModel{
		inputDir:     inputDir,
		status:       "Waiting to start...",
		cancelOnQuit: cancel,
		copyProgress: progress.New(progress.WithDefaultGradient()),
		stageList:    stageList,
		Version:      version,
	}
}

// Result returns the completion payload, or nil if the run failed
func (m PipelineModel) Result() *photo.ProcessingResult { return m.result }

// Err returns the terminal error message, if any
func (m PipelineModel) Err() string { return m.err }

// Done reports whether a terminal event was received
func (m PipelineModel) Done() bool { return m.done }

// Cancelled reports whether the user quit before completion
func (m PipelineModel) Cancelled() bool { return m.cancelled }

// Init implements tea.Model
func (m PipelineModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m PipelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.done {
				m.cancelled = true
				if m.cancelOnQuit != nil {
					m.cancelOnQuit()
				}
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.stageList.SetSize(msg.Width-4, msg.Height/2)
		m.copyProgress.Width = max(msg.Width-30, 10)

	case EventMsg:
		return m.handleEvent(msg.Event)
	}

	return m, nil
}

func (m PipelineModel) handleEvent(e photo.Event) (tea.Model, tea.Cmd) {
	switch e.Kind {
	case photo.EventStatus:
		m.status = e.Message
		m.addEntry(StageEntry{Message: e.Message})

	case photo.EventProgress:
		m.copied = e.Current
		m.total = e.Total

	case photo.EventComplete:
		m.done = true
		m.result = e.Result
		m.status = "Processing complete"
		return m, tea.Quit

	case photo.EventError:
		m.done = true
		m.err = e.Message
		m.status = "Processing failed"
		m.addEntry(StageEntry{Message: e.Message, Failed: true})
		return m, tea.Quit
	}
	return m, nil
}

func (m *PipelineModel) addEntry(entry StageEntry) {
	m.entries = append(m.entries, entry)
	items := make([]list.Item, len(m.entries))
	for i, entry := range m.entries {
		items[i] = entry
	}
	m.stageList.SetItems(items)
	m.stageList.Select(len(items) - 1)
}

// View implements tea.Model
func (m PipelineModel) View() string {
	if m.cancelled {
		return "Cancelling...\n"
	}

	header := HeaderStyle.Render(fmt.Sprintf("photopipe %s", m.Version))
	source := InfoStyle.Render(fmt.Sprintf("Input: %s", m.inputDir))

	statusStyle := ProcessingStyle
	switch {
	case m.err != "":
		statusStyle = ErrorStyle
	case m.result != nil:
		statusStyle = SuccessStyle
	}
	status := statusStyle.Render(m.status)

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.copied) / float64(m.total)
	}
	copyView := fmt.Sprintf("Metadata copy: %s (%d/%d)",
		m.copyProgress.ViewAs(percent), m.copied, m.total)

	controls := MutedStyle.Render("Controls: [q] Cancel")

	sections := []string{
		header,
		source,
		status,
		copyView,
		m.stageList.View(),
		controls,
	}
	return strings.Join(sections, "\n\n")
}
