package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/photopipe/photo"
)

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func send(m PipelineModel, e photo.Event) (PipelineModel, tea.Cmd) {
	next, cmd := m.Update(EventMsg{Event: e})
	return next.(PipelineModel), cmd
}

func TestPipelineModel_StatusAndProgress(t *testing.T) {
	m := NewPipelineModel("/shoot", "v1", nil)

	m, cmd := send(m, photo.Event{Kind: photo.EventStatus, Message: "Starting image resize..."})
	if cmd != nil {
		t.Error("status events should not produce commands")
	}
	if len(m.entries) != 1 || m.status != "Starting image resize..." {
		t.Errorf("unexpected state after status: %+v", m.entries)
	}

	m, _ = send(m, photo.Event{Kind: photo.EventProgress, Current: 3, Total: 4})
	if m.copied != 3 || m.total != 4 {
		t.Errorf("progress = %d/%d, expected 3/4", m.copied, m.total)
	}

	view := m.View()
	if !strings.Contains(view, "(3/4)") || !strings.Contains(view, "photopipe v1") {
		t.Errorf("view missing progress or header:\n%s", view)
	}
}

func TestPipelineModel_CompleteQuits(t *testing.T) {
	m := NewPipelineModel("/shoot", "dev", nil)
	result := &photo.ProcessingResult{OutputPath: "/tmp/photopipe"}

	m, cmd := send(m, photo.Event{Kind: photo.EventComplete, Result: result})
	if !isQuit(cmd) {
		t.Error("expected quit after completion")
	}
	if !m.Done() || m.Result() != result || m.Err() != "" {
		t.Errorf("unexpected terminal state: done=%v err=%q", m.Done(), m.Err())
	}
}

func TestPipelineModel_ErrorQuits(t *testing.T) {
	m := NewPipelineModel("/shoot", "dev", nil)

	m, cmd := send(m, photo.Event{Kind: photo.EventError, Message: "resize: exit status 1"})
	if !isQuit(cmd) {
		t.Error("expected quit after error")
	}
	if m.Err() != "resize: exit status 1" || m.Result() != nil {
		t.Errorf("unexpected error state %q", m.Err())
	}
	if !m.entries[len(m.entries)-1].Failed {
		t.Error("error should be logged as a failed stage")
	}
}

func TestPipelineModel_QuitCancelsRunningPipeline(t *testing.T) {
	cancelled := false
	m := NewPipelineModel("/shoot", "dev", func() { cancelled = true })

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !isQuit(cmd) {
		t.Error("expected quit on q")
	}
	if !cancelled || !next.(PipelineModel).Cancelled() {
		t.Error("expected cancel to be called before completion")
	}
}

func TestPipelineModel_QuitAfterDoneDoesNotCancel(t *testing.T) {
	cancelled := false
	m := NewPipelineModel("/shoot", "dev", func() { cancelled = true })
	m, _ = send(m, photo.Event{Kind: photo.EventComplete, Result: &photo.ProcessingResult{}})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cancelled {
		t.Error("cancel should not be called after completion")
	}
}

func TestStageEntry(t *testing.T) {
	entry := StageEntry{Message: "Resize Log: done\n2 files"}
	if entry.Title() != "Resize Log: done" {
		t.Errorf("Title() = %q", entry.Title())
	}
	if entry.Description() != "2 files" {
		t.Errorf("Description() = %q", entry.Description())
	}
	if (StageEntry{Message: "x", Failed: true}).Description() != "❌ failed" {
		t.Error("failed entries should be marked")
	}
}

func TestStatusIcon(t *testing.T) {
	if !strings.Contains(StatusIcon(true), "✓") {
		t.Errorf("Expected success icon, got %q", StatusIcon(true))
	}
	if !strings.Contains(StatusIcon(false), "❌") {
		t.Errorf("Expected failure icon, got %q", StatusIcon(false))
	}
}
