package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/photopipe/photo"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m SimilarModel, keys ...string) (SimilarModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(SimilarModel)
	}
	return m, cmd
}

func TestNewSimilarModel(t *testing.T) {
	model := NewSimilarModel([]photo.SimilarGroup{
		{Files: []string{"a.jpg", "b.jpg"}, MaxDistance: 2},
		{Files: []string{"solo.jpg"}},
		{Files: []string{"c.jpg", "d.jpg", "e.jpg"}},
	})

	if len(model.groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(model.groups))
	}
	for i, selected := range model.groups[1].selected {
		if selected {
			t.Errorf("Expected file %d to be unselected by default", i)
		}
	}
}

func TestSimilarModel_SelectAndDelete(t *testing.T) {
	var removed []string
	model := NewSimilarModel([]photo.SimilarGroup{{Files: []string{"a.jpg", "b.jpg", "c.jpg"}}})
	model.remove = func(path string) error {
		removed = append(removed, path)
		return nil
	}

	model, _ = press(model, "a")
	if model.groups[0].selected[0] || !model.groups[0].selected[1] || !model.groups[0].selected[2] {
		t.Fatalf("expected all but current selected, got %v", model.groups[0].selected)
	}

	model, _ = press(model, "enter")
	if !model.confirming || len(model.pending) != 2 {
		t.Fatalf("expected confirmation for 2 files, got %v", model.pending)
	}

	model, cmd := press(model, "y")
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	next, quit := model.Update(cmd())
	model = next.(SimilarModel)

	if len(removed) != 2 || removed[0] != "b.jpg" || removed[1] != "c.jpg" {
		t.Errorf("removed = %v", removed)
	}
	if len(model.groups) != 0 {
		t.Errorf("group should be resolved, got %+v", model.groups)
	}
	if !isQuit(quit) {
		t.Error("expected quit once every group is resolved")
	}
	if len(model.Deleted()) != 2 {
		t.Errorf("Deleted() = %v", model.Deleted())
	}
}

func TestSimilarModel_CancelConfirmation(t *testing.T) {
	model := NewSimilarModel([]photo.SimilarGroup{{Files: []string{"a.jpg", "b.jpg"}}})
	model, _ = press(model, " ", "enter", "n")
	if model.confirming || model.pending != nil {
		t.Error("expected confirmation to be cancelled")
	}
	if !model.groups[0].selected[0] {
		t.Error("selection should survive a cancelled confirmation")
	}
}

func TestSimilarModel_EnterWithoutSelection(t *testing.T) {
	model := NewSimilarModel([]photo.SimilarGroup{{Files: []string{"a.jpg", "b.jpg"}}})
	model, _ = press(model, "enter")
	if model.confirming {
		t.Error("nothing selected, no confirmation expected")
	}
}

func TestSimilarModel_DeletionFailureKeepsGroup(t *testing.T) {
	model := NewSimilarModel([]photo.SimilarGroup{{Files: []string{"a.jpg", "b.jpg", "c.jpg"}}})
	next, _ := model.Update(DeletionCompleteMsg{Deleted: []string{"b.jpg"}, Failed: "c.jpg", Error: errors.New("permission denied")})
	model = next.(SimilarModel)

	if len(model.groups) != 1 || len(model.groups[0].files) != 2 {
		t.Fatalf("expected group with a.jpg and c.jpg, got %+v", model.groups)
	}
	if model.lastError == "" {
		t.Error("expected error to be shown")
	}
}

func TestSimilarModel_Navigation(t *testing.T) {
	model := NewSimilarModel([]photo.SimilarGroup{
		{Files: []string{"a.jpg", "b.jpg"}},
		{Files: []string{"c.jpg", "d.jpg"}},
	})

	model, _ = press(model, "j", "j")
	if model.currentFile != 1 {
		t.Errorf("currentFile = %d, expected clamp at 1", model.currentFile)
	}
	model, _ = press(model, "n")
	if model.currentGroup != 1 || model.currentFile != 0 {
		t.Errorf("expected group 1 file 0, got %d/%d", model.currentGroup, model.currentFile)
	}
	model, _ = press(model, "n", "p", "p")
	if model.currentGroup != 0 {
		t.Errorf("currentGroup = %d, expected 0", model.currentGroup)
	}
}
