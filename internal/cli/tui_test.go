package cli

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/porelab/porenet/pkg/store"
)

func testInfos(n int) []store.Info {
	infos := make([]store.Info, n)
	now := time.Now()
	for i := range infos {
		infos[i] = store.Info{
			ID:         fmt.Sprintf("%08d-0000-0000-0000-000000000000", i),
			Name:       fmt.Sprintf("project-%d", i),
			CreatedAt:  now.Add(-time.Duration(i) * time.Hour),
			ModifiedAt: now,
		}
	}
	return infos
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestProjectListModelNavigation(t *testing.T) {
	m := NewProjectListModel(testInfos(3))

	next, _ := m.Update(keyMsg("j"))
	m = next.(ProjectListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("j"))
	m = next.(ProjectListModel)
	next, _ = m.Update(keyMsg("j"))
	m = next.(ProjectListModel)
	if m.Cursor != 2 {
		t.Errorf("cursor clamps at %d, want 2", m.Cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(ProjectListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor after k = %d, want 1", m.Cursor)
	}
}

func TestProjectListModelSelect(t *testing.T) {
	infos := testInfos(2)
	m := NewProjectListModel(infos)

	next, _ := m.Update(keyMsg("j"))
	m = next.(ProjectListModel)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(ProjectListModel)

	if m.Selected == nil {
		t.Fatal("Selected is nil after enter")
	}
	if m.Selected.ID != infos[1].ID {
		t.Errorf("Selected.ID = %q, want %q", m.Selected.ID, infos[1].ID)
	}
	if cmd == nil {
		t.Error("enter should return a quit command")
	}
}

func TestProjectListModelQuit(t *testing.T) {
	m := NewProjectListModel(testInfos(2))

	next, cmd := m.Update(keyMsg("q"))
	m = next.(ProjectListModel)
	if m.Selected != nil {
		t.Error("quit should not select a project")
	}
	if cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestProjectListModelView(t *testing.T) {
	m := NewProjectListModel(testInfos(2))
	view := m.View()

	if !strings.Contains(view, "project-0") {
		t.Errorf("view missing project name:\n%s", view)
	}
	if !strings.Contains(view, "[1/2]") {
		t.Errorf("view missing position counter:\n%s", view)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("abcdef01-2345"); got != "abcdef01" {
		t.Errorf("shortID() = %q, want %q", got, "abcdef01")
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID() of short input = %q, want %q", got, "abc")
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"minutes", now.Add(-30 * time.Minute), "30m ago"},
		{"hours", now.Add(-5 * time.Hour), "5h ago"},
		{"days", now.Add(-3 * 24 * time.Hour), "3d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRelativeTime(tt.t); got != tt.want {
				t.Errorf("formatRelativeTime() = %q, want %q", got, tt.want)
			}
		})
	}

	old := now.Add(-30 * 24 * time.Hour)
	if got := formatRelativeTime(old); got != old.Format("Jan 2, 2006") {
		t.Errorf("formatRelativeTime(old) = %q, want date format", got)
	}
}
