package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/porelab/porenet/pkg/store"
)

// ProjectListModel is the bubbletea model behind "porenet project" when no
// subcommand is given: a scrollable table of stored projects with one
// selectable row.
type ProjectListModel struct {
	Projects []store.Info
	Cursor   int
	Selected *store.Info
	Height   int
	Offset   int
}

// NewProjectListModel creates a picker over the given projects.
func NewProjectListModel(projects []store.Info) ProjectListModel {
	return ProjectListModel{
		Projects: projects,
		Height:   15,
	}
}

func (m ProjectListModel) Init() tea.Cmd {
	return nil
}

func (m ProjectListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m = m.move(-1)
		case "down", "j":
			m = m.move(1)
		case "enter":
			if len(m.Projects) > 0 {
				info := m.Projects[m.Cursor]
				m.Selected = &info
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// move shifts the cursor by delta, clamped to the list, and scrolls the
// visible window to keep the cursor inside it.
func (m ProjectListModel) move(delta int) ProjectListModel {
	if len(m.Projects) == 0 {
		return m
	}
	m.Cursor += delta
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor > len(m.Projects)-1 {
		m.Cursor = len(m.Projects) - 1
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m ProjectListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Project"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Projects) {
		end = len(m.Projects)
	}

	var rows [][]string
	for i := m.Offset; i < end; i++ {
		p := m.Projects[i]
		marker := "  "
		if i == m.Cursor {
			marker = "▸ "
		}
		rows = append(rows, []string{
			marker,
			p.Name,
			shortID(p.ID),
			p.CreatedAt.Format("Jan 2, 2006"),
			formatRelativeTime(p.ModifiedAt),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "ID", "Created", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			idx := m.Offset + row
			if idx >= len(m.Projects) {
				return lipgloss.NewStyle()
			}
			// Name and marker columns stay bright, metadata columns dim.
			primary := col < 2
			switch {
			case idx == m.Cursor && primary:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case idx == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			case primary:
				return lipgloss.NewStyle().Foreground(colorWhite)
			default:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Projects))))

	return b.String()
}

// shortID abbreviates a project UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
