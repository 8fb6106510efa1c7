package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/agrikit/pkg/undo"
)

var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	kindStyles   = map[undo.Kind]lipgloss.Style{
		undo.EntityCreated: lipgloss.NewStyle().Foreground(colorGreen),
		undo.EntityUpdated: lipgloss.NewStyle().Foreground(colorYellow),
		undo.EntityDeleted: lipgloss.NewStyle().Foreground(colorRed),
	}
)

// =============================================================================
// HistoryModel - pick how far to roll back the undo log
// =============================================================================

// HistoryModel is the bubbletea model for choosing an undo depth. Records
// are listed most recent first; selecting row i undoes rows 0..i.
type HistoryModel struct {
	Records  []undo.ActionRecord
	Cursor   int
	Height   int
	Offset   int
	Selected int // number of records to undo; 0 when cancelled
	now      func() time.Time
}

// NewHistoryModel creates a picker over records (most recent first).
func NewHistoryModel(records []undo.ActionRecord) HistoryModel {
	return HistoryModel{Records: records, Height: 12, now: time.Now}
}

func (m HistoryModel) Init() tea.Cmd {
	return nil
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Selected = 0
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Records)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Records) > 0 {
				m.Selected = m.Cursor + 1
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m HistoryModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Roll back admin actions"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ undo through selection  q cancel"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Records))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Records[i]
		marker := "  "
		switch {
		case i == m.Cursor:
			marker = "▸ "
		case i < m.Cursor:
			marker = "· "
		}
		rows = append(rows, []string{marker, r.Kind.String(), fmt.Sprintf("%s #%d", r.EntityType, r.EntityID),
			r.Description, formatAge(m.now().Sub(r.Timestamp))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Action", "Entity", "Description", "When").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			idx := m.Offset + row
			if idx >= len(m.Records) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if idx > m.Cursor {
				base = base.Foreground(colorDim)
			} else if col == 1 {
				base = kindStyles[m.Records[idx].Kind]
			}
			if idx == m.Cursor {
				base = base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  undo %d of %d", m.Cursor+1, len(m.Records))))
	return b.String()
}

// formatAge renders a duration as a short relative time.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
