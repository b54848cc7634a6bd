package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atlast-io/atlast/pkg/atlas"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// RecordListModel - Interactive record browsing
// =============================================================================

// RecordListModel is the bubbletea model for browsing atlas records.
type RecordListModel struct {
	Archive string
	Records []atlas.Record
	Cursor  int
	Height  int
	Offset  int
}

// NewRecordListModel creates a new record list model.
func NewRecordListModel(archivePath string, records []atlas.Record) RecordListModel {
	return RecordListModel{
		Archive: archivePath,
		Records: records,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m RecordListModel) Init() tea.Cmd {
	return nil
}

func (m RecordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
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
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RecordListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Atlas Records"))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(m.Archive))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.Records) == 0 {
		b.WriteString(listDimStyle.Render("  (no records)"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Records) {
		end = len(m.Records)
	}

	for i := m.Offset; i < end; i++ {
		r := m.Records[i]
		line := fmt.Sprintf("%-24s  x=%.4f y=%.4f w=%.4f h=%.4f", r.Name, r.X, r.Y, r.Width, r.Height)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d/%d", m.Cursor+1, len(m.Records))))
	b.WriteString("\n")

	return b.String()
}
