package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dappnode/packages-status/pkg/status"
)

var (
	browserPromptStyle = lipgloss.NewStyle().Foreground(colorCyan)
	browserDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BrowserModel - Interactive status browser
// =============================================================================

// BrowserModel is the bubbletea model of the interactive status table.
// Typing "/" starts a filter; the visible rows narrow as the filter is typed.
type BrowserModel struct {
	Rows      []status.Row
	Visible   []status.Row
	Filter    string
	Filtering bool
	Cursor    int
	Offset    int
	Height    int
}

// NewBrowserModel creates a browser over rows, pre-filtered by filter.
func NewBrowserModel(rows []status.Row, filter string) BrowserModel {
	m := BrowserModel{Rows: rows, Filter: filter, Height: 15}
	m.applyFilter()
	return m
}

func (m *BrowserModel) applyFilter() {
	m.Visible = status.Filter(m.Rows, m.Filter)
	m.Cursor, m.Offset = 0, 0
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "/":
			m.Filtering = true
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m BrowserModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.Filtering = false
	case tea.KeyEsc:
		m.Filtering = false
		m.Filter = ""
		m.applyFilter()
	case tea.KeyBackspace:
		if r := []rune(m.Filter); len(r) > 0 {
			m.Filter = string(r[:len(r)-1])
			m.applyFilter()
		}
	case tea.KeyRunes, tea.KeySpace:
		m.Filter += string(msg.Runes)
		m.applyFilter()
	}
	return m, nil
}

func (m BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Package Status"))
	b.WriteString("\n")
	b.WriteString(browserDimStyle.Render("↑/↓ navigate  / filter  q quit"))
	b.WriteString("\n\n")

	if m.Filtering || m.Filter != "" {
		cursor := ""
		if m.Filtering {
			cursor = "▏"
		}
		b.WriteString(browserPromptStyle.Render("/ ") + m.Filter + cursor)
		b.WriteString("\n\n")
	}

	if len(m.Visible) == 0 {
		b.WriteString(browserDimStyle.Render("  no packages match"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Visible))
	page := m.Visible[m.Offset:end]
	b.WriteString(rowsTable(page, m.Cursor-m.Offset).Render())
	b.WriteString("\n\n")

	if m.Cursor < len(m.Visible) {
		if url := m.Visible[m.Cursor].RepoURL; url != "" {
			b.WriteString("  " + StyleLink.Render(url))
			b.WriteString("\n")
		}
	}
	b.WriteString(browserDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Visible))))
	return b.String()
}

// runBrowser opens the interactive browser and blocks until it is closed.
func runBrowser(rows []status.Row, filter string) error {
	_, err := tea.NewProgram(NewBrowserModel(rows, filter), tea.WithAltScreen()).Run()
	return err
}
