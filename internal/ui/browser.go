// Package ui implements `acec check --interactive` and `acec build
// --interactive`: a scrollable browser over an accumulated diag.Bag, a
// navigable list backed by a bubbles/viewport detail pane (browsing a
// finished diagnostic report has no in-flight event stream to listen on).
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ace/internal/diag"
	"ace/internal/diagfmt"
)

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// browserModel is a bubbletea model: a scrollable list of diagnostics on
// the left half of the terminal driving a detail viewport on the right.
type browserModel struct {
	items    []diag.Diagnostic
	cursor   int
	detail   viewport.Model
	width    int
	height   int
	quitting bool
}

// NewBrowserModel returns a bubbletea model browsing bag's diagnostics.
func NewBrowserModel(bag *diag.Bag) tea.Model {
	vp := viewport.New(80, 10)
	m := &browserModel{items: bag.Items(), detail: vp, width: 80, height: 24}
	m.syncDetail()
	return m
}

func (m *browserModel) Init() tea.Cmd { return nil }

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width = m.width - listWidth(m.width) - 2
		m.detail.Height = m.height - 3
		m.syncDetail()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.syncDetail()
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
				m.syncDetail()
			}
		}
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *browserModel) View() string {
	if m.quitting {
		return ""
	}
	if len(m.items) == 0 {
		return headerStyle.Render("no diagnostics") + "\n"
	}

	var list strings.Builder
	for i, d := range m.items {
		line := fmt.Sprintf("%s %s", severityGlyph(d.Severity), d.Code.String())
		if i == m.cursor {
			line = selectedStyle.Render(line)
		} else {
			line = styleFor(d.Severity).Render(line)
		}
		list.WriteString(line)
		list.WriteString("\n")
	}

	listBox := lipgloss.NewStyle().Width(listWidth(m.width)).Render(list.String())
	body := lipgloss.JoinHorizontal(lipgloss.Top, listBox, m.detail.View())
	help := helpStyle.Render("up/down: navigate  q: quit")
	return body + "\n" + help
}

func (m *browserModel) syncDetail() {
	if len(m.items) == 0 {
		m.detail.SetContent("")
		return
	}
	bag := diag.NewBag(1)
	bag.Add(m.items[m.cursor])
	var out strings.Builder
	diagfmt.Pretty(&out, bag, diagfmt.Options{Color: false, Context: 2, ShowNotes: true})
	m.detail.SetContent(out.String())
}

func listWidth(total int) int {
	w := total / 3
	if w < 20 {
		w = 20
	}
	return w
}

func severityGlyph(s diag.Severity) string {
	switch s {
	case diag.Error:
		return "x"
	case diag.Warning:
		return "!"
	default:
		return "i"
	}
}

func styleFor(s diag.Severity) lipgloss.Style {
	switch s {
	case diag.Error:
		return errorStyle
	case diag.Warning:
		return warningStyle
	default:
		return infoStyle
	}
}
