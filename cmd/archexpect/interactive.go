package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/archexpect/internal/report"
	"github.com/unbound-force/archexpect/internal/taxonomy"
)

// keyMap defines keybindings for the interactive TUI.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Styles for the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tuiHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	tuiBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))
)

// maxMessageWidth bounds reported messages in the occurrence table.
const maxMessageWidth = 70

// checkModel is the Bubble Tea model for browsing check results.
type checkModel struct {
	results  []taxonomy.ExpectationResult
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	content  string
}

func newCheckModel(results []taxonomy.ExpectationResult) checkModel {
	return checkModel{
		results: results,
		help:    help.New(),
		keys:    defaultKeyMap,
		content: renderCheckContent(results),
	}
}

func renderCheckContent(results []taxonomy.ExpectationResult) string {
	var sb strings.Builder
	styles := report.DefaultStyles()
	sum := taxonomy.Summarize(results)

	sb.WriteString(titleStyle.Render(
		fmt.Sprintf("archexpect check: %d expectation(s), %d found, %d missing",
			sum.Total, sum.Satisfied, sum.Missing)))
	sb.WriteString("\n\n")

	for _, r := range results {
		sb.WriteString(tuiHeaderStyle.Render(fmt.Sprintf("=== %s %s ===", r.ID, r.Target)))
		sb.WriteString(" ")
		sb.WriteString(styles.StatusStyle(r.Found).Render(report.Status(r.Found)))
		sb.WriteString("\n")
		sb.WriteString(styles.KindStyle(r.Kind).Render(fmt.Sprintf("    %s", r.Kind)))
		sb.WriteString(statusStyle.Render(fmt.Sprintf(" from %s", r.Origin)))
		sb.WriteString("\n")
		if r.Expected != "" {
			sb.WriteString(fmt.Sprintf("    expected: %s\n", r.Expected))
		}

		if len(r.Occurrences) == 0 {
			sb.WriteString(statusStyle.Render("    No matching access reported."))
			sb.WriteString("\n\n")
			continue
		}

		rows := make([][]string, 0, len(r.Occurrences))
		for _, o := range r.Occurrences {
			rows = append(rows, []string{fmt.Sprintf("%d", o.Line), truncateRight(o.Message, maxMessageWidth)})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(tuiBorderStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return tuiHeaderStyle
				}
				return lipgloss.NewStyle()
			}).
			Headers("LINE", "REPORTED").
			Rows(rows...)

		sb.WriteString(t.String())
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// truncateRight keeps the first max runes of s, ending in "...".
func truncateRight(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func (m checkModel) Init() tea.Cmd {
	return nil
}

func (m checkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		footerHeight := 2

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-footerHeight)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - footerHeight
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m checkModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := statusStyle.Render(
		fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.viewport.View() + "\n" + footer
}

// runInteractiveCheck launches the Bubble Tea TUI for browsing
// check results.
func runInteractiveCheck(results []taxonomy.ExpectationResult) error {
	p := tea.NewProgram(newCheckModel(results), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
