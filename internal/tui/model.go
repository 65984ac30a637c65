// Package tui is an interactive viewer over internal/demo's canned
// scenarios: pick one from a list, run it or explain its plan, and see
// the result rendered as a table. Adapted from the teacher's query
// terminal model — here there is no query editor, since there is no
// parser to feed it; scenario selection stands in for query entry.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"relcore/internal/demo"
	"relcore/pkg/catalog"
)

type scenarioItem struct{ s demo.Scenario }

func (i scenarioItem) Title() string       { return i.s.Name }
func (i scenarioItem) Description() string { return i.s.Description }
func (i scenarioItem) FilterValue() string { return i.s.Name }

// Model is the root bubbletea model.
type Model struct {
	cat         *catalog.MemCatalog
	list        list.Model
	resultTable table.Model
	help        help.Model

	width, height int
	showHelp      bool
	planText      string
	lastErr       error
}

// New builds a Model listing every demo scenario.
func New(cat *catalog.MemCatalog) Model {
	var items []list.Item
	for _, s := range demo.Scenarios() {
		items = append(items, scenarioItem{s})
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "scenarios"
	l.Styles.Title = titleStyle

	t := table.New(
		table.WithColumns([]table.Column{{Title: "result", Width: 60}}),
		table.WithRows(nil),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(primaryColor).
		BorderBottom(true).
		Bold(true).
		Foreground(primaryColor)
	ts.Selected = ts.Selected.Foreground(bgDark).Background(secondaryColor)
	t.SetStyles(ts)

	return Model{cat: cat, list: l, resultTable: t, help: help.New()}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width/2, msg.Height-6)
		m.resultTable.SetWidth(msg.Width / 2)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, keys.Run):
			m.runSelected()
		case key.Matches(msg, keys.Explain):
			m.explainSelected()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) selected() (demo.Scenario, bool) {
	item, ok := m.list.SelectedItem().(scenarioItem)
	if !ok {
		return demo.Scenario{}, false
	}
	return item.s, true
}

func (m *Model) runSelected() {
	s, ok := m.selected()
	if !ok {
		return
	}
	m.planText = ""
	result, err := demo.Run(m.cat, s.Name)
	if err != nil {
		m.lastErr = err
		return
	}
	m.lastErr = nil
	m.applyResult(result)
}

func (m *Model) explainSelected() {
	s, ok := m.selected()
	if !ok {
		return
	}
	text, err := demo.Explain(m.cat, s.Name)
	if err != nil {
		m.lastErr = err
		return
	}
	m.lastErr = nil
	m.planText = text
}

func (m *Model) applyResult(result *demo.Result) {
	cols := make([]table.Column, len(result.Columns))
	for i, name := range result.Columns {
		cols[i] = table.Column{Title: name, Width: 16}
	}
	rows := make([]table.Row, len(result.Rows))
	for i, r := range result.Rows {
		cells := make([]string, len(r))
		for j, v := range r {
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}
	m.resultTable.SetColumns(cols)
	m.resultTable.SetRows(rows)
}

func (m Model) View() string {
	left := listStyle.Render(m.list.View())

	var right string
	switch {
	case m.lastErr != nil:
		right = errorStyle.Render(m.lastErr.Error())
	case m.planText != "":
		right = resultStyle.Render(m.planText)
	default:
		right = resultStyle.Render(m.resultTable.View())
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := statusBarStyle.Render("enter: run  e: explain  ?: help  q: quit")
	sections := []string{body, status}
	if m.showHelp {
		sections = append(sections, m.help.View(m.helpKeys()))
	}
	return appStyle.Render(strings.Join(sections, "\n"))
}

func (m Model) helpKeys() help.KeyMap {
	return staticKeyMap{[]key.Binding{keys.Run, keys.Explain, keys.Help, keys.Quit}}
}

type staticKeyMap struct{ bindings []key.Binding }

func (s staticKeyMap) ShortHelp() []key.Binding { return s.bindings }
func (s staticKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{s.bindings}
}
