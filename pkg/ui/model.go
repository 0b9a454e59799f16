package ui

import (
	"fmt"
	"strings"
	"time"

	"storemy/pkg/ui/base"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxHistory = 200

// Model represents the shell state
type Model struct {
	executor    *Executor
	highlighter *SQLHighlighter
	queryEditor textarea.Model
	historyView viewport.Model
	resultTable table.Model
	spinner     spinner.Model
	help        help.Model

	width     int
	height    int
	executing bool
	showHelp  bool
	quitting  bool

	lastResult   Result
	lastDuration time.Duration
	history      []string
	keys         keyMap
}

// NewModel builds the shell around exec.
func NewModel(exec *Executor) Model {
	ta := textarea.New()
	ta.Placeholder = `Enter SQL or a \command (\c NAME, \create NAME, \l, \dt, \sync, \q)...`
	ta.CharLimit = 5000
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle().Background(bgLight)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(textMuted)
	ta.FocusedStyle.Text = lipgloss.NewStyle().Foreground(textPrimary)

	vp := viewport.New(80, 8)
	vp.Style = resultStyle

	t := table.New(
		table.WithColumns([]table.Column{{Title: "Results", Width: 80}}),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(primaryColor).
		BorderBottom(true).
		Bold(true).
		Foreground(primaryColor)
	s.Selected = s.Selected.
		Foreground(bgDark).
		Background(secondaryColor).
		Bold(false)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		executor:    exec,
		highlighter: NewSQLHighlighter(),
		queryEditor: ta,
		historyView: vp,
		resultTable: t,
		spinner:     sp,
		help:        help.New(),
		keys:        keys,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		textarea.Blink,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()

	case tea.KeyMsg:
		if m.executing {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Execute):
			input := strings.TrimSpace(m.queryEditor.Value())
			if input != "" {
				m.executing = true
				return m, m.execute(input)
			}
			return m, nil

		case key.Matches(msg, m.keys.Clear):
			m.queryEditor.SetValue("")
			m.lastResult = Result{}
			return m, nil

		case key.Matches(msg, m.keys.ShowTables):
			m.executing = true
			return m, m.execute(`\dt`)

		case key.Matches(msg, m.keys.ListDBs):
			m.executing = true
			return m, m.execute(`\l`)

		case key.Matches(msg, m.keys.Sync):
			m.executing = true
			return m, m.execute(`\sync`)

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}

	case resultMsg:
		m.executing = false
		m.lastResult = msg.result
		m.lastDuration = msg.duration
		if msg.result.Quit {
			m.quitting = true
			return m, tea.Quit
		}
		m.queryEditor.SetValue("")
		m.appendHistory(msg.result)
		m.updateResultDisplay()

	case spinner.TickMsg:
		if m.executing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	if !m.executing {
		var cmd tea.Cmd
		m.queryEditor, cmd = m.queryEditor.Update(msg)
		cmds = append(cmds, cmd)

		m.historyView, cmd = m.historyView.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderHistory(),
		m.renderQueryEditor(),
	}

	switch {
	case m.executing:
		sections = append(sections, m.renderExecuting())
	case m.lastResult.Err != nil:
		sections = append(sections, m.renderError())
	case len(m.lastResult.Columns) > 0:
		sections = append(sections, m.renderResultTable())
	case m.lastResult.Input != "":
		sections = append(sections, m.renderMessage())
	}

	sections = append(sections, m.renderStatusBar())

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	}

	return appStyle.Render(strings.Join(sections, "\n"))
}

func (m Model) renderHelp() string {
	helpText := m.help.FullHelpView([][]key.Binding{
		{
			m.keys.Execute,
			m.keys.Clear,
			m.keys.ShowTables,
			m.keys.ListDBs,
			m.keys.Sync,
			m.keys.Help,
			m.keys.Quit,
		},
	})

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(bgMedium).
		Render(helpText)
}

func (m Model) renderHeader() string {
	reg := m.executor.registry

	title := titleStyle.Render("StoreMy Shell")
	badge := dbBadgeStyle.Render(m.executor.Session().CurrentDB())
	info := lipgloss.NewStyle().
		Foreground(textSecondary).
		Render(fmt.Sprintf("Open databases: %d | %s", reg.Len(), reg.DBDir()))

	header := lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", badge, "  ", info)

	separator := strings.Repeat("─", max(m.width-4, 0))
	return header + "\n" + lipgloss.NewStyle().Foreground(bgLight).Render(separator)
}

func (m Model) renderHistory() string {
	return m.historyView.View()
}

func (m Model) renderQueryEditor() string {
	label := lipgloss.NewStyle().
		Foreground(primaryColor).
		Bold(true).
		Render("Input")

	return fmt.Sprintf("%s\n%s", label, editorStyle.Render(m.queryEditor.View()))
}

func (m Model) renderExecuting() string {
	content := lipgloss.JoinHorizontal(lipgloss.Left, m.spinner.View(), " Executing...")

	return lipgloss.NewStyle().
		Foreground(primaryColor).
		Padding(1, 0).
		Render(content)
}

func (m Model) renderError() string {
	icon := errorStyle.Render(" ERROR ")
	message := lipgloss.NewStyle().
		Foreground(errorColor).
		Render(m.lastResult.Err.Error())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(errorColor).
		Padding(0, 1).
		Render(fmt.Sprintf("%s %s", icon, message))
}

func (m Model) renderResultTable() string {
	header := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		Render(fmt.Sprintf("%d rows in %v", len(m.lastResult.Rows), m.lastDuration))

	return fmt.Sprintf("%s\n%s", header, m.resultTable.View())
}

func (m Model) renderMessage() string {
	style, icon := successStyle, " OK "
	if m.lastResult.Failed() {
		style, icon = errorStyle, " "+m.lastResult.RC.String()+" "
	}

	return lipgloss.NewStyle().
		Foreground(textSecondary).
		Padding(1, 0).
		Render(fmt.Sprintf("%s %s", style.Render(icon), strings.TrimSpace(m.lastResult.Response)))
}

func (m Model) renderStatusBar() string {
	status := lipgloss.NewStyle().Foreground(accentColor).Render("● " + m.executor.Session().CurrentDB())

	timer := ""
	if m.lastDuration > 0 {
		timer = fmt.Sprintf(" | Last command: %v", m.lastDuration)
	}

	content := status + lipgloss.NewStyle().
		Foreground(textMuted).
		Render(timer+" | Press Ctrl+H for help")

	return statusBarStyle.
		Width(max(m.width-4, 0)).
		Render(content)
}

func (m *Model) updateLayout() {
	editorHeight := 4
	historyHeight := max((m.height-editorHeight-14)/2, 3)

	m.queryEditor.SetWidth(max(m.width-6, 10))
	m.historyView.Width = max(m.width-6, 10)
	m.historyView.Height = historyHeight
	m.resultTable.SetHeight(historyHeight)
}

// appendHistory records the line and its outcome in the scrollback.
func (m *Model) appendHistory(res Result) {
	entry := "> " + m.highlighter.Highlight(res.Input)
	switch {
	case res.Err != nil:
		entry += "\n" + lipgloss.NewStyle().Foreground(errorColor).Render(res.Err.Error())
	case res.Response != "":
		entry += "\n" + strings.TrimRight(res.Response, "\n")
	case len(res.Columns) > 0:
		entry += fmt.Sprintf("\n(%d rows)", len(res.Rows))
	}

	m.history = append(m.history, entry)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.historyView.SetContent(strings.Join(m.history, "\n"))
	m.historyView.GotoBottom()
}

func (m *Model) updateResultDisplay() {
	if len(m.lastResult.Columns) == 0 {
		return
	}

	columns := make([]table.Column, len(m.lastResult.Columns))
	for i, col := range m.lastResult.Columns {
		columns[i] = table.Column{Title: col, Width: m.columnWidth(col, i)}
	}

	rows := make([]table.Row, len(m.lastResult.Rows))
	for i, row := range m.lastResult.Rows {
		cells := make(table.Row, len(row))
		for j, cell := range row {
			cells[j] = base.TruncateString(cell, maxColumnWidth)
		}
		rows[i] = cells
	}

	// Rows must be cleared before columns shrink.
	m.resultTable.SetRows(nil)
	m.resultTable.SetColumns(columns)
	m.resultTable.SetRows(rows)
}

const (
	minColumnWidth = 10
	maxColumnWidth = 30
)

func (m Model) columnWidth(name string, index int) int {
	width := base.DisplayWidth(name) + 2
	for _, row := range m.lastResult.Rows {
		if index < len(row) {
			width = max(width, base.DisplayWidth(row[index])+2)
		}
	}
	return min(max(width, minColumnWidth), maxColumnWidth)
}

type resultMsg struct {
	result   Result
	duration time.Duration
}

func (m Model) execute(input string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res := m.executor.Execute(input)
		return resultMsg{result: res, duration: time.Since(start)}
	}
}
