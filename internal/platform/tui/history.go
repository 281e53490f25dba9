package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/netops/internal/config"
	"github.com/vovakirdan/netops/internal/storage"
)

// History board layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show the level sidebar
	sidebarWidth       = 26  // Width of level sidebar
	maxRuns            = 100 // Max runs to load per view
)

// HistoryKeyMap defines the key bindings for the history board.
type HistoryKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next view"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// historyTab is one view of the board: the player's recent runs, or the
// best completions of a level across every namespace.
type historyTab struct {
	title   string
	levelID int // 0 for recent runs
}

// HistoryModel is the Bubble Tea model for the run history board.
type HistoryModel struct {
	store       *storage.Store
	namespace   string
	tabs        []historyTab
	tabCursor   int
	stats       map[int]*storage.LevelStats
	runs        []storage.RunRecord
	loadErr     error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewHistoryModel creates a history board for namespace.
func NewHistoryModel(store *storage.Store, namespace string, levels []config.LevelConfig, width, height int) HistoryModel {
	tabs := []historyTab{{title: "Recent"}}
	for _, l := range levels {
		tabs = append(tabs, historyTab{title: fmt.Sprintf("L%d %s", l.ID, l.Name), levelID: l.ID})
	}

	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		store:       store,
		namespace:   namespace,
		tabs:        tabs,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	if store != nil {
		m.stats, m.loadErr = store.GetLevelStats(namespace)
	}

	m.table = m.createTable()
	m.loadRuns()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Player", Width: 12},
		{Title: "Level", Width: 6},
		{Title: "Result", Width: 10},
		{Title: "Ticks", Width: 7},
		{Title: "Earned", Width: 9},
		{Title: "Date", Width: 13},
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads the runs for the current tab.
func (m *HistoryModel) loadRuns() {
	m.runs = nil
	if m.store != nil {
		tab := m.tabs[m.tabCursor]
		var runs []storage.RunRecord
		var err error
		if tab.levelID == 0 {
			runs, err = m.store.RecentRuns(m.namespace, maxRuns)
		} else {
			runs, err = m.store.BestRuns(tab.levelID, maxRuns)
		}
		if err != nil {
			m.loadErr = err
		} else {
			m.runs = runs
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current runs.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		result := r.Outcome
		if r.Insane {
			result += "!"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			r.Namespace,
			fmt.Sprintf("%d", r.LevelID),
			result,
			fmt.Sprintf("%d", r.Ticks),
			formatCredits(r.Earned),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history board.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextTab):
			m.tabCursor = (m.tabCursor + 1) % len(m.tabs)
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			m.tabCursor--
			if m.tabCursor < 0 {
				m.tabCursor = len(m.tabs) - 1
			}
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history board.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "RUN HISTORY - " + m.tabs[m.tabCursor].title
	b.WriteString(titleStyle.MarginBottom(1).Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.tabCursor {
			tabs[i] = selectedStyle.Padding(0, 1).Render(t.title)
		} else {
			tabs[i] = dimStyle.Render(" " + t.title + " ")
		}
	}
	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.tabs[m.tabCursor].title)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	content := panelStyle.Render(m.renderTableContent())
	if m.showSidebar {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content)
	}
	b.WriteString(content)

	if m.loadErr != nil {
		b.WriteString("\n")
		b.WriteString(badStyle.Render(m.loadErr.Error()))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar lists the namespace's per-level statistics.
func (m HistoryModel) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString("Your levels\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	if len(m.stats) == 0 {
		sb.WriteString(dimStyle.Render("nothing played yet"))
	}
	for _, t := range m.tabs[1:] {
		st, ok := m.stats[t.levelID]
		if !ok {
			continue
		}
		line := fmt.Sprintf("L%-2d %d/%d", st.LevelID, st.Completions, st.Attempts)
		if st.Completions > 0 {
			line += fmt.Sprintf(" best %dt", st.BestTicks)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return panelStyle.Width(sidebarWidth).Render(sb.String())
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.runs) == 0 {
		msg := "No runs recorded yet.\nStart a campaign level from the menu!"
		if m.tabs[m.tabCursor].levelID != 0 {
			msg = "Nobody has completed this level yet."
		}
		return dimStyle.Italic(true).Padding(2, 4).Render(msg)
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}
