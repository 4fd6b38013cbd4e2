package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mars-lander/internal/maps"
	"github.com/vovakirdan/mars-lander/internal/storage"
)

// Board layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show the map list sidebar
	sidebarWidth       = 24  // Width of map list sidebar
	maxBoardRuns       = 100 // Max runs to load per map
)

// BoardModel is the Bubble Tea model for the run board: the best recorded
// descents per map with aggregate statistics.
type BoardModel struct {
	maps        []maps.Info
	mapCursor   int
	store       *storage.Store
	runs        []storage.RunEntry
	stats       *storage.MapStats
	table       table.Model
	help        help.Model
	keys        BoardKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewBoardModel creates a new board model over the built-in maps.
func NewBoardModel(store *storage.Store, width, height int) BoardModel {
	h := help.New()
	h.ShowAll = false

	m := BoardModel{
		maps:        maps.List(),
		store:       store,
		keys:        DefaultBoardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()

	if len(m.maps) > 0 {
		m.loadRuns(m.maps[0].ID)
	}
	return m
}

// createTable creates a table sized to the current window.
func (m *BoardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Outcome", Width: 8},
		{Title: "Fuel", Width: 6},
		{Title: "Turns", Width: 6},
		{Title: "Seed", Width: 12},
		{Title: "Date", Width: 13},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	fixed := 0
	for _, c := range columns[:len(columns)-1] {
		fixed += c.Width + 2
	}
	if rest := tableWidth - fixed; rest > columns[len(columns)-1].Width {
		columns[len(columns)-1].Width = min(rest, 20)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for header, stats and help
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

// loadRuns loads the best runs and statistics for a map.
func (m *BoardModel) loadRuns(mapID string) {
	m.runs, m.stats = nil, nil
	if m.store != nil {
		if runs, err := m.store.TopRuns(mapID, maxBoardRuns); err == nil {
			m.runs = runs
		}
		if stats, err := m.store.GetMapStats(mapID); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

// updateTableRows refills the table from the loaded runs.
func (m *BoardModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			r.Outcome,
			fmt.Sprintf("%d", r.FuelLeft),
			fmt.Sprintf("%d", r.Turns),
			fmt.Sprintf("%d", r.Seed),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *BoardModel) selectMap(delta int) {
	if len(m.maps) == 0 {
		return
	}
	m.mapCursor = (m.mapCursor + delta + len(m.maps)) % len(m.maps)
	m.loadRuns(m.maps[m.mapCursor].ID)
}

// Init initializes the board model.
func (m BoardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the board.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMap):
			m.selectMap(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevMap):
			m.selectMap(-1)
			return m, nil
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

// View renders the board.
func (m BoardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "DESCENTS"
	if current, ok := m.current(); ok {
		title = fmt.Sprintf("DESCENTS - %s", current.Name)
	}

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m BoardModel) current() (maps.Info, bool) {
	if len(m.maps) == 0 {
		return maps.Info{}, false
	}
	return m.maps[m.mapCursor], true
}

// renderWideLayout renders the map list beside the table.
func (m BoardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Maps\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, info := range m.maps {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.mapCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + truncate(info.Name, sidebarWidth-6)))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders map tabs above the table.
func (m BoardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.maps))
	for i, info := range m.maps {
		name := truncate(info.Name, 10)
		if i == m.mapCursor {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(" " + name + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if current, ok := m.current(); ok && lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", current.Name)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m BoardModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No descents recorded yet.\nRun `lander sim` or `lander watch` on this map.")
	}

	return m.table.View()
}

// renderStats renders the aggregate line for the selected map.
func (m BoardModel) renderStats() string {
	if m.stats == nil || m.stats.Runs == 0 {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return style.Render(fmt.Sprintf("%d runs  %d landed (%.0f%%)  best fuel %d  avg turns %.1f",
		m.stats.Runs, m.stats.Landings, m.stats.SuccessRate()*100, m.stats.BestFuel, m.stats.AvgTurns))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "."
}

// IsQuitting returns true if the user closed the board.
func (m BoardModel) IsQuitting() bool {
	return m.quitting
}

// RunBoard runs the board screen.
func RunBoard(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewBoardModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
