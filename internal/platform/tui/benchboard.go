package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/scanline/internal/registry"
	"github.com/vovakirdan/scanline/internal/storage"
)

// Benchboard layout constants
const (
	minWidthForSidebar = 96  // Minimum width to show demo list sidebar
	sidebarWidth       = 20  // Width of demo list sidebar
	maxRuns            = 100 // Max runs to load
)

// BenchboardKeyMap defines the key bindings for the benchmark history.
type BenchboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextDemo key.Binding
	PrevDemo key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BenchboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextDemo, k.PrevDemo, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k BenchboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextDemo, k.PrevDemo},
		{k.Back, k.Quit},
	}
}

// DefaultBenchboardKeyMap returns default key bindings.
func DefaultBenchboardKeyMap() BenchboardKeyMap {
	return BenchboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev demo"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next demo"),
		),
		NextDemo: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next demo"),
		),
		PrevDemo: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev demo"),
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

// BenchboardModel is the Bubble Tea model for the benchmark history screen.
type BenchboardModel struct {
	demos       []registry.DemoInfo // Registered demos plus scenes with runs
	demoCursor  int                 // Currently selected demo index
	store       *storage.Store      // Benchmark storage
	runs        []storage.BenchRun
	stats       map[string]*storage.DemoStats
	table       table.Model
	help        help.Model
	keys        BenchboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show demo list sidebar
}

// NewBenchboardModel creates a new benchmark history model.
func NewBenchboardModel(store *storage.Store, width, height int) BenchboardModel {
	keys := DefaultBenchboardKeyMap()
	h := help.New()
	h.ShowAll = false

	m := BenchboardModel{
		store:       store,
		keys:        keys,
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.demos = m.listDemos()

	// Initialize table
	m.table = m.createTable()

	// Load runs for first demo
	if len(m.demos) > 0 {
		m.loadRuns(m.demos[0].ID)
	}

	return m
}

// listDemos merges the registry with IDs found in storage, such as scenes.
func (m *BenchboardModel) listDemos() []registry.DemoInfo {
	demos := registry.List()
	if m.store == nil {
		return demos
	}
	stats, err := m.store.GetAllDemoStats()
	if err != nil {
		return demos
	}
	m.stats = stats

	known := make(map[string]bool, len(demos))
	for _, d := range demos {
		known[d.ID] = true
	}
	extra := make([]registry.DemoInfo, 0)
	for id := range stats {
		if !known[id] {
			extra = append(extra, registry.DemoInfo{ID: id, Title: id})
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].ID < extra[j].ID })
	return append(demos, extra...)
}

// createTable creates a new table with appropriate columns.
func (m *BenchboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Size", Width: 9},
		{Title: "Frames", Width: 7},
		{Title: "FPS", Width: 8},
		{Title: "ms/frame", Width: 9},
		{Title: "Aborted", Width: 7},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	// Table styles
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

// loadRuns loads the recent runs for the given demo ID.
func (m *BenchboardModel) loadRuns(demoID string) {
	if m.store == nil {
		m.runs = nil
		m.updateTableRows()
		return
	}

	runs, err := m.store.RecentRuns(demoID, maxRuns)
	if err != nil {
		m.runs = nil
	} else {
		m.runs = runs
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current runs.
func (m *BenchboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			fmt.Sprintf("%d", r.Frames),
			fmt.Sprintf("%.1f", r.FPS()),
			fmt.Sprintf("%.2f", float64(r.FrameTime().Microseconds())/1000),
			fmt.Sprintf("%d", r.Aborted),
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Init initializes the benchmark history model.
func (m BenchboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the benchmark history.
func (m BenchboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextDemo), key.Matches(msg, m.keys.Right):
			if len(m.demos) > 0 {
				m.demoCursor = (m.demoCursor + 1) % len(m.demos)
				m.loadRuns(m.demos[m.demoCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevDemo), key.Matches(msg, m.keys.Left):
			if len(m.demos) > 0 {
				m.demoCursor--
				if m.demoCursor < 0 {
					m.demoCursor = len(m.demos) - 1
				}
				m.loadRuns(m.demos[m.demoCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
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

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the benchmark history.
func (m BenchboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "BENCHMARKS"
	if len(m.demos) > 0 {
		d := m.demos[m.demoCursor]
		title = fmt.Sprintf("BENCHMARKS - %s", d.Title)
		if st, ok := m.stats[d.ID]; ok && st.Runs > 0 {
			title += fmt.Sprintf("  (best %.1f fps over %d runs)", st.BestFPS, st.Runs)
		}
	}

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the history with a sidebar for demo selection.
func (m BenchboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Demos\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, d := range m.demos {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.demoCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := d.Title
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ",
		tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the current demo name above the table.
func (m BenchboardModel) renderNarrowLayout() string {
	var b strings.Builder

	if len(m.demos) > 0 {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.demos[m.demoCursor].Title), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m BenchboardModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nUse 'scanline bench' to measure a demo.")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m BenchboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m BenchboardModel) IsQuitting() bool {
	return m.quitting
}

// RunBenchboard runs the benchmark history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunBenchboard(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewBenchboardModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(BenchboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
