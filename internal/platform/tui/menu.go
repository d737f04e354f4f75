package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/scanline/internal/registry"
)

// MenuItem represents a selectable demo or scene in the menu.
type MenuItem struct {
	ID    string
	Title string
	Scene bool // Loaded from a scene file rather than built in
}

// MenuModel is the Bubble Tea model for the demo picker.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	quitting    bool
	selected    *MenuItem // Set when user selects an entry
	openHistory bool      // True if user pressed Tab for benchmark history
}

// NewMenuModel lists the registered demos followed by scenes.
func NewMenuModel(scenes []MenuItem, width, height int) MenuModel {
	demos := registry.List()
	items := make([]MenuItem, 0, len(demos)+len(scenes))
	for _, d := range demos {
		items = append(items, MenuItem{ID: d.ID, Title: d.Title})
	}
	for _, s := range scenes {
		s.Scene = true
		items = append(items, s)
	}

	return MenuModel{
		items:  items,
		width:  width,
		height: height,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionHistory:
		m.openHistory = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  S C A N L I N E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a demo", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		kind := ""
		if item.Scene {
			kind = " (scene)"
		}
		line := fmt.Sprintf("%s%s%s", cursor, item.Title, kind)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Run  |  Tab: History  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Item         MenuItem
	WantsHistory bool
	Quit         bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(scenes []MenuItem, width, height int) (MenuResult, error) {
	model := NewMenuModel(scenes, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Quit: true}, nil
	}

	switch {
	case m.openHistory:
		return MenuResult{WantsHistory: true}, nil
	case m.selected != nil:
		return MenuResult{Item: *m.selected}, nil
	default:
		return MenuResult{Quit: true}, nil
	}
}
