package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/scanline/internal/core"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapAction(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp},
		{"w", runes("w"), core.ActionUp},
		{"s", runes("s"), core.ActionDown},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{"d", runes("d"), core.ActionRight},
		{"z", runes("z"), core.ActionButton1},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionButton1},
		{"x", runes("x"), core.ActionButton2},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionStart},
		{"p", runes("p"), core.ActionPause},
		{"q", runes("q"), core.ActionQuit},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"ctrl+s", tea.KeyMsg{Type: tea.KeyCtrlS}, core.ActionNone},
		{"unbound", runes("y"), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.Action(tt.msg); got != tt.want {
				t.Errorf("Action(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runes("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionHistory},
		{runes("q"), MenuActionQuit},
		{runes("y"), MenuActionNone},
	}

	for _, tt := range tests {
		if got := MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %d, expected %d", tt.msg.String(), got, tt.want)
		}
	}
}
