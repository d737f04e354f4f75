// Package tui provides the Bubble Tea presenter for the compositor: it shows
// frames from a runner as half-block truecolor cells and forwards keys as
// input actions.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/scanline/internal/runner"
)

// FrameMsg is sent when the runner has completed a frame.
type FrameMsg struct{}

// DoneMsg is sent when the runner has stopped.
type DoneMsg struct{}

// TickMsg refreshes the status line.
type TickMsg time.Time

// waitFrameCmd blocks until the runner publishes the next frame.
func waitFrameCmd(ctx context.Context, r *runner.Runner) tea.Cmd {
	return func() tea.Msg {
		if err := r.WaitRedraw(ctx); err != nil {
			return DoneMsg{}
		}
		select {
		case <-r.Done():
			return DoneMsg{}
		default:
		}
		return FrameMsg{}
	}
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
