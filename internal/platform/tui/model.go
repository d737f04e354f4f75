package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/runner"
	"github.com/vovakirdan/scanline/internal/snapshot"
)

// statusRate is how often the status line refreshes, per second.
const statusRate = 4

// Options configures the frame viewer.
type Options struct {
	ID      string // Used in screenshot file names
	Title   string
	ShotDir string // Screenshot directory; empty disables ctrl+s
}

// Model is the Bubble Tea model that shows a running compositor.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	run    *runner.Runner
	opts   Options
	keys   KeyMap
	help   help.Model

	pix    []byte // latest frame
	frame  int
	width  int
	height int

	lastFrame int
	lastTick  time.Time
	fps       float64
	notice    string
	quitting  bool
}

// NewModel creates a viewer for r. Cancelling ctx or quitting stops the
// viewer; the caller owns the runner goroutine.
func NewModel(ctx context.Context, r *runner.Runner, opts Options) Model {
	ctx, cancel := context.WithCancel(ctx)
	return Model{
		ctx:      ctx,
		cancel:   cancel,
		run:      r,
		opts:     opts,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		pix:      make([]byte, r.Width()*r.Height()*core.BytesPerPixel),
		frame:    -1,
		width:    80,
		height:   24,
		lastTick: time.Now(),
	}
}

// Init starts waiting for frames.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitFrameCmd(m.ctx, m.run), tickCmd(statusRate))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		m.frame = m.run.Snapshot(m.pix)
		return m, waitFrameCmd(m.ctx, m.run)

	case DoneMsg:
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey forwards actions to the runner.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Shot) {
		m.notice = m.saveScreenshot()
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionNone:
		return m, nil
	case core.ActionQuit:
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	}

	in := core.NewInputFrame()
	in.Set(action)
	m.run.PushInput(in)
	return m, nil
}

// handleTick measures the frame rate since the previous tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	frames := m.run.Stats().Frames
	if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
		m.fps = float64(frames-m.lastFrame) / dt
	}
	m.lastFrame = frames
	m.lastTick = now
	return m, tickCmd(statusRate)
}

// saveScreenshot writes the current frame as a PNG and returns a notice.
func (m *Model) saveScreenshot() string {
	if m.opts.ShotDir == "" || m.frame < 0 {
		return "screenshot unavailable"
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", m.opts.ID, timestamp)
	path := filepath.Join(m.opts.ShotDir, filename)

	err := snapshot.WritePNG(path, m.pix, m.run.Width(), m.run.Height(), snapshot.Options{Scale: 1})
	if err != nil {
		return err.Error()
	}
	return "saved " + path
}

// View renders the latest frame above a status line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	cols, rows := Fit(m.run.Width(), m.run.Height(), m.width, m.height-2)
	if m.frame >= 0 {
		b.WriteString(RenderFrame(m.pix, m.run.Width(), m.run.Height(), cols, rows))
	}
	b.WriteString("\n")

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	status := fmt.Sprintf("%s  frame %d  %.1f fps", m.opts.Title, core.Max(m.frame, 0), m.fps)
	if m.run.Paused() {
		status += "  [paused]"
	}
	if m.notice != "" {
		status += "  " + m.notice
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// Run shows r until the user quits or the runner stops. The runner must
// already be running.
func Run(ctx context.Context, r *runner.Runner, opts Options) error {
	model := NewModel(ctx, r, opts)
	defer model.cancel()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
