// Package window presents a running compositor in a desktop window using
// Ebitengine. Frames come from a runner snapshot and are uploaded as-is; the
// window scales them to its size.
package window

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/runner"
	"github.com/vovakirdan/scanline/internal/snapshot"
)

// Options configures the window.
type Options struct {
	ID      string // Used in screenshot file names
	Title   string
	Scale   float64 // Initial window size relative to the frame
	ShotDir string  // Screenshot directory for F12; empty disables it
}

// binding maps keys to an action. Held bindings repeat every frame while
// pressed; the others fire once per press.
type binding struct {
	keys   []ebiten.Key
	action core.Action
	held   bool
}

var bindings = []binding{
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, core.ActionUp, true},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, core.ActionDown, true},
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, core.ActionLeft, true},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, core.ActionRight, true},
	{[]ebiten.Key{ebiten.KeyZ, ebiten.KeySpace}, core.ActionButton1, false},
	{[]ebiten.Key{ebiten.KeyX}, core.ActionButton2, false},
	{[]ebiten.Key{ebiten.KeyEnter}, core.ActionStart, false},
	{[]ebiten.Key{ebiten.KeyP}, core.ActionPause, false},
	{[]ebiten.Key{ebiten.KeyEscape, ebiten.KeyQ}, core.ActionQuit, false},
}

// Actions builds the input frame for one tick. pressed reports held keys and
// justPressed keys that went down this tick.
func Actions(pressed, justPressed func(ebiten.Key) bool) core.InputFrame {
	in := core.NewInputFrame()
	for _, b := range bindings {
		check := justPressed
		if b.held {
			check = pressed
		}
		for _, k := range b.keys {
			if check(k) {
				in.Set(b.action)
				break
			}
		}
	}
	return in
}

// Game adapts a runner to ebiten.Game.
type Game struct {
	ctx  context.Context
	run  *runner.Runner
	opts Options
	pix  []byte
	shot int // frame number of the last screenshot
}

// NewGame creates a window game for r that closes when ctx ends.
func NewGame(ctx context.Context, r *runner.Runner, opts Options) *Game {
	if opts.Scale <= 0 {
		opts.Scale = 2
	}
	return &Game{
		ctx:  ctx,
		run:  r,
		opts: opts,
		pix:  make([]byte, r.Width()*r.Height()*core.BytesPerPixel),
		shot: -1,
	}
}

// Update forwards keyboard input to the runner.
func (g *Game) Update() error {
	select {
	case <-g.run.Done():
		return ebiten.Termination
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	in := Actions(ebiten.IsKeyPressed, inpututil.IsKeyJustPressed)
	if in.Has(core.ActionQuit) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if err := g.saveScreenshot(); err != nil {
			return err
		}
	}
	g.run.PushInput(in)
	return nil
}

// Draw uploads the latest finished frame.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.run.Snapshot(g.pix) < 0 {
		return
	}
	screen.WritePixels(g.pix)
}

// Layout keeps the logical screen at the frame size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.run.Width(), g.run.Height()
}

func (g *Game) saveScreenshot() error {
	if g.opts.ShotDir == "" {
		return nil
	}
	frame := g.run.Snapshot(g.pix)
	if frame < 0 || frame == g.shot {
		return nil
	}
	g.shot = frame
	name := fmt.Sprintf("%s_%s.png", g.opts.ID, time.Now().Format("20060102_150405"))
	return snapshot.WritePNG(filepath.Join(g.opts.ShotDir, name), g.pix, g.run.Width(), g.run.Height(), snapshot.Options{Scale: 1})
}

// Run opens a window for r and blocks until it is closed, ctx ends or the
// runner stops. The runner must already be running.
func Run(ctx context.Context, r *runner.Runner, opts Options) error {
	g := NewGame(ctx, r, opts)

	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(int(float64(r.Width())*g.opts.Scale), int(float64(r.Height())*g.opts.Scale))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.DefaultTPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}
