// Package runner drives an engine on its own goroutine.
// The render goroutine owns the engine; other goroutines only read finished
// frames through Snapshot and hand input to it through a mailbox.
package runner

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/engine"
)

// UpdateFunc advances the scene before frame is drawn.
// It runs on the render goroutine and may change any engine state.
type UpdateFunc func(frame int, in core.InputFrame)

// Options configures a Runner.
type Options struct {
	FPS       int         // Target frame rate; <= 0 renders as fast as possible
	MaxFrames int         // Stop after this many frames; 0 runs until cancelled
	Logger    *log.Logger // Defaults to a discard logger
}

// Stats summarizes a run.
type Stats struct {
	Frames  int           // Frames produced
	Aborted int           // Frames cut short by a raster callback failure
	Elapsed time.Duration // Wall time spent in Run
}

// Runner renders frames on a dedicated goroutine and double-buffers them.
type Runner struct {
	eng    *engine.Engine
	update UpdateFunc
	opts   Options
	logger *log.Logger

	// Input mailbox, drained at the start of each frame.
	inputMu sync.Mutex
	pending core.InputFrame
	wake    chan struct{} // signalled by PushInput

	mu      sync.Mutex
	front   []byte
	back    []byte
	shown   int // frame number held in front, -1 before the first frame
	redraw  chan struct{}
	stats   Stats
	paused  bool
	running bool

	done     chan struct{}
	doneOnce sync.Once
}

// ErrRunning is returned by every Run call after the first.
var ErrRunning = errors.New("runner: already started")

// New creates a runner for e. update may be nil.
func New(e *engine.Engine, update UpdateFunc, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	size := e.Width() * e.Height() * core.BytesPerPixel
	return &Runner{
		eng:     e,
		update:  update,
		opts:    opts,
		logger:  logger,
		pending: core.NewInputFrame(),
		wake:    make(chan struct{}, 1),
		front:   make([]byte, size),
		back:    make([]byte, size),
		shown:   -1,
		redraw:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Width returns the frame width in pixels.
func (r *Runner) Width() int {
	return r.eng.Width()
}

// Height returns the frame height in pixels.
func (r *Runner) Height() int {
	return r.eng.Height()
}

// PushInput queues actions for the next frame. Safe for concurrent use.
func (r *Runner) PushInput(in core.InputFrame) {
	r.inputMu.Lock()
	r.pending.Merge(in)
	r.inputMu.Unlock()
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// takeInput empties the mailbox.
func (r *Runner) takeInput() core.InputFrame {
	r.inputMu.Lock()
	defer r.inputMu.Unlock()
	in := r.pending
	r.pending = core.NewInputFrame()
	return in
}

// Run produces frames until ctx is cancelled or MaxFrames is reached.
// A frame that has started always completes before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrRunning
	}
	r.running = true
	r.mu.Unlock()
	defer r.doneOnce.Do(func() { close(r.done) })

	var tick <-chan time.Time
	if r.opts.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(r.opts.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	r.logger.Info("runner started", "width", r.Width(), "height", r.Height(), "fps", r.opts.FPS)
	start := time.Now()
	frame := 0
	for {
		if r.opts.MaxFrames > 0 && r.frames() >= r.opts.MaxFrames {
			break
		}
		if ctx.Err() != nil {
			break
		}

		in := r.takeInput()
		if in.Has(core.ActionPause) {
			r.mu.Lock()
			r.paused = !r.paused
			r.mu.Unlock()
		}
		if !r.Paused() {
			if r.update != nil {
				r.update(frame, in)
			}
			r.renderFrame(frame)
			frame++
		}

		switch {
		case tick != nil:
			select {
			case <-ctx.Done():
			case <-tick:
			}
		case r.Paused():
			// Unthrottled and paused: sleep until new input or cancellation.
			select {
			case <-ctx.Done():
			case <-r.wake:
			}
		}
	}

	r.mu.Lock()
	r.stats.Elapsed = time.Since(start)
	stats := r.stats
	r.mu.Unlock()
	r.logger.Info("runner stopped", "frames", stats.Frames, "aborted", stats.Aborted, "elapsed", stats.Elapsed)
	return nil
}

// renderFrame draws frame into the back buffer and publishes it.
func (r *Runner) renderFrame(frame int) {
	aborted := false
	if err := r.eng.DrawFrame(frame); err != nil {
		aborted = true
		r.logger.Warn("frame aborted", "frame", frame, "err", err)
	}
	r.eng.Framebuffer().CopyTo(r.back)

	r.mu.Lock()
	r.front, r.back = r.back, r.front
	r.shown = frame
	r.stats.Frames++
	if aborted {
		r.stats.Aborted++
	}
	close(r.redraw)
	r.redraw = make(chan struct{})
	r.mu.Unlock()
}

func (r *Runner) frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.Frames
}

// WaitRedraw blocks until the frame in flight completes. It returns the
// context error if ctx ends first and nil without waiting once Run has
// returned.
func (r *Runner) WaitRedraw(ctx context.Context) error {
	r.mu.Lock()
	ch := r.redraw
	r.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot copies the latest completed frame into dst, which must hold
// Width*Height*4 bytes. It returns the frame number, or -1 if no frame has
// completed yet.
func (r *Runner) Snapshot(dst []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.shown >= 0 {
		copy(dst, r.front)
	}
	return r.shown
}

// Stats returns the counters of the current or last run.
func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Paused reports whether the frame counter is frozen.
func (r *Runner) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// Done returns a channel that closes when Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}
