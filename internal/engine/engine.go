// Package engine is the scanline compositor. An Engine owns a fixed number of
// layer, sprite and animation slots plus a framebuffer, and renders frames one
// horizontal line at a time so a raster callback can change any parameter
// between two lines.
//
// An Engine is not safe for concurrent use. Callbacks run synchronously on
// the goroutine that drives the frame; the runner package wraps an Engine for
// presenters that need a frame loop on its own goroutine.
package engine

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/resource"
)

// Version of the engine API.
const (
	VersionMajor = 1
	VersionMinor = 2
	VersionPatch = 0
)

// Version returns the engine version as "major.minor.patch".
func Version() string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}

// Engine is a rendering context.
type Engine struct {
	width  int
	height int
	logger *log.Logger

	framebuffer *core.Framebuffer // owned buffer created by Init
	target      *core.Framebuffer // where lines are written

	layers     []layer
	sprites    []sprite
	animations []animation
	tileAnims  map[*resource.Tileset][]sequencer

	bgColor   core.Color
	bgEnabled bool
	bgBitmap  *resource.Bitmap
	bgPalette *resource.Palette

	raster      RasterFunc
	onFrame     FrameFunc
	customBlend BlendFunc

	frame   int
	line    int
	inFrame bool
	lastErr core.ErrorCode

	// Per-line scratch buffers, one element per column.
	prioColor  []core.Color
	prioBlend  []Blend
	prioFactor []uint8
	prioSet    []bool
	collision  []int
}

// Option configures an Engine at Init.
type Option func(*Engine)

// WithLogger routes engine diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithBGColor sets the initial background color.
func WithBGColor(c core.Color) Option {
	return func(e *Engine) {
		e.bgColor = c
	}
}

// Init creates an engine with a width x height framebuffer and the given
// number of layer, sprite and animation slots.
func Init(width, height, numLayers, numSprites, numAnimations int, opts ...Option) (*Engine, error) {
	if width <= 0 || height <= 0 {
		return nil, core.NewError("Init", core.ErrWrongSize)
	}
	if numLayers < 0 || numSprites < 0 || numAnimations < 0 {
		return nil, core.NewError("Init", core.ErrWrongSize)
	}

	e := &Engine{
		width:      width,
		height:     height,
		logger:     log.New(io.Discard),
		layers:     make([]layer, numLayers),
		sprites:    make([]sprite, numSprites),
		animations: make([]animation, numAnimations),
		tileAnims:  make(map[*resource.Tileset][]sequencer),
		bgColor:    core.ColorBlack,
		bgEnabled:  true,
		prioColor:  make([]core.Color, width),
		prioBlend:  make([]Blend, width),
		prioFactor: make([]uint8, width),
		prioSet:    make([]bool, width),
		collision:  make([]int, width),
	}
	for _, opt := range opts {
		opt(e)
	}
	for i := range e.layers {
		e.layers[i].reset(width, height)
	}
	for i := range e.sprites {
		e.sprites[i].reset()
	}
	e.framebuffer = core.NewFramebuffer(width, height)
	e.target = e.framebuffer

	e.logger.Info("engine initialized",
		"version", Version(),
		"width", width, "height", height,
		"layers", numLayers, "sprites", numSprites, "animations", numAnimations)
	return e, nil
}

// Width returns the framebuffer width in pixels.
func (e *Engine) Width() int { return e.width }

// Height returns the framebuffer height in pixels.
func (e *Engine) Height() int { return e.height }

// NumLayers returns the number of layer slots.
func (e *Engine) NumLayers() int { return len(e.layers) }

// NumSprites returns the number of sprite slots.
func (e *Engine) NumSprites() int { return len(e.sprites) }

// NumAnimations returns the number of animation slots.
func (e *Engine) NumAnimations() int { return len(e.animations) }

// Logger returns the logger passed with WithLogger.
func (e *Engine) Logger() *log.Logger { return e.logger }

// LastError returns the code of the most recent engine call. Calls that
// succeed reset it to core.OK.
func (e *Engine) LastError() core.ErrorCode { return e.lastErr }

// Framebuffer returns the current render target.
func (e *Engine) Framebuffer() *core.Framebuffer { return e.target }

// Frame returns the time value passed to the last BeginFrame.
func (e *Engine) Frame() int { return e.frame }

// Line returns the next scanline DrawNextScanline will render.
func (e *Engine) Line() int { return e.line }

// SetRenderTarget makes the engine draw into caller memory: pix holds
// Height rows of Width RGBA pixels, pitch bytes apart.
func (e *Engine) SetRenderTarget(pix []byte, pitch int) error {
	fb, err := core.WrapFramebuffer(pix, e.width, e.height, pitch)
	if err != nil {
		return e.result(err)
	}
	e.target = fb
	return e.result(nil)
}

// SetFramebuffer makes the engine draw into fb, which must match the engine
// size. A nil fb restores the buffer created by Init.
func (e *Engine) SetFramebuffer(fb *core.Framebuffer) error {
	if fb == nil {
		e.target = e.framebuffer
		return e.result(nil)
	}
	if fb.Width() != e.width || fb.Height() != e.height {
		return e.fail("SetFramebuffer", core.ErrWrongSize)
	}
	e.target = fb
	return e.result(nil)
}

// SetBGColor sets the color every line starts with and enables it.
func (e *Engine) SetBGColor(c core.Color) {
	e.bgColor = c
	e.bgEnabled = true
	e.lastErr = core.OK
}

// SetBGColorFromTilemap uses the background color stored in tm.
func (e *Engine) SetBGColorFromTilemap(tm *resource.Tilemap) error {
	if err := resource.Check("SetBGColorFromTilemap", tm); err != nil {
		return e.result(err)
	}
	c, ok := tm.BGColor()
	if !ok {
		return e.fail("SetBGColorFromTilemap", core.ErrUnsupported)
	}
	e.SetBGColor(c)
	return nil
}

// DisableBGColor stops filling lines, so pixels not covered by a layer or
// sprite keep the previous frame's content.
func (e *Engine) DisableBGColor() {
	e.bgEnabled = false
	e.lastErr = core.OK
}

// BGColor returns the background color and whether it is enabled.
func (e *Engine) BGColor() (core.Color, bool) {
	return e.bgColor, e.bgEnabled
}

// SetBGBitmap sets a full-screen backdrop drawn over the background color.
// A nil bitmap removes it.
func (e *Engine) SetBGBitmap(bm *resource.Bitmap) error {
	if bm == nil {
		e.bgBitmap = nil
		return e.result(nil)
	}
	if err := resource.Check("SetBGBitmap", bm); err != nil {
		return e.result(err)
	}
	e.bgBitmap = bm
	if e.bgPalette == nil {
		e.bgPalette = bm.Palette()
	}
	return e.result(nil)
}

// SetBGPalette replaces the palette used by the background bitmap.
func (e *Engine) SetBGPalette(p *resource.Palette) error {
	if p == nil {
		e.bgPalette = nil
		return e.result(nil)
	}
	if err := resource.Check("SetBGPalette", p); err != nil {
		return e.result(err)
	}
	e.bgPalette = p
	return e.result(nil)
}

// SetRasterCallback installs fn to run before each line. nil removes it.
func (e *Engine) SetRasterCallback(fn RasterFunc) {
	e.raster = fn
	e.lastErr = core.OK
}

// SetFrameCallback installs fn to run at the start of each frame. nil removes it.
func (e *Engine) SetFrameCallback(fn FrameFunc) {
	e.onFrame = fn
	e.lastErr = core.OK
}

// SetCustomBlendFunction sets the function used by BlendCustom.
func (e *Engine) SetCustomBlendFunction(fn BlendFunc) {
	e.customBlend = fn
	e.lastErr = core.OK
}

// result records the outcome of a call in LastError and returns err.
func (e *Engine) result(err error) error {
	e.lastErr = core.CodeOf(err)
	if err != nil {
		e.logger.Debug("engine call failed", "err", err)
	}
	return err
}

func (e *Engine) fail(op string, code core.ErrorCode) error {
	return e.result(core.NewError(op, code))
}

func (e *Engine) layerAt(op string, n int) (*layer, error) {
	if n < 0 || n >= len(e.layers) {
		return nil, e.fail(op, core.ErrIdxLayer)
	}
	return &e.layers[n], nil
}

func (e *Engine) spriteAt(op string, n int) (*sprite, error) {
	if n < 0 || n >= len(e.sprites) {
		return nil, e.fail(op, core.ErrIdxSprite)
	}
	return &e.sprites[n], nil
}

func (e *Engine) animationAt(op string, n int) (*animation, error) {
	if n < 0 || n >= len(e.animations) {
		return nil, e.fail(op, core.ErrIdxAnimation)
	}
	return &e.animations[n], nil
}
