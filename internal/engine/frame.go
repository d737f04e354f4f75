package engine

import (
	"fmt"

	"github.com/vovakirdan/scanline/internal/core"
)

// RasterFunc runs before line is composited. It may change any engine or
// resource state; changes show from line on. Returning an error aborts the
// frame.
type RasterFunc func(line int) error

// FrameFunc runs at the start of every frame, after animations advance.
type FrameFunc func(frame int)

// RasterError is the cause carried by an ErrRasterCallback error.
type RasterError struct {
	Line int
	Err  error
}

func (e *RasterError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RasterError) Unwrap() error {
	return e.Err
}

// BeginFrame starts frame number frame: animations advance to it, sprite
// collision flags are cleared and the frame callback runs. Lines are then
// produced with DrawNextScanline.
func (e *Engine) BeginFrame(frame int) error {
	e.frame = frame
	e.updateAnimations(frame)
	for i := range e.sprites {
		e.sprites[i].collided = false
	}
	e.line = 0
	e.inFrame = true
	if e.onFrame != nil {
		e.onFrame(frame)
	}
	return e.result(nil)
}

// DrawNextScanline composites the next line of the frame started by
// BeginFrame. It reports whether more lines remain; false is also returned
// when no frame is in progress.
//
// If the raster callback fails the frame is aborted: the line is not drawn,
// lines below it keep their previous content and the returned error has
// code ErrRasterCallback.
func (e *Engine) DrawNextScanline() (bool, error) {
	if !e.inFrame {
		return false, e.result(nil)
	}
	line := e.line
	if e.raster != nil {
		if err := e.callRaster(line); err != nil {
			e.inFrame = false
			e.line = e.height
			e.logger.Warn("frame aborted", "frame", e.frame, "line", line, "err", err)
			return false, e.result(core.WrapError("DrawNextScanline", core.ErrRasterCallback,
				&RasterError{Line: line, Err: err}))
		}
	}
	e.drawScanline(line)
	e.line++
	if e.line >= e.height {
		e.inFrame = false
	}
	return e.inFrame, e.result(nil)
}

// callRaster runs the raster callback, turning a panic into an error.
func (e *Engine) callRaster(line int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("raster callback panic: %v", r)
		}
	}()
	return e.raster(line)
}

// DrawFrame renders a whole frame. It is BeginFrame followed by
// DrawNextScanline until no lines remain.
func (e *Engine) DrawFrame(frame int) error {
	if err := e.BeginFrame(frame); err != nil {
		return err
	}
	for {
		more, err := e.DrawNextScanline()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// UpdateFrame is DrawFrame.
func (e *Engine) UpdateFrame(frame int) error {
	return e.DrawFrame(frame)
}
