package core

import (
	"image"
)

// BytesPerPixel is the size of one framebuffer pixel (R, G, B, A).
const BytesPerPixel = 4

// Framebuffer is a 32-bit RGBA pixel buffer the compositor renders into.
// It may own its memory or wrap a caller-supplied slice with an arbitrary
// row pitch, which is how presenters hand their own surfaces to the engine.
type Framebuffer struct {
	width  int
	height int
	pitch  int
	pix    []byte
}

// NewFramebuffer allocates a framebuffer with a tightly packed pitch.
// The buffer starts opaque black.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		width:  width,
		height: height,
		pitch:  width * BytesPerPixel,
	}
	fb.pix = make([]byte, fb.pitch*height)
	fb.Fill(ColorBlack)
	return fb
}

// WrapFramebuffer uses pix as the pixel storage for a width x height image.
// Returns ErrWrongSize if the pitch or slice length cannot hold the image.
func WrapFramebuffer(pix []byte, width, height, pitch int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 || pitch < width*BytesPerPixel {
		return nil, NewError("WrapFramebuffer", ErrWrongSize)
	}
	if pix == nil {
		return nil, NewError("WrapFramebuffer", ErrNullPointer)
	}
	if len(pix) < pitch*(height-1)+width*BytesPerPixel {
		return nil, NewError("WrapFramebuffer", ErrWrongSize)
	}
	return &Framebuffer{width: width, height: height, pitch: pitch, pix: pix}, nil
}

// Width returns the framebuffer width in pixels.
func (fb *Framebuffer) Width() int {
	return fb.width
}

// Height returns the framebuffer height in pixels.
func (fb *Framebuffer) Height() int {
	return fb.height
}

// Pitch returns the number of bytes between the starts of two rows.
func (fb *Framebuffer) Pitch() int {
	return fb.pitch
}

// Pix returns the underlying pixel storage.
func (fb *Framebuffer) Pix() []byte {
	return fb.pix
}

// Row returns the bytes of scanline y (width*4 bytes), or nil if out of range.
func (fb *Framebuffer) Row(y int) []byte {
	if y < 0 || y >= fb.height {
		return nil
	}
	start := y * fb.pitch
	return fb.pix[start : start+fb.width*BytesPerPixel]
}

// Set writes an opaque pixel at the given position.
// Out-of-bounds coordinates are silently ignored.
func (fb *Framebuffer) Set(x, y int, c Color) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return
	}
	i := y*fb.pitch + x*BytesPerPixel
	fb.pix[i] = c.R
	fb.pix[i+1] = c.G
	fb.pix[i+2] = c.B
	fb.pix[i+3] = 0xFF
}

// Get returns the pixel at the given position.
// Returns black for out-of-bounds coordinates.
func (fb *Framebuffer) Get(x, y int) Color {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return ColorBlack
	}
	i := y*fb.pitch + x*BytesPerPixel
	return Color{R: fb.pix[i], G: fb.pix[i+1], B: fb.pix[i+2]}
}

// Fill paints the whole framebuffer with c.
func (fb *Framebuffer) Fill(c Color) {
	for y := 0; y < fb.height; y++ {
		FillRow(fb.Row(y), c)
	}
}

// Clear paints the whole framebuffer black.
func (fb *Framebuffer) Clear() {
	fb.Fill(ColorBlack)
}

// CopyTo copies the visible pixels into dst, which must be at least
// width*height*4 bytes. Rows are packed tightly in dst.
func (fb *Framebuffer) CopyTo(dst []byte) {
	stride := fb.width * BytesPerPixel
	for y := 0; y < fb.height; y++ {
		copy(dst[y*stride:(y+1)*stride], fb.Row(y))
	}
}

// Image returns an image.RGBA view that shares the framebuffer memory.
func (fb *Framebuffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    fb.pix,
		Stride: fb.pitch,
		Rect:   image.Rect(0, 0, fb.width, fb.height),
	}
}

// FillRow paints every pixel of an RGBA row with c.
func FillRow(row []byte, c Color) {
	for i := 0; i+3 < len(row); i += BytesPerPixel {
		row[i] = c.R
		row[i+1] = c.G
		row[i+2] = c.B
		row[i+3] = 0xFF
	}
}

// PixelAt reads pixel x of an RGBA row.
func PixelAt(row []byte, x int) Color {
	i := x * BytesPerPixel
	return Color{R: row[i], G: row[i+1], B: row[i+2]}
}

// SetPixelAt writes pixel x of an RGBA row.
func SetPixelAt(row []byte, x int, c Color) {
	i := x * BytesPerPixel
	row[i] = c.R
	row[i+1] = c.G
	row[i+2] = c.B
	row[i+3] = 0xFF
}
