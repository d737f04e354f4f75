package resource

import (
	"github.com/vovakirdan/scanline/internal/core"
)

// Bitmap is an 8-bit indexed image with an optional palette.
// Used as spriteset sheets, bitmap layers and the static background.
type Bitmap struct {
	object
	width   int
	height  int
	pitch   int
	pix     []uint8
	palette *Palette
}

// NewBitmap creates a zero-filled bitmap. Only 8 bits per pixel is supported.
func NewBitmap(width, height, bpp int) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, core.NewError("NewBitmap", core.ErrWrongSize)
	}
	if bpp != 8 {
		return nil, core.NewError("NewBitmap", core.ErrUnsupported)
	}
	return &Bitmap{
		width:  width,
		height: height,
		pitch:  width,
		pix:    make([]uint8, width*height),
	}, nil
}

// Kind implements Object.
func (b *Bitmap) Kind() Kind { return KindBitmap }

// Alive reports whether the bitmap has not been deleted.
func (b *Bitmap) Alive() bool { return b != nil && b.alive() }

// Delete releases the bitmap. Its palette is left alone.
func (b *Bitmap) Delete() {
	if b == nil {
		return
	}
	b.markDeleted()
	b.pix = nil
}

// Width returns the width in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Bitmap) Height() int { return b.height }

// Pitch returns the number of bytes per row.
func (b *Bitmap) Pitch() int { return b.pitch }

// Depth returns the bits per pixel (always 8).
func (b *Bitmap) Depth() int { return 8 }

// Pix returns the pixel storage.
func (b *Bitmap) Pix() []uint8 { return b.pix }

// Row returns the pixels of row y, or nil when out of range.
func (b *Bitmap) Row(y int) []uint8 {
	if y < 0 || y >= b.height {
		return nil
	}
	return b.pix[y*b.pitch : y*b.pitch+b.width]
}

// At returns the color index at (x, y), or 0 when out of range.
func (b *Bitmap) At(x, y int) uint8 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0
	}
	return b.pix[y*b.pitch+x]
}

// Set writes the color index at (x, y). Out-of-range writes are ignored.
func (b *Bitmap) Set(x, y int, v uint8) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.pix[y*b.pitch+x] = v
}

// Palette returns the attached palette, possibly nil.
func (b *Bitmap) Palette() *Palette {
	return b.palette
}

// SetPalette attaches a palette to the bitmap.
func (b *Bitmap) SetPalette(p *Palette) error {
	if err := Check("SetBitmapPalette", b); err != nil {
		return err
	}
	if err := Check("SetBitmapPalette", p); err != nil {
		return err
	}
	b.palette = p
	return nil
}

// Clone copies the pixels; the clone shares the same palette reference.
func (b *Bitmap) Clone() (*Bitmap, error) {
	if err := Check("CloneBitmap", b); err != nil {
		return nil, err
	}
	clone := &Bitmap{
		width:   b.width,
		height:  b.height,
		pitch:   b.pitch,
		pix:     make([]uint8, len(b.pix)),
		palette: b.palette,
	}
	copy(clone.pix, b.pix)
	return clone, nil
}
