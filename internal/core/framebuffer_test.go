package core

import (
	"errors"
	"testing"
)

func TestNewFramebuffer(t *testing.T) {
	fb := NewFramebuffer(400, 240)

	if fb.Width() != 400 {
		t.Errorf("Width() = %d, expected 400", fb.Width())
	}
	if fb.Height() != 240 {
		t.Errorf("Height() = %d, expected 240", fb.Height())
	}
	if fb.Pitch() != 1600 {
		t.Errorf("Pitch() = %d, expected 1600", fb.Pitch())
	}

	// Starts opaque black
	if got := fb.Get(399, 239); got != ColorBlack {
		t.Errorf("Get(399, 239) = %v, expected black", got)
	}
	if fb.Pix()[3] != 0xFF {
		t.Errorf("alpha = %d, expected 255", fb.Pix()[3])
	}
}

func TestFramebufferSetGet(t *testing.T) {
	fb := NewFramebuffer(10, 10)

	fb.Set(5, 5, ColorRed)
	if fb.Get(5, 5) != ColorRed {
		t.Errorf("Get(5, 5) = %v, expected red", fb.Get(5, 5))
	}

	// Out of bounds should be silent
	fb.Set(-1, 0, ColorRed)
	fb.Set(10, 0, ColorRed)
	fb.Set(0, -1, ColorRed)
	fb.Set(0, 10, ColorRed)

	if fb.Get(-1, 0) != ColorBlack {
		t.Error("Out of bounds Get should return black")
	}
	if fb.Row(10) != nil {
		t.Error("Row(10) should be nil for a 10 line buffer")
	}
}

func TestWrapFramebufferPitch(t *testing.T) {
	// 4x2 image with 8 bytes of padding per row
	pix := make([]byte, 24*2)
	fb, err := WrapFramebuffer(pix, 4, 2, 24)
	if err != nil {
		t.Fatalf("WrapFramebuffer() failed: %v", err)
	}

	fb.Set(0, 1, ColorBlue)
	if pix[24+2] != 255 {
		t.Errorf("blue byte at row 1 = %d, expected 255", pix[24+2])
	}

	fb.Fill(ColorGreen)
	// Padding bytes are not part of the image
	if pix[16] != 0 {
		t.Errorf("padding byte = %d, expected 0", pix[16])
	}

	img := fb.Image()
	if img.Bounds().Dx() != 4 || img.Stride != 24 {
		t.Errorf("Image() bounds/stride = %v/%d", img.Bounds(), img.Stride)
	}
}

func TestWrapFramebufferErrors(t *testing.T) {
	if _, err := WrapFramebuffer(make([]byte, 10), 4, 2, 16); !errors.Is(err, ErrWrongSize) {
		t.Errorf("short slice error = %v, expected ErrWrongSize", err)
	}
	if _, err := WrapFramebuffer(make([]byte, 100), 4, 2, 8); !errors.Is(err, ErrWrongSize) {
		t.Errorf("short pitch error = %v, expected ErrWrongSize", err)
	}
	if _, err := WrapFramebuffer(nil, 4, 2, 16); !errors.Is(err, ErrNullPointer) {
		t.Errorf("nil slice error = %v, expected ErrNullPointer", err)
	}
}

func TestFramebufferCopyTo(t *testing.T) {
	pix := make([]byte, 12*2)
	fb, err := WrapFramebuffer(pix, 2, 2, 12)
	if err != nil {
		t.Fatalf("WrapFramebuffer() failed: %v", err)
	}
	fb.Set(1, 1, ColorWhite)

	dst := make([]byte, 2*2*BytesPerPixel)
	fb.CopyTo(dst)
	if PixelAt(dst[8:], 1) != ColorWhite {
		t.Errorf("packed copy pixel = %v, expected white", PixelAt(dst[8:], 1))
	}
}
