// Package snapshot turns rendered frames into PNG files: integer scaling
// with nearest-neighbor sampling and an optional text label in a corner.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/vovakirdan/scanline/internal/core"
)

// Options controls how a frame is written.
type Options struct {
	Scale int    // Integer zoom factor, values below 1 mean 1
	Label string // Text drawn in the top-left corner, empty for none
}

// FromPixels wraps a tightly packed RGBA frame as an image without copying.
func FromPixels(pix []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pix) < width*height*core.BytesPerPixel {
		return nil, core.NewError("snapshot", core.ErrWrongSize)
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: width * core.BytesPerPixel,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// Scale returns src enlarged by factor with nearest-neighbor sampling.
// factor 1 returns a copy.
func Scale(src image.Image, factor int) *image.RGBA {
	if factor < 1 {
		factor = 1
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Label draws text at the top-left corner with a one-pixel shadow.
func Label(img draw.Image, text string) {
	face := basicfont.Face7x13
	base := face.Metrics().Ascent.Ceil() + 2
	shadow := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(4, base+1),
	}
	shadow.DrawString(text)
	fg := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(3, base),
	}
	fg.DrawString(text)
}

// Render produces the final image of a frame.
func Render(pix []byte, width, height int, opts Options) (*image.RGBA, error) {
	src, err := FromPixels(pix, width, height)
	if err != nil {
		return nil, err
	}
	img := Scale(src, opts.Scale)
	if opts.Label != "" {
		Label(img, opts.Label)
	}
	return img, nil
}

// Encode writes the frame to w as PNG.
func Encode(w io.Writer, pix []byte, width, height int, opts Options) error {
	img, err := Render(pix, width, height, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WritePNG writes the frame to path, creating parent directories.
func WritePNG(path string, pix []byte, width, height int, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot: cannot create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: cannot create file: %w", err)
	}
	if err := Encode(f, pix, width, height, opts); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: cannot encode %s: %w", path, err)
	}
	return f.Close()
}
