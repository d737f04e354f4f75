package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/resource"
)

// LoadBitmap reads an indexed PNG or BMP file into a bitmap with its own
// palette. Truecolor images are indexed on the fly when they use at most
// 256 colors; fully transparent pixels become entry 0.
func LoadBitmap(path string) (*resource.Bitmap, error) {
	data, err := readFile("LoadBitmap", path)
	if err != nil {
		return nil, err
	}

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		img, err = bmp.Decode(bytes.NewReader(data))
	default:
		img, err = png.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, formatError("LoadBitmap", fmt.Errorf("decode %s: %w", path, err))
	}
	return FromImage(img)
}

// FromImage converts img into an 8-bit bitmap.
func FromImage(img image.Image) (*resource.Bitmap, error) {
	if p, ok := img.(*image.Paletted); ok {
		return fromPaletted(p)
	}
	return fromTruecolor(img)
}

func fromPaletted(img *image.Paletted) (*resource.Bitmap, error) {
	b := img.Bounds()
	bm, err := resource.NewBitmap(b.Dx(), b.Dy(), 8)
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Dy(); y++ {
		copy(bm.Row(y), img.Pix[y*img.Stride:y*img.Stride+b.Dx()])
	}

	entries := len(img.Palette)
	if entries == 0 {
		return nil, formatError("LoadBitmap", fmt.Errorf("empty palette"))
	}
	pal, err := resource.NewPalette(entries)
	if err != nil {
		return nil, err
	}
	for i, c := range img.Palette {
		if err := pal.SetColor(i, toColor(c)); err != nil {
			return nil, err
		}
	}
	if err := bm.SetPalette(pal); err != nil {
		return nil, err
	}
	return bm, nil
}

func fromTruecolor(img image.Image) (*resource.Bitmap, error) {
	b := img.Bounds()
	bm, err := resource.NewBitmap(b.Dx(), b.Dy(), 8)
	if err != nil {
		return nil, err
	}

	// Entry 0 stays reserved for transparency.
	colors := []core.Color{core.ColorBlack}
	index := make(map[core.Color]uint8)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			if _, _, _, a := c.RGBA(); a < 0x8000 {
				continue
			}
			rgb := toColor(c)
			i, ok := index[rgb]
			if !ok {
				if len(colors) == resource.MaxPaletteEntries {
					return nil, formatError("LoadBitmap", fmt.Errorf("more than %d colors", resource.MaxPaletteEntries-1))
				}
				i = uint8(len(colors))
				index[rgb] = i
				colors = append(colors, rgb)
			}
			bm.Set(x, y, i)
		}
	}

	pal, err := resource.NewPalette(len(colors))
	if err != nil {
		return nil, err
	}
	for i, c := range colors {
		if err := pal.SetColor(i, c); err != nil {
			return nil, err
		}
	}
	if err := bm.SetPalette(pal); err != nil {
		return nil, err
	}
	return bm, nil
}

func toColor(c color.Color) core.Color {
	r, g, b, _ := c.RGBA()
	return core.RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// ToImage converts an indexed bitmap to a paletted image using pal, or the
// bitmap's own palette when pal is nil. Entry 0 is written transparent.
func ToImage(bm *resource.Bitmap, pal *resource.Palette) (*image.Paletted, error) {
	if err := resource.Check("ToImage", bm); err != nil {
		return nil, err
	}
	if pal == nil {
		pal = bm.Palette()
	}
	if err := resource.Check("ToImage", pal); err != nil {
		return nil, err
	}
	palette := make(color.Palette, pal.Len())
	for i, c := range pal.Colors() {
		palette[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
	}
	palette[0] = color.RGBA{}
	img := image.NewPaletted(image.Rect(0, 0, bm.Width(), bm.Height()), palette)
	for y := 0; y < bm.Height(); y++ {
		copy(img.Pix[y*img.Stride:], bm.Row(y))
	}
	return img, nil
}
