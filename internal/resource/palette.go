package resource

import (
	"github.com/vovakirdan/scanline/internal/core"
)

// MaxPaletteEntries is the largest number of colors a palette can hold.
const MaxPaletteEntries = 256

// Palette is an indexed color table of 1..256 RGB entries.
type Palette struct {
	object
	colors []core.Color
}

// NewPalette creates a palette with the given number of black entries.
func NewPalette(entries int) (*Palette, error) {
	if entries <= 0 || entries > MaxPaletteEntries {
		return nil, core.NewError("NewPalette", core.ErrWrongSize)
	}
	return &Palette{colors: make([]core.Color, entries)}, nil
}

// Kind implements Object.
func (p *Palette) Kind() Kind { return KindPalette }

// Alive reports whether the palette has not been deleted.
func (p *Palette) Alive() bool { return p != nil && p.alive() }

// Delete releases the palette. Further use fails with ErrRefPalette.
func (p *Palette) Delete() {
	if p == nil {
		return
	}
	p.markDeleted()
	p.colors = nil
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	return len(p.colors)
}

// Colors returns the backing color slice. Writes go straight to the palette;
// the compositor and palette animations use this to avoid per-pixel checks.
func (p *Palette) Colors() []core.Color {
	return p.colors
}

// SetColor sets entry index to c.
func (p *Palette) SetColor(index int, c core.Color) error {
	if err := Check("SetPaletteColor", p); err != nil {
		return err
	}
	if index < 0 || index >= len(p.colors) {
		return core.NewError("SetPaletteColor", core.ErrIdxPicture)
	}
	p.colors[index] = c
	return nil
}

// Color returns entry index.
func (p *Palette) Color(index int) (core.Color, error) {
	if err := Check("GetPaletteColor", p); err != nil {
		return core.Color{}, err
	}
	if index < 0 || index >= len(p.colors) {
		return core.Color{}, core.NewError("GetPaletteColor", core.ErrIdxPicture)
	}
	return p.colors[index], nil
}

// At returns entry index, or black when out of range. Hot-path accessor.
func (p *Palette) At(index int) core.Color {
	if index < 0 || index >= len(p.colors) {
		return core.ColorBlack
	}
	return p.colors[index]
}

// AddColor adds c to num entries starting at start, saturating at 255.
func (p *Palette) AddColor(c core.Color, start, num int) error {
	return p.applyRange("AddPaletteColor", start, num, func(e core.Color) core.Color {
		return core.Color{R: addSat(e.R, c.R), G: addSat(e.G, c.G), B: addSat(e.B, c.B)}
	})
}

// SubColor subtracts c from num entries starting at start, flooring at 0.
func (p *Palette) SubColor(c core.Color, start, num int) error {
	return p.applyRange("SubPaletteColor", start, num, func(e core.Color) core.Color {
		return core.Color{R: subSat(e.R, c.R), G: subSat(e.G, c.G), B: subSat(e.B, c.B)}
	})
}

// ModColor multiplies num entries starting at start by c, normalized to 255.
func (p *Palette) ModColor(c core.Color, start, num int) error {
	return p.applyRange("ModPaletteColor", start, num, func(e core.Color) core.Color {
		return core.Color{R: mod(e.R, c.R), G: mod(e.G, c.G), B: mod(e.B, c.B)}
	})
}

func (p *Palette) applyRange(op string, start, num int, fn func(core.Color) core.Color) error {
	if err := Check(op, p); err != nil {
		return err
	}
	if start < 0 || num < 0 || start+num > len(p.colors) {
		return core.NewError(op, core.ErrIdxPicture)
	}
	for i := start; i < start+num; i++ {
		p.colors[i] = fn(p.colors[i])
	}
	return nil
}

// Clone returns an independent copy of the palette.
func (p *Palette) Clone() (*Palette, error) {
	if err := Check("ClonePalette", p); err != nil {
		return nil, err
	}
	clone := &Palette{colors: make([]core.Color, len(p.colors))}
	copy(clone.colors, p.colors)
	return clone, nil
}

// MixPalettes writes into dst the blend of src1 and src2 by factor
// (0 = src1, 255 = src2). Only the entries present in all three are mixed.
func MixPalettes(src1, src2, dst *Palette, factor uint8) error {
	for _, p := range []*Palette{src1, src2, dst} {
		if err := Check("MixPalettes", p); err != nil {
			return err
		}
	}
	n := core.Min(core.Min(src1.Len(), src2.Len()), dst.Len())
	for i := 0; i < n; i++ {
		dst.colors[i] = core.Lerp(src1.colors[i], src2.colors[i], factor)
	}
	return nil
}

func addSat(a, b uint8) uint8 {
	s := int(a) + int(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

func subSat(a, b uint8) uint8 {
	if b > a {
		return 0
	}
	return a - b
}

func mod(a, b uint8) uint8 {
	return uint8(int(a) * int(b) / 255)
}
