package engine

import (
	"github.com/vovakirdan/scanline/internal/core"
)

// Blend selects how a layer or sprite pixel is combined with the pixel
// already in the framebuffer.
type Blend int

const (
	BlendNone   Blend = iota // Replace
	BlendMix25                // 25% source, 75% destination
	BlendMix50                // Half and half
	BlendMix75                // 75% source, 25% destination
	BlendAdd                  // Saturated addition
	BlendSub                  // Saturated subtraction (destination minus source)
	BlendMod                  // Multiplication
	BlendCustom               // Engine-wide custom function
	BlendMix                  // Source weighted by the slot's factor
	maxBlend
)

var blendNames = [...]string{
	BlendNone:   "none",
	BlendMix25:  "mix25",
	BlendMix50:  "mix50",
	BlendMix75:  "mix75",
	BlendAdd:    "add",
	BlendSub:    "sub",
	BlendMod:    "mod",
	BlendCustom: "custom",
	BlendMix:    "mix",
}

// String returns the lowercase name of the blend mode.
func (b Blend) String() string {
	if b < 0 || b >= maxBlend {
		return "unknown"
	}
	return blendNames[b]
}

// ParseBlend converts a name produced by String back to a Blend.
func ParseBlend(s string) (Blend, error) {
	for i, name := range blendNames {
		if name == s {
			return Blend(i), nil
		}
	}
	return BlendNone, core.NewError("ParseBlend", core.ErrUnsupported)
}

// BlendFunc combines one color channel of a source pixel with the
// destination channel. It backs BlendCustom.
type BlendFunc func(src, dst uint8) uint8

func (b Blend) valid() bool {
	return b >= 0 && b < maxBlend
}

// blendPixel combines src over dst. factor is only read by BlendMix.
func (e *Engine) blendPixel(mode Blend, factor uint8, src, dst core.Color) core.Color {
	switch mode {
	case BlendNone:
		return src
	case BlendCustom:
		if e.customBlend == nil {
			return src
		}
		fn := e.customBlend
		return core.Color{R: fn(src.R, dst.R), G: fn(src.G, dst.G), B: fn(src.B, dst.B)}
	}
	return core.Color{
		R: blendChannel(mode, factor, src.R, dst.R),
		G: blendChannel(mode, factor, src.G, dst.G),
		B: blendChannel(mode, factor, src.B, dst.B),
	}
}

func blendChannel(mode Blend, factor, s, d uint8) uint8 {
	a, b := int(s), int(d)
	switch mode {
	case BlendMix25:
		return uint8((a + 2*b) / 3)
	case BlendMix50:
		return uint8((a + b) / 2)
	case BlendMix75:
		return uint8((2*a + b) / 3)
	case BlendAdd:
		if a+b > 255 {
			return 255
		}
		return uint8(a + b)
	case BlendSub:
		if b < a {
			return 0
		}
		return uint8(b - a)
	case BlendMod:
		return uint8(a * b / 255)
	case BlendMix:
		f := int(factor)
		return uint8((a*f + b*(255-f)) / 255)
	}
	return s
}
