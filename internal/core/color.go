package core

import "fmt"

// Color is a 24-bit RGB color as stored in palettes and the framebuffer.
type Color struct {
	R, G, B uint8
}

// RGB creates a color from its three channels.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Predefined colors used by demos and tests.
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
)

// ParseHexColor parses "#rrggbb", "rrggbb" or the Tiled "#aarrggbb" form.
// The alpha byte of the 8-digit form is ignored.
func ParseHexColor(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) == 8 {
		s = s[2:]
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	var v uint32
	if _, err := fmt.Sscanf(s, "%06x", &v); err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Lerp interpolates between a and b; t=0 returns a, t=255 returns b.
func Lerp(a, b Color, t uint8) Color {
	mix := func(x, y uint8) uint8 {
		return uint8((int(x)*(255-int(t)) + int(y)*int(t)) / 255)
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B)}
}
