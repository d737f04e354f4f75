// Package bars implements the raster bars demo: the background color is
// changed on every scanline to draw moving copper bars behind a scrolling
// tile layer.
package bars

import (
	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/demos/gen"
	"github.com/vovakirdan/scanline/internal/engine"
	"github.com/vovakirdan/scanline/internal/registry"
	"github.com/vovakirdan/scanline/internal/resource"
)

const (
	barCount  = 4
	barHeight = 24
	tileSize  = 16
)

var barColors = [barCount]core.Color{
	core.RGB(255, 64, 64),
	core.RGB(255, 200, 48),
	core.RGB(64, 220, 96),
	core.RGB(72, 128, 255),
}

func init() {
	registry.Register("bars", func() registry.Demo { return New() })
}

// Demo draws copper bars with a raster callback.
type Demo struct {
	eng   *engine.Engine
	bag   gen.Bag
	sky   []core.Color // base color per line
	lines []core.Color // color used per line this frame
	speed int
	phase int
}

// New creates the demo.
func New() *Demo {
	return &Demo{speed: 2}
}

// ID returns the demo identifier.
func (d *Demo) ID() string { return "bars" }

// Title returns the display name.
func (d *Demo) Title() string { return "Raster Bars" }

// Setup builds a grid layer with holes and installs the raster callback.
func (d *Demo) Setup(e *engine.Engine, cfg core.RuntimeConfig) error {
	d.eng = e
	h := e.Height()

	sky := gen.Gradient(h, core.RGB(8, 8, 40), core.RGB(40, 0, 60))
	d.sky = make([]core.Color, h)
	for y := range d.sky {
		d.sky[y] = sky(y)
	}
	d.lines = make([]core.Color, h)

	pal, err := gen.Palette(4, gen.Gradient(4, core.ColorBlack, core.RGB(80, 80, 96), core.RGB(200, 200, 220)))
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, pal)

	// A frame with a transparent middle so the bars show through.
	ts, err := gen.Tileset(pal, 1, tileSize, func(_, x, y int) uint8 {
		if x < 2 || y < 2 || x >= tileSize-2 || y >= tileSize-2 {
			return 3
		}
		return 0
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, ts)

	tm, err := gen.Tilemap(ts, 16, 32, func(r, c int) resource.Tile {
		if (r+c)%3 == 0 {
			return resource.Tile{}
		}
		return resource.Tile{Index: 1}
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, tm)

	if e.NumLayers() > 0 {
		if err := e.SetLayer(0, nil, tm); err != nil {
			return err
		}
	}
	e.SetRasterCallback(d.raster)
	return nil
}

// Update moves the bars and scrolls the grid. Up and Down change speed.
func (d *Demo) Update(frame int, in core.InputFrame) {
	if in.Has(core.ActionUp) && d.speed < 8 {
		d.speed++
	}
	if in.Has(core.ActionDown) && d.speed > 0 {
		d.speed--
	}
	d.phase += d.speed

	copy(d.lines, d.sky)
	h := len(d.lines)
	for b := 0; b < barCount; b++ {
		center := h/2 + gen.Sin(float64(d.phase+b*40), float64(h/2-barHeight))
		for i := -barHeight / 2; i < barHeight/2; i++ {
			y := center + i
			if y < 0 || y >= h {
				continue
			}
			// Brightest in the middle of the bar.
			shade := uint8(255 - core.Abs(i)*255/(barHeight/2))
			d.lines[y] = core.Lerp(d.lines[y], barColors[b], shade)
		}
	}

	if d.eng.NumLayers() > 0 {
		d.eng.SetLayerPosition(0, frame, gen.Sin(float64(frame), 16)+16)
	}
}

func (d *Demo) raster(line int) error {
	d.eng.SetBGColor(d.lines[line])
	return nil
}

// Close releases the demo resources.
func (d *Demo) Close() {
	d.bag.Release()
}
