// Package wobble bends a tile layer two ways at once: a per-column vertical
// offset table and a per-scanline horizontal shift set from the raster
// callback.
package wobble

import (
	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/demos/gen"
	"github.com/vovakirdan/scanline/internal/engine"
	"github.com/vovakirdan/scanline/internal/registry"
	"github.com/vovakirdan/scanline/internal/resource"
)

const tileSize = 8

func init() {
	registry.Register("wobble", func() registry.Demo { return New() })
}

// Demo waves a checkered map.
type Demo struct {
	eng     *engine.Engine
	bag     gen.Bag
	columns []int
	x, y    int
	amp     int
	frame   int
}

// New creates the demo.
func New() *Demo {
	return &Demo{amp: 6}
}

// ID returns the demo identifier.
func (d *Demo) ID() string { return "wobble" }

// Title returns the display name.
func (d *Demo) Title() string { return "Wobble" }

// Setup installs the column table and the raster callback.
func (d *Demo) Setup(e *engine.Engine, _ core.RuntimeConfig) error {
	if e.NumLayers() < 1 {
		return core.NewError("wobble", core.ErrIdxLayer)
	}
	d.eng = e
	e.SetBGColor(core.RGB(16, 16, 32))

	pal, err := gen.Palette(3, func(i int) core.Color {
		return [...]core.Color{core.ColorBlack, core.RGB(240, 120, 40), core.RGB(40, 120, 240)}[i]
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, pal)

	ts, err := gen.Tileset(pal, 2, tileSize, func(entry, x, y int) uint8 {
		if x == 0 || y == 0 {
			return 0
		}
		return uint8(entry)
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, ts)

	tm, err := gen.Tilemap(ts, 32, 64, func(r, c int) resource.Tile {
		return resource.Tile{Index: uint16((r+c)%2 + 1)}
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, tm)
	if err := e.SetLayer(0, nil, tm); err != nil {
		return err
	}

	// One extra entry for the partial column at the right edge.
	d.columns = make([]int, e.Width()/tileSize+2)
	if err := e.SetLayerColumnOffset(0, d.columns); err != nil {
		return err
	}
	e.SetRasterCallback(d.raster)
	return nil
}

// Update advances the waves. Up and Down change the amplitude, Button1
// freezes the columns.
func (d *Demo) Update(frame int, in core.InputFrame) {
	if in.Has(core.ActionUp) && d.amp < 16 {
		d.amp++
	}
	if in.Has(core.ActionDown) && d.amp > 0 {
		d.amp--
	}
	d.frame = frame
	d.x = frame / 2
	d.y = frame / 4
	if !in.Has(core.ActionButton1) {
		for i := range d.columns {
			d.columns[i] = gen.Sin(float64(frame*3+i*20), float64(d.amp))
		}
	}
}

func (d *Demo) raster(line int) error {
	dx := gen.Sin(float64(d.frame*4+line*3), float64(d.amp))
	return d.eng.SetLayerPosition(0, d.x+dx, d.y)
}

// Close releases the demo resources.
func (d *Demo) Close() {
	d.bag.Release()
}
