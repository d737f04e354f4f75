// Package ripple distorts a bitmap layer through a pixel mapping table that
// is rebuilt every frame from a radial wave.
package ripple

import (
	"math"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/demos/gen"
	"github.com/vovakirdan/scanline/internal/engine"
	"github.com/vovakirdan/scanline/internal/registry"
)

const (
	wavelength = 24.0
	maxAmp     = 8.0
)

func init() {
	registry.Register("ripple", func() registry.Demo { return New() })
}

// Demo ripples a checkerboard from a movable center.
type Demo struct {
	eng      *engine.Engine
	bag      gen.Bag
	table    []engine.PixelMap
	dist     []float64
	cx, cy   int
	amp      float64
	width    int
	height   int
	recenter bool
}

// New creates the demo.
func New() *Demo {
	return &Demo{amp: 4}
}

// ID returns the demo identifier.
func (d *Demo) ID() string { return "ripple" }

// Title returns the display name.
func (d *Demo) Title() string { return "Ripple" }

// Setup builds the bitmap and the mapping table.
func (d *Demo) Setup(e *engine.Engine, _ core.RuntimeConfig) error {
	if e.NumLayers() < 1 {
		return core.NewError("ripple", core.ErrIdxLayer)
	}
	d.eng = e
	d.width, d.height = e.Width(), e.Height()
	d.cx, d.cy = d.width/2, d.height/2

	pal, err := gen.Palette(3, gen.Gradient(3, core.ColorBlack, core.RGB(0, 96, 160), core.RGB(160, 224, 255)))
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, pal)

	bm, err := gen.Bitmap(pal, d.width, d.height, func(x, y int) uint8 {
		return gen.Checker(x, y, 16)
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, bm)
	if err := e.SetLayerBitmap(0, bm); err != nil {
		return err
	}

	d.table = make([]engine.PixelMap, d.width*d.height)
	d.dist = make([]float64, d.width*d.height)
	d.recenter = true
	return e.SetLayerPixelMapping(0, d.table)
}

// Update moves the center with the arrows and changes the strength with
// Button1 and Button2.
func (d *Demo) Update(frame int, in core.InputFrame) {
	step := map[core.Action][2]int{
		core.ActionLeft:  {-2, 0},
		core.ActionRight: {2, 0},
		core.ActionUp:    {0, -2},
		core.ActionDown:  {0, 2},
	}
	for a, v := range step {
		if in.Has(a) {
			d.cx = core.Clamp(d.cx+v[0], 0, d.width-1)
			d.cy = core.Clamp(d.cy+v[1], 0, d.height-1)
			d.recenter = true
		}
	}
	if in.Has(core.ActionButton1) {
		d.amp = math.Min(d.amp+0.5, maxAmp)
	}
	if in.Has(core.ActionButton2) {
		d.amp = math.Max(d.amp-0.5, 0)
	}
	if d.recenter {
		d.measure()
		d.recenter = false
	}

	phase := float64(frame) * 0.2
	for i, r := range d.dist {
		if r == 0 {
			d.table[i] = engine.PixelMap{}
			continue
		}
		// Displace along the radius, fading out with distance.
		w := math.Sin(r/wavelength*2*math.Pi-phase) * d.amp * wavelength / (r + wavelength)
		x, y := i%d.width, i/d.width
		d.table[i] = engine.PixelMap{
			DX: int(math.Round(float64(x-d.cx) / r * w)),
			DY: int(math.Round(float64(y-d.cy) / r * w)),
		}
	}
}

// measure caches the distance of every pixel to the center.
func (d *Demo) measure() {
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			d.dist[y*d.width+x] = math.Hypot(float64(x-d.cx), float64(y-d.cy))
		}
	}
}

// Close releases the demo resources.
func (d *Demo) Close() {
	d.bag.Release()
}
