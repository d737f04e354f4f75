// Package cycle shows palette color cycling on a background bitmap: the
// pixels never change, only the palette entries rotate.
package cycle

import (
	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/demos/gen"
	"github.com/vovakirdan/scanline/internal/engine"
	"github.com/vovakirdan/scanline/internal/registry"
	"github.com/vovakirdan/scanline/internal/resource"
)

const (
	waterFirst = 1
	waterCount = 16
	fireFirst  = waterFirst + waterCount
	fireCount  = 8
	numColors  = fireFirst + fireCount
)

func init() {
	registry.Register("cycle", func() registry.Demo { return New() })
}

// Demo cycles a waterfall and a flame strip.
type Demo struct {
	eng   *engine.Engine
	bag   gen.Bag
	pal   *resource.Palette
	day   *resource.Palette
	night *resource.Palette
	seq   *resource.Sequence
	slot  int
	blend bool
	dark  bool
}

// New creates the demo.
func New() *Demo {
	return &Demo{blend: true}
}

// ID returns the demo identifier.
func (d *Demo) ID() string { return "cycle" }

// Title returns the display name.
func (d *Demo) Title() string { return "Color Cycling" }

// Setup paints the backdrop and starts the palette animation.
func (d *Demo) Setup(e *engine.Engine, _ core.RuntimeConfig) error {
	if e.NumAnimations() < 1 {
		return core.NewError("cycle", core.ErrIdxAnimation)
	}
	d.eng = e
	var err error

	d.day, err = palette(core.RGB(0, 40, 120), core.RGB(180, 230, 255), core.RGB(255, 240, 80))
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, d.day)
	d.night, err = palette(core.RGB(0, 8, 32), core.RGB(60, 80, 140), core.RGB(200, 60, 20))
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, d.night)
	d.pal, err = d.day.Clone()
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, d.pal)

	w, h := e.Width(), e.Height()
	bm, err := gen.Bitmap(d.pal, w, h, func(x, y int) uint8 {
		// Flames along the bottom, water falling everywhere else.
		if y >= h-h/5 {
			return uint8(fireFirst + (y+x/3)%fireCount)
		}
		return uint8(waterFirst + (y+gen.Sin(float64(x*6), 3)+waterCount*4)%waterCount)
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, bm)
	if err := e.SetBGBitmap(bm); err != nil {
		return err
	}

	d.seq, err = resource.NewCycle("falls", []resource.ColorStrip{
		{Delay: 4, First: waterFirst, Count: waterCount, Dir: 0},
		{Delay: 6, First: fireFirst, Count: fireCount, Dir: 1},
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, d.seq)

	if d.slot, err = e.AvailableAnimation(); err != nil {
		return err
	}
	return d.start()
}

func (d *Demo) start() error {
	return d.eng.SetPaletteAnimation(d.slot, d.pal, d.seq, d.blend)
}

// Update toggles interpolation with Button1 and day/night with Button2.
func (d *Demo) Update(_ int, in core.InputFrame) {
	if in.Has(core.ActionButton1) {
		d.blend = !d.blend
		d.start()
	}
	if in.Has(core.ActionButton2) {
		d.dark = !d.dark
		src := d.day
		if d.dark {
			src = d.night
		}
		d.eng.SetPaletteAnimationSource(d.slot, src)
	}
}

// Close stops the animation and releases the demo resources.
func (d *Demo) Close() {
	if d.eng != nil {
		d.eng.DisableAnimation(d.slot)
	}
	d.bag.Release()
}

// palette builds the water ramp from deep to foam and a flame ramp that
// fades from hot to black.
func palette(deep, foam, flame core.Color) (*resource.Palette, error) {
	water := gen.Gradient(waterCount/2+1, deep, foam)
	fire := gen.Gradient(fireCount, flame, core.ColorBlack)
	return gen.Palette(numColors, func(i int) core.Color {
		switch {
		case i >= fireFirst:
			return fire(i - fireFirst)
		case i >= waterFirst:
			// Up and back down so the cycle has no seam.
			k := i - waterFirst
			if k > waterCount/2 {
				k = waterCount - k
			}
			return water(k)
		}
		return core.ColorBlack
	})
}
