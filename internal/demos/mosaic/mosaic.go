// Package mosaic pixelates and fades a foreground layer in and out over a
// scrolling background. Both effects are driven by eased tweens.
package mosaic

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/demos/gen"
	"github.com/vovakirdan/scanline/internal/engine"
	"github.com/vovakirdan/scanline/internal/registry"
	"github.com/vovakirdan/scanline/internal/resource"
)

const (
	layerBack  = 0
	layerFront = 1

	maxBlock = 24
	period   = 90 // frames per half cycle
)

func init() {
	registry.Register("mosaic", func() registry.Demo { return New() })
}

// Demo dissolves a foreground picture into blocks and back.
type Demo struct {
	eng    *engine.Engine
	bag    gen.Bag
	block  *gween.Tween
	fade   *gween.Tween
	out    bool
	paused bool
}

// New creates the demo.
func New() *Demo {
	return &Demo{}
}

// ID returns the demo identifier.
func (d *Demo) ID() string { return "mosaic" }

// Title returns the display name.
func (d *Demo) Title() string { return "Mosaic Fade" }

// Setup builds both layers and starts the first tween.
func (d *Demo) Setup(e *engine.Engine, _ core.RuntimeConfig) error {
	if e.NumLayers() < 2 {
		return core.NewError("mosaic", core.ErrIdxLayer)
	}
	d.eng = e
	e.SetBGColor(core.ColorBlack)

	pal, err := gen.Palette(6, func(i int) core.Color {
		return [...]core.Color{
			core.ColorBlack,
			core.RGB(32, 48, 64),
			core.RGB(48, 64, 96),
			core.RGB(255, 96, 48),
			core.RGB(255, 220, 64),
			core.RGB(96, 200, 255),
		}[i]
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, pal)

	ts, err := gen.Tileset(pal, 1, 16, func(_, x, y int) uint8 {
		return gen.Checker(x, y, 8)
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, ts)
	tm, err := gen.Tilemap(ts, 16, 32, func(int, int) resource.Tile {
		return resource.Tile{Index: 1}
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, tm)
	if err := e.SetLayer(layerBack, nil, tm); err != nil {
		return err
	}

	// Concentric rings centered on the screen, transparent outside.
	w, h := e.Width(), e.Height()
	radius := core.Min(w, h) * 2 / 5
	bm, err := gen.Bitmap(pal, w, h, func(x, y int) uint8 {
		dx, dy := x-w/2, y-h/2
		r2 := dx*dx + dy*dy
		if r2 > radius*radius {
			return 0
		}
		return uint8(3 + (r2/(radius*radius/9))%3)
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, bm)
	if err := e.SetLayerBitmap(layerFront, bm); err != nil {
		return err
	}
	d.restart()
	return nil
}

// restart builds the tweens for the next half cycle.
func (d *Demo) restart() {
	if d.out {
		d.block = gween.New(1, maxBlock, period, ease.InQuad)
		d.fade = gween.New(255, 0, period, ease.InOutSine)
		return
	}
	d.block = gween.New(maxBlock, 1, period, ease.OutQuad)
	d.fade = gween.New(0, 255, period, ease.InOutSine)
}

// Update steps the tweens; Button1 pauses them and Start reverses.
func (d *Demo) Update(frame int, in core.InputFrame) {
	if in.Has(core.ActionButton1) {
		d.paused = !d.paused
	}
	if in.Has(core.ActionStart) {
		d.out = !d.out
		d.restart()
	}
	d.eng.SetLayerPosition(layerBack, frame, frame/2)

	var dt float32
	if !d.paused {
		dt = 1
	}
	size, done := d.block.Update(dt)
	alpha, _ := d.fade.Update(dt)
	if done {
		d.out = !d.out
		d.restart()
	}

	if n := int(size + 0.5); n > 1 {
		d.eng.SetLayerMosaic(layerFront, n, n)
	} else {
		d.eng.DisableLayerMosaic(layerFront)
	}
	d.eng.SetLayerBlendMode(layerFront, engine.BlendMix, uint8(alpha))
}

// Close releases the demo resources.
func (d *Demo) Close() {
	d.bag.Release()
}
