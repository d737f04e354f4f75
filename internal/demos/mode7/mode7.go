// Package mode7 implements a pseudo-3D floor: below the horizon the track
// layer gets a new affine transform on every scanline, scaled up toward the
// bottom of the screen.
package mode7

import (
	"math"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/demos/gen"
	"github.com/vovakirdan/scanline/internal/engine"
	"github.com/vovakirdan/scanline/internal/registry"
	"github.com/vovakirdan/scanline/internal/resource"
)

const (
	layerHorizon = 0
	layerFloor   = 1

	horizon  = 24
	minScale = 0.2
	maxScale = 5.0
	accel    = 0.2
	maxSpeed = 2.0
)

func init() {
	registry.Register("mode7", func() registry.Demo { return New() })
}

// Demo drives along a checkered track.
type Demo struct {
	eng    *engine.Engine
	bag    gen.Bag
	sky    *resource.Tilemap
	track  *resource.Tilemap
	x, y   float64
	speed  float64
	angle  int
	affine engine.Affine
}

// New creates the demo.
func New() *Demo {
	return &Demo{x: -136, y: 336}
}

// ID returns the demo identifier.
func (d *Demo) ID() string { return "mode7" }

// Title returns the display name.
func (d *Demo) Title() string { return "Mode 7 Track" }

// Setup builds the horizon and track maps.
func (d *Demo) Setup(e *engine.Engine, _ core.RuntimeConfig) error {
	if e.NumLayers() < 2 {
		return core.NewError("mode7", core.ErrIdxLayer)
	}
	d.eng = e
	e.SetBGColor(core.RGB(96, 160, 255))

	pal, err := gen.Palette(8, func(i int) core.Color {
		return []core.Color{
			core.ColorBlack,
			core.RGB(40, 120, 40),   // grass
			core.RGB(56, 144, 56),   // grass light
			core.RGB(112, 112, 120), // asphalt
			core.RGB(136, 136, 144), // asphalt light
			core.RGB(240, 240, 240), // line
			core.RGB(88, 64, 120),   // mountain
			core.RGB(200, 200, 255), // snow
		}[i]
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, pal)

	ts, err := gen.Tileset(pal, 5, 8, func(entry, x, y int) uint8 {
		switch entry {
		case 1:
			return 1 + uint8((x/4+y/4)%2)
		case 2:
			return 3 + uint8((x/4+y/4)%2)
		case 3:
			if x == 3 || x == 4 {
				return 5
			}
			return 3
		case 4:
			// mountain slope rising to the right
			if y >= 7-x {
				if y < 2 {
					return 7
				}
				return 6
			}
			return 0
		default:
			if y >= x {
				if y < 2 {
					return 7
				}
				return 6
			}
			return 0
		}
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, ts)

	d.sky, err = gen.Tilemap(ts, 4, 64, func(r, c int) resource.Tile {
		if r < 2 {
			return resource.Tile{}
		}
		if r == 2 {
			if c%6 < 3 {
				return resource.Tile{Index: 4}
			}
			return resource.Tile{Index: 5}
		}
		return resource.Tile{Index: 1}
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, d.sky)

	// An oval circuit on a grass field.
	d.track, err = gen.Tilemap(ts, 128, 128, func(r, c int) resource.Tile {
		dx := float64(c-64) / 48
		dy := float64(r-64) / 32
		dist := math.Sqrt(dx*dx + dy*dy)
		switch {
		case math.Abs(dist-1) < 0.02:
			return resource.Tile{Index: 3}
		case math.Abs(dist-1) < 0.12:
			return resource.Tile{Index: 2}
		default:
			return resource.Tile{Index: 1}
		}
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, d.track)

	d.affine = engine.Affine{DX: float64(e.Width()) / 2, DY: float64(e.Height()), SX: 1, SY: 1}
	e.SetRasterCallback(d.raster)
	return nil
}

// Update steers with Left/Right and accelerates with Up/Down.
func (d *Demo) Update(_ int, in core.InputFrame) {
	switch {
	case in.Has(core.ActionLeft):
		d.angle -= 2
	case in.Has(core.ActionRight):
		d.angle += 2
	}
	switch {
	case in.Has(core.ActionUp):
		d.speed = math.Min(d.speed+accel, maxSpeed)
	case in.Has(core.ActionDown):
		d.speed = math.Max(d.speed-accel, -maxSpeed)
	case d.speed >= accel:
		d.speed -= accel
	case d.speed <= -accel:
		d.speed += accel
	default:
		d.speed = 0
	}
	if d.speed != 0 {
		d.angle = core.Wrap(d.angle, 360)
		rad := float64(d.angle) * math.Pi / 180
		d.x += math.Sin(rad) * d.speed
		d.y -= math.Cos(rad) * d.speed
	}
	d.affine.Angle = float64(d.angle)

	// Both layers show the horizon until the raster callback switches.
	e := d.eng
	e.SetLayer(layerHorizon, nil, d.sky)
	e.SetLayer(layerFloor, nil, d.sky)
	e.EnableLayer(layerHorizon)
	e.SetLayerPosition(layerHorizon, d.angle*2*256/360, horizon)
	e.SetLayerPosition(layerFloor, d.angle*256/360, 0)
	e.ResetLayerMode(layerFloor)
}

func (d *Demo) raster(line int) error {
	e := d.eng
	if line == horizon {
		if err := e.SetLayer(layerFloor, nil, d.track); err != nil {
			return err
		}
		e.SetLayerPosition(layerFloor, int(d.x), int(d.y))
		e.DisableLayer(layerHorizon)
	}
	if line >= horizon {
		t := float64(line-horizon) / float64(e.Height()-horizon)
		scale := minScale + (maxScale-minScale)*t
		d.affine.SX, d.affine.SY = scale, scale
		return e.SetLayerAffineTransform(layerFloor, d.affine)
	}
	return nil
}

// Close releases the demo resources.
func (d *Demo) Close() {
	d.bag.Release()
}
