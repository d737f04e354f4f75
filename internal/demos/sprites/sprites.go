// Package sprites bounces animated sprites around a field with foreground
// hedges. Sprites that touch turn red; the player sprite is steered with
// the arrows.
package sprites

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/demos/gen"
	"github.com/vovakirdan/scanline/internal/engine"
	"github.com/vovakirdan/scanline/internal/registry"
	"github.com/vovakirdan/scanline/internal/resource"
)

const (
	ballSize   = 16
	ballFrames = 4
	maxBalls   = 12
	tileSize   = 16

	tileGrass = 1
	tileHedge = 2
	tileWater = 3
	tileWave  = 4
)

func init() {
	registry.Register("sprites", func() registry.Demo { return New() })
}

type ball struct {
	slot   int
	x, y   int
	vx, vy int
}

// Demo is a field of bouncing balls.
type Demo struct {
	eng    *engine.Engine
	bag    gen.Bag
	rng    *rand.Rand
	normal *resource.Palette
	hit    *resource.Palette
	balls  []ball
	player ball
	big    bool
}

// New creates the demo.
func New() *Demo {
	return &Demo{}
}

// ID returns the demo identifier.
func (d *Demo) ID() string { return "sprites" }

// Title returns the display name.
func (d *Demo) Title() string { return "Sprites & Priority" }

// Setup builds the field, the ball spriteset and the animations.
func (d *Demo) Setup(e *engine.Engine, cfg core.RuntimeConfig) error {
	if e.NumLayers() < 1 || e.NumSprites() < 2 || e.NumAnimations() < 2 {
		return core.NewError("sprites", core.ErrIdxSprite)
	}
	d.eng = e
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d.rng = rand.New(rand.NewSource(seed))

	if err := d.buildField(); err != nil {
		return err
	}

	var err error
	d.normal, err = gen.Palette(4, gen.Gradient(4, core.ColorBlack, core.RGB(40, 80, 200), core.RGB(200, 230, 255)))
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, d.normal)
	d.hit, err = gen.Palette(4, gen.Gradient(4, core.ColorBlack, core.RGB(200, 30, 30), core.RGB(255, 200, 160)))
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, d.hit)

	// Each frame is a disc with a highlight that pulses in size.
	ss, sheet, err := gen.Spriteset(d.normal, ballFrames, ballSize, ballSize, func(frame, x, y int) uint8 {
		c := ballSize / 2
		dx, dy := x-c, y-c
		r := c - 1 - frame%2
		if dx*dx+dy*dy > r*r {
			return 0
		}
		hl := 2 + frame
		if (dx+3)*(dx+3)+(dy+3)*(dy+3) < hl*hl {
			return 3
		}
		return 2
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, sheet)
	gen.Keep(&d.bag, ss)

	steps := make([]resource.SequenceFrame, 0, ballFrames*2-2)
	for i := 0; i < ballFrames; i++ {
		steps = append(steps, resource.SequenceFrame{Index: i, Delay: 6})
	}
	for i := ballFrames - 2; i > 0; i-- {
		steps = append(steps, resource.SequenceFrame{Index: i, Delay: 6})
	}
	pulse, err := resource.NewSequence("pulse", 0, steps)
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, pulse)

	w, h := e.Width(), e.Height()
	d.player = ball{slot: -1, x: w / 2, y: h / 2}
	count := core.Min(maxBalls, e.NumSprites()-1)
	for i := 0; i < count+1; i++ {
		slot, err := e.AvailableSprite()
		if err != nil {
			break
		}
		if err := e.ConfigSprite(slot, ss, 0); err != nil {
			return err
		}
		e.EnableSpriteCollision(slot, true)
		if d.player.slot < 0 {
			d.player.slot = slot
			e.SetSpritePalette(slot, d.hit)
			continue
		}
		b := ball{
			slot: slot,
			x:    d.rng.Intn(core.Max(1, w-ballSize)),
			y:    d.rng.Intn(core.Max(1, h-ballSize)),
			vx:   d.rng.Intn(5) - 2,
			vy:   d.rng.Intn(5) - 2,
		}
		if b.vx == 0 {
			b.vx = 1
		}
		if anim, err := e.AvailableAnimation(); err == nil {
			e.SetSpriteAnimation(anim, slot, pulse, 0)
		}
		d.balls = append(d.balls, b)
	}
	return nil
}

// buildField makes a grass map crossed by hedges drawn in front of the
// sprites and a strip of animated water.
func (d *Demo) buildField() error {
	pal, err := gen.Palette(6, func(i int) core.Color {
		return [...]core.Color{
			core.ColorBlack,
			core.RGB(48, 120, 48),
			core.RGB(64, 144, 64),
			core.RGB(16, 72, 24),
			core.RGB(40, 80, 200),
			core.RGB(120, 160, 255),
		}[i]
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, pal)

	attrs := []resource.TileAttributes{
		{Type: tileGrass},
		{Type: tileHedge, Priority: true},
		{Type: tileWater},
		{Type: tileWater},
	}
	ts, err := resource.NewTileset(4, tileSize, tileSize, pal, nil, attrs)
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, ts)
	buf := make([]uint8, tileSize*tileSize)
	for entry := 1; entry <= 4; entry++ {
		for y := 0; y < tileSize; y++ {
			for x := 0; x < tileSize; x++ {
				buf[y*tileSize+x] = fieldPixel(entry, x, y)
			}
		}
		if err := ts.SetPixels(entry, buf, tileSize); err != nil {
			return err
		}
	}

	w, h := d.eng.Width(), d.eng.Height()
	rows, cols := (h+tileSize-1)/tileSize, (w+tileSize-1)/tileSize
	tm, err := gen.Tilemap(ts, rows, cols, func(r, c int) resource.Tile {
		switch {
		case r == rows/3 && c%4 != 0:
			return resource.Tile{Index: tileHedge}
		case r == rows-1:
			return resource.Tile{Index: tileWater}
		}
		return resource.Tile{Index: tileGrass}
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, tm)
	if err := d.eng.SetLayer(0, nil, tm); err != nil {
		return err
	}

	waves, err := resource.NewSequence("waves", tileWater, []resource.SequenceFrame{
		{Index: tileWater, Delay: 20},
		{Index: tileWave, Delay: 20},
	})
	if err != nil {
		return err
	}
	gen.Keep(&d.bag, waves)
	anim, err := d.eng.AvailableAnimation()
	if err != nil {
		return err
	}
	return d.eng.SetTilesetAnimation(anim, 0, waves)
}

func fieldPixel(entry, x, y int) uint8 {
	switch entry {
	case tileHedge:
		// Leaves with gaps so the sprites peek through.
		if (x*7+y*3)%5 == 0 {
			return 0
		}
		return 3
	case tileWater:
		if (x+y)%8 == 0 {
			return 5
		}
		return 4
	case tileWave:
		if (x-y+16)%8 == 0 {
			return 5
		}
		return 4
	}
	return 1 + uint8((x*x+y)%7/6)
}

// Update moves the balls and the player. Button1 toggles the player size.
func (d *Demo) Update(_ int, in core.InputFrame) {
	e := d.eng
	w, h := e.Width(), e.Height()

	for i := range d.balls {
		b := &d.balls[i]
		b.x += b.vx
		b.y += b.vy
		if b.x < 0 || b.x > w-ballSize {
			b.vx = -b.vx
			b.x = core.Clamp(b.x, 0, w-ballSize)
		}
		if b.y < 0 || b.y > h-ballSize {
			b.vy = -b.vy
			b.y = core.Clamp(b.y, 0, h-ballSize)
		}
		e.SetSpritePosition(b.slot, b.x, b.y)
		e.EnableSpriteFlag(b.slot, resource.FlagFlipX, b.vx < 0)

		// Collision state is from the frame drawn last.
		pal := d.normal
		if hit, _ := e.SpriteCollision(b.slot); hit {
			pal = d.hit
		}
		e.SetSpritePalette(b.slot, pal)
	}

	p := &d.player
	if in.Has(core.ActionLeft) {
		p.x -= 2
	}
	if in.Has(core.ActionRight) {
		p.x += 2
	}
	if in.Has(core.ActionUp) {
		p.y -= 2
	}
	if in.Has(core.ActionDown) {
		p.y += 2
	}
	p.x = core.Clamp(p.x, 0, w-ballSize)
	p.y = core.Clamp(p.y, 0, h-ballSize)
	if in.Has(core.ActionButton1) {
		d.big = !d.big
		if d.big {
			e.SetSpriteScaling(p.slot, 2, 2)
		} else {
			e.ResetSpriteScaling(p.slot)
		}
	}
	e.SetSpritePosition(p.slot, p.x, p.y)
}

// Close frees the sprites and releases the demo resources.
func (d *Demo) Close() {
	if d.eng != nil {
		for _, b := range d.balls {
			d.eng.DisableSprite(b.slot)
		}
		if d.player.slot >= 0 {
			d.eng.DisableSprite(d.player.slot)
		}
	}
	d.bag.Release()
}
