package engine

import (
	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/resource"
)

// drawScanline composites one line into the render target.
//
// Order, back to front: background color, background bitmap, layers in
// ascending index, regular sprites, whole-priority layers, priority tiles,
// priority sprites.
func (e *Engine) drawScanline(line int) {
	row := e.target.Row(line)
	e.drawBackground(line, row)

	for x := range e.prioSet {
		e.prioSet[x] = false
		e.collision[x] = -1
	}

	diverted := false
	for i := range e.layers {
		l := &e.layers[i]
		e.followParent(l)
		if l.priority || !l.enabled || !l.ready() {
			continue
		}
		if e.drawLayer(l, line, row, true) {
			diverted = true
		}
	}

	prioritySprites := false
	for i := range e.sprites {
		s := &e.sprites[i]
		if !e.spriteOnLine(s, line) {
			continue
		}
		if s.flags&resource.FlagPriority != 0 {
			prioritySprites = true
			continue
		}
		e.drawSprite(i, line, row)
	}

	for i := range e.layers {
		l := &e.layers[i]
		if l.priority && l.enabled && l.ready() {
			e.drawLayer(l, line, row, false)
		}
	}

	if diverted {
		for x, set := range e.prioSet {
			if !set {
				continue
			}
			dst := core.PixelAt(row, x)
			core.SetPixelAt(row, x, e.blendPixel(e.prioBlend[x], e.prioFactor[x], e.prioColor[x], dst))
		}
	}

	if prioritySprites {
		for i := range e.sprites {
			s := &e.sprites[i]
			if s.flags&resource.FlagPriority != 0 && e.spriteOnLine(s, line) {
				e.drawSprite(i, line, row)
			}
		}
	}
}

func (e *Engine) drawBackground(line int, row []byte) {
	if e.bgEnabled {
		core.FillRow(row, e.bgColor)
	}
	bm, pal := e.bgBitmap, e.bgPalette
	if !bm.Alive() || !pal.Alive() || line >= bm.Height() {
		return
	}
	src := bm.Row(line)
	colors := pal.Colors()
	n := core.Min(len(src), e.width)
	for x := 0; x < n; x++ {
		idx := int(src[x])
		if idx < len(colors) {
			core.SetPixelAt(row, x, colors[idx])
		}
	}
}

// followParent copies the position of the parent layer.
func (e *Engine) followParent(l *layer) {
	if l.parent < 0 {
		return
	}
	p := &e.layers[l.parent]
	l.x, l.y = p.x, p.y
}
