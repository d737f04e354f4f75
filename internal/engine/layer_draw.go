package engine

import (
	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/resource"
)

// drawLayer composites the visible part of l on line. With divert set,
// pixels of priority tiles go to the priority buffer instead of row; the
// return value tells whether any did.
func (e *Engine) drawLayer(l *layer, line int, row []byte, divert bool) bool {
	if !l.clip.ContainsRow(line) {
		return false
	}
	pal := l.activePalette()
	if !pal.Alive() {
		return false
	}
	colors := pal.Colors()
	width, height := l.pixelSize()
	if width == 0 || height == 0 {
		return false
	}
	if l.mode == modeAffine {
		l.refreshMatrix()
	}

	qy := line
	if l.mosaicH > 1 {
		qy -= line % l.mosaicH
	}

	diverted := false
	for x := l.clip.X; x < l.clip.Right(); x++ {
		qx := x
		if l.mosaicW > 1 {
			qx -= x % l.mosaicW
		}
		sx, sy := l.source(qx, qy, e.width)
		sx, sy = core.Wrap(sx, width), core.Wrap(sy, height)

		var idx uint8
		var prio bool
		if l.bitmap != nil {
			idx = l.bitmap.At(sx, sy)
		} else {
			idx, prio = l.sampleTile(sx, sy)
		}
		if idx == 0 || int(idx) >= len(colors) {
			continue
		}
		c := colors[idx]
		if prio && divert {
			e.divertPixel(x, c, l.blend, l.factor)
			diverted = true
			continue
		}
		if l.blend == BlendNone {
			core.SetPixelAt(row, x, c)
			continue
		}
		core.SetPixelAt(row, x, e.blendPixel(l.blend, l.factor, c, core.PixelAt(row, x)))
	}
	return diverted
}

// divertPixel stores a priority tile pixel for column x. A pixel landing on
// one already stored by a lower layer is composited over it; the stored
// entry keeps the lower layer's blend against whatever ends up beneath.
func (e *Engine) divertPixel(x int, c core.Color, mode Blend, factor uint8) {
	if e.prioSet[x] && mode != BlendNone {
		e.prioColor[x] = e.blendPixel(mode, factor, c, e.prioColor[x])
		return
	}
	e.prioColor[x] = c
	e.prioBlend[x] = mode
	e.prioFactor[x] = factor
	e.prioSet[x] = true
}

// refreshMatrix rebuilds the affine matrix when the transform or the
// position changed since it was last built.
func (l *layer) refreshMatrix() {
	if l.matrixValid && l.matrixX == l.x && l.matrixY == l.y {
		return
	}
	l.matrix = newAffineRows(l.affine.screenToSource(l.x, l.y))
	l.matrixX, l.matrixY = l.x, l.y
	l.matrixValid = true
}

// source maps the screen point (qx, qy) to unwrapped layer coordinates.
func (l *layer) source(qx, qy, screenWidth int) (int, int) {
	switch l.mode {
	case modeScaling:
		dx := (qx * l.stepX) >> 16
		sy := l.y + (qy*l.stepY)>>16
		return l.x + dx, sy + l.columnShift(dx)
	case modeAffine:
		return l.matrix.apply(qx, qy)
	case modePixelMap:
		d := l.pixelMap[qy*screenWidth+qx]
		return l.x + qx + d.DX, l.y + qy + d.DY
	}
	return l.x + qx, l.y + qy + l.columnShift(qx)
}

// columnShift returns the column offset for the tile column containing the
// layer-space distance dx from the left screen edge.
func (l *layer) columnShift(dx int) int {
	if l.columns == nil || l.tileset == nil {
		return 0
	}
	tw := l.tileset.TileWidth()
	col := (core.Wrap(l.x, tw) + dx) / tw
	if col < 0 || col >= len(l.columns) {
		return 0
	}
	return l.columns[col]
}

// sampleTile returns the color index at layer pixel (sx, sy) and whether it
// belongs to a priority tile.
func (l *layer) sampleTile(sx, sy int) (uint8, bool) {
	ts := l.tileset
	tw, th := ts.TileWidth(), ts.TileHeight()
	tile := l.tilemap.At(sy/th, sx/tw)
	if tile.Index == 0 || int(tile.Index) > ts.NumTiles() {
		return 0, false
	}
	entry := ts.Remap(int(tile.Index))
	if entry == 0 {
		return 0, false
	}
	px, py := tilePixel(tile.Flags, sx%tw, sy%th, tw, th)
	prio := tile.Flags&resource.FlagPriority != 0 || ts.AttributesAt(entry).Priority
	return ts.Pixel(entry, px, py), prio
}

// tilePixel applies the flip and rotate flags to a position inside a tile.
// Flips are undone first, then the transpose, so FlipX with Rotate gives a
// quarter turn clockwise. Rotate is ignored for non-square tiles.
func tilePixel(flags resource.Flags, x, y, tw, th int) (int, int) {
	if flags&resource.FlagFlipY != 0 {
		y = th - 1 - y
	}
	if flags&resource.FlagFlipX != 0 {
		x = tw - 1 - x
	}
	if flags&resource.FlagRotate != 0 && tw == th {
		x, y = y, x
	}
	return x, y
}
