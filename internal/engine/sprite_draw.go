package engine

import (
	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/resource"
)

func (e *Engine) spriteOnLine(s *sprite, line int) bool {
	if !s.enabled || !s.spriteset.Alive() || s.picture >= s.spriteset.Len() {
		return false
	}
	_, h := s.dstSize()
	return line >= s.y && line < s.y+h
}

// bounds is the sprite's on-screen box.
func (s *sprite) bounds() core.Rect {
	w, h := s.dstSize()
	return core.NewRect(s.x, s.y, w, h)
}

// mayCollide reports whether another collision-enabled sprite on line has a
// box overlapping sprite n. Sprites that can touch nothing skip the
// per-pixel collision buffer.
func (e *Engine) mayCollide(n, line int) bool {
	box := e.sprites[n].bounds()
	for i := range e.sprites {
		o := &e.sprites[i]
		if i == n || !o.collision || !e.spriteOnLine(o, line) {
			continue
		}
		if box.Intersects(o.bounds()) {
			return true
		}
	}
	return false
}

// drawSprite composites the part of sprite n that lies on line, recording
// overlaps with other collision-enabled sprites.
func (e *Engine) drawSprite(n, line int, row []byte) {
	s := &e.sprites[n]
	pal := s.activePalette()
	if !pal.Alive() {
		return
	}
	colors := pal.Colors()
	srcW, srcH := s.srcSize()
	dstW, dstH := s.dstSize()
	track := s.collision && e.mayCollide(n, line)

	v := (line - s.y) * srcH / dstH
	x0 := core.Max(s.x, 0)
	x1 := core.Min(s.x+dstW, e.width)
	for x := x0; x < x1; x++ {
		u := (x - s.x) * srcW / dstW
		px, py := u, v
		if s.flags&resource.FlagFlipY != 0 {
			py = srcH - 1 - py
		}
		if s.flags&resource.FlagFlipX != 0 {
			px = srcW - 1 - px
		}
		if s.flags&resource.FlagRotate != 0 {
			px, py = py, px
		}
		idx := s.spriteset.Pixel(s.picture, px, py)
		if idx == 0 || int(idx) >= len(colors) {
			continue
		}
		if track {
			if other := e.collision[x]; other >= 0 && other != n {
				s.collided = true
				e.sprites[other].collided = true
			}
			e.collision[x] = n
		}
		c := colors[idx]
		if s.blend != BlendNone {
			c = e.blendPixel(s.blend, s.factor, c, core.PixelAt(row, x))
		}
		core.SetPixelAt(row, x, c)
	}
}
