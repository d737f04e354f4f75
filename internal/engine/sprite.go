package engine

import (
	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/resource"
)

// SpriteState is a snapshot of a sprite slot.
type SpriteState struct {
	X, Y      int
	W, H      int // Size on screen after scaling
	Picture   int
	Flags     resource.Flags
	Enabled   bool
	Collision bool
	Spriteset *resource.Spriteset
	Palette   *resource.Palette
}

type sprite struct {
	spriteset *resource.Spriteset
	palette   *resource.Palette // override
	enabled   bool
	picture   int
	x, y      int
	flags     resource.Flags
	blend     Blend
	factor    uint8
	scaleX    float64
	scaleY    float64
	collision bool
	collided  bool
}

func (s *sprite) reset() {
	*s = sprite{scaleX: 1, scaleY: 1}
}

// srcSize is the picture size in screen orientation, before scaling.
func (s *sprite) srcSize() (int, int) {
	d := s.spriteset.Data(s.picture)
	if s.flags&resource.FlagRotate != 0 {
		return d.H, d.W
	}
	return d.W, d.H
}

// dstSize is the picture size on screen.
func (s *sprite) dstSize() (int, int) {
	w, h := s.srcSize()
	return scaledLen(w, s.scaleX), scaledLen(h, s.scaleY)
}

func scaledLen(n int, scale float64) int {
	if scale == 1 {
		return n
	}
	v := int(float64(n)*scale + 0.5)
	if v < 1 {
		v = 1
	}
	return v
}

func (s *sprite) activePalette() *resource.Palette {
	if s.palette.Alive() {
		return s.palette
	}
	return s.spriteset.Palette()
}

// ConfigSprite binds ss to sprite n with the given flags and enables the
// sprite. The current picture is kept when ss has it, else picture 0 is shown.
func (e *Engine) ConfigSprite(n int, ss *resource.Spriteset, flags resource.Flags) error {
	s, err := e.spriteAt("ConfigSprite", n)
	if err != nil {
		return err
	}
	if err := resource.Check("ConfigSprite", ss); err != nil {
		return e.result(err)
	}
	if ss.Len() == 0 {
		return e.fail("ConfigSprite", core.ErrIdxPicture)
	}
	s.spriteset = ss
	s.flags = flags
	if s.picture >= ss.Len() {
		s.picture = 0
	}
	s.enabled = true
	return e.result(nil)
}

// SetSpriteSet changes the spriteset of sprite n and enables it.
func (e *Engine) SetSpriteSet(n int, ss *resource.Spriteset) error {
	s, err := e.spriteAt("SetSpriteSet", n)
	if err != nil {
		return err
	}
	return e.ConfigSprite(n, ss, s.flags)
}

// SetSpriteFlags replaces the flags of sprite n.
func (e *Engine) SetSpriteFlags(n int, flags resource.Flags) error {
	s, err := e.spriteAt("SetSpriteFlags", n)
	if err != nil {
		return err
	}
	s.flags = flags
	return e.result(nil)
}

// EnableSpriteFlag sets or clears one flag of sprite n.
func (e *Engine) EnableSpriteFlag(n int, flag resource.Flags, enable bool) error {
	s, err := e.spriteAt("EnableSpriteFlag", n)
	if err != nil {
		return err
	}
	if enable {
		s.flags |= flag
	} else {
		s.flags &^= flag
	}
	return e.result(nil)
}

// SetSpritePosition moves the top-left corner of sprite n to (x, y).
func (e *Engine) SetSpritePosition(n, x, y int) error {
	s, err := e.spriteAt("SetSpritePosition", n)
	if err != nil {
		return err
	}
	s.x, s.y = x, y
	return e.result(nil)
}

// SetSpritePicture selects the picture sprite n shows.
func (e *Engine) SetSpritePicture(n, entry int) error {
	s, err := e.spriteAt("SetSpritePicture", n)
	if err != nil {
		return err
	}
	if err := resource.Check("SetSpritePicture", s.spriteset); err != nil {
		return e.result(err)
	}
	if entry < 0 || entry >= s.spriteset.Len() {
		return e.fail("SetSpritePicture", core.ErrIdxPicture)
	}
	s.picture = entry
	return e.result(nil)
}

// SpritePicture returns the picture sprite n shows.
func (e *Engine) SpritePicture(n int) (int, error) {
	s, err := e.spriteAt("GetSpritePicture", n)
	if err != nil {
		return 0, err
	}
	return s.picture, e.result(nil)
}

// SetSpritePalette overrides the palette of sprite n. nil restores the
// spriteset palette.
func (e *Engine) SetSpritePalette(n int, p *resource.Palette) error {
	s, err := e.spriteAt("SetSpritePalette", n)
	if err != nil {
		return err
	}
	if p != nil {
		if err := resource.Check("SetSpritePalette", p); err != nil {
			return e.result(err)
		}
	}
	s.palette = p
	return e.result(nil)
}

// SpritePalette returns the palette sprite n is drawn with.
func (e *Engine) SpritePalette(n int) (*resource.Palette, error) {
	s, err := e.spriteAt("GetSpritePalette", n)
	if err != nil {
		return nil, err
	}
	if s.spriteset == nil {
		return s.palette, e.result(nil)
	}
	return s.activePalette(), e.result(nil)
}

// SetSpriteBlendMode sets how sprite n is combined with what is behind it.
func (e *Engine) SetSpriteBlendMode(n int, mode Blend, factor uint8) error {
	s, err := e.spriteAt("SetSpriteBlendMode", n)
	if err != nil {
		return err
	}
	if !mode.valid() {
		return e.fail("SetSpriteBlendMode", core.ErrUnsupported)
	}
	s.blend = mode
	s.factor = factor
	return e.result(nil)
}

// SetSpriteScaling draws sprite n scaled by (sx, sy).
func (e *Engine) SetSpriteScaling(n int, sx, sy float64) error {
	s, err := e.spriteAt("SetSpriteScaling", n)
	if err != nil {
		return err
	}
	if sx <= 0 || sy <= 0 {
		return e.fail("SetSpriteScaling", core.ErrWrongSize)
	}
	s.scaleX, s.scaleY = sx, sy
	return e.result(nil)
}

// ResetSpriteScaling draws sprite n at its original size.
func (e *Engine) ResetSpriteScaling(n int) error {
	s, err := e.spriteAt("ResetSpriteScaling", n)
	if err != nil {
		return err
	}
	s.scaleX, s.scaleY = 1, 1
	return e.result(nil)
}

// AvailableSprite returns the first disabled sprite slot.
func (e *Engine) AvailableSprite() (int, error) {
	for i := range e.sprites {
		if !e.sprites[i].enabled {
			return i, e.result(nil)
		}
	}
	return -1, e.fail("GetAvailableSprite", core.ErrIdxSprite)
}

// EnableSpriteCollision makes sprite n take part in collision detection.
func (e *Engine) EnableSpriteCollision(n int, enable bool) error {
	s, err := e.spriteAt("EnableSpriteCollision", n)
	if err != nil {
		return err
	}
	s.collision = enable
	if !enable {
		s.collided = false
	}
	return e.result(nil)
}

// SpriteCollision reports whether sprite n overlapped another
// collision-enabled sprite during the last drawn frame.
func (e *Engine) SpriteCollision(n int) (bool, error) {
	s, err := e.spriteAt("GetSpriteCollision", n)
	if err != nil {
		return false, err
	}
	return s.collided, e.result(nil)
}

// DisableSprite frees sprite n. Its slot becomes available again.
func (e *Engine) DisableSprite(n int) error {
	s, err := e.spriteAt("DisableSprite", n)
	if err != nil {
		return err
	}
	s.reset()
	for i := range e.animations {
		a := &e.animations[i]
		if a.enabled && a.kind == animSprite && a.sprite == n {
			a.stop()
		}
	}
	return e.result(nil)
}

// SpriteState returns a snapshot of sprite n.
func (e *Engine) SpriteState(n int) (SpriteState, error) {
	s, err := e.spriteAt("GetSpriteState", n)
	if err != nil {
		return SpriteState{}, err
	}
	st := SpriteState{
		X:         s.x,
		Y:         s.y,
		Picture:   s.picture,
		Flags:     s.flags,
		Enabled:   s.enabled,
		Collision: s.collision,
		Spriteset: s.spriteset,
		Palette:   s.palette,
	}
	if s.spriteset.Alive() {
		st.W, st.H = s.dstSize()
		st.Palette = s.activePalette()
	}
	return st, e.result(nil)
}
