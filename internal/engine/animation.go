package engine

import (
	"slices"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/resource"
)

type animKind int

const (
	animNone animKind = iota
	animPalette
	animTileset
	animSprite
)

// sequencer walks a frame sequence in time units.
type sequencer struct {
	seq     *resource.Sequence
	pos     int
	timer   int
	loop    int // 0 forever, 1 last pass, n passes left
	delay   int // overrides every frame delay when > 0
	started bool
}

func newSequencer(seq *resource.Sequence, loop int) sequencer {
	return sequencer{seq: seq, loop: loop}
}

func (s *sequencer) frameDelay(pos int) int {
	if s.delay > 0 {
		return s.delay
	}
	return s.seq.Frames()[pos].Delay
}

// advance moves the cursor to time. It returns the frame to apply when the
// cursor changed, and done when the last pass has ended.
func (s *sequencer) advance(time int) (frame resource.SequenceFrame, changed, done bool) {
	frames := s.seq.Frames()
	if !s.started {
		s.started = true
		s.pos = 0
		s.timer = time + s.frameDelay(0)
		return frames[0], true, false
	}
	if time < s.timer {
		return frame, false, false
	}
	s.pos++
	if s.pos >= len(frames) {
		switch {
		case s.loop == 1:
			return frame, false, true
		case s.loop > 1:
			s.loop--
		}
		s.pos = 0
	}
	s.timer = time + s.frameDelay(s.pos)
	return frames[s.pos], true, false
}

// stripState is the cursor of one palette cycle strip.
type stripState struct {
	pos   int
	timer int
	t0    int
}

type animation struct {
	kind    animKind
	enabled bool
	seq     sequencer

	palette *resource.Palette // cycle target
	source  *resource.Palette // colors the cycle reads
	blend   bool
	strips  []stripState

	layer  int
	sprite int
}

func (a *animation) stop() {
	a.enabled = false
}

// SetPaletteAnimation starts color cycling of pal with the strips of seq.
// The colors at this point become the cycle source. blend interpolates
// between steps instead of jumping.
func (e *Engine) SetPaletteAnimation(n int, pal *resource.Palette, seq *resource.Sequence, blend bool) error {
	a, err := e.animationAt("SetPaletteAnimation", n)
	if err != nil {
		return err
	}
	if err := resource.Check("SetPaletteAnimation", pal); err != nil {
		return e.result(err)
	}
	if err := resource.Check("SetPaletteAnimation", seq); err != nil {
		return e.result(err)
	}
	if seq.Type() != resource.SequenceCycle {
		return e.fail("SetPaletteAnimation", core.ErrRefSequence)
	}
	for _, st := range seq.Strips() {
		if int(st.First)+int(st.Count) > pal.Len() {
			return e.fail("SetPaletteAnimation", core.ErrIdxPicture)
		}
	}
	src, err := pal.Clone()
	if err != nil {
		return e.result(err)
	}
	*a = animation{
		kind:    animPalette,
		enabled: true,
		seq:     newSequencer(seq, 0),
		palette: pal,
		source:  src,
		blend:   blend,
		strips:  make([]stripState, len(seq.Strips())),
	}
	return e.result(nil)
}

// SetPaletteAnimationSource replaces the colors a palette animation reads
// and copies them into its target.
func (e *Engine) SetPaletteAnimationSource(n int, pal *resource.Palette) error {
	a, err := e.animationAt("SetPaletteAnimationSource", n)
	if err != nil {
		return err
	}
	if a.kind != animPalette {
		return e.fail("SetPaletteAnimationSource", core.ErrRefSequence)
	}
	if err := resource.Check("SetPaletteAnimationSource", pal); err != nil {
		return e.result(err)
	}
	if pal.Len() < a.palette.Len() {
		return e.fail("SetPaletteAnimationSource", core.ErrWrongSize)
	}
	copy(a.source.Colors(), pal.Colors())
	copy(a.palette.Colors(), pal.Colors())
	return e.result(nil)
}

// SetTilesetAnimation animates the tileset of layer n with seq: the entry
// named by the sequence target shows each frame's entry in turn.
func (e *Engine) SetTilesetAnimation(n, layerIndex int, seq *resource.Sequence) error {
	a, err := e.animationAt("SetTilesetAnimation", n)
	if err != nil {
		return err
	}
	l, err := e.layerAt("SetTilesetAnimation", layerIndex)
	if err != nil {
		return err
	}
	if err := resource.Check("SetTilesetAnimation", l.tileset); err != nil {
		return e.result(err)
	}
	if err := resource.Check("SetTilesetAnimation", seq); err != nil {
		return e.result(err)
	}
	if err := checkFrames(l.tileset.NumTiles(), seq); err != nil {
		return e.result(err)
	}
	*a = animation{
		kind:    animTileset,
		enabled: true,
		seq:     newSequencer(seq, 0),
		layer:   layerIndex,
	}
	return e.result(nil)
}

func checkFrames(numTiles int, seq *resource.Sequence) error {
	if seq.Type() != resource.SequenceFrames {
		return core.NewError("SetTilesetAnimation", core.ErrRefSequence)
	}
	if seq.Target() < 1 || seq.Target() > numTiles {
		return core.NewError("SetTilesetAnimation", core.ErrIdxPicture)
	}
	for _, f := range seq.Frames() {
		if f.Index < 1 || f.Index > numTiles {
			return core.NewError("SetTilesetAnimation", core.ErrIdxPicture)
		}
	}
	return nil
}

// SetSpriteAnimation animates the picture of sprite spriteIndex with seq.
// loop is the number of passes, 0 repeats forever.
func (e *Engine) SetSpriteAnimation(n, spriteIndex int, seq *resource.Sequence, loop int) error {
	a, err := e.animationAt("SetSpriteAnimation", n)
	if err != nil {
		return err
	}
	if _, err := e.spriteAt("SetSpriteAnimation", spriteIndex); err != nil {
		return err
	}
	if err := resource.Check("SetSpriteAnimation", seq); err != nil {
		return e.result(err)
	}
	if seq.Type() != resource.SequenceFrames {
		return e.fail("SetSpriteAnimation", core.ErrRefSequence)
	}
	if loop < 0 {
		return e.fail("SetSpriteAnimation", core.ErrWrongSize)
	}
	*a = animation{
		kind:    animSprite,
		enabled: true,
		seq:     newSequencer(seq, loop),
		sprite:  spriteIndex,
	}
	return e.result(nil)
}

// AnimationState reports whether animation n is running.
func (e *Engine) AnimationState(n int) (bool, error) {
	a, err := e.animationAt("GetAnimationState", n)
	if err != nil {
		return false, err
	}
	return a.enabled, e.result(nil)
}

// SetAnimationDelay makes every step of animation n last delay time units.
// 0 restores the delays of the sequence.
func (e *Engine) SetAnimationDelay(n, delay int) error {
	a, err := e.animationAt("SetAnimationDelay", n)
	if err != nil {
		return err
	}
	if delay < 0 {
		return e.fail("SetAnimationDelay", core.ErrWrongSize)
	}
	a.seq.delay = delay
	return e.result(nil)
}

// AvailableAnimation returns the first stopped animation slot.
func (e *Engine) AvailableAnimation() (int, error) {
	for i := range e.animations {
		if !e.animations[i].enabled {
			return i, e.result(nil)
		}
	}
	return -1, e.fail("GetAvailableAnimation", core.ErrIdxAnimation)
}

// DisableAnimation stops animation n. Colors and pictures keep the last
// applied step.
func (e *Engine) DisableAnimation(n int) error {
	a, err := e.animationAt("DisableAnimation", n)
	if err != nil {
		return err
	}
	a.stop()
	return e.result(nil)
}

// watchTileset registers the sequence pack of ts for automatic animation.
func (e *Engine) watchTileset(ts *resource.Tileset) {
	sp := ts.SequencePack()
	if _, ok := e.tileAnims[ts]; ok {
		return
	}
	var seqs []sequencer
	for i := 0; i < sp.Count(); i++ {
		seq, err := sp.Sequence(i)
		if err != nil {
			continue
		}
		if checkFrames(ts.NumTiles(), seq) != nil {
			e.logger.Debug("skipping tileset sequence", "sequence", seq.Name())
			continue
		}
		seqs = append(seqs, newSequencer(seq, 0))
	}
	e.tileAnims[ts] = seqs
}

// updateAnimations advances every running animation to time.
func (e *Engine) updateAnimations(time int) {
	for i := range e.animations {
		a := &e.animations[i]
		if !a.enabled {
			continue
		}
		if !a.seq.seq.Alive() {
			a.stop()
			continue
		}
		switch a.kind {
		case animPalette:
			e.updatePaletteCycle(a, time)
		case animTileset:
			e.updateTilesetFrames(a, time)
		case animSprite:
			e.updateSpriteFrames(a, time)
		}
	}
	e.updateTilesetPacks(time)
}

func (e *Engine) updateTilesetFrames(a *animation, time int) {
	ts := e.layers[a.layer].tileset
	if !ts.Alive() {
		a.stop()
		return
	}
	if frame, changed, _ := a.seq.advance(time); changed {
		_ = ts.SetRemap(a.seq.seq.Target(), frame.Index)
	}
}

func (e *Engine) updateSpriteFrames(a *animation, time int) {
	s := &e.sprites[a.sprite]
	frame, changed, done := a.seq.advance(time)
	if done {
		a.stop()
		return
	}
	if changed && s.spriteset.Alive() && frame.Index < s.spriteset.Len() {
		s.picture = frame.Index
	}
}

// updateTilesetPacks runs the sequence packs of tilesets shown by enabled
// layers. Packs of hidden tilesets are paused.
func (e *Engine) updateTilesetPacks(time int) {
	var done []*resource.Tileset
	for i := range e.layers {
		l := &e.layers[i]
		if !l.enabled || !l.tileset.Alive() || slices.Contains(done, l.tileset) {
			continue
		}
		seqs, ok := e.tileAnims[l.tileset]
		if !ok {
			continue
		}
		done = append(done, l.tileset)
		for j := range seqs {
			s := &seqs[j]
			if !s.seq.Alive() {
				continue
			}
			if frame, changed, _ := s.advance(time); changed {
				_ = l.tileset.SetRemap(s.seq.Target(), frame.Index)
			}
		}
	}
}

func (e *Engine) updatePaletteCycle(a *animation, time int) {
	if !a.palette.Alive() {
		a.stop()
		return
	}
	strips := a.seq.seq.Strips()
	for i, strip := range strips {
		st := &a.strips[i]
		delay := strip.Delay
		if a.seq.delay > 0 {
			delay = a.seq.delay
		}
		if time >= st.timer {
			st.timer = time + delay
			st.pos = (st.pos + 1) % int(strip.Count)
			st.t0 = time
			if !a.blend {
				cycleColors(a.source.Colors(), a.palette.Colors(), strip, st.pos)
			}
		}
		if a.blend {
			f := lerpFactor(time, st.t0, st.timer)
			cycleColorsBlend(a.source.Colors(), a.palette.Colors(), strip, st.pos, f)
		}
	}
}

// cycleColors rotates the strip range of src by pos entries into dst.
func cycleColors(src, dst []core.Color, strip resource.ColorStrip, pos int) {
	first, count := int(strip.First), int(strip.Count)
	for c := 0; c < count; c++ {
		var from int
		if strip.Dir != 0 {
			from = (c - pos + count) % count
		} else {
			from = (c + pos) % count
		}
		dst[first+c] = src[first+from]
	}
}

// cycleColorsBlend is cycleColors mixed with the next step by f/255.
func cycleColorsBlend(src, dst []core.Color, strip resource.ColorStrip, pos int, f uint8) {
	first, count := int(strip.First), int(strip.Count)
	for c := 0; c < count; c++ {
		var i0, i1 int
		if strip.Dir != 0 {
			i0 = (c - pos + count) % count
			i1 = (i0 - 1 + count) % count
		} else {
			i0 = (c + pos) % count
			i1 = (i0 + 1) % count
		}
		dst[first+c] = core.Lerp(src[first+i0], src[first+i1], f)
	}
}

// lerpFactor maps time in [t0, t1] to 0..255.
func lerpFactor(time, t0, t1 int) uint8 {
	if t1 <= t0 || time <= t0 {
		return 0
	}
	if time >= t1 {
		return 255
	}
	return uint8((time - t0) * 255 / (t1 - t0))
}
