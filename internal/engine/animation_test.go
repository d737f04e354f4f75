package engine

import (
	"errors"
	"testing"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/resource"
)

func frames(t *testing.T, target int, steps ...resource.SequenceFrame) *resource.Sequence {
	t.Helper()
	seq, err := resource.NewSequence("test", target, steps)
	if err != nil {
		t.Fatalf("NewSequence() error = %v", err)
	}
	return seq
}

func spriteAnimScene(t *testing.T) *Engine {
	t.Helper()
	e := mustInit(t, 8, 8, 0, 1, 2)
	pal := rampPalette(t, 16)
	if err := e.ConfigSprite(0, solidSpriteset(t, pal, 8, 8, 4, 1), 0); err != nil {
		t.Fatalf("ConfigSprite() error = %v", err)
	}
	return e
}

func TestSpriteAnimationLoopOnce(t *testing.T) {
	e := spriteAnimScene(t)
	seq := frames(t, 0,
		resource.SequenceFrame{Index: 1, Delay: 5},
		resource.SequenceFrame{Index: 2, Delay: 5},
		resource.SequenceFrame{Index: 3, Delay: 5})
	if err := e.SetSpriteAnimation(0, 0, seq, 1); err != nil {
		t.Fatalf("SetSpriteAnimation() error = %v", err)
	}

	wantPicture := []int{1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3}
	for frame := 0; frame < 20; frame++ {
		mustDraw(t, e, frame)
		running, err := e.AnimationState(0)
		if err != nil {
			t.Fatalf("AnimationState() error = %v", err)
		}
		if frame < seq.TotalDelay() {
			if !running {
				t.Fatalf("frame %d: animation stopped early", frame)
			}
			if pic, _ := e.SpritePicture(0); pic != wantPicture[frame] {
				t.Errorf("frame %d: picture = %d, expected %d", frame, pic, wantPicture[frame])
			}
		} else if running {
			t.Errorf("frame %d: animation still running after total delay %d", frame, seq.TotalDelay())
		}
	}
	if pic, _ := e.SpritePicture(0); pic != 3 {
		t.Errorf("picture after stop = %d, expected last frame 3", pic)
	}
}

func TestSpriteAnimationLoopCounts(t *testing.T) {
	tests := []struct {
		name   string
		loop   int
		delay  int // SetAnimationDelay value, 0 keeps the sequence delays
		stopAt int // first frame reporting stopped, -1 for never
	}{
		{"forever", 0, 0, -1},
		{"twice", 2, 0, 20},
		{"once with delay override", 1, 3, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := spriteAnimScene(t)
			seq := frames(t, 0,
				resource.SequenceFrame{Index: 0, Delay: 4},
				resource.SequenceFrame{Index: 1, Delay: 6})
			if err := e.SetSpriteAnimation(1, 0, seq, tt.loop); err != nil {
				t.Fatalf("SetSpriteAnimation() error = %v", err)
			}
			if err := e.SetAnimationDelay(1, tt.delay); err != nil {
				t.Fatalf("SetAnimationDelay() error = %v", err)
			}
			stopped := -1
			for frame := 0; frame < 500 && stopped < 0; frame++ {
				if err := e.BeginFrame(frame); err != nil {
					t.Fatalf("BeginFrame() error = %v", err)
				}
				if running, _ := e.AnimationState(1); !running {
					stopped = frame
				}
			}
			if stopped != tt.stopAt {
				t.Errorf("stopped at frame %d, expected %d", stopped, tt.stopAt)
			}
		})
	}
}

func TestAnimationSlots(t *testing.T) {
	e := spriteAnimScene(t)
	seq := frames(t, 0, resource.SequenceFrame{Index: 1, Delay: 1})

	n, err := e.AvailableAnimation()
	if err != nil || n != 0 {
		t.Fatalf("AvailableAnimation() = %d, %v; expected 0", n, err)
	}
	_ = e.SetSpriteAnimation(0, 0, seq, 0)
	_ = e.SetSpriteAnimation(1, 0, seq, 0)
	if _, err := e.AvailableAnimation(); !errors.Is(err, core.ErrIdxAnimation) {
		t.Errorf("AvailableAnimation() when full error = %v, expected ErrIdxAnimation", err)
	}
	if err := e.DisableAnimation(1); err != nil {
		t.Fatalf("DisableAnimation() error = %v", err)
	}
	if n, _ := e.AvailableAnimation(); n != 1 {
		t.Errorf("AvailableAnimation() = %d, expected 1", n)
	}

	// Freeing the sprite stops animations driving it.
	_ = e.DisableSprite(0)
	if running, _ := e.AnimationState(0); running {
		t.Errorf("animation still running after DisableSprite")
	}

	if err := e.SetSpriteAnimation(0, 5, seq, 0); !errors.Is(err, core.ErrIdxSprite) {
		t.Errorf("SetSpriteAnimation(sprite 5) error = %v, expected ErrIdxSprite", err)
	}
	if err := e.SetSpriteAnimation(0, 0, seq, -1); !errors.Is(err, core.ErrWrongSize) {
		t.Errorf("SetSpriteAnimation(loop -1) error = %v, expected ErrWrongSize", err)
	}
}

func TestDeletedSequenceStopsAnimation(t *testing.T) {
	e := spriteAnimScene(t)
	seq := frames(t, 0, resource.SequenceFrame{Index: 1, Delay: 1}, resource.SequenceFrame{Index: 2, Delay: 1})
	_ = e.SetSpriteAnimation(0, 0, seq, 0)
	mustDraw(t, e, 0)
	seq.Delete()
	mustDraw(t, e, 1)
	if running, _ := e.AnimationState(0); running {
		t.Errorf("animation running on a deleted sequence")
	}
}

func cycleScene(t *testing.T, strip resource.ColorStrip, blend bool) (*Engine, *resource.Palette, []core.Color) {
	t.Helper()
	e := mustInit(t, 8, 8, 0, 0, 1)
	pal := rampPalette(t, 8)
	src := append([]core.Color(nil), pal.Colors()...)
	seq, err := resource.NewCycle("water", []resource.ColorStrip{strip})
	if err != nil {
		t.Fatalf("NewCycle() error = %v", err)
	}
	if err := e.SetPaletteAnimation(0, pal, seq, blend); err != nil {
		t.Fatalf("SetPaletteAnimation() error = %v", err)
	}
	return e, pal, src
}

func TestPaletteCycle(t *testing.T) {
	tests := []struct {
		name  string
		dir   uint8
		frame int
		want  []int // source entries expected at palette 2..5
	}{
		{"down first step", 0, 0, []int{3, 4, 5, 2}},
		{"down held", 0, 9, []int{3, 4, 5, 2}},
		{"down second step", 0, 10, []int{4, 5, 2, 3}},
		{"up first step", 1, 0, []int{5, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, pal, src := cycleScene(t, resource.ColorStrip{Delay: 10, First: 2, Count: 4, Dir: tt.dir}, false)
			if err := e.BeginFrame(0); err != nil {
				t.Fatalf("BeginFrame() error = %v", err)
			}
			if tt.frame > 0 {
				_ = e.BeginFrame(tt.frame)
			}
			for i, from := range tt.want {
				if got := pal.At(2 + i); got != src[from] {
					t.Errorf("entry %d = %v, expected source entry %d %v", 2+i, got, from, src[from])
				}
			}
			for _, k := range []int{0, 1, 6, 7} {
				if got := pal.At(k); got != src[k] {
					t.Errorf("entry %d outside the strip changed", k)
				}
			}
		})
	}
}

func TestPaletteCycleBlend(t *testing.T) {
	e, pal, src := cycleScene(t, resource.ColorStrip{Delay: 10, First: 2, Count: 4}, true)
	_ = e.BeginFrame(0)
	if got := pal.At(2); got != src[3] {
		t.Errorf("entry 2 at step start = %v, expected %v", got, src[3])
	}
	_ = e.BeginFrame(5)
	want := core.Lerp(src[3], src[4], 127)
	if got := pal.At(2); got != want {
		t.Errorf("entry 2 half way = %v, expected %v", got, want)
	}
}

func TestPaletteAnimationSource(t *testing.T) {
	e, pal, _ := cycleScene(t, resource.ColorStrip{Delay: 10, First: 0, Count: 2}, false)
	other, err := resource.NewPalette(8)
	if err != nil {
		t.Fatalf("NewPalette() error = %v", err)
	}
	for k := 0; k < 8; k++ {
		_ = other.SetColor(k, core.RGB(uint8(k), 0, 0))
	}
	if err := e.SetPaletteAnimationSource(0, other); err != nil {
		t.Fatalf("SetPaletteAnimationSource() error = %v", err)
	}
	if got := pal.At(5); got != core.RGB(5, 0, 0) {
		t.Errorf("target entry 5 = %v, expected copied color", got)
	}
	_ = e.BeginFrame(0)
	if got := pal.At(0); got != core.RGB(1, 0, 0) {
		t.Errorf("entry 0 after step = %v, expected new source entry 1", got)
	}
	if err := e.SetPaletteAnimationSource(0, nil); !errors.Is(err, core.ErrRefPalette) {
		t.Errorf("SetPaletteAnimationSource(nil) error = %v, expected ErrRefPalette", err)
	}
}

func tileAnimScene(t *testing.T, sp *resource.SequencePack) (*Engine, *resource.Tileset, *resource.Palette) {
	t.Helper()
	e := mustInit(t, 8, 8, 1, 0, 1)
	pal := rampPalette(t, 16)
	ts := solidTileset(t, pal, 3)
	if sp != nil {
		if err := ts.SetSequencePack(sp); err != nil {
			t.Fatalf("SetSequencePack() error = %v", err)
		}
	}
	tm := fillTilemap(t, ts, 1, 1, func(_, _ int) resource.Tile { return resource.Tile{Index: 1} })
	if err := e.SetLayer(0, ts, tm); err != nil {
		t.Fatalf("SetLayer() error = %v", err)
	}
	return e, ts, pal
}

func TestTilesetAnimation(t *testing.T) {
	e, ts, pal := tileAnimScene(t, nil)
	seq := frames(t, 1, resource.SequenceFrame{Index: 2, Delay: 4}, resource.SequenceFrame{Index: 3, Delay: 4})
	if err := e.SetTilesetAnimation(0, 0, seq); err != nil {
		t.Fatalf("SetTilesetAnimation() error = %v", err)
	}

	for _, tt := range []struct{ frame, entry int }{{0, 2}, {3, 2}, {4, 3}, {8, 2}} {
		mustDraw(t, e, tt.frame)
		if got := ts.Remap(1); got != tt.entry {
			t.Errorf("frame %d: tile 1 draws entry %d, expected %d", tt.frame, got, tt.entry)
		}
		if got := e.Framebuffer().Get(0, 0); got != pal.At(tt.entry) {
			t.Errorf("frame %d: pixel = %v, expected %v", tt.frame, got, pal.At(tt.entry))
		}
	}

	bad := frames(t, 1, resource.SequenceFrame{Index: 9, Delay: 4})
	if err := e.SetTilesetAnimation(0, 0, bad); !errors.Is(err, core.ErrIdxPicture) {
		t.Errorf("SetTilesetAnimation(bad entry) error = %v, expected ErrIdxPicture", err)
	}
}

func TestTilesetSequencePackRunsWhileShown(t *testing.T) {
	sp := resource.NewSequencePack()
	if err := sp.Add(frames(t, 1, resource.SequenceFrame{Index: 2, Delay: 2}, resource.SequenceFrame{Index: 3, Delay: 2})); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	e, ts, _ := tileAnimScene(t, sp)

	mustDraw(t, e, 0)
	if got := ts.Remap(1); got != 2 {
		t.Errorf("frame 0: remap = %d, expected 2", got)
	}
	mustDraw(t, e, 2)
	if got := ts.Remap(1); got != 3 {
		t.Errorf("frame 2: remap = %d, expected 3", got)
	}

	_ = e.DisableLayer(0)
	mustDraw(t, e, 4)
	if got := ts.Remap(1); got != 3 {
		t.Errorf("hidden layer: remap = %d, expected 3 (paused)", got)
	}
}
