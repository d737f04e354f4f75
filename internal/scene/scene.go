// Package scene builds engine setups from YAML scene files. A scene names
// its assets by path relative to the file and is run like a built-in demo.
package scene

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/scanline/internal/assets"
	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/engine"
	"github.com/vovakirdan/scanline/internal/resource"
)

// Scene is a loaded manifest ready to be set up on an engine.
type Scene struct {
	Manifest *Manifest
	FilePath string

	logger  *log.Logger
	lib     *assets.Library
	eng     *engine.Engine
	layers  []layerState
	sprites []spriteState
}

type layerState struct {
	index int
	x, y  int
	dx    float64
	dy    float64
}

type spriteState struct {
	slot   int
	x, y   int
	vx, vy int
	w, h   int
}

// Load reads and validates the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}
	return &Scene{Manifest: m, FilePath: path, logger: log.New(io.Discard)}, nil
}

// SetLogger makes asset loading failures visible at Debug level.
func (s *Scene) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// ID returns the scene identifier.
func (s *Scene) ID() string { return s.Manifest.ID }

// Title returns the scene name, or its id.
func (s *Scene) Title() string {
	if s.Manifest.Name != "" {
		return s.Manifest.Name
	}
	return s.Manifest.ID
}

// Config returns cfg with the screen overrides of the scene applied.
func (s *Scene) Config(cfg core.RuntimeConfig) core.RuntimeConfig {
	return s.Manifest.Apply(cfg)
}

// AssetDir returns the directory asset names are resolved against.
func (s *Scene) AssetDir() string {
	dir := filepath.Dir(s.FilePath)
	if s.Manifest.Assets == "" {
		return dir
	}
	if filepath.IsAbs(s.Manifest.Assets) {
		return s.Manifest.Assets
	}
	return filepath.Join(dir, s.Manifest.Assets)
}

// Setup loads the assets and configures layers, sprites and animations.
// On failure every asset loaded so far is released.
func (s *Scene) Setup(e *engine.Engine, _ core.RuntimeConfig) (err error) {
	m := s.Manifest
	s.eng = e
	s.lib = assets.NewLibrary(s.AssetDir(), s.logger)
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	if m.Background != "" {
		c, _ := core.ParseHexColor(m.Background)
		e.SetBGColor(c)
	}
	if m.Backdrop != "" {
		bm, err := s.lib.Bitmap(m.Backdrop)
		if err != nil {
			return fmt.Errorf("scene %s: backdrop: %w", m.ID, err)
		}
		if err := e.SetBGBitmap(bm); err != nil {
			return fmt.Errorf("scene %s: backdrop: %w", m.ID, err)
		}
	}
	for i, spec := range m.Layers {
		if err := s.setupLayer(spec); err != nil {
			return fmt.Errorf("scene %s: layer %d: %w", m.ID, i, err)
		}
	}
	for i, spec := range m.Sprites {
		if err := s.setupSprite(spec); err != nil {
			return fmt.Errorf("scene %s: sprite %d: %w", m.ID, i, err)
		}
	}
	for i, spec := range m.Cycles {
		if err := s.setupCycle(spec); err != nil {
			return fmt.Errorf("scene %s: cycle %d: %w", m.ID, i, err)
		}
	}
	s.logger.Debug("scene ready", "id", m.ID, "layers", len(s.layers), "sprites", len(s.sprites), "assets", s.lib.Len())
	return nil
}

func (s *Scene) setupLayer(spec LayerSpec) error {
	e := s.eng
	n := spec.Index
	if spec.Tilemap != "" {
		tm, err := s.lib.Tilemap(spec.Tilemap, spec.MapLayer)
		if err != nil {
			return err
		}
		if err := e.SetLayer(n, nil, tm); err != nil {
			return err
		}
	} else {
		bm, err := s.lib.Bitmap(spec.Bitmap)
		if err != nil {
			return err
		}
		if err := e.SetLayerBitmap(n, bm); err != nil {
			return err
		}
	}
	if spec.Palette != "" {
		pal, err := s.lib.Palette(spec.Palette)
		if err != nil {
			return err
		}
		if err := e.SetLayerPalette(n, pal); err != nil {
			return err
		}
	}
	if err := e.SetLayerPosition(n, spec.X, spec.Y); err != nil {
		return err
	}
	if spec.Blend != "" {
		mode, _ := engine.ParseBlend(spec.Blend)
		if err := e.SetLayerBlendMode(n, mode, spec.Factor); err != nil {
			return err
		}
	}
	if spec.Priority {
		if err := e.SetLayerPriority(n, true); err != nil {
			return err
		}
	}
	if spec.Mosaic > 1 {
		if err := e.SetLayerMosaic(n, spec.Mosaic, spec.Mosaic); err != nil {
			return err
		}
	}
	if c := spec.Clip; c != nil {
		if err := e.SetLayerClip(n, c[0], c[1], c[2], c[3]); err != nil {
			return err
		}
	}
	if spec.Scale > 0 && spec.Scale != 1 {
		if err := e.SetLayerScaling(n, spec.Scale, spec.Scale); err != nil {
			return err
		}
	}
	if spec.Parent != nil {
		if err := e.SetLayerParent(n, *spec.Parent); err != nil {
			return err
		}
	}
	if spec.Hidden {
		if err := e.DisableLayer(n); err != nil {
			return err
		}
	}
	s.layers = append(s.layers, layerState{index: n, x: spec.X, y: spec.Y, dx: spec.Scroll[0], dy: spec.Scroll[1]})
	return nil
}

func (s *Scene) setupSprite(spec SpriteSpec) error {
	e := s.eng
	ss, err := s.lib.Spriteset(spec.Spriteset)
	if err != nil {
		return err
	}
	flags, _ := ParseFlags(spec.Flags)
	slot, err := e.AvailableSprite()
	if err != nil {
		return err
	}
	if err := e.ConfigSprite(slot, ss, flags); err != nil {
		return err
	}
	pic, err := pictureIndex(ss, spec.Picture)
	if err != nil {
		e.DisableSprite(slot)
		return err
	}
	if err := e.SetSpritePicture(slot, pic); err != nil {
		e.DisableSprite(slot)
		return err
	}
	e.SetSpritePosition(slot, spec.X, spec.Y)
	if spec.Blend != "" {
		mode, _ := engine.ParseBlend(spec.Blend)
		e.SetSpriteBlendMode(slot, mode, spec.Factor)
	}
	if spec.Collision {
		e.EnableSpriteCollision(slot, true)
	}
	if a := spec.Animation; a != nil {
		seq, err := s.sequence(a.Pack, a.Sequence)
		if err != nil {
			e.DisableSprite(slot)
			return err
		}
		anim, err := e.AvailableAnimation()
		if err != nil {
			e.DisableSprite(slot)
			return err
		}
		if err := e.SetSpriteAnimation(anim, slot, seq, a.Loop); err != nil {
			e.DisableSprite(slot)
			return err
		}
	}
	info, _ := ss.Info(pic)
	s.sprites = append(s.sprites, spriteState{
		slot: slot,
		x:    spec.X,
		y:    spec.Y,
		vx:   spec.Velocity[0],
		vy:   spec.Velocity[1],
		w:    info.W,
		h:    info.H,
	})
	return nil
}

func (s *Scene) setupCycle(spec CycleSpec) error {
	e := s.eng
	var pal *resource.Palette
	if spec.Layer == -1 {
		bm, err := s.lib.Bitmap(s.Manifest.Backdrop)
		if err != nil {
			return err
		}
		pal = bm.Palette()
	} else {
		p, err := e.LayerPalette(spec.Layer)
		if err != nil {
			return err
		}
		pal = p
	}
	seq, err := s.sequence(spec.Pack, spec.Sequence)
	if err != nil {
		return err
	}
	anim, err := e.AvailableAnimation()
	if err != nil {
		return err
	}
	return e.SetPaletteAnimation(anim, pal, seq, spec.Blend)
}

func (s *Scene) sequence(pack, name string) (*resource.Sequence, error) {
	sp, err := s.lib.SequencePack(pack)
	if err != nil {
		return nil, err
	}
	return sp.Find(name)
}

// Update scrolls the layers and moves the sprites. Sprites wrap around the
// screen edges.
func (s *Scene) Update(frame int, _ core.InputFrame) {
	e := s.eng
	if e == nil {
		return
	}
	for _, l := range s.layers {
		if l.dx == 0 && l.dy == 0 {
			continue
		}
		x := l.x + int(math.Floor(l.dx*float64(frame)))
		y := l.y + int(math.Floor(l.dy*float64(frame)))
		e.SetLayerPosition(l.index, x, y)
	}
	w, h := e.Width(), e.Height()
	for i := range s.sprites {
		sp := &s.sprites[i]
		if sp.vx == 0 && sp.vy == 0 {
			continue
		}
		sp.x = wrap(sp.x+sp.vx, -sp.w, w)
		sp.y = wrap(sp.y+sp.vy, -sp.h, h)
		e.SetSpritePosition(sp.slot, sp.x, sp.y)
	}
}

// wrap keeps v in [lo, hi).
func wrap(v, lo, hi int) int {
	return lo + core.Wrap(v-lo, hi-lo)
}

// Close frees the sprite slots and releases every loaded asset.
func (s *Scene) Close() {
	if s.eng != nil {
		for _, sp := range s.sprites {
			s.eng.DisableSprite(sp.slot)
		}
	}
	s.sprites = nil
	s.layers = nil
	if s.lib != nil {
		s.lib.Close()
		s.lib = nil
	}
}
