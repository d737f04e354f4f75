package scene

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/engine"
	"github.com/vovakirdan/scanline/internal/resource"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// sheet is 16x8: red on the left half, a blue column at x=8, green after.
func sheet(t *testing.T) []byte {
	t.Helper()
	pal := color.Palette{
		color.RGBA{0, 0, 0, 0},
		color.RGBA{255, 0, 0, 255},
		color.RGBA{0, 255, 0, 255},
		color.RGBA{0, 0, 255, 255},
	}
	img := image.NewPaletted(image.Rect(0, 0, 16, 8), pal)
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			switch {
			case x < 8:
				img.SetColorIndex(x, y, 1)
			case x == 8:
				img.SetColorIndex(x, y, 3)
			default:
				img.SetColorIndex(x, y, 2)
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

const testTSX = `<?xml version="1.0" encoding="UTF-8"?>
<tileset name="test" tilewidth="8" tileheight="8" tilecount="2" columns="2">
 <image source="sheet.png" width="16" height="8"/>
</tileset>`

const testTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.2" orientation="orthogonal" width="3" height="2" tilewidth="8" tileheight="8">
 <tileset firstgid="1" source="test.tsx"/>
 <layer id="1" name="Front" width="3" height="2">
  <data encoding="csv">1,2,1,2,1,2</data>
 </layer>
</map>`

const testSQX = `<?xml version="1.0"?>
<sequences>
  <sequence name="walk" delay="5">0 1</sequence>
  <cycle name="glow">
    <strip delay="4" first="1" count="3" dir="1"/>
  </cycle>
</sequences>`

const testScene = `id: test
name: Test Scene
assets: data
screen: {w: 32, h: 16, layers: 2, sprites: 2, animations: 4}
background: "#102030"
layers:
  - index: 1
    tilemap: test.tmx
    scroll: [1, 0]
  - index: 0
    bitmap: sheet.png
    hidden: true
sprites:
  - spriteset: hero
    picture: b
    x: 4
    y: 4
    velocity: [1, 0]
    flags: [flipx]
    collision: true
    animation: {pack: fx.sqx, sequence: walk}
cycles:
  - layer: 0
    pack: fx.sqx
    sequence: glow
`

func sceneFixture(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	writeFile(t, data, "sheet.png", sheet(t))
	writeFile(t, data, "hero.png", sheet(t))
	writeFile(t, data, "hero.txt", []byte("a = 0 0 8 8\nb = 8 0 8 8\n"))
	writeFile(t, data, "test.tsx", []byte(testTSX))
	writeFile(t, data, "test.tmx", []byte(testTMX))
	writeFile(t, data, "fx.sqx", []byte(testSQX))
	return writeFile(t, dir, "scene.yaml", []byte(manifest))
}

func startScene(t *testing.T, s *Scene) *engine.Engine {
	t.Helper()
	cfg := s.Config(core.DefaultConfig())
	e, err := engine.Init(cfg.Width, cfg.Height, cfg.Layers, cfg.Sprites, cfg.Animations)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := s.Setup(e, cfg); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	return e
}

func TestLoadAndSetup(t *testing.T) {
	s, err := Load(sceneFixture(t, testScene))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.ID() != "test" || s.Title() != "Test Scene" {
		t.Errorf("ID(), Title() = %q, %q", s.ID(), s.Title())
	}
	e := startScene(t, s)
	defer s.Close()

	if e.Width() != 32 || e.Height() != 16 || e.NumSprites() != 2 {
		t.Errorf("engine = %dx%d with %d sprites, expected 32x16 with 2", e.Width(), e.Height(), e.NumSprites())
	}
	if kind, _ := e.LayerKind(1); kind != engine.LayerTypeTiles {
		t.Errorf("LayerKind(1) = %v, expected tiles", kind)
	}
	if on, _ := e.LayerEnabled(0); on {
		t.Error("layer 0 expected hidden")
	}
	st, err := e.SpriteState(0)
	if err != nil {
		t.Fatalf("SpriteState() error = %v", err)
	}
	if !st.Enabled || st.Picture != 1 || st.Flags != resource.FlagFlipX || !st.Collision {
		t.Errorf("sprite 0 = %+v", st)
	}
	if on, _ := e.AnimationState(0); !on {
		t.Error("sprite animation not running")
	}
	if on, _ := e.AnimationState(1); !on {
		t.Error("palette cycle not running")
	}

	s.Update(0, core.NewInputFrame())
	if err := e.DrawFrame(0); err != nil {
		t.Fatalf("DrawFrame() error = %v", err)
	}
	fb := e.Framebuffer()
	if got := fb.Get(0, 0); got != core.ColorRed {
		t.Errorf("pixel (0,0) = %v, expected red from tile 1", got)
	}
	if got := fb.Get(0, 8); got != core.ColorBlue {
		t.Errorf("pixel (0,8) = %v, expected blue from tile 2", got)
	}

	s.Update(3, core.NewInputFrame())
	if x, y, _ := e.LayerPosition(1); x != 3 || y != 0 {
		t.Errorf("LayerPosition(1) = %d,%d, expected 3,0", x, y)
	}
	if st, _ := e.SpriteState(0); st.X != 6 || st.Y != 4 {
		t.Errorf("sprite at %d,%d, expected 6,4 after two moves", st.X, st.Y)
	}
}

func TestCloseReleasesAssets(t *testing.T) {
	s, err := Load(sceneFixture(t, testScene))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	e := startScene(t, s)
	lib := s.lib
	if lib.Len() == 0 {
		t.Fatal("no assets loaded")
	}
	s.Close()
	if lib.Len() != 0 {
		t.Errorf("Len() after Close = %d, expected 0", lib.Len())
	}
	if st, _ := e.SpriteState(0); st.Enabled {
		t.Error("sprite still enabled after Close")
	}
}

func TestSetupFailureReleasesAssets(t *testing.T) {
	manifest := strings.Replace(testScene, "sequence: walk", "sequence: run", 1)
	s, err := Load(sceneFixture(t, manifest))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg := s.Config(core.DefaultConfig())
	e, _ := engine.Init(cfg.Width, cfg.Height, cfg.Layers, cfg.Sprites, cfg.Animations)
	err = s.Setup(e, cfg)
	if !errors.Is(err, core.ErrRefSequence) {
		t.Fatalf("Setup() error = %v, expected ErrRefSequence", err)
	}
	if s.lib.Len() != 0 {
		t.Errorf("Len() = %d after failed Setup, expected 0", s.lib.Len())
	}
	if st, _ := e.SpriteState(0); st.Enabled {
		t.Error("sprite left enabled after failed Setup")
	}
}

func TestSetupMissingAsset(t *testing.T) {
	manifest := strings.Replace(testScene, "bitmap: sheet.png", "bitmap: none.png", 1)
	s, err := Load(sceneFixture(t, manifest))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg := s.Config(core.DefaultConfig())
	e, _ := engine.Init(cfg.Width, cfg.Height, cfg.Layers, cfg.Sprites, cfg.Animations)
	if err := s.Setup(e, cfg); !errors.Is(err, core.ErrFileNotFound) {
		t.Errorf("Setup() error = %v, expected ErrFileNotFound", err)
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing id", "layers: []"},
		{"no source", "id: x\nlayers:\n  - index: 0"},
		{"two sources", "id: x\nlayers:\n  - {index: 0, bitmap: a.png, tilemap: b.tmx}"},
		{"duplicate index", "id: x\nlayers:\n  - {index: 0, bitmap: a.png}\n  - {index: 0, bitmap: b.png}"},
		{"bad blend", "id: x\nlayers:\n  - {index: 0, bitmap: a.png, blend: glow}"},
		{"bad clip", "id: x\nlayers:\n  - {index: 0, bitmap: a.png, clip: [1, 2]}"},
		{"bad background", "id: x\nbackground: nope\nlayers: []"},
		{"bad flag", "id: x\nlayers: []\nsprites:\n  - {spriteset: s, flags: [spin]}"},
		{"no spriteset", "id: x\nlayers: []\nsprites:\n  - {x: 1}"},
		{"backdrop cycle", "id: x\nlayers: []\ncycles:\n  - {layer: -1, pack: p.sqx, sequence: s}"},
		{"not yaml", "id: [x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() expected error")
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{"FlipX", " rotate ", "priority"})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	want := resource.FlagFlipX | resource.FlagRotate | resource.FlagPriority
	if f != want {
		t.Errorf("ParseFlags() = %#x, expected %#x", f, want)
	}
}

func TestApply(t *testing.T) {
	m := &Manifest{ID: "x", Screen: ScreenSpec{W: 100, Sprites: 3}}
	cfg := m.Apply(core.DefaultConfig())
	if cfg.Width != 100 || cfg.Height != 240 || cfg.Sprites != 3 || cfg.Layers != 4 {
		t.Errorf("Apply() = %+v", cfg)
	}
}

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", []byte("id: beta\nlayers: []"))
	writeFile(t, dir, "sub/a.yml", []byte("id: alpha\nlayers: []"))
	writeFile(t, dir, "broken.yaml", []byte("layers: []"))
	writeFile(t, dir, "notes.txt", []byte("id: gamma"))

	l := NewLoader(dir)
	ids, err := l.ListIDs()
	if err != nil {
		t.Fatalf("ListIDs() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "alpha" || ids[1] != "beta" {
		t.Errorf("ListIDs() = %v, expected [alpha beta]", ids)
	}
	s, err := l.LoadByID("beta")
	if err != nil {
		t.Fatalf("LoadByID() error = %v", err)
	}
	if filepath.Base(s.FilePath) != "b.yaml" {
		t.Errorf("FilePath = %q", s.FilePath)
	}
	if _, err := l.LoadByID("gamma"); err == nil {
		t.Error("LoadByID(gamma) expected error")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct{ v, lo, hi, want int }{
		{5, -8, 32, 5},
		{32, -8, 32, -8},
		{-9, -8, 32, 31},
	}
	for _, tt := range tests {
		if got := wrap(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("wrap(%d, %d, %d) = %d, expected %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
