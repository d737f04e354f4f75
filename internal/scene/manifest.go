package scene

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/engine"
	"github.com/vovakirdan/scanline/internal/resource"
)

// Manifest is the YAML structure of a scene file.
type Manifest struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Assets     string            `yaml:"assets,omitempty"` // Asset directory, relative to the scene file
	Screen     ScreenSpec        `yaml:"screen,omitempty"`
	Background string            `yaml:"background,omitempty"`
	Backdrop   string            `yaml:"backdrop,omitempty"` // Background bitmap
	Layers     []LayerSpec       `yaml:"layers"`
	Sprites    []SpriteSpec      `yaml:"sprites,omitempty"`
	Cycles     []CycleSpec       `yaml:"cycles,omitempty"`
	Metadata   map[string]string `yaml:"metadata,omitempty"`
}

// ScreenSpec overrides the engine size. Zero fields keep the configured value.
type ScreenSpec struct {
	W          int `yaml:"w,omitempty"`
	H          int `yaml:"h,omitempty"`
	Layers     int `yaml:"layers,omitempty"`
	Sprites    int `yaml:"sprites,omitempty"`
	Animations int `yaml:"animations,omitempty"`
}

// LayerSpec configures one layer slot from a tilemap or a bitmap.
type LayerSpec struct {
	Index    int        `yaml:"index"`
	Tilemap  string     `yaml:"tilemap,omitempty"`
	MapLayer string     `yaml:"map_layer,omitempty"` // TMX layer name, empty for the first
	Bitmap   string     `yaml:"bitmap,omitempty"`
	Palette  string     `yaml:"palette,omitempty"`
	X        int        `yaml:"x,omitempty"`
	Y        int        `yaml:"y,omitempty"`
	Scroll   [2]float64 `yaml:"scroll,omitempty"` // Pixels per frame
	Blend    string     `yaml:"blend,omitempty"`
	Factor   uint8      `yaml:"factor,omitempty"`
	Priority bool       `yaml:"priority,omitempty"`
	Mosaic   int        `yaml:"mosaic,omitempty"`
	Clip     []int      `yaml:"clip,omitempty"` // x1, y1, x2, y2
	Scale    float64    `yaml:"scale,omitempty"`
	Parent   *int       `yaml:"parent,omitempty"`
	Hidden   bool       `yaml:"hidden,omitempty"`
}

// SpriteSpec places one sprite.
type SpriteSpec struct {
	Spriteset string        `yaml:"spriteset"`
	Picture   string        `yaml:"picture,omitempty"` // Name or number
	X         int           `yaml:"x"`
	Y         int           `yaml:"y"`
	Velocity  [2]int        `yaml:"velocity,omitempty"`
	Flags     []string      `yaml:"flags,omitempty"`
	Blend     string        `yaml:"blend,omitempty"`
	Factor    uint8         `yaml:"factor,omitempty"`
	Collision bool          `yaml:"collision,omitempty"`
	Animation *SequenceSpec `yaml:"animation,omitempty"`
}

// SequenceSpec names a sequence inside an SQX pack.
type SequenceSpec struct {
	Pack     string `yaml:"pack"`
	Sequence string `yaml:"sequence"`
	Loop     int    `yaml:"loop,omitempty"`
}

// CycleSpec starts a palette animation on the palette of a layer, or of
// the backdrop when Layer is -1.
type CycleSpec struct {
	Layer    int    `yaml:"layer"`
	Pack     string `yaml:"pack"`
	Sequence string `yaml:"sequence"`
	Blend    bool   `yaml:"blend,omitempty"`
}

// Parse decodes and validates a scene manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest without touching any asset file.
func (m *Manifest) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("scene: missing id")
	}
	if m.Screen.W < 0 || m.Screen.H < 0 || m.Screen.Layers < 0 ||
		m.Screen.Sprites < 0 || m.Screen.Animations < 0 {
		return fmt.Errorf("scene %s: negative screen value", m.ID)
	}
	if m.Background != "" {
		if _, err := core.ParseHexColor(m.Background); err != nil {
			return fmt.Errorf("scene %s: background: %w", m.ID, err)
		}
	}
	seen := make(map[int]bool)
	for i, l := range m.Layers {
		if (l.Tilemap == "") == (l.Bitmap == "") {
			return fmt.Errorf("scene %s: layer %d: exactly one of tilemap or bitmap is required", m.ID, i)
		}
		if seen[l.Index] {
			return fmt.Errorf("scene %s: layer index %d used twice", m.ID, l.Index)
		}
		seen[l.Index] = true
		if l.Clip != nil && len(l.Clip) != 4 {
			return fmt.Errorf("scene %s: layer %d: clip needs 4 values", m.ID, i)
		}
		if l.Blend != "" {
			if _, err := engine.ParseBlend(l.Blend); err != nil {
				return fmt.Errorf("scene %s: layer %d: unknown blend %q", m.ID, i, l.Blend)
			}
		}
		if l.Scale < 0 || l.Mosaic < 0 {
			return fmt.Errorf("scene %s: layer %d: negative scale or mosaic", m.ID, i)
		}
	}
	for i, s := range m.Sprites {
		if s.Spriteset == "" {
			return fmt.Errorf("scene %s: sprite %d: missing spriteset", m.ID, i)
		}
		if _, err := ParseFlags(s.Flags); err != nil {
			return fmt.Errorf("scene %s: sprite %d: %w", m.ID, i, err)
		}
		if s.Blend != "" {
			if _, err := engine.ParseBlend(s.Blend); err != nil {
				return fmt.Errorf("scene %s: sprite %d: unknown blend %q", m.ID, i, s.Blend)
			}
		}
		if a := s.Animation; a != nil && (a.Pack == "" || a.Sequence == "" || a.Loop < 0) {
			return fmt.Errorf("scene %s: sprite %d: incomplete animation", m.ID, i)
		}
	}
	for i, c := range m.Cycles {
		if c.Pack == "" || c.Sequence == "" {
			return fmt.Errorf("scene %s: cycle %d: missing pack or sequence", m.ID, i)
		}
		if c.Layer == -1 && m.Backdrop == "" {
			return fmt.Errorf("scene %s: cycle %d: backdrop cycle without backdrop", m.ID, i)
		}
	}
	return nil
}

// Apply overrides cfg with the screen section.
func (m *Manifest) Apply(cfg core.RuntimeConfig) core.RuntimeConfig {
	set := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	set(&cfg.Width, m.Screen.W)
	set(&cfg.Height, m.Screen.H)
	set(&cfg.Layers, m.Screen.Layers)
	set(&cfg.Sprites, m.Screen.Sprites)
	set(&cfg.Animations, m.Screen.Animations)
	return cfg
}

var flagNames = map[string]resource.Flags{
	"flipx":    resource.FlagFlipX,
	"flipy":    resource.FlagFlipY,
	"rotate":   resource.FlagRotate,
	"priority": resource.FlagPriority,
}

// ParseFlags converts flag names (flipx, flipy, rotate, priority) to
// sprite flags.
func ParseFlags(names []string) (resource.Flags, error) {
	var f resource.Flags
	for _, n := range names {
		v, ok := flagNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("unknown flag %q", n)
		}
		f |= v
	}
	return f, nil
}

// pictureIndex resolves a picture given by name or number.
func pictureIndex(ss *resource.Spriteset, picture string) (int, error) {
	if picture == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(picture); err == nil {
		if n < 0 || n >= ss.Len() {
			return 0, core.NewError("picture", core.ErrIdxPicture)
		}
		return n, nil
	}
	if n := ss.Find(picture); n >= 0 {
		return n, nil
	}
	return 0, fmt.Errorf("unknown picture %q: %w", picture, core.ErrIdxPicture)
}
