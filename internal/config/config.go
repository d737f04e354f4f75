// Package config provides YAML-based engine configuration loading and
// screen presets for the scanline tools.
package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/scanline/internal/core"
)

// EngineConfig contains everything needed to set up an engine and its
// presenters.
type EngineConfig struct {
	Width      int     `yaml:"width"`      // Framebuffer width in pixels
	Height     int     `yaml:"height"`     // Framebuffer height in pixels
	Layers     int     `yaml:"layers"`     // Layer slots
	Sprites    int     `yaml:"sprites"`    // Sprite slots
	Animations int     `yaml:"animations"` // Animation slots
	FPS        int     `yaml:"fps"`        // Target frame rate, <= 0 for unthrottled
	Scale      float64 `yaml:"scale"`      // Window and snapshot scale factor
	Background string  `yaml:"background"` // Default background color, "#rrggbb"
	LogLevel   string  `yaml:"log_level"`  // debug, info, warn or error
	DBPath     string  `yaml:"db_path"`    // Benchmark history database, empty for the default
}

// ScreenPreset names a classic screen geometry.
type ScreenPreset string

const (
	PresetDefault ScreenPreset = "default" // 400x240
	PresetSNES    ScreenPreset = "snes"    // 256x224
	PresetGBA     ScreenPreset = "gba"     // 240x160
	PresetMD      ScreenPreset = "md"      // 320x224
	PresetHD      ScreenPreset = "hd"      // 640x360
)

// PresetSize returns the width and height for a preset.
func PresetSize(preset ScreenPreset) (int, int, error) {
	switch preset {
	case PresetDefault:
		return 400, 240, nil
	case PresetSNES:
		return 256, 224, nil
	case PresetGBA:
		return 240, 160, nil
	case PresetMD:
		return 320, 224, nil
	case PresetHD:
		return 640, 360, nil
	default:
		return 0, 0, fmt.Errorf("unknown screen preset %q", preset)
	}
}

// Presets lists every screen preset.
func Presets() []ScreenPreset {
	return []ScreenPreset{PresetDefault, PresetSNES, PresetGBA, PresetMD, PresetHD}
}

// ApplyPreset sets the screen size from a preset.
func ApplyPreset(cfg *EngineConfig, preset ScreenPreset) error {
	w, h, err := PresetSize(preset)
	if err != nil {
		return err
	}
	cfg.Width = w
	cfg.Height = h
	return nil
}

// Validate reports the first invalid field.
func (c EngineConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid screen size %dx%d", c.Width, c.Height)
	case c.Layers < 0 || c.Sprites < 0 || c.Animations < 0:
		return fmt.Errorf("slot counts must not be negative")
	case c.Scale <= 0:
		return fmt.Errorf("invalid scale %v", c.Scale)
	}
	if c.Background != "" {
		if _, err := core.ParseHexColor(c.Background); err != nil {
			return err
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// BackgroundColor returns the parsed background color, black if unset.
func (c EngineConfig) BackgroundColor() core.Color {
	if col, err := core.ParseHexColor(c.Background); err == nil {
		return col
	}
	return core.ColorBlack
}

// Runtime converts the config into the runtime description demos receive.
func (c EngineConfig) Runtime() core.RuntimeConfig {
	return core.RuntimeConfig{
		Width:      c.Width,
		Height:     c.Height,
		Layers:     c.Layers,
		Sprites:    c.Sprites,
		Animations: c.Animations,
		FPS:        c.FPS,
	}
}

// ParseLevel maps a log level name to a charmbracelet/log level.
// An empty name means info.
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(name))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q", name)
	}
	return lvl, nil
}
