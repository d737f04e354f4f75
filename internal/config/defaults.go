package config

import (
	_ "embed"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Width:      400,
		Height:     240,
		Layers:     4,
		Sprites:    64,
		Animations: 16,
		FPS:        60,
		Scale:      2,
		Background: "#000000",
		LogLevel:   "info",
	}
}
