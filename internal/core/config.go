package core

// RuntimeConfig describes the engine a demo or scene runs on.
// Presenters build it from the YAML config and CLI flags.
type RuntimeConfig struct {
	Width      int   // Framebuffer width in pixels
	Height     int   // Framebuffer height in pixels
	Layers     int   // Number of layer slots
	Sprites    int   // Number of sprite slots
	Animations int   // Number of animation slots
	FPS        int   // Frames per second (default 60)
	Seed       int64 // RNG seed for demos that randomize
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Width:      400,
		Height:     240,
		Layers:     4,
		Sprites:    64,
		Animations: 16,
		FPS:        60,
		Seed:       0, // 0 means use current time in platform layer
	}
}
