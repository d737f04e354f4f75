// Package registry provides a global registry for demo factories.
// Demos register themselves in init() functions, allowing the CLI and the
// presenters to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/engine"
)

// Demo is a scene that drives an engine.
// Demos own their resources and only touch the engine from Setup and Update,
// both of which run on the render goroutine.
type Demo interface {
	// ID returns a unique identifier (e.g., "mode7", "bars").
	// Used for CLI commands and benchmark storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Setup builds the demo's resources and configures the engine.
	// The engine was initialized from cfg.
	Setup(e *engine.Engine, cfg core.RuntimeConfig) error

	// Update advances the scene before frame is drawn.
	Update(frame int, in core.InputFrame)

	// Close releases the demo's resources.
	Close()
}

// DemoInfo contains metadata about a registered demo.
type DemoInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a demo.
type Factory func() Demo

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a demo factory to the registry.
// Typically called from a demo's init() function.
// Panics if a demo with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: demo %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	d := f()
	titles[id] = d.Title()
}

// List returns information about all registered demos, sorted by ID.
func List() []DemoInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]DemoInfo, 0, len(factories))
	for id := range factories {
		result = append(result, DemoInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new demo by its ID.
// Returns an error if the demo ID is not registered.
func Create(id string) (Demo, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown demo %q", id)
	}

	return f(), nil
}

// Exists checks if a demo with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Start initializes an engine sized by cfg and runs the demo's Setup on it.
func Start(d Demo, cfg core.RuntimeConfig, opts ...engine.Option) (*engine.Engine, error) {
	e, err := engine.Init(cfg.Width, cfg.Height, cfg.Layers, cfg.Sprites, cfg.Animations, opts...)
	if err != nil {
		return nil, fmt.Errorf("registry: init engine: %w", err)
	}
	if err := d.Setup(e, cfg); err != nil {
		return nil, fmt.Errorf("registry: setup %s: %w", d.ID(), err)
	}
	return e, nil
}
