package assets

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/scanline/internal/resource"
)

// Library loads resources by name relative to a root directory and keeps
// each one loaded until released. Repeated requests return the same object.
// Safe for concurrent use.
type Library struct {
	root   string
	logger *log.Logger

	mu       sync.Mutex
	handles  map[string]resource.Handle
	palettes *resource.Arena[*resource.Palette]
	bitmaps  *resource.Arena[*resource.Bitmap]
	tilesets *resource.Arena[*resource.Tileset]
	tilemaps *resource.Arena[*resource.Tilemap]
	sprites  *resource.Arena[*resource.Spriteset]
	packs    *resource.Arena[*resource.SequencePack]
}

// NewLibrary creates a library rooted at root. logger may be nil.
func NewLibrary(root string, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Library{
		root:     root,
		logger:   logger,
		handles:  make(map[string]resource.Handle),
		palettes: resource.NewArena[*resource.Palette](),
		bitmaps:  resource.NewArena[*resource.Bitmap](),
		tilesets: resource.NewArena[*resource.Tileset](),
		tilemaps: resource.NewArena[*resource.Tilemap](),
		sprites:  resource.NewArena[*resource.Spriteset](),
		packs:    resource.NewArena[*resource.SequencePack](),
	}
}

// Root returns the directory names are resolved against.
func (l *Library) Root() string {
	return l.root
}

func (l *Library) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.root, name)
}

// load returns the cached object for key or loads it with fn.
func load[T resource.Object](l *Library, arena *resource.Arena[T], key string, fn func() (T, error)) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h, ok := l.handles[key]; ok {
		obj, err := arena.Get(h)
		if err == nil {
			return obj, nil
		}
		// Deleted behind our back; free the slot and load again.
		_ = arena.Remove(h)
		delete(l.handles, key)
	}
	obj, err := fn()
	if err != nil {
		l.logger.Debug("load failed", "key", key, "err", err)
		var zero T
		return zero, err
	}
	l.handles[key] = arena.Insert(obj)
	l.logger.Debug("loaded", "key", key, "kind", obj.Kind())
	return obj, nil
}

// Palette loads an ACT palette.
func (l *Library) Palette(name string) (*resource.Palette, error) {
	return load(l, l.palettes, "palette:"+name, func() (*resource.Palette, error) {
		return LoadPalette(l.path(name))
	})
}

// Bitmap loads a PNG or BMP bitmap.
func (l *Library) Bitmap(name string) (*resource.Bitmap, error) {
	return load(l, l.bitmaps, "bitmap:"+name, func() (*resource.Bitmap, error) {
		return LoadBitmap(l.path(name))
	})
}

// Tileset loads a TSX tileset.
func (l *Library) Tileset(name string) (*resource.Tileset, error) {
	return load(l, l.tilesets, "tileset:"+name, func() (*resource.Tileset, error) {
		return LoadTileset(l.path(name))
	})
}

// Tilemap loads one layer of a TMX map.
func (l *Library) Tilemap(name, layer string) (*resource.Tilemap, error) {
	key := fmt.Sprintf("tilemap:%s#%s", name, layer)
	return load(l, l.tilemaps, key, func() (*resource.Tilemap, error) {
		return LoadTilemap(l.path(name), layer)
	})
}

// Spriteset loads a PNG+TXT spriteset by base name.
func (l *Library) Spriteset(base string) (*resource.Spriteset, error) {
	return load(l, l.sprites, "spriteset:"+base, func() (*resource.Spriteset, error) {
		return LoadSpriteset(l.path(base))
	})
}

// SequencePack loads an SQX sequence pack.
func (l *Library) SequencePack(name string) (*resource.SequencePack, error) {
	return load(l, l.packs, "sequencepack:"+name, func() (*resource.SequencePack, error) {
		return LoadSequencePack(l.path(name))
	})
}

// Len returns the number of loaded resources.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.palettes.Len() + l.bitmaps.Len() + l.tilesets.Len() +
		l.tilemaps.Len() + l.sprites.Len() + l.packs.Len()
}

// Close deletes every loaded resource. Objects handed out earlier become
// invalid references.
func (l *Library) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.palettes.Clear()
	l.bitmaps.Clear()
	l.tilesets.Clear()
	l.tilemaps.Clear()
	l.sprites.Clear()
	l.packs.Clear()
	l.handles = make(map[string]resource.Handle)
}
