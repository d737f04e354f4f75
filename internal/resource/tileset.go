package resource

import (
	"github.com/vovakirdan/scanline/internal/core"
)

// MaxTileSize is the largest tile width or height.
const MaxTileSize = 256

// TileAttributes are the per-entry properties of a tileset.
type TileAttributes struct {
	Type     uint8 // Game-defined tile type (solid, ladder...)
	Priority bool  // Drawn in front of sprites regardless of the map flag
}

// Tileset is a collection of equally sized 8-bit tiles.
//
// Entries are numbered 1..NumTiles. Entry 0 is the reserved empty tile, which
// keeps entry numbers equal to the tile indices stored in tilemaps.
type Tileset struct {
	object
	numTiles   int
	width      int
	height     int
	pixels     []uint8
	attributes []TileAttributes
	remap      []uint16
	palette    *Palette
	sp         *SequencePack
}

// NewTileset creates a tileset with numTiles blank entries of width x height.
// Tile sizes must be multiples of 8 up to MaxTileSize. attrs, when given,
// holds one element per entry starting at entry 1.
func NewTileset(numTiles, width, height int, palette *Palette, sp *SequencePack, attrs []TileAttributes) (*Tileset, error) {
	if width <= 0 || height <= 0 || width%8 != 0 || height%8 != 0 ||
		width > MaxTileSize || height > MaxTileSize {
		return nil, core.NewError("NewTileset", core.ErrWrongSize)
	}
	if numTiles <= 0 || numTiles > 0xFFFF-1 {
		return nil, core.NewError("NewTileset", core.ErrWrongSize)
	}
	if attrs != nil && len(attrs) != numTiles {
		return nil, core.NewError("NewTileset", core.ErrWrongSize)
	}
	if palette != nil && !palette.Alive() {
		return nil, core.NewError("NewTileset", core.ErrRefPalette)
	}
	if sp != nil && !sp.Alive() {
		return nil, core.NewError("NewTileset", core.ErrRefSequencePack)
	}

	entries := numTiles + 1
	ts := &Tileset{
		numTiles:   numTiles,
		width:      width,
		height:     height,
		pixels:     make([]uint8, entries*width*height),
		attributes: make([]TileAttributes, entries),
		remap:      make([]uint16, entries),
		palette:    palette,
		sp:         sp,
	}
	copy(ts.attributes[1:], attrs)
	ts.ResetRemap()
	return ts, nil
}

// Kind implements Object.
func (ts *Tileset) Kind() Kind { return KindTileset }

// Alive reports whether the tileset has not been deleted.
func (ts *Tileset) Alive() bool { return ts != nil && ts.alive() }

// Delete releases the tileset. Palette and sequence pack are left alone.
func (ts *Tileset) Delete() {
	if ts == nil {
		return
	}
	ts.markDeleted()
	ts.pixels = nil
}

// NumTiles returns the number of entries, not counting the empty entry 0.
func (ts *Tileset) NumTiles() int { return ts.numTiles }

// TileWidth returns the tile width in pixels.
func (ts *Tileset) TileWidth() int { return ts.width }

// TileHeight returns the tile height in pixels.
func (ts *Tileset) TileHeight() int { return ts.height }

// Palette returns the default palette.
func (ts *Tileset) Palette() *Palette { return ts.palette }

// SequencePack returns the attached tile animations, possibly nil.
func (ts *Tileset) SequencePack() *SequencePack { return ts.sp }

// SetPalette replaces the default palette.
func (ts *Tileset) SetPalette(p *Palette) error {
	if err := Check("SetTilesetPalette", ts); err != nil {
		return err
	}
	if err := Check("SetTilesetPalette", p); err != nil {
		return err
	}
	ts.palette = p
	return nil
}

// SetSequencePack attaches tile animations that run while the tileset is shown.
func (ts *Tileset) SetSequencePack(sp *SequencePack) error {
	if err := Check("SetTilesetSequencePack", ts); err != nil {
		return err
	}
	if sp != nil && !sp.Alive() {
		return core.NewError("SetTilesetSequencePack", core.ErrRefSequencePack)
	}
	ts.sp = sp
	return nil
}

// SetPixels copies one tile of pixels from src, reading rows pitch bytes apart.
func (ts *Tileset) SetPixels(entry int, src []uint8, pitch int) error {
	if err := Check("SetTilesetPixels", ts); err != nil {
		return err
	}
	if entry < 1 || entry > ts.numTiles {
		return core.NewError("SetTilesetPixels", core.ErrIdxPicture)
	}
	if pitch < ts.width || len(src) < pitch*(ts.height-1)+ts.width {
		return core.NewError("SetTilesetPixels", core.ErrWrongSize)
	}
	base := entry * ts.width * ts.height
	for y := 0; y < ts.height; y++ {
		copy(ts.pixels[base+y*ts.width:base+(y+1)*ts.width], src[y*pitch:y*pitch+ts.width])
	}
	return nil
}

// Pixel returns the color index of entry at (x, y) inside the tile.
// No bounds checks: the compositor only passes coordinates inside the tile.
func (ts *Tileset) Pixel(entry, x, y int) uint8 {
	return ts.pixels[(entry*ts.height+y)*ts.width+x]
}

// Attributes returns the properties of entry.
func (ts *Tileset) Attributes(entry int) (TileAttributes, error) {
	if err := Check("GetTileAttributes", ts); err != nil {
		return TileAttributes{}, err
	}
	if entry < 0 || entry > ts.numTiles {
		return TileAttributes{}, core.NewError("GetTileAttributes", core.ErrIdxPicture)
	}
	return ts.attributes[entry], nil
}

// AttributesAt returns the properties of entry without checks. Hot-path accessor.
func (ts *Tileset) AttributesAt(entry int) TileAttributes {
	return ts.attributes[entry]
}

// Remap returns the entry that is actually drawn when entry is referenced.
func (ts *Tileset) Remap(entry int) int {
	if entry < 0 || entry >= len(ts.remap) {
		return 0
	}
	return int(ts.remap[entry])
}

// SetRemap makes target draw as source. Tileset animations use this.
func (ts *Tileset) SetRemap(target, source int) error {
	if err := Check("SetTilesetRemap", ts); err != nil {
		return err
	}
	if target < 1 || target > ts.numTiles || source < 0 || source > ts.numTiles {
		return core.NewError("SetTilesetRemap", core.ErrIdxPicture)
	}
	ts.remap[target] = uint16(source)
	return nil
}

// ResetRemap makes every entry draw as itself.
func (ts *Tileset) ResetRemap() {
	for i := range ts.remap {
		ts.remap[i] = uint16(i)
	}
}

// Clone copies the pixels and attributes. The palette is cloned too so the
// copy can be recolored independently; the sequence pack is shared.
func (ts *Tileset) Clone() (*Tileset, error) {
	if err := Check("CloneTileset", ts); err != nil {
		return nil, err
	}
	clone := &Tileset{
		numTiles:   ts.numTiles,
		width:      ts.width,
		height:     ts.height,
		pixels:     append([]uint8(nil), ts.pixels...),
		attributes: append([]TileAttributes(nil), ts.attributes...),
		remap:      append([]uint16(nil), ts.remap...),
		sp:         ts.sp,
	}
	if ts.palette.Alive() {
		pal, err := ts.palette.Clone()
		if err != nil {
			return nil, err
		}
		clone.palette = pal
	}
	return clone, nil
}
