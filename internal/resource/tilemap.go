package resource

import (
	"github.com/vovakirdan/scanline/internal/core"
)

// Flags are the per-tile and per-sprite drawing flags.
type Flags uint16

const (
	FlagFlipX    Flags = 1 << 15 // Horizontal flip
	FlagFlipY    Flags = 1 << 14 // Vertical flip
	FlagRotate   Flags = 1 << 13 // Transpose (combine with flips for 90 degree turns)
	FlagPriority Flags = 1 << 12 // Drawn in front of regular sprites
)

// Tile is one tilemap cell. Index 0 marks an empty cell.
type Tile struct {
	Index uint16
	Flags Flags
}

// Empty reports whether the cell draws nothing.
func (t Tile) Empty() bool {
	return t.Index == 0
}

// Tilemap is a rows x cols grid of tiles referencing a tileset.
type Tilemap struct {
	object
	rows    int
	cols    int
	tiles   []Tile
	tileset *Tileset
	bgColor core.Color
	hasBG   bool
}

// NewTilemap creates a tilemap. tiles may be nil for an empty map; otherwise
// it holds rows*cols cells in row-major order. When tileset is given every
// index must fit in it.
func NewTilemap(rows, cols int, tiles []Tile, tileset *Tileset) (*Tilemap, error) {
	if rows <= 0 || cols <= 0 {
		return nil, core.NewError("NewTilemap", core.ErrWrongSize)
	}
	if tiles != nil && len(tiles) != rows*cols {
		return nil, core.NewError("NewTilemap", core.ErrWrongSize)
	}
	if tileset != nil && !tileset.Alive() {
		return nil, core.NewError("NewTilemap", core.ErrRefTileset)
	}
	tm := &Tilemap{
		rows:    rows,
		cols:    cols,
		tiles:   make([]Tile, rows*cols),
		tileset: tileset,
	}
	if tiles != nil {
		for _, t := range tiles {
			if !tm.fits(t) {
				return nil, core.NewError("NewTilemap", core.ErrIdxPicture)
			}
		}
		copy(tm.tiles, tiles)
	}
	return tm, nil
}

// Kind implements Object.
func (tm *Tilemap) Kind() Kind { return KindTilemap }

// Alive reports whether the tilemap has not been deleted.
func (tm *Tilemap) Alive() bool { return tm != nil && tm.alive() }

// Delete releases the tilemap. The tileset is left alone.
func (tm *Tilemap) Delete() {
	if tm == nil {
		return
	}
	tm.markDeleted()
	tm.tiles = nil
}

func (tm *Tilemap) fits(t Tile) bool {
	return tm.tileset == nil || int(t.Index) <= tm.tileset.NumTiles()
}

// Rows returns the number of rows.
func (tm *Tilemap) Rows() int { return tm.rows }

// Cols returns the number of columns.
func (tm *Tilemap) Cols() int { return tm.cols }

// Tileset returns the default tileset, possibly nil.
func (tm *Tilemap) Tileset() *Tileset { return tm.tileset }

// SetBGColor sets the default background color of the map.
func (tm *Tilemap) SetBGColor(c core.Color) {
	tm.bgColor = c
	tm.hasBG = true
}

// BGColor returns the default background color and whether one is set.
func (tm *Tilemap) BGColor() (core.Color, bool) {
	return tm.bgColor, tm.hasBG
}

// Tile returns the cell at (row, col).
func (tm *Tilemap) Tile(row, col int) (Tile, error) {
	if err := Check("GetTilemapTile", tm); err != nil {
		return Tile{}, err
	}
	if row < 0 || row >= tm.rows || col < 0 || col >= tm.cols {
		return Tile{}, core.NewError("GetTilemapTile", core.ErrIdxPicture)
	}
	return tm.tiles[row*tm.cols+col], nil
}

// At returns the cell at (row, col) without checks. Hot-path accessor.
func (tm *Tilemap) At(row, col int) Tile {
	return tm.tiles[row*tm.cols+col]
}

// SetTile writes the cell at (row, col).
func (tm *Tilemap) SetTile(row, col int, t Tile) error {
	if err := Check("SetTilemapTile", tm); err != nil {
		return err
	}
	if row < 0 || row >= tm.rows || col < 0 || col >= tm.cols || !tm.fits(t) {
		return core.NewError("SetTilemapTile", core.ErrIdxPicture)
	}
	tm.tiles[row*tm.cols+col] = t
	return nil
}

// Clone returns an independent copy sharing the tileset reference.
func (tm *Tilemap) Clone() (*Tilemap, error) {
	if err := Check("CloneTilemap", tm); err != nil {
		return nil, err
	}
	clone := *tm
	clone.object = object{}
	clone.tiles = append([]Tile(nil), tm.tiles...)
	return &clone, nil
}

// CopyTiles copies a rows x cols block from src at (srcRow, srcCol) into dst
// at (dstRow, dstCol). The block must fit in both maps.
func CopyTiles(src *Tilemap, srcRow, srcCol, rows, cols int, dst *Tilemap, dstRow, dstCol int) error {
	if err := Check("CopyTiles", src); err != nil {
		return err
	}
	if err := Check("CopyTiles", dst); err != nil {
		return err
	}
	if rows <= 0 || cols <= 0 ||
		srcRow < 0 || srcCol < 0 || srcRow+rows > src.rows || srcCol+cols > src.cols ||
		dstRow < 0 || dstCol < 0 || dstRow+rows > dst.rows || dstCol+cols > dst.cols {
		return core.NewError("CopyTiles", core.ErrIdxPicture)
	}

	// Overlapping copies within the same map go through a temporary block
	block := make([]Tile, rows*cols)
	for r := 0; r < rows; r++ {
		copy(block[r*cols:(r+1)*cols], src.tiles[(srcRow+r)*src.cols+srcCol:])
	}
	for _, t := range block {
		if !dst.fits(t) {
			return core.NewError("CopyTiles", core.ErrIdxPicture)
		}
	}
	for r := 0; r < rows; r++ {
		copy(dst.tiles[(dstRow+r)*dst.cols+dstCol:(dstRow+r)*dst.cols+dstCol+cols], block[r*cols:(r+1)*cols])
	}
	return nil
}
