package assets

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/vovakirdan/scanline/internal/resource"
)

// LoadTilemap reads one tile layer of a Tiled TMX map. An empty layerName
// picks the first layer; otherwise names match case-insensitively. The
// tileset covering the layer's tiles is loaded and attached, and the map
// background color, when set, is stored on the tilemap. A tile id past the
// end of its tileset fails with ErrWrongFormat.
func LoadTilemap(path, layerName string) (*resource.Tilemap, error) {
	data, err := readFile("LoadTilemap", path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	doc, err := tiled.LoadReader(dir, bytes.NewReader(data))
	if err != nil {
		return nil, fileError("LoadTilemap", err)
	}

	layer := findLayer(doc.Layers, layerName)
	if layer == nil {
		return nil, formatError("LoadTilemap", fmt.Errorf("layer %q not found", layerName))
	}
	rows, cols := doc.Height, doc.Width
	if rows <= 0 || cols <= 0 {
		return nil, formatError("LoadTilemap", fmt.Errorf("layer %q: bad size", layer.Name))
	}
	if len(layer.Tiles) != rows*cols {
		return nil, formatError("LoadTilemap", fmt.Errorf("layer %q: expected %d tiles, got %d", layer.Name, rows*cols, len(layer.Tiles)))
	}

	owner, err := layerTileset(doc.Tilesets, layer.Tiles)
	if err != nil {
		return nil, err
	}
	var ts *resource.Tileset
	if owner != nil {
		if ts, err = loadMapTileset(owner, dir); err != nil {
			return nil, err
		}
	}

	tiles := make([]resource.Tile, len(layer.Tiles))
	for i, lt := range layer.Tiles {
		if lt == nil || lt.Nil {
			continue
		}
		index := uint64(lt.ID) + 1
		if ts == nil || index > uint64(ts.NumTiles()) {
			return nil, formatError("LoadTilemap", fmt.Errorf("layer %q: tile %d out of range", layer.Name, index))
		}
		var flags resource.Flags
		if lt.HorizontalFlip {
			flags |= resource.FlagFlipX
		}
		if lt.VerticalFlip {
			flags |= resource.FlagFlipY
		}
		if lt.DiagonalFlip {
			flags |= resource.FlagRotate
		}
		tiles[i] = resource.Tile{Index: uint16(index), Flags: flags}
	}
	tm, err := resource.NewTilemap(rows, cols, tiles, ts)
	if err != nil {
		return nil, err
	}
	if doc.BackgroundColor != nil {
		tm.SetBGColor(toColor(doc.BackgroundColor))
	}
	return tm, nil
}

func findLayer(layers []*tiled.Layer, name string) *tiled.Layer {
	for _, l := range layers {
		if name == "" || strings.EqualFold(l.Name, name) {
			return l
		}
	}
	return nil
}

// layerTileset returns the one tileset every used tile of the layer comes
// from. A layer with no tiles gets the map's first tileset, or nil.
func layerTileset(sets []*tiled.Tileset, tiles []*tiled.LayerTile) (*tiled.Tileset, error) {
	var owner *tiled.Tileset
	for _, lt := range tiles {
		if lt == nil || lt.Nil {
			continue
		}
		if lt.Tileset == nil {
			return nil, formatError("LoadTilemap", fmt.Errorf("tile %d has no tileset", lt.ID))
		}
		if owner == nil {
			owner = lt.Tileset
		} else if owner != lt.Tileset {
			return nil, formatError("LoadTilemap", fmt.Errorf("layer mixes tilesets"))
		}
	}
	if owner == nil && len(sets) > 0 {
		owner = sets[0]
	}
	return owner, nil
}

// loadMapTileset builds the layer's tileset. An external one also picks up
// the .sqx file next to its TSX.
func loadMapTileset(ts *tiled.Tileset, dir string) (*resource.Tileset, error) {
	if ts.Source == "" {
		return buildTileset(ts, "")
	}
	return buildTileset(ts, sqxSibling(filepath.Join(dir, ts.Source)))
}
