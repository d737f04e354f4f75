package assets

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/vovakirdan/scanline/internal/resource"
)

// msToFrames converts Tiled millisecond durations to 60 Hz frames.
func msToFrames(ms int) int {
	return ms * 60 / 1000
}

// LoadTileset reads a Tiled TSX tileset built from a single image. Tiles are
// numbered from 1 in reading order. Per-tile "type" and "priority"
// properties become tile attributes, <animation> elements become sequences
// targeting their tile, and a sibling file with the .sqx extension, when
// present, adds its sequences to the same pack.
func LoadTileset(path string) (*resource.Tileset, error) {
	data, err := readFile("LoadTileset", path)
	if err != nil {
		return nil, err
	}
	doc, err := tiled.LoadTilesetFromReader(filepath.Dir(path), bytes.NewReader(data))
	if err != nil {
		return nil, formatError("LoadTileset", err)
	}
	return buildTileset(doc, sqxSibling(path))
}

func sqxSibling(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".sqx"
}

func buildTileset(doc *tiled.Tileset, sqxPath string) (*resource.Tileset, error) {
	if doc.Image == nil || doc.Image.Source == "" {
		return nil, formatError("LoadTileset", fmt.Errorf("tileset %q has no image", doc.Name))
	}
	tw, th := int(doc.TileWidth), int(doc.TileHeight)
	if tw <= 0 || th <= 0 {
		return nil, formatError("LoadTileset", fmt.Errorf("tileset %q: bad tile size", doc.Name))
	}
	bm, err := LoadBitmap(doc.GetFileFullPath(doc.Image.Source))
	if err != nil {
		return nil, err
	}

	margin, spacing := int(doc.Margin), int(doc.Spacing)
	dx := tw + spacing
	dy := th + spacing
	htiles := (bm.Width() - margin*2 + spacing) / dx
	vtiles := (bm.Height() - margin*2 + spacing) / dy
	count := htiles * vtiles
	if count <= 0 {
		return nil, formatError("LoadTileset", fmt.Errorf("image smaller than one tile"))
	}

	attrs := make([]resource.TileAttributes, count)
	for _, t := range doc.Tiles {
		if int(t.ID) >= count {
			continue
		}
		attrs[t.ID] = tileAttributes(t)
	}

	sp, err := tileSequences(doc.Tiles, sqxPath)
	if err != nil {
		return nil, err
	}

	pal, err := bm.Palette().Clone()
	if err != nil {
		return nil, err
	}
	ts, err := resource.NewTileset(count, tw, th, pal, sp, attrs)
	if err != nil {
		return nil, err
	}
	entry := 1
	for y := 0; y < vtiles; y++ {
		for x := 0; x < htiles; x++ {
			ox := margin + x*dx
			oy := margin + y*dy
			src := bm.Pix()[oy*bm.Pitch()+ox:]
			if err := ts.SetPixels(entry, src, bm.Pitch()); err != nil {
				return nil, err
			}
			entry++
		}
	}
	return ts, nil
}

func tileAttributes(t *tiled.TilesetTile) resource.TileAttributes {
	var a resource.TileAttributes
	if n, err := strconv.Atoi(t.Type); err == nil {
		a.Type = uint8(n)
	}
	for _, p := range t.Properties {
		switch strings.ToLower(p.Name) {
		case "type":
			if n, err := strconv.Atoi(p.Value); err == nil {
				a.Type = uint8(n)
			}
		case "priority":
			a.Priority = strings.EqualFold(p.Value, "true")
		}
	}
	return a
}

// tileSequences builds the tileset's sequence pack, or nil when the tileset
// has no animations.
func tileSequences(tiles []*tiled.TilesetTile, sqxPath string) (*resource.SequencePack, error) {
	var sp *resource.SequencePack
	if sqxPath != "" && exists(sqxPath) {
		var err error
		if sp, err = LoadSequencePack(sqxPath); err != nil {
			return nil, err
		}
	}
	for _, t := range tiles {
		if len(t.Animation) == 0 {
			continue
		}
		frames := make([]resource.SequenceFrame, len(t.Animation))
		for i, f := range t.Animation {
			frames[i] = resource.SequenceFrame{Index: int(f.TileID) + 1, Delay: msToFrames(int(f.Duration))}
		}
		seq, err := resource.NewSequence(strconv.Itoa(int(t.ID)), int(t.ID)+1, frames)
		if err != nil {
			return nil, formatError("LoadTileset", err)
		}
		if sp == nil {
			sp = resource.NewSequencePack()
		}
		if err := sp.Add(seq); err != nil {
			return nil, err
		}
	}
	return sp, nil
}
