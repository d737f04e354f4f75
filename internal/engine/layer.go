package engine

import (
	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/resource"
)

// LayerType tells what a layer shows.
type LayerType int

const (
	LayerTypeNone   LayerType = iota // Nothing bound
	LayerTypeTiles                   // Tilemap + tileset
	LayerTypeBitmap                  // Full bitmap
)

type layerMode int

const (
	modeNormal layerMode = iota
	modeScaling
	modeAffine
	modePixelMap
)

// PixelMap is the source displacement of one viewport pixel.
type PixelMap struct {
	DX, DY int
}

// TileInfo describes the tile under a layer-space pixel.
type TileInfo struct {
	Index   int            // Tileset entry, 0 for an empty cell
	Flags   resource.Flags // Flip/rotate/priority flags of the cell
	Row     int            // Tilemap row
	Col     int            // Tilemap column
	XOffset int            // Horizontal offset inside the tile
	YOffset int            // Vertical offset inside the tile
	Color   uint8          // Color index of the pixel
	Type    uint8          // Tile type attribute
	Empty   bool
}

type layer struct {
	tileset *resource.Tileset
	tilemap *resource.Tilemap
	bitmap  *resource.Bitmap
	palette *resource.Palette // override, nil uses the tileset or bitmap palette
	enabled bool
	x, y    int

	mode         layerMode
	scaleX       float64
	scaleY       float64
	stepX, stepY int // 16.16 source step per screen pixel in scaling mode
	affine       Affine
	matrix       affineRows
	matrixValid  bool
	matrixX      int
	matrixY      int
	pixelMap     []PixelMap

	blend   Blend
	factor  uint8
	columns []int
	clip    core.Rect
	mosaicW int
	mosaicH int

	priority bool
	parent   int
}

func (l *layer) reset(width, height int) {
	*l = layer{
		scaleX: 1,
		scaleY: 1,
		stepX:  1 << 16,
		stepY:  1 << 16,
		affine: IdentityAffine,
		clip:   core.NewRect(0, 0, width, height),
		parent: -1,
	}
}

func (l *layer) kind() LayerType {
	switch {
	case l.bitmap != nil:
		return LayerTypeBitmap
	case l.tilemap != nil:
		return LayerTypeTiles
	}
	return LayerTypeNone
}

// ready reports whether every resource the layer draws from is alive.
func (l *layer) ready() bool {
	switch l.kind() {
	case LayerTypeTiles:
		return l.tilemap.Alive() && l.tileset.Alive()
	case LayerTypeBitmap:
		return l.bitmap.Alive()
	}
	return false
}

// activePalette resolves the override, then the tileset or bitmap palette.
func (l *layer) activePalette() *resource.Palette {
	if l.palette.Alive() {
		return l.palette
	}
	if l.bitmap != nil {
		return l.bitmap.Palette()
	}
	if l.tileset != nil {
		return l.tileset.Palette()
	}
	return nil
}

// pixelSize returns the layer size in pixels.
func (l *layer) pixelSize() (int, int) {
	switch l.kind() {
	case LayerTypeTiles:
		return l.tilemap.Cols() * l.tileset.TileWidth(), l.tilemap.Rows() * l.tileset.TileHeight()
	case LayerTypeBitmap:
		return l.bitmap.Width(), l.bitmap.Height()
	}
	return 0, 0
}

// SetLayer binds a tilemap to layer n and enables it. A nil tileset uses the
// tileset the tilemap was built with.
func (e *Engine) SetLayer(n int, ts *resource.Tileset, tm *resource.Tilemap) error {
	l, err := e.layerAt("SetLayer", n)
	if err != nil {
		return err
	}
	if err := resource.Check("SetLayer", tm); err != nil {
		return e.result(err)
	}
	if ts == nil {
		ts = tm.Tileset()
	}
	if err := resource.Check("SetLayer", ts); err != nil {
		return e.result(err)
	}
	l.tileset = ts
	l.tilemap = tm
	l.bitmap = nil
	l.enabled = true
	l.matrixValid = false
	if sp := ts.SequencePack(); sp.Alive() {
		e.watchTileset(ts)
	}
	return e.result(nil)
}

// SetLayerTilemap binds tm with its own tileset.
func (e *Engine) SetLayerTilemap(n int, tm *resource.Tilemap) error {
	if tm == nil {
		return e.fail("SetLayerTilemap", core.ErrRefTilemap)
	}
	return e.SetLayer(n, nil, tm)
}

// SetLayerBitmap makes layer n show bm and enables it.
func (e *Engine) SetLayerBitmap(n int, bm *resource.Bitmap) error {
	l, err := e.layerAt("SetLayerBitmap", n)
	if err != nil {
		return err
	}
	if err := resource.Check("SetLayerBitmap", bm); err != nil {
		return e.result(err)
	}
	l.bitmap = bm
	l.tileset = nil
	l.tilemap = nil
	l.columns = nil
	l.enabled = true
	l.matrixValid = false
	return e.result(nil)
}

// SetLayerPalette overrides the palette of layer n. nil restores the default.
func (e *Engine) SetLayerPalette(n int, p *resource.Palette) error {
	l, err := e.layerAt("SetLayerPalette", n)
	if err != nil {
		return err
	}
	if p != nil {
		if err := resource.Check("SetLayerPalette", p); err != nil {
			return e.result(err)
		}
	}
	l.palette = p
	return e.result(nil)
}

// SetLayerPosition scrolls layer n so (x, y) of the layer is at the top-left
// of the screen. Positions wrap around the layer size.
func (e *Engine) SetLayerPosition(n, x, y int) error {
	l, err := e.layerAt("SetLayerPosition", n)
	if err != nil {
		return err
	}
	l.x, l.y = x, y
	return e.result(nil)
}

// SetLayerScaling switches layer n to scaling mode.
func (e *Engine) SetLayerScaling(n int, sx, sy float64) error {
	l, err := e.layerAt("SetLayerScaling", n)
	if err != nil {
		return err
	}
	if sx <= 0 || sy <= 0 {
		return e.fail("SetLayerScaling", core.ErrWrongSize)
	}
	l.mode = modeScaling
	l.scaleX, l.scaleY = sx, sy
	l.stepX = int(float64(1<<16) / sx)
	l.stepY = int(float64(1<<16) / sy)
	return e.result(nil)
}

// SetLayerTransform switches layer n to affine mode: rotation by angle
// degrees and scaling by (sx, sy) around the screen point (dx, dy).
func (e *Engine) SetLayerTransform(n int, angle, dx, dy, sx, sy float64) error {
	return e.SetLayerAffineTransform(n, Affine{Angle: angle, DX: dx, DY: dy, SX: sx, SY: sy})
}

// SetLayerAffineTransform is SetLayerTransform taking an Affine.
func (e *Engine) SetLayerAffineTransform(n int, a Affine) error {
	l, err := e.layerAt("SetLayerTransform", n)
	if err != nil {
		return err
	}
	if a.SX == 0 || a.SY == 0 {
		return e.fail("SetLayerTransform", core.ErrWrongSize)
	}
	l.mode = modeAffine
	l.affine = a
	l.matrixValid = false
	return e.result(nil)
}

// SetLayerPixelMapping switches layer n to pixel mapping mode. table holds
// Width*Height entries and is read in place, so the caller may keep
// updating it. A nil table returns the layer to normal mode.
func (e *Engine) SetLayerPixelMapping(n int, table []PixelMap) error {
	l, err := e.layerAt("SetLayerPixelMapping", n)
	if err != nil {
		return err
	}
	if table == nil {
		l.mode = modeNormal
		l.pixelMap = nil
		return e.result(nil)
	}
	if len(table) < e.width*e.height {
		return e.fail("SetLayerPixelMapping", core.ErrWrongSize)
	}
	l.mode = modePixelMap
	l.pixelMap = table
	return e.result(nil)
}

// ResetLayerMode returns layer n to normal mode.
func (e *Engine) ResetLayerMode(n int) error {
	l, err := e.layerAt("ResetLayerMode", n)
	if err != nil {
		return err
	}
	l.mode = modeNormal
	l.scaleX, l.scaleY = 1, 1
	l.stepX, l.stepY = 1<<16, 1<<16
	l.affine = IdentityAffine
	l.matrixValid = false
	l.pixelMap = nil
	return e.result(nil)
}

// SetLayerBlendMode sets how layer n is combined with what is behind it.
// factor is only used by BlendMix.
func (e *Engine) SetLayerBlendMode(n int, mode Blend, factor uint8) error {
	l, err := e.layerAt("SetLayerBlendMode", n)
	if err != nil {
		return err
	}
	if !mode.valid() {
		return e.fail("SetLayerBlendMode", core.ErrUnsupported)
	}
	l.blend = mode
	l.factor = factor
	return e.result(nil)
}

// SetLayerColumnOffset shifts each visible tile column of layer n down by
// offsets[col] pixels. Column 0 is the leftmost, possibly partial, column.
// The slice is read in place; nil disables the effect.
func (e *Engine) SetLayerColumnOffset(n int, offsets []int) error {
	l, err := e.layerAt("SetLayerColumnOffset", n)
	if err != nil {
		return err
	}
	if offsets != nil && l.kind() == LayerTypeBitmap {
		return e.fail("SetLayerColumnOffset", core.ErrUnsupported)
	}
	l.columns = offsets
	return e.result(nil)
}

// SetLayerClip restricts layer n to the half-open screen rectangle
// [x1,x2) x [y1,y2), clamped to the screen.
func (e *Engine) SetLayerClip(n, x1, y1, x2, y2 int) error {
	l, err := e.layerAt("SetLayerClip", n)
	if err != nil {
		return err
	}
	if x2 <= x1 || y2 <= y1 {
		return e.fail("SetLayerClip", core.ErrWrongSize)
	}
	screen := core.NewRect(0, 0, e.width, e.height)
	l.clip = core.RectFromEdges(x1, y1, x2, y2).Intersect(screen)
	return e.result(nil)
}

// DisableLayerClip lets layer n cover the whole screen again.
func (e *Engine) DisableLayerClip(n int) error {
	l, err := e.layerAt("DisableLayerClip", n)
	if err != nil {
		return err
	}
	l.clip = core.NewRect(0, 0, e.width, e.height)
	return e.result(nil)
}

// SetLayerMosaic pixelates layer n into blocks of width x height pixels.
func (e *Engine) SetLayerMosaic(n, width, height int) error {
	l, err := e.layerAt("SetLayerMosaic", n)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return e.fail("SetLayerMosaic", core.ErrWrongSize)
	}
	l.mosaicW, l.mosaicH = width, height
	return e.result(nil)
}

// DisableLayerMosaic turns the mosaic effect off.
func (e *Engine) DisableLayerMosaic(n int) error {
	l, err := e.layerAt("DisableLayerMosaic", n)
	if err != nil {
		return err
	}
	l.mosaicW, l.mosaicH = 0, 0
	return e.result(nil)
}

// EnableLayer shows layer n again after DisableLayer.
func (e *Engine) EnableLayer(n int) error {
	l, err := e.layerAt("EnableLayer", n)
	if err != nil {
		return err
	}
	if l.kind() == LayerTypeNone {
		return e.fail("EnableLayer", core.ErrRefTilemap)
	}
	l.enabled = true
	return e.result(nil)
}

// DisableLayer hides layer n, keeping its configuration.
func (e *Engine) DisableLayer(n int) error {
	l, err := e.layerAt("DisableLayer", n)
	if err != nil {
		return err
	}
	l.enabled = false
	return e.result(nil)
}

// SetLayerPriority draws the whole of layer n in front of regular sprites.
func (e *Engine) SetLayerPriority(n int, enable bool) error {
	l, err := e.layerAt("SetLayerPriority", n)
	if err != nil {
		return err
	}
	l.priority = enable
	return e.result(nil)
}

// SetLayerParent makes layer n follow the position of layer parent.
func (e *Engine) SetLayerParent(n, parent int) error {
	l, err := e.layerAt("SetLayerParent", n)
	if err != nil {
		return err
	}
	if parent < 0 || parent >= len(e.layers) || parent == n {
		return e.fail("SetLayerParent", core.ErrIdxLayer)
	}
	l.parent = parent
	return e.result(nil)
}

// DisableLayerParent detaches layer n from its parent.
func (e *Engine) DisableLayerParent(n int) error {
	l, err := e.layerAt("DisableLayerParent", n)
	if err != nil {
		return err
	}
	l.parent = -1
	return e.result(nil)
}

// LayerTile returns the tile of layer n under layer-space pixel (x, y).
// Coordinates wrap like scrolling does.
func (e *Engine) LayerTile(n, x, y int) (TileInfo, error) {
	l, err := e.layerAt("GetLayerTile", n)
	if err != nil {
		return TileInfo{}, err
	}
	if l.kind() != LayerTypeTiles {
		return TileInfo{}, e.fail("GetLayerTile", core.ErrRefTilemap)
	}
	if !l.ready() {
		return TileInfo{}, e.fail("GetLayerTile", core.ErrRefTilemap)
	}
	w, h := l.pixelSize()
	x, y = core.Wrap(x, w), core.Wrap(y, h)
	tw, th := l.tileset.TileWidth(), l.tileset.TileHeight()
	info := TileInfo{
		Row:     y / th,
		Col:     x / tw,
		XOffset: x % tw,
		YOffset: y % th,
	}
	tile := l.tilemap.At(info.Row, info.Col)
	info.Index = int(tile.Index)
	info.Flags = tile.Flags
	if tile.Empty() || info.Index > l.tileset.NumTiles() {
		info.Empty = true
		return info, e.result(nil)
	}
	entry := l.tileset.Remap(info.Index)
	px, py := tilePixel(tile.Flags, info.XOffset, info.YOffset, tw, th)
	info.Color = l.tileset.Pixel(entry, px, py)
	info.Type = l.tileset.AttributesAt(entry).Type
	return info, e.result(nil)
}

// LayerKind returns what layer n shows.
func (e *Engine) LayerKind(n int) (LayerType, error) {
	l, err := e.layerAt("GetLayerType", n)
	if err != nil {
		return LayerTypeNone, err
	}
	return l.kind(), e.result(nil)
}

// LayerSize returns the size of layer n in pixels.
func (e *Engine) LayerSize(n int) (width, height int, err error) {
	l, err := e.layerAt("GetLayerSize", n)
	if err != nil {
		return 0, 0, err
	}
	if l.kind() == LayerTypeNone {
		return 0, 0, e.fail("GetLayerSize", core.ErrRefTilemap)
	}
	width, height = l.pixelSize()
	return width, height, e.result(nil)
}

// LayerPosition returns the scroll position of layer n.
func (e *Engine) LayerPosition(n int) (x, y int, err error) {
	l, err := e.layerAt("GetLayerPosition", n)
	if err != nil {
		return 0, 0, err
	}
	return l.x, l.y, e.result(nil)
}

// LayerTilemap returns the tilemap bound to layer n, possibly nil.
func (e *Engine) LayerTilemap(n int) (*resource.Tilemap, error) {
	l, err := e.layerAt("GetLayerTilemap", n)
	if err != nil {
		return nil, err
	}
	return l.tilemap, e.result(nil)
}

// LayerTileset returns the tileset bound to layer n, possibly nil.
func (e *Engine) LayerTileset(n int) (*resource.Tileset, error) {
	l, err := e.layerAt("GetLayerTileset", n)
	if err != nil {
		return nil, err
	}
	return l.tileset, e.result(nil)
}

// LayerBitmap returns the bitmap bound to layer n, possibly nil.
func (e *Engine) LayerBitmap(n int) (*resource.Bitmap, error) {
	l, err := e.layerAt("GetLayerBitmap", n)
	if err != nil {
		return nil, err
	}
	return l.bitmap, e.result(nil)
}

// LayerPalette returns the palette layer n is drawn with.
func (e *Engine) LayerPalette(n int) (*resource.Palette, error) {
	l, err := e.layerAt("GetLayerPalette", n)
	if err != nil {
		return nil, err
	}
	return l.activePalette(), e.result(nil)
}

// LayerEnabled reports whether layer n is shown.
func (e *Engine) LayerEnabled(n int) (bool, error) {
	l, err := e.layerAt("GetLayerEnabled", n)
	if err != nil {
		return false, err
	}
	return l.enabled, e.result(nil)
}
