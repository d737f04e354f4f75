package resource

import (
	"github.com/vovakirdan/scanline/internal/core"
)

// SpriteData locates one named picture inside a spriteset sheet.
type SpriteData struct {
	Name string
	X, Y int
	W, H int
}

// SpriteInfo is the size of one picture.
type SpriteInfo struct {
	W, H int
}

// Spriteset is a sheet bitmap plus a table of named pictures.
type Spriteset struct {
	object
	bitmap  *Bitmap
	entries []SpriteData
	byName  map[string]int
}

// NewSpriteset creates a spriteset over bitmap. Every rectangle must lie
// inside the bitmap.
func NewSpriteset(bitmap *Bitmap, data []SpriteData) (*Spriteset, error) {
	if err := Check("NewSpriteset", bitmap); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, core.NewError("NewSpriteset", core.ErrWrongSize)
	}
	bounds := core.NewRect(0, 0, bitmap.Width(), bitmap.Height())
	ss := &Spriteset{
		bitmap:  bitmap,
		entries: make([]SpriteData, len(data)),
		byName:  make(map[string]int, len(data)),
	}
	for i, d := range data {
		r := core.NewRect(d.X, d.Y, d.W, d.H)
		if r.Empty() || r.Intersect(bounds) != r {
			return nil, core.NewError("NewSpriteset", core.ErrWrongSize)
		}
		ss.entries[i] = d
		if d.Name != "" {
			if _, dup := ss.byName[d.Name]; !dup {
				ss.byName[d.Name] = i
			}
		}
	}
	return ss, nil
}

// Kind implements Object.
func (ss *Spriteset) Kind() Kind { return KindSpriteset }

// Alive reports whether the spriteset has not been deleted.
func (ss *Spriteset) Alive() bool { return ss != nil && ss.alive() && ss.bitmap.Alive() }

// Delete releases the spriteset and its sheet bitmap.
func (ss *Spriteset) Delete() {
	if ss == nil {
		return
	}
	ss.markDeleted()
	ss.bitmap.Delete()
}

// Len returns the number of pictures.
func (ss *Spriteset) Len() int { return len(ss.entries) }

// Bitmap returns the sheet.
func (ss *Spriteset) Bitmap() *Bitmap { return ss.bitmap }

// Palette returns the sheet palette.
func (ss *Spriteset) Palette() *Palette { return ss.bitmap.Palette() }

// Info returns the size of picture entry.
func (ss *Spriteset) Info(entry int) (SpriteInfo, error) {
	if err := Check("GetSpriteInfo", ss); err != nil {
		return SpriteInfo{}, err
	}
	if entry < 0 || entry >= len(ss.entries) {
		return SpriteInfo{}, core.NewError("GetSpriteInfo", core.ErrIdxPicture)
	}
	return SpriteInfo{W: ss.entries[entry].W, H: ss.entries[entry].H}, nil
}

// Data returns the rectangle of picture entry. No bounds checks.
func (ss *Spriteset) Data(entry int) SpriteData {
	return ss.entries[entry]
}

// Find returns the index of the named picture, or -1.
func (ss *Spriteset) Find(name string) int {
	if i, ok := ss.byName[name]; ok {
		return i
	}
	return -1
}

// Pixel returns the color index at (x, y) inside picture entry.
func (ss *Spriteset) Pixel(entry, x, y int) uint8 {
	d := &ss.entries[entry]
	return ss.bitmap.pix[(d.Y+y)*ss.bitmap.pitch+d.X+x]
}

// Clone copies the sheet bitmap and the picture table.
func (ss *Spriteset) Clone() (*Spriteset, error) {
	if err := Check("CloneSpriteset", ss); err != nil {
		return nil, err
	}
	bm, err := ss.bitmap.Clone()
	if err != nil {
		return nil, err
	}
	return NewSpriteset(bm, ss.entries)
}
