// Package resource holds the graphic data containers the compositor reads:
// palettes, tilesets, tilemaps, spritesets, bitmaps and animation sequences.
//
// Resources are owned by whoever created them (usually an assets.Library).
// Render slots only point at them; every slot setter and every scanline
// re-checks Alive so a deleted resource is never sampled.
package resource

import "github.com/vovakirdan/scanline/internal/core"

// Kind identifies the type of a resource object.
type Kind int

const (
	KindPalette Kind = iota + 1
	KindTileset
	KindTilemap
	KindSpriteset
	KindBitmap
	KindSequence
	KindSequencePack
)

// String returns the resource type name.
func (k Kind) String() string {
	switch k {
	case KindPalette:
		return "Palette"
	case KindTileset:
		return "Tileset"
	case KindTilemap:
		return "Tilemap"
	case KindSpriteset:
		return "Spriteset"
	case KindBitmap:
		return "Bitmap"
	case KindSequence:
		return "Sequence"
	case KindSequencePack:
		return "SequencePack"
	default:
		return "Unknown"
	}
}

// RefCode returns the error code reported for an invalid reference of this kind.
func (k Kind) RefCode() core.ErrorCode {
	switch k {
	case KindPalette:
		return core.ErrRefPalette
	case KindTileset:
		return core.ErrRefTileset
	case KindTilemap:
		return core.ErrRefTilemap
	case KindSpriteset:
		return core.ErrRefSpriteset
	case KindBitmap:
		return core.ErrRefBitmap
	case KindSequence:
		return core.ErrRefSequence
	case KindSequencePack:
		return core.ErrRefSequencePack
	default:
		return core.ErrNullPointer
	}
}

// Object is implemented by every resource type.
// Kind must not dereference the receiver so it can be called on nil pointers.
type Object interface {
	Kind() Kind
	Alive() bool
	Delete()
}

// object is the lifetime header embedded in every resource.
type object struct {
	deleted bool
}

func (o *object) alive() bool {
	return o != nil && !o.deleted
}

func (o *object) markDeleted() {
	o.deleted = true
}

// Check verifies that obj is a live reference and returns the kind's
// reference error otherwise. A nil pointer inside the interface is invalid.
func Check(op string, obj Object) error {
	if obj == nil {
		return core.NewError(op, core.ErrNullPointer)
	}
	if !obj.Alive() {
		return core.NewError(op, obj.Kind().RefCode())
	}
	return nil
}
