package gen

import (
	"testing"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/resource"
)

func TestGradient(t *testing.T) {
	fn := Gradient(5, core.ColorBlack, core.ColorWhite)
	if got := fn(0); got != core.ColorBlack {
		t.Errorf("fn(0) = %v, expected black", got)
	}
	if got := fn(4); got != core.ColorWhite {
		t.Errorf("fn(4) = %v, expected white", got)
	}
	if got := fn(2); got.R < 120 || got.R > 135 {
		t.Errorf("fn(2) = %v, expected mid grey", got)
	}
}

func TestBagReleases(t *testing.T) {
	var bag Bag
	pal := Keep(&bag, mustPalette(t))
	ts, err := Tileset(pal, 2, 8, func(entry, x, y int) uint8 { return uint8(entry) })
	if err != nil {
		t.Fatalf("Tileset() error = %v", err)
	}
	Keep(&bag, ts)
	if bag.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", bag.Len())
	}
	bag.Release()
	if pal.Alive() || ts.Alive() {
		t.Error("Release() left resources alive")
	}
	if bag.Len() != 0 {
		t.Errorf("Len() after Release = %d, expected 0", bag.Len())
	}
}

func mustPalette(t *testing.T) *resource.Palette {
	t.Helper()
	pal, err := Palette(4, Gradient(4, core.ColorRed, core.ColorBlue))
	if err != nil {
		t.Fatalf("Palette() error = %v", err)
	}
	return pal
}

func TestSpriteset(t *testing.T) {
	pal := mustPalette(t)
	ss, sheet, err := Spriteset(pal, 3, 8, 4, func(frame, x, y int) uint8 { return uint8(frame + 1) })
	if err != nil {
		t.Fatalf("Spriteset() error = %v", err)
	}
	if sheet.Width() != 24 || sheet.Height() != 4 {
		t.Errorf("sheet = %dx%d, expected 24x4", sheet.Width(), sheet.Height())
	}
	if ss.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", ss.Len())
	}
	if got := ss.Pixel(2, 1, 1); got != 3 {
		t.Errorf("Pixel(2,1,1) = %d, expected 3", got)
	}
}

func TestTilemapAndChecker(t *testing.T) {
	pal := mustPalette(t)
	ts, _ := Tileset(pal, 2, 8, func(entry, x, y int) uint8 { return Checker(x, y, 4) })
	tm, err := Tilemap(ts, 2, 3, func(r, c int) resource.Tile { return resource.Tile{Index: uint16(c%2 + 1)} })
	if err != nil {
		t.Fatalf("Tilemap() error = %v", err)
	}
	if tm.At(1, 2).Index != 1 {
		t.Errorf("At(1,2) = %+v, expected index 1", tm.At(1, 2))
	}
	if ts.Pixel(1, 0, 0) != 1 || ts.Pixel(1, 4, 0) != 2 {
		t.Error("checker pattern not applied")
	}
}

func TestSinCos(t *testing.T) {
	if Sin(90, 10) != 10 || Cos(180, 10) != -10 || Sin(0, 5) != 0 {
		t.Errorf("Sin/Cos = %d %d %d", Sin(90, 10), Cos(180, 10), Sin(0, 5))
	}
}
