// Package gen builds the procedural resources the demos run on, so that no
// asset files are needed.
package gen

import (
	"math"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/resource"
)

// Bag owns resources created for a demo and deletes them together.
type Bag struct {
	objs []resource.Object
}

// Keep adds obj to the bag and returns it.
func Keep[T resource.Object](b *Bag, obj T) T {
	b.objs = append(b.objs, obj)
	return obj
}

// Release deletes every resource in the bag, newest first.
func (b *Bag) Release() {
	for i := len(b.objs) - 1; i >= 0; i-- {
		b.objs[i].Delete()
	}
	b.objs = nil
}

// Len returns the number of owned resources.
func (b *Bag) Len() int {
	return len(b.objs)
}

// Palette creates a palette of n entries colored by fn.
func Palette(n int, fn func(i int) core.Color) (*resource.Palette, error) {
	pal, err := resource.NewPalette(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err := pal.SetColor(i, fn(i)); err != nil {
			return nil, err
		}
	}
	return pal, nil
}

// Gradient returns a color function that runs through stops evenly over n
// entries.
func Gradient(n int, stops ...core.Color) func(i int) core.Color {
	return func(i int) core.Color {
		if len(stops) == 1 || n <= 1 {
			return stops[0]
		}
		pos := float64(i) / float64(n-1) * float64(len(stops)-1)
		seg := int(pos)
		if seg >= len(stops)-1 {
			return stops[len(stops)-1]
		}
		t := pos - float64(seg)
		return core.Lerp(stops[seg], stops[seg+1], uint8(t*255))
	}
}

// Tileset creates n square tiles of size pixels whose indices come from fn.
func Tileset(pal *resource.Palette, n, size int, fn func(entry, x, y int) uint8) (*resource.Tileset, error) {
	ts, err := resource.NewTileset(n, size, size, pal, nil, nil)
	if err != nil {
		return nil, err
	}
	buf := make([]uint8, size*size)
	for entry := 1; entry <= n; entry++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				buf[y*size+x] = fn(entry, x, y)
			}
		}
		if err := ts.SetPixels(entry, buf, size); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// Tilemap creates a rows x cols map with fn(row, col) per cell.
func Tilemap(ts *resource.Tileset, rows, cols int, fn func(row, col int) resource.Tile) (*resource.Tilemap, error) {
	tiles := make([]resource.Tile, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			tiles[r*cols+c] = fn(r, c)
		}
	}
	return resource.NewTilemap(rows, cols, tiles, ts)
}

// Bitmap creates a w x h bitmap with indices from fn, attached to pal.
func Bitmap(pal *resource.Palette, w, h int, fn func(x, y int) uint8) (*resource.Bitmap, error) {
	bm, err := resource.NewBitmap(w, h, 8)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		row := bm.Row(y)
		for x := range row {
			row[x] = fn(x, y)
		}
	}
	if pal != nil {
		if err := bm.SetPalette(pal); err != nil {
			return nil, err
		}
	}
	return bm, nil
}

// Spriteset lays frames pictures of w x h side by side on one sheet.
// fn(frame, x, y) gives the pixel index.
func Spriteset(pal *resource.Palette, frames, w, h int, fn func(frame, x, y int) uint8) (*resource.Spriteset, *resource.Bitmap, error) {
	sheet, err := Bitmap(pal, frames*w, h, func(x, y int) uint8 {
		return fn(x/w, x%w, y)
	})
	if err != nil {
		return nil, nil, err
	}
	data := make([]resource.SpriteData, frames)
	for i := range data {
		data[i] = resource.SpriteData{X: i * w, Y: 0, W: w, H: h}
	}
	ss, err := resource.NewSpriteset(sheet, data)
	if err != nil {
		return nil, nil, err
	}
	return ss, sheet, nil
}

// Sin returns amplitude * sin(deg) rounded to the nearest integer.
func Sin(deg float64, amplitude float64) int {
	return int(math.Round(math.Sin(deg*math.Pi/180) * amplitude))
}

// Cos returns amplitude * cos(deg) rounded to the nearest integer.
func Cos(deg float64, amplitude float64) int {
	return int(math.Round(math.Cos(deg*math.Pi/180) * amplitude))
}

// Checker returns 1 or 2 in a checkerboard of cell-sized squares.
func Checker(x, y, cell int) uint8 {
	if (x/cell+y/cell)%2 == 0 {
		return 1
	}
	return 2
}
