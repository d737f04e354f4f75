package assets

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/resource"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
	return path
}

// testSheet is a 16x8 paletted image: two 8x8 tiles, the first filled with
// index 1, the second with index 2 except a column of 3 at x=0.
func testSheet() *image.Paletted {
	pal := color.Palette{
		color.RGBA{0, 0, 0, 0},
		color.RGBA{255, 0, 0, 255},
		color.RGBA{0, 255, 0, 255},
		color.RGBA{0, 0, 255, 255},
	}
	img := image.NewPaletted(image.Rect(0, 0, 16, 8), pal)
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			switch {
			case x < 8:
				img.SetColorIndex(x, y, 1)
			case x == 8:
				img.SetColorIndex(x, y, 3)
			default:
				img.SetColorIndex(x, y, 2)
			}
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return writeFile(t, dir, name, buf.Bytes())
}

func expectCode(t *testing.T, err error, code core.ErrorCode) {
	t.Helper()
	if !errors.Is(err, code) {
		t.Errorf("error = %v, expected %v", err, code)
	}
}

func TestLoadPalette(t *testing.T) {
	dir := t.TempDir()

	act := make([]byte, actSize+actTrailer)
	act[0], act[1], act[2] = 10, 20, 30
	act[9], act[10], act[11] = 1, 2, 3
	binary.BigEndian.PutUint16(act[actSize:], 4)
	pal, err := LoadPalette(writeFile(t, dir, "full.act", act))
	if err != nil {
		t.Fatalf("LoadPalette() error = %v", err)
	}
	if pal.Len() != 4 {
		t.Errorf("Len() = %d, expected 4", pal.Len())
	}
	if c, _ := pal.Color(3); c != core.RGB(1, 2, 3) {
		t.Errorf("Color(3) = %v, expected (1,2,3)", c)
	}

	short, err := LoadPalette(writeFile(t, dir, "short.act", []byte{1, 2, 3, 4, 5, 6, 7}))
	if err != nil {
		t.Fatalf("LoadPalette(short) error = %v", err)
	}
	if short.Len() != 2 {
		t.Errorf("short Len() = %d, expected 2", short.Len())
	}

	_, err = LoadPalette(filepath.Join(dir, "missing.act"))
	expectCode(t, err, core.ErrFileNotFound)
	_, err = LoadPalette(writeFile(t, dir, "empty.act", nil))
	expectCode(t, err, core.ErrWrongFormat)
}

func TestEncodePaletteRoundTrip(t *testing.T) {
	pal, _ := resource.NewPalette(3)
	pal.SetColor(2, core.RGB(7, 8, 9))
	data, err := EncodePalette(pal)
	if err != nil {
		t.Fatalf("EncodePalette() error = %v", err)
	}
	back, err := DecodePalette(data)
	if err != nil {
		t.Fatalf("DecodePalette() error = %v", err)
	}
	if back.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", back.Len())
	}
	if c, _ := back.Color(2); c != core.RGB(7, 8, 9) {
		t.Errorf("Color(2) = %v", c)
	}
}

func TestLoadBitmap(t *testing.T) {
	dir := t.TempDir()
	sheet := testSheet()

	var bmpBuf bytes.Buffer
	if err := bmp.Encode(&bmpBuf, sheet); err != nil {
		t.Fatalf("bmp.Encode() error = %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"png", writePNG(t, dir, "sheet.png", sheet)},
		{"bmp", writeFile(t, dir, "sheet.bmp", bmpBuf.Bytes())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bm, err := LoadBitmap(tt.path)
			if err != nil {
				t.Fatalf("LoadBitmap() error = %v", err)
			}
			if bm.Width() != 16 || bm.Height() != 8 {
				t.Errorf("size = %dx%d, expected 16x8", bm.Width(), bm.Height())
			}
			if got := bm.At(3, 3); got != 1 {
				t.Errorf("At(3,3) = %d, expected 1", got)
			}
			if got := bm.At(8, 5); got != 3 {
				t.Errorf("At(8,5) = %d, expected 3", got)
			}
			if c, _ := bm.Palette().Color(2); c != core.ColorGreen {
				t.Errorf("palette[2] = %v, expected green", c)
			}
		})
	}
}

func TestLoadBitmapTruecolor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{})
	img.Set(1, 0, color.RGBA{200, 100, 50, 255})
	img.Set(2, 0, color.RGBA{200, 100, 50, 255})
	bm, err := LoadBitmap(writePNG(t, t.TempDir(), "rgba.png", img))
	if err != nil {
		t.Fatalf("LoadBitmap() error = %v", err)
	}
	if bm.At(0, 0) != 0 || bm.At(1, 0) != 1 || bm.At(2, 0) != 1 {
		t.Errorf("indices = %d %d %d, expected 0 1 1", bm.At(0, 0), bm.At(1, 0), bm.At(2, 0))
	}
	if bm.Palette().Len() != 2 {
		t.Errorf("palette Len() = %d, expected 2", bm.Palette().Len())
	}
}

func TestLoadBitmapRejectsGarbage(t *testing.T) {
	_, err := LoadBitmap(writeFile(t, t.TempDir(), "bad.png", []byte("not a png")))
	expectCode(t, err, core.ErrWrongFormat)
}

func TestParseSpriteList(t *testing.T) {
	text := "walk1 = 0 0 8 8\nwalk2,8,0,8,8\n\n# comment\njump 0 0 16 8\n"
	data, err := ParseSpriteList([]byte(text))
	if err != nil {
		t.Fatalf("ParseSpriteList() error = %v", err)
	}
	want := []resource.SpriteData{
		{Name: "walk1", X: 0, Y: 0, W: 8, H: 8},
		{Name: "walk2", X: 8, Y: 0, W: 8, H: 8},
		{Name: "jump", X: 0, Y: 0, W: 16, H: 8},
	}
	if len(data) != len(want) {
		t.Fatalf("len = %d, expected %d", len(data), len(want))
	}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("entry %d = %+v, expected %+v", i, data[i], want[i])
		}
	}

	_, err = ParseSpriteList([]byte("broken 1 2\n"))
	expectCode(t, err, core.ErrWrongFormat)
}

func TestLoadSpriteset(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "hero.png", testSheet())
	writeFile(t, dir, "hero.txt", []byte("a = 0 0 8 8\nb = 8 0 8 8\n"))

	ss, err := LoadSpriteset(filepath.Join(dir, "hero"))
	if err != nil {
		t.Fatalf("LoadSpriteset() error = %v", err)
	}
	if ss.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", ss.Len())
	}
	if got := ss.Find("b"); got != 1 {
		t.Errorf("Find(b) = %d, expected 1", got)
	}
	if got := ss.Pixel(1, 0, 0); got != 3 {
		t.Errorf("Pixel(1,0,0) = %d, expected 3", got)
	}

	_, err = LoadSpriteset(filepath.Join(dir, "nobody"))
	expectCode(t, err, core.ErrFileNotFound)
}

const testSQX = `<?xml version="1.0"?>
<sequences>
  <sequence name="blink" delay="5" count="3">1 #0a 2</sequence>
  <sequence name="water" target="7" delay="8">3,4</sequence>
  <cycle name="glow">
    <strip delay="10" first="16" count="8" dir="1"/>
    <strip delay="0" first="40" count="4" dir="0"/>
  </cycle>
</sequences>`

func TestLoadSequencePack(t *testing.T) {
	sp, err := LoadSequencePack(writeFile(t, t.TempDir(), "fx.sqx", []byte(testSQX)))
	if err != nil {
		t.Fatalf("LoadSequencePack() error = %v", err)
	}
	if sp.Count() != 3 {
		t.Fatalf("Count() = %d, expected 3", sp.Count())
	}

	blink, err := sp.Find("blink")
	if err != nil {
		t.Fatalf("Find(blink) error = %v", err)
	}
	frames := blink.Frames()
	if len(frames) != 3 || frames[1].Index != 10 || frames[2].Delay != 5 {
		t.Errorf("blink frames = %+v", frames)
	}

	water, _ := sp.Find("water")
	if water.Target() != 7 {
		t.Errorf("water Target() = %d, expected 7", water.Target())
	}

	glow, _ := sp.Find("glow")
	if glow.Type() != resource.SequenceCycle || len(glow.Strips()) != 1 {
		t.Errorf("glow = %v with %d strips, expected one-strip cycle", glow.Type(), len(glow.Strips()))
	}

	_, err = DecodeSequencePack([]byte("<sequences><sequence"))
	expectCode(t, err, core.ErrWrongFormat)
}

const testTSX = `<?xml version="1.0" encoding="UTF-8"?>
<tileset name="test" tilewidth="8" tileheight="8" tilecount="2" columns="2">
 <image source="sheet.png" width="16" height="8"/>
 <tile id="1" type="5">
  <properties>
   <property name="priority" type="bool" value="true"/>
  </properties>
  <animation>
   <frame tileid="1" duration="100"/>
   <frame tileid="0" duration="200"/>
  </animation>
 </tile>
</tileset>`

func TestLoadTileset(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "sheet.png", testSheet())
	writeFile(t, dir, "test.sqx", []byte(testSQX))
	path := writeFile(t, dir, "test.tsx", []byte(testTSX))

	ts, err := LoadTileset(path)
	if err != nil {
		t.Fatalf("LoadTileset() error = %v", err)
	}
	if ts.NumTiles() != 2 || ts.TileWidth() != 8 {
		t.Errorf("NumTiles() = %d, TileWidth() = %d; expected 2, 8", ts.NumTiles(), ts.TileWidth())
	}
	if got := ts.Pixel(1, 4, 4); got != 1 {
		t.Errorf("entry 1 pixel = %d, expected 1", got)
	}
	if got := ts.Pixel(2, 0, 4); got != 3 {
		t.Errorf("entry 2 pixel (0,4) = %d, expected 3", got)
	}
	attr, _ := ts.Attributes(2)
	if attr.Type != 5 || !attr.Priority {
		t.Errorf("Attributes(2) = %+v, expected type 5 with priority", attr)
	}

	sp := ts.SequencePack()
	if sp == nil {
		t.Fatal("SequencePack() = nil")
	}
	// three from the sibling sqx plus the tile animation
	if sp.Count() != 4 {
		t.Errorf("Count() = %d, expected 4", sp.Count())
	}
	anim, err := sp.Find("1")
	if err != nil {
		t.Fatalf("Find(1) error = %v", err)
	}
	if anim.Target() != 2 {
		t.Errorf("Target() = %d, expected 2", anim.Target())
	}
	if f := anim.Frames(); f[0].Index != 2 || f[0].Delay != 6 || f[1].Delay != 12 {
		t.Errorf("frames = %+v", f)
	}
}

func TestLoadTilesetMissingImage(t *testing.T) {
	path := writeFile(t, t.TempDir(), "test.tsx", []byte(testTSX))
	_, err := LoadTileset(path)
	expectCode(t, err, core.ErrFileNotFound)
}

// tmxFixture writes sheet.png, test.tsx and a map whose only layer carries
// data with the given encoding attributes.
func tmxFixture(t *testing.T, dataAttrs, body string) string {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, dir, "sheet.png", testSheet())
	writeFile(t, dir, "test.tsx", []byte(testTSX))
	tmx := `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.2" orientation="orthogonal" width="3" height="2" tilewidth="8" tileheight="8" backgroundcolor="#ff102030">
 <tileset firstgid="1" source="test.tsx"/>
 <layer id="1" name="Back" width="3" height="2">
  <data ` + dataAttrs + `>` + body + `</data>
 </layer>
</map>`
	return writeFile(t, dir, "test.tmx", []byte(tmx))
}

// Tiled keeps flips in the top bits of each global tile id.
const (
	gidFlipX    = 0x80000000
	gidFlipY    = 0x40000000
	gidDiagonal = 0x20000000
)

// testGIDs holds flip bits on the second and fourth cells.
var testGIDs = []uint32{1, 2 | gidFlipX, 0, 1 | gidFlipY | gidDiagonal, 2, 1}

func gidBytes() []byte {
	raw := make([]byte, len(testGIDs)*4)
	for i, g := range testGIDs {
		binary.LittleEndian.PutUint32(raw[i*4:], g)
	}
	return raw
}

func checkTestMap(t *testing.T, tm *resource.Tilemap) {
	t.Helper()
	if tm.Rows() != 2 || tm.Cols() != 3 {
		t.Fatalf("size = %dx%d, expected 2x3", tm.Rows(), tm.Cols())
	}
	want := []resource.Tile{
		{Index: 1},
		{Index: 2, Flags: resource.FlagFlipX},
		{},
		{Index: 1, Flags: resource.FlagFlipY | resource.FlagRotate},
		{Index: 2},
		{Index: 1},
	}
	for i, w := range want {
		if got := tm.At(i/3, i%3); got != w {
			t.Errorf("cell %d = %+v, expected %+v", i, got, w)
		}
	}
	if tm.Tileset() == nil || tm.Tileset().NumTiles() != 2 {
		t.Error("tileset not attached")
	}
	if c, ok := tm.BGColor(); !ok || c != core.RGB(0x10, 0x20, 0x30) {
		t.Errorf("BGColor() = %v, %v", c, ok)
	}
}

func TestLoadTilemapEncodings(t *testing.T) {
	var zbuf, gbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	zw.Write(gidBytes())
	zw.Close()
	gw := gzip.NewWriter(&gbuf)
	gw.Write(gidBytes())
	gw.Close()

	csv := make([]string, len(testGIDs))
	for i, g := range testGIDs {
		csv[i] = strconv.FormatUint(uint64(g), 10)
	}

	tests := []struct {
		name  string
		attrs string
		body  string
	}{
		{"csv", `encoding="csv"`, "\n" + strings.Join(csv[:3], ",") + ",\n" + strings.Join(csv[3:], ",") + "\n"},
		{"base64", `encoding="base64"`, base64.StdEncoding.EncodeToString(gidBytes())},
		{"zlib", `encoding="base64" compression="zlib"`, base64.StdEncoding.EncodeToString(zbuf.Bytes())},
		{"gzip", `encoding="base64" compression="gzip"`, base64.StdEncoding.EncodeToString(gbuf.Bytes())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, err := LoadTilemap(tmxFixture(t, tt.attrs, tt.body), "back")
			if err != nil {
				t.Fatalf("LoadTilemap() error = %v", err)
			}
			checkTestMap(t, tm)
		})
	}
}

func TestLoadTilemapErrors(t *testing.T) {
	path := tmxFixture(t, `encoding="csv"`, "1,1,1")
	_, err := LoadTilemap(path, "")
	expectCode(t, err, core.ErrWrongFormat)

	path = tmxFixture(t, `encoding="csv"`, "1,1,1,1,1,1")
	_, err = LoadTilemap(path, "Front")
	expectCode(t, err, core.ErrWrongFormat)

	_, err = LoadTilemap(filepath.Join(t.TempDir(), "none.tmx"), "")
	expectCode(t, err, core.ErrFileNotFound)
}

func TestLoadTilemapTileOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"past tileset", "3,1,1,1,1,1"},
		{"past uint16", "65537,65538,1,1,1,1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, err := LoadTilemap(tmxFixture(t, `encoding="csv"`, tt.body), "back")
			if tm != nil {
				t.Errorf("LoadTilemap() = %v, expected nil", tm)
			}
			expectCode(t, err, core.ErrWrongFormat)
		})
	}
}

func TestLibraryCachesByName(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "sheet.png", testSheet())
	writeFile(t, dir, "test.tsx", []byte(testTSX))

	lib := NewLibrary(dir, nil)
	a, err := lib.Tileset("test.tsx")
	if err != nil {
		t.Fatalf("Tileset() error = %v", err)
	}
	b, err := lib.Tileset("test.tsx")
	if err != nil {
		t.Fatalf("Tileset() second call error = %v", err)
	}
	if a != b {
		t.Error("Tileset() returned a different object for the same name")
	}
	if _, err := lib.Bitmap("sheet.png"); err != nil {
		t.Fatalf("Bitmap() error = %v", err)
	}
	if lib.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", lib.Len())
	}

	a.Delete()
	c, err := lib.Tileset("test.tsx")
	if err != nil {
		t.Fatalf("Tileset() after delete error = %v", err)
	}
	if c == a || !c.Alive() {
		t.Error("deleted tileset was not reloaded")
	}

	if _, err := lib.Palette("none.act"); !errors.Is(err, core.ErrFileNotFound) {
		t.Errorf("Palette(missing) error = %v, expected ErrFileNotFound", err)
	}

	lib.Close()
	if c.Alive() {
		t.Error("Close() left tileset alive")
	}
	if lib.Len() != 0 {
		t.Errorf("Len() after Close = %d, expected 0", lib.Len())
	}
}
