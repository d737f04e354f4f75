package assets

import (
	"encoding/binary"
	"fmt"

	"github.com/vovakirdan/scanline/internal/core"
	"github.com/vovakirdan/scanline/internal/resource"
)

const (
	actEntries = 256
	actSize    = actEntries * 3
	actTrailer = 4 // big-endian entry count and transparent index
)

// LoadPalette reads an Adobe Color Table (.act). A 772-byte file carries a
// trailer with the number of used entries; otherwise every complete RGB
// triplet in the file is an entry.
func LoadPalette(path string) (*resource.Palette, error) {
	data, err := readFile("LoadPalette", path)
	if err != nil {
		return nil, err
	}
	return DecodePalette(data)
}

// DecodePalette parses ACT data.
func DecodePalette(data []byte) (*resource.Palette, error) {
	entries := len(data) / 3
	if len(data) == actSize+actTrailer {
		entries = int(binary.BigEndian.Uint16(data[actSize:]))
		if entries == 0 {
			entries = actEntries
		}
	}
	if entries <= 0 || entries > actEntries {
		return nil, formatError("LoadPalette", fmt.Errorf("%d palette entries", entries))
	}

	pal, err := resource.NewPalette(entries)
	if err != nil {
		return nil, err
	}
	for i := 0; i < entries; i++ {
		c := core.RGB(data[i*3], data[i*3+1], data[i*3+2])
		if err := pal.SetColor(i, c); err != nil {
			return nil, err
		}
	}
	return pal, nil
}

// EncodePalette writes pal in the 772-byte ACT layout.
func EncodePalette(pal *resource.Palette) ([]byte, error) {
	if err := resource.Check("EncodePalette", pal); err != nil {
		return nil, err
	}
	out := make([]byte, actSize+actTrailer)
	for i, c := range pal.Colors() {
		out[i*3] = c.R
		out[i*3+1] = c.G
		out[i*3+2] = c.B
	}
	binary.BigEndian.PutUint16(out[actSize:], uint16(pal.Len()))
	binary.BigEndian.PutUint16(out[actSize+2:], 0xFFFF)
	return out, nil
}
