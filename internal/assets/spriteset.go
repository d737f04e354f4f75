package assets

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/scanline/internal/resource"
)

// LoadSpriteset reads base.png and base.txt. The text file lists one
// picture per line in any of these forms:
//
//	name = x y w h
//	name,x,y,w,h
//	name x y w h
func LoadSpriteset(base string) (*resource.Spriteset, error) {
	bm, err := LoadBitmap(base + ".png")
	if err != nil {
		return nil, err
	}
	text, err := readFile("LoadSpriteset", base+".txt")
	if err != nil {
		return nil, err
	}
	data, err := ParseSpriteList(text)
	if err != nil {
		return nil, err
	}
	return resource.NewSpriteset(bm, data)
}

// ParseSpriteList parses the rectangle list of a spriteset.
func ParseSpriteList(text []byte) ([]resource.SpriteData, error) {
	var out []resource.SpriteData
	sc := bufio.NewScanner(bytes.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.Replace(line, "=", " ", 1)
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) != 5 {
			return nil, formatError("LoadSpriteset", fmt.Errorf("line %d: expected name and 4 numbers", lineNo))
		}
		var nums [4]int
		for i, f := range fields[1:] {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, formatError("LoadSpriteset", fmt.Errorf("line %d: %w", lineNo, err))
			}
			nums[i] = n
		}
		out = append(out, resource.SpriteData{
			Name: fields[0],
			X:    nums[0],
			Y:    nums[1],
			W:    nums[2],
			H:    nums[3],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, formatError("LoadSpriteset", err)
	}
	if len(out) == 0 {
		return nil, formatError("LoadSpriteset", fmt.Errorf("no sprites"))
	}
	return out, nil
}
