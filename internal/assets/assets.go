// Package assets loads engine resources from files: ACT palettes, PNG and
// BMP bitmaps, spritesets, and Tiled tilesets (TSX), tilemaps (TMX) and
// sequence packs (SQX).
//
// Missing files fail with core.ErrFileNotFound and malformed ones with
// core.ErrWrongFormat. A loader never returns a partially built object.
package assets

import (
	"errors"
	"io/fs"
	"os"

	"github.com/vovakirdan/scanline/internal/core"
)

// readFile reads path, mapping a missing file to ErrFileNotFound.
func readFile(op, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fileError(op, err)
	}
	return data, nil
}

// fileError converts an os error to the loader taxonomy.
func fileError(op string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return core.WrapError(op, core.ErrFileNotFound, err)
	}
	return core.WrapError(op, core.ErrWrongFormat, err)
}

// formatError reports a malformed file.
func formatError(op string, err error) error {
	return core.WrapError(op, core.ErrWrongFormat, err)
}

// exists reports whether a regular file is at path.
func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
