package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/scanline/internal/core"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name             string
		w, h, cols, rows int
		wantCols         int
		wantRows         int
	}{
		{"width bound", 400, 240, 80, 40, 80, 24},
		{"height bound", 400, 240, 80, 22, 73, 22},
		{"no upscale", 4, 2, 80, 24, 4, 1},
		{"empty terminal", 400, 240, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows := Fit(tt.w, tt.h, tt.cols, tt.rows)
			if cols != tt.wantCols || rows != tt.wantRows {
				t.Errorf("Fit() = %d,%d, expected %d,%d", cols, rows, tt.wantCols, tt.wantRows)
			}
		})
	}
}

func frame(w, h int, fn func(x, y int) core.Color) []byte {
	fb := core.NewFramebuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fb.Set(x, y, fn(x, y))
		}
	}
	return fb.Pix()
}

func TestRenderFrameCells(t *testing.T) {
	pix := frame(4, 4, func(x, y int) core.Color {
		if x < 2 {
			return core.ColorRed
		}
		return core.ColorBlue
	})

	out := RenderFrame(pix, 4, 4, 4, 2)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderFrame() has %d lines, expected 2", len(lines))
	}
	for i, line := range lines {
		if got := strings.Count(line, halfBlock); got != 4 {
			t.Errorf("line %d has %d cells, expected 4", i, got)
		}
	}
}

func TestRenderFrameDownsamples(t *testing.T) {
	pix := frame(16, 8, func(x, y int) core.Color { return core.RGB(uint8(x*16), uint8(y*32), 0) })

	out := RenderFrame(pix, 16, 8, 8, 2)
	if got := strings.Count(out, halfBlock); got != 16 {
		t.Errorf("RenderFrame() has %d cells, expected 16", got)
	}
	if RenderFrame(pix, 16, 8, 0, 2) != "" {
		t.Error("RenderFrame() with zero columns should be empty")
	}
}
