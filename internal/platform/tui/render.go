package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/scanline/internal/core"
)

// halfBlock shows the top pixel in the foreground and the bottom pixel in
// the background, so one cell carries two rows of the frame.
const halfBlock = "▀"

// Fit returns the largest cell grid that shows a width x height frame inside
// cols x rows terminal cells without distorting it. Each cell is one pixel
// wide and two pixels tall.
func Fit(width, height, cols, rows int) (int, int) {
	if width <= 0 || height <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	w, h := cols, cols*height/width
	if h > rows*2 {
		h = rows * 2
		w = h * width / height
	}
	if w > width {
		w, h = width, height
	}
	return core.Max(w, 1), core.Max((h+1)/2, 1)
}

// RenderFrame converts a tightly packed RGBA frame into cols x rows
// half-block cells, sampling the nearest source pixel. Adjacent cells with
// the same colors share one escape sequence.
func RenderFrame(pix []byte, width, height, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	stride := width * core.BytesPerPixel
	sample := func(cx, py int) core.Color {
		sx := cx * width / cols
		sy := core.Min(py*height/(rows*2), height-1)
		return core.PixelAt(pix[sy*stride:], sx)
	}

	var sb strings.Builder
	sb.Grow(cols * rows * 4)
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		x := 0
		for x < cols {
			top, bottom := sample(x, r*2), sample(x, r*2+1)
			n := 1
			for x+n < cols && sample(x+n, r*2) == top && sample(x+n, r*2+1) == bottom {
				n++
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top.Hex())).
				Background(lipgloss.Color(bottom.Hex()))
			sb.WriteString(style.Render(strings.Repeat(halfBlock, n)))
			x += n
		}
	}
	return sb.String()
}
