package components

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PosterHeight is the pixel height requested from the image proxy for
// detail-view posters. Small on purpose; the mosaic is coarse anyway.
const PosterHeight = 64

// Mosaic renders image bytes as a block-character thumbnail, two pixels
// per cell using the upper-half-block trick. Returns "" when the bytes
// don't decode.
func Mosaic(data []byte, cols, rows int) string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil || cols < 1 || rows < 1 {
		return ""
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return ""
	}

	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			topY := bounds.Min.Y + (row*2)*h/(rows*2)
			botY := bounds.Min.Y + (row*2+1)*h/(rows*2)
			x := bounds.Min.X + col*w/cols

			top := cellColor(img, x, topY)
			bot := cellColor(img, x, botY)
			b.WriteString(lipgloss.NewStyle().
				Foreground(top).
				Background(bot).
				Render("▀"))
		}
		if row < rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func cellColor(img image.Image, x, y int) lipgloss.Color {
	r, g, bl, _ := img.At(x, y).RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, bl>>8))
}
