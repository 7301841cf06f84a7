package styles

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// Thumbnail renders img as a block of half-height cells, two pixel rows per
// terminal line. width and height are in cells.
func Thumbnail(img image.Image, width, height int) string {
	if img == nil || img.Bounds().Empty() || width <= 0 || height <= 0 {
		return ""
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var b strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			top := dst.RGBAAt(x, y*2)
			bottom := dst.RGBAAt(x, y*2+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(Hex(top)).
				Background(Hex(bottom)).
				Render("▀"))
		}
	}
	return b.String()
}

// Swatch renders width cells filled with c.
func Swatch(c color.Color, width int) string {
	if c == nil || width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(Hex(c)).Render(strings.Repeat(" ", width))
}

// Hex converts c to a lipgloss colour, ignoring alpha.
func Hex(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
