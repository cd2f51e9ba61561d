package ui

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"

	"github.com/charmbracelet/lipgloss"
)

// Skin atlas coordinates of the front face and the hat layer drawn over it.
// Both fit inside legacy 64x32 skins.
const (
	faceX    = 8
	faceY    = 8
	hatX     = 40
	hatY     = 8
	faceSize = 8
)

// face holds the 8x8 front face of a skin, fully opaque.
type face [faceSize][faceSize]color.NRGBA

// decodeFace extracts the front face from PNG skin bytes. With overlay set
// the hat layer is alpha-composited on top.
func decodeFace(skin []byte, overlay bool) (face, error) {
	img, err := png.Decode(bytes.NewReader(skin))
	if err != nil {
		return face{}, fmt.Errorf("decode skin: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() < hatX+faceSize || bounds.Dy() < hatY+faceSize {
		return face{}, fmt.Errorf("skin too small: %dx%d", bounds.Dx(), bounds.Dy())
	}

	at := func(x, y int) color.NRGBA {
		return color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
	}

	var f face
	for y := 0; y < faceSize; y++ {
		for x := 0; x < faceSize; x++ {
			px := at(faceX+x, faceY+y)
			px.A = 0xff
			if overlay {
				px = over(at(hatX+x, hatY+y), px)
			}
			f[y][x] = px
		}
	}
	return f, nil
}

// over composites top onto an opaque bottom.
func over(top, bottom color.NRGBA) color.NRGBA {
	a := uint32(top.A)
	mix := func(t, b uint8) uint8 {
		return uint8((uint32(t)*a + uint32(b)*(0xff-a)) / 0xff)
	}
	return color.NRGBA{
		R: mix(top.R, bottom.R),
		G: mix(top.G, bottom.G),
		B: mix(top.B, bottom.B),
		A: 0xff,
	}
}

// scaled averages the face down to n x n pixels. n must divide faceSize.
func (f face) scaled(n int) [][]color.NRGBA {
	if n <= 0 || faceSize%n != 0 {
		n = faceSize
	}
	step := faceSize / n
	out := make([][]color.NRGBA, n)
	for y := 0; y < n; y++ {
		out[y] = make([]color.NRGBA, n)
		for x := 0; x < n; x++ {
			var r, g, b uint32
			for dy := 0; dy < step; dy++ {
				for dx := 0; dx < step; dx++ {
					px := f[y*step+dy][x*step+dx]
					r += uint32(px.R)
					g += uint32(px.G)
					b += uint32(px.B)
				}
			}
			count := uint32(step * step)
			out[y][x] = color.NRGBA{R: uint8(r / count), G: uint8(g / count), B: uint8(b / count), A: 0xff}
		}
	}
	return out
}

// lines renders the face at n x n pixels as n/2 terminal lines of upper
// half blocks: the foreground paints the top pixel and the background the
// bottom one.
func (f face) lines(n int) []string {
	pixels := f.scaled(n)
	out := make([]string, 0, (len(pixels)+1)/2)
	for y := 0; y+1 < len(pixels); y += 2 {
		var line string
		for x := range pixels[y] {
			line += lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(pixels[y][x]))).
				Background(lipgloss.Color(hexColor(pixels[y+1][x]))).
				Render("▀")
		}
		out = append(out, line)
	}
	return out
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// headEntry caches a decoded face for one player.
type headEntry struct {
	face face
	ok   bool
}
