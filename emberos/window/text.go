package window

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"ember/emberos/graphics"
)

// Canvas is a surface that can be both written and read, which glyph
// blending needs.
type Canvas interface {
	graphics.Writer
	At(p graphics.Point) graphics.PixelColor
}

// Cell metrics of the text face. Glyphs are 7x13 drawn into 8x16 cells.
const (
	CellWidth  = 8
	CellHeight = 16
)

// canvasImage adapts a Canvas to draw.Image so font.Drawer can render onto
// windows directly.
type canvasImage struct {
	c Canvas
}

func (ci canvasImage) ColorModel() color.Model { return color.RGBAModel }

func (ci canvasImage) Bounds() image.Rectangle {
	s := ci.c.Size()
	return image.Rect(0, 0, s.X, s.Y)
}

func (ci canvasImage) At(x, y int) color.Color {
	p := ci.c.At(graphics.Point{X: x, Y: y})
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: 0xff}
}

func (ci canvasImage) Set(x, y int, c color.Color) {
	r, g, b, _ := c.RGBA()
	ci.c.Write(graphics.Point{X: x, Y: y},
		graphics.PixelColor{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
}

// DrawString renders s with the top-left of the first cell at pos.
func DrawString(dst Canvas, pos graphics.Point, s string, c graphics.PixelColor) {
	d := font.Drawer{
		Dst:  canvasImage{c: dst},
		Src:  image.NewUniform(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(pos.X, pos.Y+basicfont.Face7x13.Ascent),
	}
	d.DrawString(s)
}
