package console

import (
	"image/color"

	"tinygo.org/x/drivers"

	"ember/emberos/graphics"
)

// fbDisplay adapts the kernel frame buffer to the Displayer interface the
// terminal renderer draws through.
type fbDisplay struct {
	fb *graphics.FrameBuffer
}

func (d *fbDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.fb.Write(graphics.Point{X: int(x), Y: int(y)},
		graphics.PixelColor{R: c.R, G: c.G, B: c.B})
}

func (d *fbDisplay) Display() error { return nil }

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	graphics.FillRectangle(d.fb,
		graphics.Point{X: int(x), Y: int(y)},
		graphics.Point{X: int(width), Y: int(height)},
		graphics.PixelColor{R: c.R, G: c.G, B: c.B})
	return nil
}

func (d *fbDisplay) SetScroll(line int16) {}

func (d *fbDisplay) SetRotation(rotation drivers.Rotation) error { return nil }
