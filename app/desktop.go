package app

import (
	"image/color"

	"github.com/fogleman/gg"

	"ember/emberos/graphics"
	"ember/emberos/window"
)

// newDesktopWindow renders the wallpaper: a vertical gradient with a darker
// task strip along the bottom edge.
func newDesktopWindow(size graphics.Point, format graphics.PixelFormat) (*window.Window, error) {
	w, err := window.New(size.X, size.Y, format)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(size.X, size.Y)
	grad := gg.NewLinearGradient(0, 0, 0, float64(size.Y))
	grad.AddColorStop(0, color.RGBA{R: 0x16, G: 0x2b, B: 0x45, A: 0xff})
	grad.AddColorStop(1, color.RGBA{R: 0x2e, G: 0x1d, B: 0x4f, A: 0xff})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(size.X), float64(size.Y))
	dc.Fill()

	const stripHeight = 40
	dc.SetRGB255(0x20, 0x20, 0x24)
	dc.DrawRectangle(0, float64(size.Y-stripHeight), float64(size.X), stripHeight)
	dc.Fill()
	dc.SetRGB255(0x58, 0x58, 0x60)
	dc.DrawCircle(24, float64(size.Y-stripHeight/2), 12)
	dc.Fill()

	img := dc.Image()
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			w.Write(graphics.Point{X: x, Y: y}, graphics.PixelColor{
				R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8),
			})
		}
	}
	return w, nil
}
