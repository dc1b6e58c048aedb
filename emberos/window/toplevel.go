package window

import "ember/emberos/graphics"

// Margins between the window edge and its inner drawing area. The top
// margin holds the title bar.
var (
	TopLeftMargin     = graphics.Point{X: 4, Y: 24}
	BottomRightMargin = graphics.Point{X: 4, Y: 4}
)

var (
	frameFace      = graphics.PixelColor{R: 0xc6, G: 0xc6, B: 0xc6}
	frameLight     = graphics.PixelColor{R: 0xff, G: 0xff, B: 0xff}
	frameShade     = graphics.PixelColor{R: 0x84, G: 0x84, B: 0x84}
	frameDark      = graphics.PixelColor{R: 0x00, G: 0x00, B: 0x00}
	titleActive    = graphics.PixelColor{R: 0x00, G: 0x00, B: 0x84}
	titleInactive  = frameShade
	titleTextColor = frameLight
)

// Toplevel is a window with a title bar and frame decoration.
type Toplevel struct {
	*Window
	title  string
	active bool
}

// NewToplevel creates a decorated window. It starts deactivated.
func NewToplevel(width, height int, format graphics.PixelFormat, title string) (*Toplevel, error) {
	w, err := New(width, height, format)
	if err != nil {
		return nil, err
	}
	t := &Toplevel{Window: w, title: title}
	t.drawFrame()
	t.drawTitleBar()
	return t, nil
}

// Title returns the window title.
func (t *Toplevel) Title() string { return t.title }

// InnerSize is the drawable area inside the decoration.
func (t *Toplevel) InnerSize() graphics.Point {
	return t.Size().Sub(TopLeftMargin).Sub(BottomRightMargin)
}

// Activate repaints the title bar with the active palette.
func (t *Toplevel) Activate() {
	t.active = true
	t.drawTitleBar()
}

// Deactivate repaints the title bar with the inactive palette.
func (t *Toplevel) Deactivate() {
	t.active = false
	t.drawTitleBar()
}

func (t *Toplevel) drawFrame() {
	size := t.Size()
	graphics.FillRectangle(t, graphics.Point{}, size, frameFace)

	// Raised bevel: light on top/left, shade then dark on bottom/right.
	graphics.FillRectangle(t, graphics.Point{}, graphics.Point{X: size.X, Y: 1}, frameLight)
	graphics.FillRectangle(t, graphics.Point{}, graphics.Point{X: 1, Y: size.Y}, frameLight)
	graphics.FillRectangle(t, graphics.Point{X: 0, Y: size.Y - 2}, graphics.Point{X: size.X, Y: 1}, frameShade)
	graphics.FillRectangle(t, graphics.Point{X: size.X - 2, Y: 0}, graphics.Point{X: 1, Y: size.Y}, frameShade)
	graphics.FillRectangle(t, graphics.Point{X: 0, Y: size.Y - 1}, graphics.Point{X: size.X, Y: 1}, frameDark)
	graphics.FillRectangle(t, graphics.Point{X: size.X - 1, Y: 0}, graphics.Point{X: 1, Y: size.Y}, frameDark)

	// Sunken outline around the inner area.
	inner := t.InnerSize()
	graphics.DrawRectangle(t,
		TopLeftMargin.Sub(graphics.Point{X: 1, Y: 1}),
		inner.Add(graphics.Point{X: 2, Y: 2}), frameShade)
}

func (t *Toplevel) drawTitleBar() {
	bg := titleInactive
	if t.active {
		bg = titleActive
	}
	size := t.Size()
	graphics.FillRectangle(t, graphics.Point{X: 3, Y: 3},
		graphics.Point{X: size.X - 6, Y: TopLeftMargin.Y - 6}, bg)
	DrawString(t, graphics.Point{X: 8, Y: 5}, t.title, titleTextColor)

	// Close box: a shaded square with an X.
	boxSize := TopLeftMargin.Y - 10
	box := graphics.Point{X: size.X - 5 - boxSize, Y: 5}
	graphics.FillRectangle(t, box, graphics.Point{X: boxSize, Y: boxSize}, frameFace)
	for i := 2; i < boxSize-2; i++ {
		t.Write(graphics.Point{X: box.X + i, Y: box.Y + i}, frameDark)
		t.Write(graphics.Point{X: box.X + boxSize - 1 - i, Y: box.Y + i}, frameDark)
	}
}

// InnerWriter draws relative to the inner area's origin.
type InnerWriter struct {
	t *Toplevel
}

// Inner returns a writer for the area inside the decoration.
func (t *Toplevel) Inner() *InnerWriter { return &InnerWriter{t: t} }

func (iw *InnerWriter) Size() graphics.Point { return iw.t.InnerSize() }

func (iw *InnerWriter) Write(p graphics.Point, c graphics.PixelColor) {
	s := iw.Size()
	if p.X < 0 || p.X >= s.X || p.Y < 0 || p.Y >= s.Y {
		return
	}
	iw.t.Write(p.Add(TopLeftMargin), c)
}

func (iw *InnerWriter) At(p graphics.Point) graphics.PixelColor {
	return iw.t.At(p.Add(TopLeftMargin))
}
