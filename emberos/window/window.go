// Package window implements the drawable surfaces the compositor stacks.
//
// A Window keeps its pixels twice: a PixelColor grid for reads and a shadow
// FrameBuffer in the screen's pixel format so composition is a row copy, not
// a per-pixel conversion.
package window

import (
	"ember/emberos/graphics"
)

// Window is a backed pixel grid with an optional transparent color.
type Window struct {
	width, height int
	data          [][]graphics.PixelColor
	shadow        *graphics.FrameBuffer
	transparent   *graphics.PixelColor
}

// New creates a window whose shadow buffer uses the given pixel format.
func New(width, height int, format graphics.PixelFormat) (*Window, error) {
	shadow, err := graphics.New(graphics.Config{
		Width: width, Height: height, Format: format,
	})
	if err != nil {
		return nil, err
	}
	data := make([][]graphics.PixelColor, height)
	for y := range data {
		data[y] = make([]graphics.PixelColor, width)
	}
	return &Window{width: width, height: height, data: data, shadow: shadow}, nil
}

func (w *Window) Width() int  { return w.width }
func (w *Window) Height() int { return w.height }

func (w *Window) Size() graphics.Point { return graphics.Point{X: w.width, Y: w.height} }

// SetTransparentColor makes pixels of color c see-through; nil clears it.
func (w *Window) SetTransparentColor(c *graphics.PixelColor) { w.transparent = c }

// Write paints one pixel into both stores.
func (w *Window) Write(p graphics.Point, c graphics.PixelColor) {
	if p.X < 0 || p.X >= w.width || p.Y < 0 || p.Y >= w.height {
		return
	}
	w.data[p.Y][p.X] = c
	w.shadow.Write(p, c)
}

// At reads one pixel.
func (w *Window) At(p graphics.Point) graphics.PixelColor {
	if p.X < 0 || p.X >= w.width || p.Y < 0 || p.Y >= w.height {
		return graphics.PixelColor{}
	}
	return w.data[p.Y][p.X]
}

// Shadow exposes the format-matched buffer for composition.
func (w *Window) Shadow() *graphics.FrameBuffer { return w.shadow }

// DrawTo writes the window's pixels onto dst with the window origin at pos,
// restricted to area (dst coordinates). With no transparent color this is a
// clipped block copy; with one, transparent pixels are skipped.
func (w *Window) DrawTo(dst *graphics.FrameBuffer, pos graphics.Point, area graphics.Rect) {
	winArea := graphics.Rect{Pos: pos, Size: w.Size()}
	visible := area.Intersect(winArea)
	if visible.Empty() {
		return
	}
	src := graphics.Rect{Pos: visible.Pos.Sub(pos), Size: visible.Size}
	if w.transparent == nil {
		_ = dst.Copy(visible.Pos, w.shadow, src)
		return
	}
	tc := *w.transparent
	for dy := 0; dy < src.Size.Y; dy++ {
		for dx := 0; dx < src.Size.X; dx++ {
			p := graphics.Point{X: src.Pos.X + dx, Y: src.Pos.Y + dy}
			c := w.data[p.Y][p.X]
			if c == tc {
				continue
			}
			dst.Write(pos.Add(p), c)
		}
	}
}

// Activate is a hook for decorated windows; plain windows ignore it.
func (w *Window) Activate() {}

// Deactivate is a hook for decorated windows; plain windows ignore it.
func (w *Window) Deactivate() {}

// Move shifts the src rectangle inside the window so its origin lands on
// dstPos, preserving pixels outside src and handling overlap.
func (w *Window) Move(dstPos graphics.Point, src graphics.Rect) {
	w.shadow.MoveRect(dstPos, src)

	sa := src.Intersect(graphics.Rect{Size: w.Size()})
	da := graphics.Rect{Pos: dstPos, Size: sa.Size}.Intersect(graphics.Rect{Size: w.Size()})
	if da.Empty() {
		return
	}
	start := sa.Pos.Add(da.Pos.Sub(dstPos))

	if da.Pos.Y <= start.Y {
		for dy := 0; dy < da.Size.Y; dy++ {
			copy(w.data[da.Pos.Y+dy][da.Pos.X:da.Pos.X+da.Size.X],
				w.data[start.Y+dy][start.X:start.X+da.Size.X])
		}
	} else {
		for dy := da.Size.Y - 1; dy >= 0; dy-- {
			copy(w.data[da.Pos.Y+dy][da.Pos.X:da.Pos.X+da.Size.X],
				w.data[start.Y+dy][start.X:start.X+da.Size.X])
		}
	}
}
