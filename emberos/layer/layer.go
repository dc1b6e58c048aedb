// Package layer is the compositor: an ordered stack of windowed layers
// drawn through a back buffer onto the screen.
package layer

import (
	"ember/emberos/graphics"
)

// Surface is what a layer displays. Both plain and decorated windows
// satisfy it.
type Surface interface {
	Size() graphics.Point
	DrawTo(dst *graphics.FrameBuffer, pos graphics.Point, area graphics.Rect)
	Activate()
	Deactivate()
}

// Layer is one entry in the compositor stack.
type Layer struct {
	id        uint32
	pos       graphics.Point
	surface   Surface
	draggable bool
}

// ID returns the layer's unique id.
func (l *Layer) ID() uint32 { return l.id }

// SetWindow attaches the surface the layer displays.
func (l *Layer) SetWindow(s Surface) *Layer {
	l.surface = s
	return l
}

// Window returns the attached surface.
func (l *Layer) Window() Surface { return l.surface }

// Position returns the layer origin in screen coordinates.
func (l *Layer) Position() graphics.Point { return l.pos }

// Move places the layer origin; it does not redraw.
func (l *Layer) Move(pos graphics.Point) *Layer {
	l.pos = pos
	return l
}

// MoveRelative shifts the layer origin; it does not redraw.
func (l *Layer) MoveRelative(diff graphics.Point) *Layer {
	l.pos = l.pos.Add(diff)
	return l
}

// SetDraggable marks the layer as movable by pointer drag.
func (l *Layer) SetDraggable(d bool) *Layer {
	l.draggable = d
	return l
}

// Draggable reports whether the layer may be dragged.
func (l *Layer) Draggable() bool { return l.draggable }

// Bounds returns the layer's on-screen rectangle.
func (l *Layer) Bounds() graphics.Rect {
	if l.surface == nil {
		return graphics.Rect{Pos: l.pos}
	}
	return graphics.Rect{Pos: l.pos, Size: l.surface.Size()}
}

// DrawTo draws the layer's intersection with area onto screen.
func (l *Layer) DrawTo(screen *graphics.FrameBuffer, area graphics.Rect) {
	if l.surface == nil {
		return
	}
	l.surface.DrawTo(screen, l.pos, area)
}
