package layer

import (
	"ember/emberos/graphics"
	"ember/emberos/kerror"
)

// Manager owns every layer and the visible stack, bottom to top. Drawing
// goes through a back buffer so one flush is one visible frame.
type Manager struct {
	screen *graphics.FrameBuffer
	back   *graphics.FrameBuffer

	layers   []*Layer
	stack    []*Layer
	latestID uint32
}

// NewManager creates a compositor for the screen, with a format-matched
// back buffer.
func NewManager(screen *graphics.FrameBuffer) (*Manager, error) {
	back, err := graphics.NewShadow(screen.Size(), screen)
	if err != nil {
		return nil, err
	}
	return &Manager{screen: screen, back: back}, nil
}

// NewLayer allocates a layer with a fresh id. It starts hidden.
func (m *Manager) NewLayer() *Layer {
	m.latestID++
	l := &Layer{id: m.latestID}
	m.layers = append(m.layers, l)
	return l
}

func (m *Manager) findLayer(id uint32) *Layer {
	for _, l := range m.layers {
		if l.id == id {
			return l
		}
	}
	return nil
}

// Draw composites every stacked layer intersecting area into the back
// buffer and blits the result to the screen.
func (m *Manager) Draw(area graphics.Rect) {
	area = area.Intersect(graphics.Rect{Size: m.screen.Size()})
	if area.Empty() {
		return
	}
	graphics.FillRectangle(m.back, area.Pos, area.Size, graphics.PixelColor{})
	for _, l := range m.stack {
		l.DrawTo(m.back, area)
	}
	_ = m.screen.Copy(area.Pos, m.back, area)
}

// DrawLayer redraws one stacked layer and everything above it, on the
// caller's contract that the layer is opaque over its bounds.
func (m *Manager) DrawLayer(id uint32) error {
	return m.DrawLayerArea(id, graphics.Rect{Size: graphics.Point{X: -1, Y: -1}})
}

// DrawLayerArea is DrawLayer restricted to area, given in layer-local
// coordinates. A negative size means the whole layer.
func (m *Manager) DrawLayerArea(id uint32, area graphics.Rect) error {
	drawing := false
	var target graphics.Rect
	for _, l := range m.stack {
		if l.id == id {
			target = l.Bounds()
			if area.Size.X >= 0 && area.Size.Y >= 0 {
				target = target.Intersect(area.Translate(l.pos))
			}
			drawing = true
		}
		if drawing {
			l.DrawTo(m.back, target)
		}
	}
	if !drawing {
		return kerror.IndexOutOfRange
	}
	_ = m.screen.Copy(target.Pos, m.back, target)
	return nil
}

// Move places a layer at an absolute position and redraws the union of the
// old and new bounds.
func (m *Manager) Move(id uint32, pos graphics.Point) {
	l := m.findLayer(id)
	if l == nil {
		return
	}
	old := l.Bounds()
	l.Move(pos)
	m.Draw(old.Union(l.Bounds()))
}

// MoveRelative shifts a layer and redraws the union of the old and new
// bounds.
func (m *Manager) MoveRelative(id uint32, diff graphics.Point) {
	l := m.findLayer(id)
	if l == nil {
		return
	}
	old := l.Bounds()
	l.MoveRelative(diff)
	m.Draw(old.Union(l.Bounds()))
}

// UpDown sets a layer's stack height. Negative heights hide the layer;
// heights beyond the top clamp to the top. The layer appears exactly once
// in the stack afterwards (or not at all when hidden).
func (m *Manager) UpDown(id uint32, height int) {
	if height < 0 {
		m.Hide(id)
		return
	}
	l := m.findLayer(id)
	if l == nil {
		return
	}
	if height > len(m.stack) {
		height = len(m.stack)
	}
	for i, s := range m.stack {
		if s == l {
			m.stack = append(m.stack[:i], m.stack[i+1:]...)
			if height > len(m.stack) {
				height = len(m.stack)
			}
			break
		}
	}
	m.stack = append(m.stack, nil)
	copy(m.stack[height+1:], m.stack[height:])
	m.stack[height] = l
}

// Hide removes a layer from the stack without destroying it.
func (m *Manager) Hide(id uint32) {
	for i, s := range m.stack {
		if s.id == id {
			m.stack = append(m.stack[:i], m.stack[i+1:]...)
			return
		}
	}
}

// GetHeight returns a layer's stack position, or -1 if hidden.
func (m *Manager) GetHeight(id uint32) int {
	for i, s := range m.stack {
		if s.id == id {
			return i
		}
	}
	return -1
}

// TopmostHeight is the height just below the given layer if present, else
// the top of the stack. Used to keep the pointer layer above activations.
func (m *Manager) TopmostHeight(below uint32) int {
	if below != 0 {
		if h := m.GetHeight(below); h >= 0 {
			return h
		}
	}
	return len(m.stack)
}

// FindLayerByPosition returns the top layer containing pos, skipping
// excludeID; nil if none.
func (m *Manager) FindLayerByPosition(pos graphics.Point, excludeID uint32) *Layer {
	for i := len(m.stack) - 1; i >= 0; i-- {
		l := m.stack[i]
		if l.id == excludeID {
			continue
		}
		if l.Bounds().Contains(pos) {
			return l
		}
	}
	return nil
}
