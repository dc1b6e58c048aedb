package layer

import (
	"ember/emberos/graphics"
	"ember/emberos/proto"
)

// ProcessMessage applies one layer request to the manager. Messages are the
// only way non-render tasks may trigger drawing; the render task is the
// single writer of the screen.
func (m *Manager) ProcessMessage(p proto.LayerPayload) {
	switch p.Op {
	case proto.LayerMove:
		m.Move(p.LayerID, graphics.Point{X: int(p.X), Y: int(p.Y)})
	case proto.LayerMoveRelative:
		m.MoveRelative(p.LayerID, graphics.Point{X: int(p.X), Y: int(p.Y)})
	case proto.LayerDraw:
		_ = m.DrawLayer(p.LayerID)
	case proto.LayerDrawArea:
		_ = m.DrawLayerArea(p.LayerID, graphics.Rect{
			Pos:  graphics.Point{X: int(p.X), Y: int(p.Y)},
			Size: graphics.Point{X: int(p.W), Y: int(p.H)},
		})
	}
}
