package layer

// ActiveLayer tracks which layer holds the keyboard focus.
type ActiveLayer struct {
	m          *Manager
	active     uint32
	mouseLayer uint32
}

// NewActiveLayer returns the focus tracker for a manager.
func NewActiveLayer(m *Manager) *ActiveLayer {
	return &ActiveLayer{m: m}
}

// SetMouseLayer pins the pointer layer; activations are raised to just
// below it.
func (a *ActiveLayer) SetMouseLayer(id uint32) {
	a.mouseLayer = id
}

// GetActive returns the focused layer id, 0 if none.
func (a *ActiveLayer) GetActive() uint32 { return a.active }

// Activate moves focus to the given layer: the old surface is deactivated,
// the new one activated and raised, and both are redrawn.
func (a *ActiveLayer) Activate(id uint32) {
	if a.active == id {
		return
	}
	if a.active > 0 {
		if l := a.m.findLayer(a.active); l != nil && l.Window() != nil {
			l.Window().Deactivate()
			_ = a.m.DrawLayer(a.active)
		}
	}
	a.active = id
	if id > 0 {
		if l := a.m.findLayer(id); l != nil && l.Window() != nil {
			l.Window().Activate()
			a.m.UpDown(id, a.m.TopmostHeight(a.mouseLayer))
			_ = a.m.DrawLayer(id)
		}
	}
}
