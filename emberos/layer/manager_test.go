package layer

import (
	"testing"

	"ember/emberos/graphics"
	"ember/emberos/proto"
	"ember/emberos/window"
)

func newTestManager(t *testing.T) (*Manager, *graphics.FrameBuffer) {
	t.Helper()
	screen, err := graphics.New(graphics.Config{Width: 20, Height: 20, Format: graphics.PixelRGB8})
	if err != nil {
		t.Fatalf("graphics.New() error = %v, want nil", err)
	}
	m, err := NewManager(screen)
	if err != nil {
		t.Fatalf("NewManager() error = %v, want nil", err)
	}
	return m, screen
}

func solidWindow(t *testing.T, w, h int, c graphics.PixelColor) *window.Window {
	t.Helper()
	win, err := window.New(w, h, graphics.PixelRGB8)
	if err != nil {
		t.Fatalf("window.New() error = %v, want nil", err)
	}
	graphics.FillRectangle(win, graphics.Point{}, win.Size(), c)
	return win
}

func TestNewLayerIDsAndHidden(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.NewLayer()
	b := m.NewLayer()
	if a.ID() == 0 || b.ID() != a.ID()+1 {
		t.Fatalf("ids = %d, %d, want dense increasing from 1", a.ID(), b.ID())
	}
	if h := m.GetHeight(a.ID()); h != -1 {
		t.Fatalf("GetHeight(new) = %d, want -1 (hidden)", h)
	}
}

func TestUpDownReorder(t *testing.T) {
	m, _ := newTestManager(t)
	red := graphics.PixelColor{R: 0xff}
	green := graphics.PixelColor{G: 0xff}

	a := m.NewLayer().SetWindow(solidWindow(t, 8, 8, red))
	b := m.NewLayer().SetWindow(solidWindow(t, 8, 8, green))
	m.UpDown(a.ID(), 0)
	m.UpDown(b.ID(), 1)

	if got := m.GetHeight(a.ID()); got != 0 {
		t.Fatalf("GetHeight(a) = %d, want 0", got)
	}
	if got := m.GetHeight(b.ID()); got != 1 {
		t.Fatalf("GetHeight(b) = %d, want 1", got)
	}

	// Raise a above b.
	m.UpDown(a.ID(), 1)
	if got := m.GetHeight(b.ID()); got != 0 {
		t.Fatalf("after raise GetHeight(b) = %d, want 0", got)
	}
	if got := m.GetHeight(a.ID()); got != 1 {
		t.Fatalf("after raise GetHeight(a) = %d, want 1", got)
	}

	// Each layer appears exactly once.
	count := 0
	for _, l := range m.stack {
		if l.ID() == a.ID() {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("layer a appears %d times, want 1", count)
	}

	// Both cover the same point: the raised layer wins the hit test.
	p := graphics.Point{X: 2, Y: 2}
	if got := m.FindLayerByPosition(p, 0); got != a {
		t.Fatalf("FindLayerByPosition() = layer %d, want %d", got.ID(), a.ID())
	}
}

func TestUpDownNegativeHides(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.NewLayer().SetWindow(solidWindow(t, 4, 4, graphics.PixelColor{R: 1}))
	m.UpDown(a.ID(), 0)
	m.UpDown(a.ID(), -1)
	if got := m.GetHeight(a.ID()); got != -1 {
		t.Fatalf("GetHeight(hidden) = %d, want -1", got)
	}
	if len(m.stack) != 0 {
		t.Fatalf("stack size = %d, want 0", len(m.stack))
	}
}

func TestDrawComposites(t *testing.T) {
	m, screen := newTestManager(t)
	red := graphics.PixelColor{R: 0xff}
	green := graphics.PixelColor{G: 0xff}

	bottom := m.NewLayer().SetWindow(solidWindow(t, 20, 20, red))
	top := m.NewLayer().SetWindow(solidWindow(t, 4, 4, green)).Move(graphics.Point{X: 8, Y: 8})
	m.UpDown(bottom.ID(), 0)
	m.UpDown(top.ID(), 1)

	m.Draw(graphics.Rect{Size: screen.Size()})

	if got := screen.At(graphics.Point{X: 0, Y: 0}); got != red {
		t.Fatalf("At(0,0) = %+v, want bottom layer", got)
	}
	if got := screen.At(graphics.Point{X: 9, Y: 9}); got != green {
		t.Fatalf("At(9,9) = %+v, want top layer", got)
	}
	if got := screen.At(graphics.Point{X: 12, Y: 12}); got != red {
		t.Fatalf("At(12,12) = %+v, want bottom layer again", got)
	}
}

func TestMoveRedrawsOldArea(t *testing.T) {
	m, screen := newTestManager(t)
	red := graphics.PixelColor{R: 0xff}
	green := graphics.PixelColor{G: 0xff}

	bg := m.NewLayer().SetWindow(solidWindow(t, 20, 20, red))
	fg := m.NewLayer().SetWindow(solidWindow(t, 4, 4, green))
	m.UpDown(bg.ID(), 0)
	m.UpDown(fg.ID(), 1)
	m.Draw(graphics.Rect{Size: screen.Size()})

	m.Move(fg.ID(), graphics.Point{X: 10, Y: 10})

	if got := screen.At(graphics.Point{X: 1, Y: 1}); got != red {
		t.Fatalf("old position At(1,1) = %+v, want background", got)
	}
	if got := screen.At(graphics.Point{X: 11, Y: 11}); got != green {
		t.Fatalf("new position At(11,11) = %+v, want layer", got)
	}
}

func TestFindLayerByPositionExcludes(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.NewLayer().SetWindow(solidWindow(t, 8, 8, graphics.PixelColor{R: 1}))
	b := m.NewLayer().SetWindow(solidWindow(t, 8, 8, graphics.PixelColor{G: 1}))
	m.UpDown(a.ID(), 0)
	m.UpDown(b.ID(), 1)

	p := graphics.Point{X: 3, Y: 3}
	if got := m.FindLayerByPosition(p, b.ID()); got != a {
		t.Fatalf("FindLayerByPosition(exclude top) = %v, want bottom layer", got)
	}
	if got := m.FindLayerByPosition(graphics.Point{X: 19, Y: 19}, 0); got != nil {
		t.Fatalf("FindLayerByPosition(outside) = layer %d, want nil", got.ID())
	}
}

func TestProcessMessage(t *testing.T) {
	m, screen := newTestManager(t)
	green := graphics.PixelColor{G: 0xff}
	l := m.NewLayer().SetWindow(solidWindow(t, 4, 4, green))
	m.UpDown(l.ID(), 0)

	m.ProcessMessage(proto.LayerPayload{LayerID: l.ID(), Op: proto.LayerMove, X: 5, Y: 6})
	if got := l.Position(); got != (graphics.Point{X: 5, Y: 6}) {
		t.Fatalf("Position() = %+v, want (5,6)", got)
	}

	m.ProcessMessage(proto.LayerPayload{LayerID: l.ID(), Op: proto.LayerMoveRelative, X: -1, Y: 1})
	if got := l.Position(); got != (graphics.Point{X: 4, Y: 7}) {
		t.Fatalf("Position() = %+v, want (4,7)", got)
	}

	m.ProcessMessage(proto.LayerPayload{LayerID: l.ID(), Op: proto.LayerDraw})
	if got := screen.At(graphics.Point{X: 5, Y: 8}); got != green {
		t.Fatalf("At(5,8) = %+v, want drawn layer", got)
	}
}

func TestActiveLayerSwitchesDecoration(t *testing.T) {
	m, _ := newTestManager(t)
	w1, err := window.NewToplevel(16, 30, graphics.PixelRGB8, "one")
	if err != nil {
		t.Fatalf("NewToplevel() error = %v, want nil", err)
	}
	w2, _ := window.NewToplevel(16, 30, graphics.PixelRGB8, "two")

	l1 := m.NewLayer().SetWindow(w1)
	l2 := m.NewLayer().SetWindow(w2)
	m.UpDown(l1.ID(), 0)
	m.UpDown(l2.ID(), 1)

	a := NewActiveLayer(m)
	a.Activate(l1.ID())
	if got := a.GetActive(); got != l1.ID() {
		t.Fatalf("GetActive() = %d, want %d", got, l1.ID())
	}
	if got := m.GetHeight(l1.ID()); got != 1 {
		t.Fatalf("GetHeight(active) = %d, want raised to top", got)
	}

	a.Activate(l2.ID())
	if got := a.GetActive(); got != l2.ID() {
		t.Fatalf("GetActive() = %d, want %d", got, l2.ID())
	}
}
