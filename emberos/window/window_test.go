package window

import (
	"testing"

	"ember/emberos/graphics"
)

func newScreen(t *testing.T, w, h int) *graphics.FrameBuffer {
	t.Helper()
	fb, err := graphics.New(graphics.Config{Width: w, Height: h, Format: graphics.PixelRGB8})
	if err != nil {
		t.Fatalf("graphics.New() error = %v, want nil", err)
	}
	return fb
}

func TestDrawToOpaque(t *testing.T) {
	screen := newScreen(t, 10, 10)
	w, err := New(4, 4, graphics.PixelRGB8)
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}
	red := graphics.PixelColor{R: 0xff}
	graphics.FillRectangle(w, graphics.Point{}, w.Size(), red)

	w.DrawTo(screen, graphics.Point{X: 3, Y: 3}, graphics.Rect{Size: screen.Size()})

	if got := screen.At(graphics.Point{X: 3, Y: 3}); got != red {
		t.Fatalf("At(3,3) = %+v, want red", got)
	}
	if got := screen.At(graphics.Point{X: 7, Y: 7}); got != (graphics.PixelColor{}) {
		t.Fatalf("At(7,7) = %+v, want black", got)
	}
}

func TestDrawToRespectsArea(t *testing.T) {
	screen := newScreen(t, 10, 10)
	w, _ := New(4, 4, graphics.PixelRGB8)
	red := graphics.PixelColor{R: 0xff}
	graphics.FillRectangle(w, graphics.Point{}, w.Size(), red)

	area := graphics.Rect{Pos: graphics.Point{X: 0, Y: 0}, Size: graphics.Point{X: 2, Y: 10}}
	w.DrawTo(screen, graphics.Point{}, area)

	if got := screen.At(graphics.Point{X: 1, Y: 1}); got != red {
		t.Fatalf("At(1,1) = %+v, want red", got)
	}
	if got := screen.At(graphics.Point{X: 3, Y: 1}); got != (graphics.PixelColor{}) {
		t.Fatalf("At(3,1) = %+v, want untouched", got)
	}
}

func TestDrawToTransparent(t *testing.T) {
	screen := newScreen(t, 10, 10)
	blue := graphics.PixelColor{B: 0xff}
	graphics.FillRectangle(screen, graphics.Point{}, screen.Size(), blue)

	w, _ := New(4, 4, graphics.PixelRGB8)
	key := graphics.PixelColor{R: 1, G: 2, B: 3}
	red := graphics.PixelColor{R: 0xff}
	graphics.FillRectangle(w, graphics.Point{}, w.Size(), key)
	w.Write(graphics.Point{X: 1, Y: 1}, red)
	w.SetTransparentColor(&key)

	w.DrawTo(screen, graphics.Point{}, graphics.Rect{Size: screen.Size()})

	if got := screen.At(graphics.Point{X: 1, Y: 1}); got != red {
		t.Fatalf("At(1,1) = %+v, want red", got)
	}
	if got := screen.At(graphics.Point{X: 0, Y: 0}); got != blue {
		t.Fatalf("At(0,0) = %+v, want background preserved", got)
	}
}

func TestWindowMovePreservesOutside(t *testing.T) {
	w, _ := New(1, 4, graphics.PixelRGB8)
	for y := 0; y < 4; y++ {
		w.Write(graphics.Point{X: 0, Y: y}, graphics.PixelColor{R: uint8(y + 1)})
	}
	w.Move(graphics.Point{X: 0, Y: 0},
		graphics.Rect{Pos: graphics.Point{X: 0, Y: 1}, Size: graphics.Point{X: 1, Y: 3}})

	want := []uint8{2, 3, 4, 4}
	for y := 0; y < 4; y++ {
		if got := w.At(graphics.Point{X: 0, Y: y}).R; got != want[y] {
			t.Fatalf("At(0,%d).R = %d, want %d", y, got, want[y])
		}
		if got := w.Shadow().At(graphics.Point{X: 0, Y: y}).R; got != want[y] {
			t.Fatalf("Shadow().At(0,%d).R = %d, want %d", y, got, want[y])
		}
	}
}

func TestToplevelInnerGeometry(t *testing.T) {
	tl, err := NewToplevel(100, 80, graphics.PixelRGB8, "t")
	if err != nil {
		t.Fatalf("NewToplevel() error = %v, want nil", err)
	}

	inner := tl.InnerSize()
	want := graphics.Point{
		X: 100 - TopLeftMargin.X - BottomRightMargin.X,
		Y: 80 - TopLeftMargin.Y - BottomRightMargin.Y,
	}
	if inner != want {
		t.Fatalf("InnerSize() = %+v, want %+v", inner, want)
	}

	green := graphics.PixelColor{G: 0xff}
	tl.Inner().Write(graphics.Point{}, green)
	if got := tl.At(TopLeftMargin); got != green {
		t.Fatalf("inner origin landed at %+v = %+v, want green at margin", TopLeftMargin, got)
	}

	// Out-of-range inner writes are dropped.
	tl.Inner().Write(graphics.Point{X: inner.X, Y: 0}, green)
	if got := tl.At(graphics.Point{X: TopLeftMargin.X + inner.X, Y: TopLeftMargin.Y}); got == green {
		t.Fatalf("write past inner area leaked through")
	}
}

func TestToplevelActivatePalette(t *testing.T) {
	tl, _ := NewToplevel(100, 80, graphics.PixelRGB8, "t")
	probe := graphics.Point{X: 50, Y: 10} // inside the title bar

	inactive := tl.At(probe)
	tl.Activate()
	active := tl.At(probe)
	if active == inactive {
		t.Fatalf("Activate() did not change the title bar")
	}
	if active != titleActive {
		t.Fatalf("title bar = %+v, want %+v", active, titleActive)
	}
	tl.Deactivate()
	if got := tl.At(probe); got != inactive {
		t.Fatalf("Deactivate() = %+v, want %+v", got, inactive)
	}
}
