// Package terminal is the command-line task: a text grid inside a toplevel
// window, a line editor with history, and the command dispatcher that ties
// the PCI scanner, the FAT volume and the ELF loader together.
package terminal

import (
	"ember/emberos/graphics"
	"ember/emberos/window"
)

const (
	lineBufSize  = 128
	historySize  = 8
	cursorWidth  = window.CellWidth - 1
	cursorHeight = window.CellHeight - 1
)

var (
	textColor = graphics.PixelColor{R: 0xff, G: 0xff, B: 0xff}
	backColor = graphics.PixelColor{}
)

// Terminal owns the window contents. All methods return the dirty rectangle
// in window coordinates so the caller can request a partial redraw.
type Terminal struct {
	tl      *window.Toplevel
	layerID uint32

	rows, cols int
	cursor     graphics.Point
	visible    bool

	lineBuf [lineBufSize]byte
	lineLen int

	history      [historySize]string
	historyIndex int

	env *Environment
}

// New sets up the grid over the toplevel's inner area and prints the first
// prompt. Cell metrics fix the grid: cols = inner.x/8, rows = inner.y/16.
func New(tl *window.Toplevel, layerID uint32, env *Environment) *Terminal {
	inner := tl.InnerSize()
	t := &Terminal{
		tl:           tl,
		layerID:      layerID,
		cols:         inner.X / window.CellWidth,
		rows:         inner.Y / window.CellHeight,
		historyIndex: -1,
		env:          env,
	}
	graphics.FillRectangle(tl.Inner(), graphics.Point{}, inner, backColor)
	t.printPrompt()
	return t
}

// LayerID returns the compositor layer the terminal draws into.
func (t *Terminal) LayerID() uint32 { return t.layerID }

// Rows and Columns report the text grid size.
func (t *Terminal) Rows() int    { return t.rows }
func (t *Terminal) Columns() int { return t.cols }

// innerArea is the whole inner surface in window coordinates.
func (t *Terminal) innerArea() graphics.Rect {
	return graphics.Rect{Pos: window.TopLeftMargin, Size: t.tl.InnerSize()}
}

// cellPos converts a cell coordinate to window pixels.
func (t *Terminal) cellPos(cell graphics.Point) graphics.Point {
	return window.TopLeftMargin.Add(graphics.Point{
		X: cell.X * window.CellWidth,
		Y: cell.Y * window.CellHeight,
	})
}

func (t *Terminal) cellArea(cell graphics.Point) graphics.Rect {
	return graphics.Rect{
		Pos:  t.cellPos(cell),
		Size: graphics.Point{X: window.CellWidth, Y: window.CellHeight},
	}
}

func (t *Terminal) drawChar(cell graphics.Point, ch byte) {
	pos := t.cellPos(cell)
	graphics.FillRectangle(t.tl, pos,
		graphics.Point{X: window.CellWidth, Y: window.CellHeight}, backColor)
	if ch > 0x20 && ch < 0x7f {
		window.DrawString(t.tl, pos, string(rune(ch)), textColor)
	}
}

func (t *Terminal) drawCursor(visible bool) {
	c := backColor
	if visible {
		c = textColor
	}
	graphics.FillRectangle(t.tl, t.cellPos(t.cursor),
		graphics.Point{X: cursorWidth, Y: cursorHeight}, c)
}

// BlinkCursor toggles the cursor cell and returns its dirty rectangle.
func (t *Terminal) BlinkCursor() graphics.Rect {
	t.visible = !t.visible
	t.drawCursor(t.visible)
	return graphics.Rect{
		Pos:  t.cellPos(t.cursor),
		Size: graphics.Point{X: cursorWidth, Y: cursorHeight},
	}
}

// Scroll1 shifts the inner area up one text row and clears the bottom row.
func (t *Terminal) Scroll1() {
	src := graphics.Rect{
		Pos: window.TopLeftMargin.Add(graphics.Point{Y: window.CellHeight}),
		Size: graphics.Point{
			X: t.cols * window.CellWidth,
			Y: (t.rows - 1) * window.CellHeight,
		},
	}
	t.tl.Move(window.TopLeftMargin, src)
	graphics.FillRectangle(t.tl,
		t.cellPos(graphics.Point{Y: t.rows - 1}),
		graphics.Point{X: t.cols * window.CellWidth, Y: window.CellHeight},
		backColor)
}

func (t *Terminal) newline() {
	t.cursor.X = 0
	if t.cursor.Y < t.rows-1 {
		t.cursor.Y++
	} else {
		t.Scroll1()
	}
}

func (t *Terminal) printByte(ch byte) {
	if ch == '\n' {
		t.newline()
		return
	}
	t.drawChar(t.cursor, ch)
	if t.cursor.X+1 >= t.cols {
		t.newline()
	} else {
		t.cursor.X++
	}
}

// Print writes a string at the cursor, wrapping and scrolling as needed.
func (t *Terminal) Print(s string) {
	t.drawCursor(false)
	for i := 0; i < len(s); i++ {
		t.printByte(s[i])
	}
	t.drawCursor(t.visible)
}

func (t *Terminal) printPrompt() {
	t.Print(">")
}

// USB HID usage ids the line editor reacts to.
const (
	keycodeDown = 0x51
	keycodeUp   = 0x52
)

// InputKey feeds one keyboard event into the line editor and returns the
// dirty rectangle.
func (t *Terminal) InputKey(modifier, keycode, ascii uint8) graphics.Rect {
	t.drawCursor(false)
	draw := graphics.Rect{
		Pos:  t.cellPos(t.cursor),
		Size: graphics.Point{X: window.CellWidth, Y: window.CellHeight},
	}

	switch {
	case ascii == '\n':
		line := string(t.lineBuf[:t.lineLen])
		if t.lineLen > 0 {
			copy(t.history[1:], t.history[:historySize-1])
			t.history[0] = line
		}
		t.lineLen = 0
		t.historyIndex = -1

		t.cursor.X = 0
		if t.cursor.Y < t.rows-1 {
			t.cursor.Y++
		} else {
			t.Scroll1()
		}
		t.executeLine(line)
		t.printPrompt()
		draw = t.innerArea()

	case ascii == '\b':
		if t.cursor.X > 0 && t.lineLen > 0 {
			t.cursor.X--
			graphics.FillRectangle(t.tl, t.cellPos(t.cursor),
				graphics.Point{X: window.CellWidth, Y: window.CellHeight}, backColor)
			draw = t.cellArea(t.cursor)
			t.lineLen--
		}

	case ascii != 0:
		if t.lineLen < lineBufSize-1 && t.cursor.X < t.cols-1 {
			t.lineBuf[t.lineLen] = ascii
			t.lineLen++
			t.drawChar(t.cursor, ascii)
			draw = t.cellArea(t.cursor)
			t.cursor.X++
		}

	case keycode == keycodeDown:
		draw = t.historyUpDown(-1)

	case keycode == keycodeUp:
		draw = t.historyUpDown(1)
	}

	t.drawCursor(t.visible)
	return draw
}

// historyUpDown replaces the edit line with a history entry: +1 steps back
// in time, -1 forward. The whole edit row is redrawn.
func (t *Terminal) historyUpDown(direction int) graphics.Rect {
	if direction == -1 && t.historyIndex >= 0 {
		t.historyIndex--
	} else if direction == 1 && t.historyIndex+1 < historySize {
		t.historyIndex++
	}

	t.cursor.X = 1
	first := t.cursor
	draw := graphics.Rect{
		Pos: t.cellPos(first),
		Size: graphics.Point{
			X: (t.cols - 1) * window.CellWidth,
			Y: window.CellHeight,
		},
	}
	graphics.FillRectangle(t.tl, draw.Pos, draw.Size, backColor)

	var line string
	if t.historyIndex >= 0 {
		line = t.history[t.historyIndex]
	}
	t.lineLen = copy(t.lineBuf[:lineBufSize-1], line)
	t.Print(line)
	return draw
}
