//go:build !tinygo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// USB HID usage ids for the keys the kernel cares about.
const (
	KeycodeEnter     = 0x28
	KeycodeBackspace = 0x2a
	KeycodeDown      = 0x51
	KeycodeUp        = 0x52
)

// Modifier bits, HID boot-protocol layout.
const (
	ModifierLCtrl  = 0x01
	ModifierLShift = 0x02
	ModifierLAlt   = 0x04
)

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) poll() {
	var modifier uint8
	if ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		modifier |= ModifierLCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		modifier |= ModifierLShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		modifier |= ModifierLAlt
	}

	emit := func(ev KeyEvent) {
		ev.Modifier = modifier
		select {
		case k.ch <- ev:
		default:
		}
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if r > 0 && r < 0x80 {
			emit(KeyEvent{ASCII: uint8(r)})
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		emit(KeyEvent{Keycode: KeycodeEnter, ASCII: '\n'})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		emit(KeyEvent{Keycode: KeycodeBackspace, ASCII: '\b'})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		emit(KeyEvent{Keycode: KeycodeDown})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		emit(KeyEvent{Keycode: KeycodeUp})
	}
}
