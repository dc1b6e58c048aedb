//go:build !tinygo

package hal

import (
	"context"

	"github.com/mattn/go-tty"
)

// readTTY feeds raw terminal input into the keyboard channel: printable
// runes carry their ASCII byte, CR becomes newline, DEL becomes backspace,
// and the arrow-key escape sequences map to HID up/down.
func readTTY(ctx context.Context, ch chan<- KeyEvent) error {
	t, err := tty.Open()
	if err != nil {
		return err
	}
	defer t.Close()

	var esc []rune
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r, err := t.ReadRune()
		if err != nil {
			return err
		}

		if len(esc) > 0 {
			esc = append(esc, r)
			if len(esc) == 3 {
				switch esc[2] {
				case 'A':
					send(ctx, ch, KeyEvent{Keycode: KeycodeUp})
				case 'B':
					send(ctx, ch, KeyEvent{Keycode: KeycodeDown})
				}
				esc = esc[:0]
			}
			continue
		}

		switch r {
		case 0x1b:
			esc = append(esc, r)
		case '\r', '\n':
			send(ctx, ch, KeyEvent{Keycode: KeycodeEnter, ASCII: '\n'})
		case 0x7f, '\b':
			send(ctx, ch, KeyEvent{Keycode: KeycodeBackspace, ASCII: '\b'})
		default:
			if r > 0 && r < 0x80 {
				send(ctx, ch, KeyEvent{ASCII: uint8(r)})
			}
		}
	}
}

func send(ctx context.Context, ch chan<- KeyEvent, ev KeyEvent) {
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}
