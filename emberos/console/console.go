// Package console is the boot console: kernel log lines rendered straight
// onto the frame buffer until the compositor takes over the screen.
package console

import (
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyterm"

	"ember/emberos/graphics"
)

// Console renders log lines onto the frame buffer. It implements
// klog.Sink.
type Console struct {
	t *tinyterm.Terminal
}

// New puts a terminal renderer over the frame buffer.
func New(fb *graphics.FrameBuffer) *Console {
	d := &fbDisplay{fb: fb}
	t := tinyterm.NewTerminal(d)
	t.Configure(&tinyterm.Config{
		Font:       &tinyfont.TomThumb,
		FontHeight: 8,
		FontOffset: 6,
	})
	return &Console{t: t}
}

// WriteLineString prints one log line.
func (c *Console) WriteLineString(s string) {
	_, _ = c.t.Write([]byte(s))
	_, _ = c.t.Write([]byte{'\n'})
}
