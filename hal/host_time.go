//go:build !tinygo

package hal

import "sync/atomic"

// hostTime ticks once per host frame (60 Hz in the window, cfg.Hz
// headless).
type hostTime struct {
	seq atomic.Uint64
	ch  chan uint64
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 16)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

func (t *hostTime) step(n uint64) {
	seq := t.seq.Add(n)
	select {
	case t.ch <- seq:
	default:
	}
}
