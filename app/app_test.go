package app

import (
	"testing"

	"ember/hal"
)

// Boots the whole system against the host HAL and steps it a few frames.
func TestBootAndStep(t *testing.T) {
	h := hal.New(hal.Config{Width: 320, Height: 240, RAMBytes: 16 * 1024 * 1024})

	sys, err := newSystem(h)
	if err != nil {
		t.Fatalf("newSystem() error = %v, want nil", err)
	}
	for i := 0; i < 5; i++ {
		if err := sys.step(); err != nil {
			t.Fatalf("step() error = %v, want nil", err)
		}
	}

	// The compositor drew the desktop and the terminal into the
	// framebuffer.
	buf := h.Display().Buffer()
	nonZero := 0
	for _, b := range buf {
		if b != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Fatalf("framebuffer still blank after boot")
	}
}
