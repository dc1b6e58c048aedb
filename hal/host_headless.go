//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	NoTTY   bool
}

// RunHeadless runs the OS without opening a window. Keyboard input comes
// from the controlling terminal unless NoTTY is set.
func RunHeadless(ctx context.Context, cfg Config, hcfg HeadlessConfig, newApp func(HAL) func() error) error {
	if hcfg.Hz <= 0 {
		hcfg.Hz = 60
	}
	d := time.Second / time.Duration(hcfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", hcfg.Hz)
	}

	h := New(cfg).(*hostHAL)
	step := newApp(h)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if !hcfg.NoTTY {
		g.Go(func() error {
			return readTTY(ctx, h.kbd.ch)
		})
	}

	g.Go(func() error {
		t := time.NewTicker(d)
		defer t.Stop()

		var tick uint64
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				h.t.step(1)
				if step != nil {
					if err := step(); err != nil {
						return err
					}
				}
				tick++
				if hcfg.Ticks > 0 && tick >= hcfg.Ticks {
					cancel()
					return nil
				}
			}
		}
	})

	err := g.Wait()
	if err == context.Canceled {
		return nil
	}
	return err
}
