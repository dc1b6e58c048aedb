//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"ember/app"
	"ember/hal"
)

func main() {
	cfg := hal.DefaultConfig()
	var hcfg hal.HeadlessConfig
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.BoolVar(&hcfg.NoTTY, "no-tty", false, "Headless: do not read keys from the terminal.")
	flag.StringVar(&cfg.VolumePath, "volume", "", "FAT32 boot volume image (default: built-in).")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Framebuffer width.")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Framebuffer height.")
	flag.Parse()

	if hcfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, cfg, hcfg, app.New); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(cfg, app.New); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
