//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
)

// Config selects the host machine geometry.
type Config struct {
	Width      int
	Height     int
	RAMBytes   int
	VolumePath string
}

// DefaultConfig is the stock host machine.
func DefaultConfig() Config {
	return Config{Width: 800, Height: 600, RAMBytes: 64 * 1024 * 1024}
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	t      *hostTime
	pci    *hostConfigSpace
	mach   *hostMachine
}

// New returns a host HAL implementation.
func New(cfg Config) HAL {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		def := DefaultConfig()
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	if cfg.RAMBytes <= 0 {
		cfg.RAMBytes = DefaultConfig().RAMBytes
	}
	return &hostHAL{
		logger: &hostLogger{w: os.Stdout},
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		kbd:    newHostKeyboard(),
		t:      newHostTime(),
		pci:    newHostConfigSpace(defaultTopology()),
		mach:   newHostMachine(cfg),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return h.fb }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) PCI() ConfigSpace { return h.pci }
func (h *hostHAL) Machine() Machine { return h.mach }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}
