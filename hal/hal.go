// Package hal is the only contact point between the OS and the outside
// world: display, keyboard, timebase, PCI configuration space and the
// machine's memory and boot volume.
//
// The host implementation backs the display with an ebiten window (or a
// terminal in headless mode) and simulates the rest; a bare-metal port
// would supply the same interfaces over real hardware.
package hal

import "errors"

var ErrNotImplemented = errors.New("not implemented")

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
}

// PixelFormat is the channel order of the 4-byte framebuffer pixels, as the
// bootloader reports it.
type PixelFormat uint8

const (
	PixelFormatRGB8 PixelFormat = iota + 1
	PixelFormatBGR8
)

// FrameBufferConfig describes the display the bootloader handed over.
type FrameBufferConfig struct {
	Width             int
	Height            int
	PixelsPerScanLine int
	Format            PixelFormat
}

// Display exposes the framebuffer memory.
type Display interface {
	Config() FrameBufferConfig
	Buffer() []byte
	Present() error
}

// KeyEvent is one decoded keyboard event: a USB HID usage id plus the
// ASCII byte it maps to (0 for non-printing keys).
type KeyEvent struct {
	Modifier uint8
	Keycode  uint8
	ASCII    uint8
}

// Keyboard provides key events.
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Input provides access to input devices.
type Input interface {
	Keyboard() Keyboard
}

// Time provides the base tick stream; tick duration is platform-defined.
type Time interface {
	Ticks() <-chan uint64
}

// ConfigSpace is the PCI CONFIG_ADDRESS/CONFIG_DATA register pair
// (0x0CF8/0x0CFC on metal).
type ConfigSpace interface {
	WriteAddress(addr uint32)
	WriteData(v uint32)
	ReadData() uint32
}

// MemoryRegion is one bootloader memory-map record.
type MemoryRegion struct {
	Type      uint32
	PhysStart uint64
	NumPages  uint64
}

// MemReader reads guest-virtual memory; the kernel supplies one backed by
// the loaded page map.
type MemReader func(addr uint64, b []byte) error

// Machine owns physical memory, the boot volume and program execution.
type Machine interface {
	// RAM is the physical memory array frames index into.
	RAM() []byte

	// MemoryMap is the bootloader's view of RAM.
	MemoryMap() []MemoryRegion

	// VolumeImage is the raw FAT32 boot volume.
	VolumeImage() []byte

	// Exec runs a loaded program. read resolves virtual addresses through
	// the program's page map; the return value is the exit status.
	Exec(read MemReader, entry uint64, argv []string) (int, error)
}

// HAL bundles the machine interfaces the OS boots against.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
	PCI() ConfigSpace
	Machine() Machine
}
