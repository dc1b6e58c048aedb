//go:build !tinygo

package hal

import (
	"encoding/binary"
	"os"

	"ember/emberos/elf/elfgen"
	"ember/emberos/fat/fatimg"
	"ember/emberos/kerror"
)

type hostMachine struct {
	ram    []byte
	memmap []MemoryRegion
	volume []byte
}

func newHostMachine(cfg Config) *hostMachine {
	const pageSize = 4096
	ramPages := uint64(cfg.RAMBytes / pageSize)

	volume := defaultVolume()
	if cfg.VolumePath != "" {
		if img, err := os.ReadFile(cfg.VolumePath); err == nil {
			volume = img
		}
	}

	return &hostMachine{
		ram: make([]byte, cfg.RAMBytes),
		memmap: []MemoryRegion{
			// Low memory stays reserved the way firmware leaves it.
			{Type: 0, PhysStart: 0, NumPages: 256},
			{Type: 3, PhysStart: 0x100000, NumPages: 256},
			{Type: 7, PhysStart: 0x200000, NumPages: ramPages - 512},
		},
		volume: volume,
	}
}

func (m *hostMachine) RAM() []byte               { return m.ram }
func (m *hostMachine) MemoryMap() []MemoryRegion { return m.memmap }
func (m *hostMachine) VolumeImage() []byte       { return m.volume }

// Exec interprets the return stub convention generated programs follow:
// mov eax, imm32; ret. Anything else is not runnable on the host.
func (m *hostMachine) Exec(read MemReader, entry uint64, argv []string) (int, error) {
	var code [6]byte
	if err := read(entry, code[:]); err != nil {
		return 0, err
	}
	if code[0] != 0xb8 || code[5] != 0xc3 {
		return 0, kerror.InvalidFormat
	}
	return int(int32(binary.LittleEndian.Uint32(code[1:5]))), nil
}

// defaultVolume is the built-in boot volume used when -volume is not given.
func defaultVolume() []byte {
	img, err := fatimg.Build([]fatimg.File{
		{Name: "hello.txt", Data: []byte("Hello from the Ember boot volume.\n")},
		{Name: "motd.txt", Data: []byte("Type `ls`, `cat hello.txt`, `lspci`, or run ret42.elf\n")},
		{Name: "ret42.elf", Data: elfgen.BuildReturnApp(42)},
	})
	if err != nil {
		return nil
	}
	return img
}
