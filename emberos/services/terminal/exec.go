package terminal

import (
	"fmt"
	"strings"

	"github.com/google/shlex"

	"ember/emberos/elf"
	"ember/emberos/fat"
	"ember/emberos/graphics"
	"ember/emberos/memory"
	"ember/emberos/paging"
	"ember/emberos/pci"
)

// ExecFunc hands a loaded program to the machine. The HAL decides what
// "running" means; it returns the program's exit status.
type ExecFunc func(space *paging.Space, entry uint64, argv []string) (int, error)

// Environment is everything commands may touch.
type Environment struct {
	PCI    *pci.Scanner
	Volume *fat.Volume
	Memory *memory.BitmapManager
	Space  *paging.Space
	Exec   ExecFunc
}

func (t *Terminal) executeLine(line string) {
	fields, err := shlex.Split(line)
	if err != nil {
		fields = strings.Fields(line)
	}
	if len(fields) == 0 {
		return
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "echo":
		t.Print(strings.Join(args, " ") + "\n")
	case "clear":
		graphics.FillRectangle(t.tl.Inner(), graphics.Point{}, t.tl.InnerSize(), backColor)
		t.cursor = graphics.Point{}
	case "lspci":
		t.cmdLspci()
	case "ls":
		t.cmdLs()
	case "cat":
		t.cmdCat(args)
	case "free":
		t.cmdFree()
	default:
		t.runFile(cmd, fields)
	}
}

func (t *Terminal) cmdLspci() {
	if t.env == nil || t.env.PCI == nil {
		t.Print("lspci: no pci bus\n")
		return
	}
	s := t.env.PCI
	for i := 0; i < s.NumDevice; i++ {
		dev := s.Devices[i]
		vendor := s.ReadVendorID(dev.Bus, dev.Device, dev.Function)
		t.Print(fmt.Sprintf("%02x:%02x.%d vend %04x head %02x class %02x.%02x.%02x\n",
			dev.Bus, dev.Device, dev.Function, vendor, dev.HeaderType,
			dev.Class.Base, dev.Class.Sub, dev.Class.Interface))
	}
}

func (t *Terminal) cmdLs() {
	if t.env == nil || t.env.Volume == nil {
		t.Print("ls: no volume\n")
		return
	}
	t.env.Volume.VisitRootEntries(0, func(e fat.DirectoryEntry) bool {
		if e.Attr&fat.AttrVolumeID != 0 {
			return true
		}
		name := fat.FormatName(e)
		if e.IsDirectory() {
			t.Print(name + "/\n")
		} else {
			t.Print(name + "\n")
		}
		return true
	})
}

func (t *Terminal) cmdCat(args []string) {
	if t.env == nil || t.env.Volume == nil {
		t.Print("cat: no volume\n")
		return
	}
	if len(args) == 0 {
		t.Print("usage: cat <file>\n")
		return
	}
	entry, ok := t.env.Volume.FindFile(args[0], 0)
	if !ok {
		t.Print("no such file: " + args[0] + "\n")
		return
	}
	buf := make([]byte, entry.FileSize)
	n := t.env.Volume.LoadFile(buf, entry)
	if n > int(entry.FileSize) {
		n = int(entry.FileSize)
	}
	t.Print(string(buf[:n]))
}

func (t *Terminal) cmdFree() {
	if t.env == nil || t.env.Memory == nil {
		t.Print("free: no memory manager\n")
		return
	}
	st := t.env.Memory.Stat()
	t.Print(fmt.Sprintf("frames: %d used / %d total (%d KiB free)\n",
		st.Allocated, st.Total,
		(st.Total-st.Allocated)*memory.BytesPerFrame/1024))
}

// runFile looks the command up on the volume and runs it as an ELF
// executable.
func (t *Terminal) runFile(name string, argv []string) {
	if t.env == nil || t.env.Volume == nil {
		t.Print("no such file: " + name + "\n")
		return
	}
	entry, ok := t.env.Volume.FindFile(name, 0)
	if !ok {
		t.Print("no such file: " + name + "\n")
		return
	}
	if t.env.Space == nil || t.env.Exec == nil {
		t.Print("failed to exec file: no machine\n")
		return
	}

	buf := make([]byte, entry.FileSize)
	t.env.Volume.LoadFile(buf, entry)

	im, err := elf.Parse(buf)
	if err != nil {
		t.Print("failed to exec file: " + err.Error() + "\n")
		return
	}
	loaded, err := elf.Load(im, t.env.Space)
	if err != nil {
		// The loader releases nothing on failure; drop whatever was
		// mapped before reporting.
		if first, last := im.LoadRange(); first < last && first >= elf.CanonicalBase {
			_ = t.env.Space.CleanPageMaps(paging.LinearAddress(first))
		}
		t.Print("failed to exec file: " + err.Error() + "\n")
		return
	}

	ret, err := t.env.Exec(t.env.Space, loaded.Entry, argv)
	if err != nil {
		t.Print("failed to exec file: " + err.Error() + "\n")
	} else {
		t.Print(fmt.Sprintf("app exited. ret = %d\n", ret))
	}
	_ = t.env.Space.CleanPageMaps(paging.LinearAddress(loaded.First))
}
