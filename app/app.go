// Package app boots the OS against a HAL: memory, paging, PCI, the boot
// volume, the compositor and the tasks, then steps the kernel from the host
// frame loop.
package app

import (
	"fmt"

	"ember/emberos/console"
	"ember/emberos/fat"
	"ember/emberos/graphics"
	"ember/emberos/kernel"
	"ember/emberos/klog"
	"ember/emberos/layer"
	"ember/emberos/memory"
	"ember/emberos/paging"
	"ember/emberos/pci"
	"ember/emberos/proto"
	"ember/emberos/services/render"
	"ember/emberos/services/terminal"
	"ember/emberos/window"
	"ember/hal"
)

// Terminal geometry, in text cells.
const (
	termColumns = 60
	termRows    = 15
)

// Cursor blink half-period in HAL ticks (60 Hz frame ticks).
const blinkTicks = 30

// stepBudget bounds how many scheduler steps one host frame may run.
const stepBudget = 256

// New initializes and starts the OS, returning the per-frame step
// function.
func New(h hal.HAL) func() error {
	sys, err := newSystem(h)
	if err != nil {
		klog.Errorf("boot failed: %v", err)
		return func() error { return err }
	}
	return sys.step
}

type system struct {
	h       hal.HAL
	tm      *kernel.Manager
	lm      *layer.Manager
	active  *layer.ActiveLayer
	taskMap map[uint32]kernel.TaskID

	kbd   <-chan hal.KeyEvent
	ticks <-chan uint64

	tickCount uint64
}

func newSystem(h hal.HAL) (*system, error) {
	klog.SetSink(h.Logger())
	klog.SetLevel(klog.LvlInfo)

	display := h.Display()
	dcfg := display.Config()
	format := graphics.PixelRGB8
	if dcfg.Format == hal.PixelFormatBGR8 {
		format = graphics.PixelBGR8
	}
	screen, err := graphics.New(graphics.Config{
		Width:             dcfg.Width,
		Height:            dcfg.Height,
		PixelsPerScanLine: dcfg.PixelsPerScanLine,
		Format:            format,
		Buf:               display.Buffer(),
	})
	if err != nil {
		return nil, err
	}

	// Mirror the log onto the screen until the compositor takes over.
	boot := console.New(screen)
	klog.SetSink(klog.Tee(h.Logger(), boot))
	klog.Infof("ember: framebuffer %dx%d", dcfg.Width, dcfg.Height)

	mach := h.Machine()

	mm := memory.NewBitmapManager()
	var entries []memory.MapEntry
	for _, r := range mach.MemoryMap() {
		entries = append(entries, memory.MapEntry{
			Type: r.Type, PhysStart: r.PhysStart, NumPages: r.NumPages,
		})
	}
	mm.InitFromMap(entries)
	st := mm.Stat()
	klog.Infof("ember: %d frames managed, %d reserved", st.Total, st.Allocated)

	space, err := paging.New(mach.RAM(), mm)
	if err != nil {
		return nil, err
	}
	if err := space.MapIdentity(1); err != nil {
		return nil, err
	}

	scanner := pci.NewScanner(h.PCI())
	if err := scanner.ScanAllBus(); err != nil {
		klog.Warnf("pci: scan stopped: %v", err)
	}
	for i := 0; i < scanner.NumDevice; i++ {
		dev := scanner.Devices[i]
		klog.Infof("pci: %02x:%02x.%d vend %04x class %02x.%02x.%02x head %02x",
			dev.Bus, dev.Device, dev.Function,
			scanner.ReadVendorID(dev.Bus, dev.Device, dev.Function),
			dev.Class.Base, dev.Class.Sub, dev.Class.Interface, dev.HeaderType)
	}
	routeXHCIInterrupts(scanner)

	volume, err := fat.Mount(mach.VolumeImage())
	if err != nil {
		klog.Warnf("fat: no boot volume: %v", err)
	}

	lm, err := layer.NewManager(screen)
	if err != nil {
		return nil, err
	}

	bg, err := newDesktopWindow(screen.Size(), screen.Format())
	if err != nil {
		return nil, err
	}
	bgLayer := lm.NewLayer().SetWindow(bg)
	lm.UpDown(bgLayer.ID(), 0)

	tw, err := window.NewToplevel(
		termColumns*window.CellWidth+window.TopLeftMargin.X+window.BottomRightMargin.X,
		termRows*window.CellHeight+window.TopLeftMargin.Y+window.BottomRightMargin.Y,
		screen.Format(), "ember terminal")
	if err != nil {
		return nil, err
	}
	termLayer := lm.NewLayer().SetWindow(tw).
		Move(graphics.Point{X: 120, Y: 100}).
		SetDraggable(true)
	lm.UpDown(termLayer.ID(), 1)

	env := &terminal.Environment{
		PCI:    scanner,
		Volume: volume,
		Memory: mm,
		Space:  space,
		Exec: func(s *paging.Space, entry uint64, argv []string) (int, error) {
			read := func(addr uint64, b []byte) error {
				return s.ReadVirtual(paging.LinearAddress(addr), b)
			}
			return mach.Exec(read, entry, argv)
		},
	}

	tm := kernel.NewManager()
	renderSvc := render.New(lm)
	renderSvc.Present = func() { _ = display.Present() }
	renderTask, err := tm.NewTask(renderSvc)
	if err != nil {
		return nil, err
	}
	if renderTask.ID() != kernel.RenderTaskID {
		return nil, fmt.Errorf("render task got id %d", renderTask.ID())
	}

	term := terminal.New(tw, termLayer.ID(), env)
	termTask, err := tm.NewTask(terminal.NewTask(term))
	if err != nil {
		return nil, err
	}

	sys := &system{
		h:       h,
		tm:      tm,
		lm:      lm,
		active:  layer.NewActiveLayer(lm),
		taskMap: map[uint32]kernel.TaskID{termLayer.ID(): termTask.ID()},
		kbd:     h.Input().Keyboard().Events(),
		ticks:   h.Time().Ticks(),
	}

	// The compositor owns the screen from here; the boot console stops
	// mirroring.
	klog.SetSink(h.Logger())

	sys.active.Activate(termLayer.ID())
	lm.Draw(graphics.Rect{Size: screen.Size()})
	return sys, nil
}

// routeXHCIInterrupts programs MSI for every xHCI-class function found.
func routeXHCIInterrupts(s *pci.Scanner) {
	const xhciVector = 0x40
	for i := 0; i < s.NumDevice; i++ {
		dev := s.Devices[i]
		if !dev.Class.MatchInterface(0x0c, 0x03, 0x30) {
			continue
		}
		err := s.ConfigureMSIFixedDestination(dev, 0,
			pci.MSITriggerLevel, pci.MSIDeliveryFixed, xhciVector, 0)
		if err != nil {
			klog.Warnf("pci: msi setup for %02x:%02x.%d: %v",
				dev.Bus, dev.Device, dev.Function, err)
			continue
		}
		klog.Infof("pci: msi routed for %02x:%02x.%d", dev.Bus, dev.Device, dev.Function)
	}
}

// step is called once per host frame: interrupts first, then a bounded
// number of cooperative task steps.
func (s *system) step() error {
	s.drainKeyboard()
	s.drainTicks()
	for i := 0; i < stepBudget; i++ {
		if !s.tm.Step() {
			break
		}
	}
	return nil
}

// drainKeyboard routes pending key events to the task owning the active
// layer.
func (s *system) drainKeyboard() {
	for {
		select {
		case ev := <-s.kbd:
			id := s.active.GetActive()
			tid, ok := s.taskMap[id]
			if !ok {
				continue
			}
			var msg kernel.Message
			msg.Kind = proto.MsgKeyPush
			msg.Len = uint16(proto.EncodeKey(msg.Data[:], proto.KeyPayload{
				Modifier: ev.Modifier,
				Keycode:  ev.Keycode,
				ASCII:    ev.ASCII,
			}))
			if err := s.tm.SendMessage(tid, msg); err != nil {
				klog.Debugf("key drop: %v", err)
			}
		default:
			return
		}
	}
}

// drainTicks forwards the timebase: every blink half-period each windowed
// task gets a timer message.
func (s *system) drainTicks() {
	for {
		select {
		case tick := <-s.ticks:
			s.tickCount = tick
			if tick%blinkTicks != 0 {
				continue
			}
			var msg kernel.Message
			msg.Kind = proto.MsgTimerTimeout
			msg.Len = uint16(proto.EncodeTimer(msg.Data[:], proto.TimerPayload{Tick: tick}))
			for _, tid := range s.taskMap {
				_ = s.tm.SendMessage(tid, msg)
			}
		default:
			return
		}
	}
}
