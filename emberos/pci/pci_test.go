package pci

import (
	"errors"
	"testing"

	"ember/emberos/kerror"
)

// fakeConfigSpace is a map-backed configuration space; absent registers
// read as all-ones like a real bus.
type fakeConfigSpace struct {
	addr uint32
	regs map[uint32]uint32
}

func newFakeConfigSpace() *fakeConfigSpace {
	return &fakeConfigSpace{regs: make(map[uint32]uint32)}
}

func (c *fakeConfigSpace) WriteAddress(addr uint32) { c.addr = addr }
func (c *fakeConfigSpace) WriteData(v uint32)       { c.regs[c.addr] = v }

func (c *fakeConfigSpace) ReadData() uint32 {
	v, ok := c.regs[c.addr]
	if !ok {
		return 0xffffffff
	}
	return v
}

func (c *fakeConfigSpace) put(bus, device, function, reg uint8, v uint32) {
	c.regs[MakeAddress(bus, device, function, reg)] = v
}

func (c *fakeConfigSpace) get(bus, device, function, reg uint8) uint32 {
	return c.regs[MakeAddress(bus, device, function, reg)]
}

// addFunction installs the registers ScanAllBus touches.
func (c *fakeConfigSpace) addFunction(bus, device, function, headerType uint8, vendor uint16) {
	c.put(bus, device, function, 0x00, uint32(vendor))
	c.put(bus, device, function, 0x08, 0x0c<<24|0x03<<16|0x30<<8)
	c.put(bus, device, function, 0x0c, uint32(headerType)<<16)
}

func (c *fakeConfigSpace) addBridge(bus, device uint8, secondary uint8) {
	c.addFunction(bus, device, 0, 0x01, 0x8086)
	c.put(bus, device, 0, 0x18, uint32(secondary)<<8)
}

func TestMakeAddress(t *testing.T) {
	got := MakeAddress(1, 2, 3, 0x15)
	want := uint32(1<<31 | 1<<16 | 2<<11 | 3<<8 | 0x14)
	if got != want {
		t.Fatalf("MakeAddress() = %#x, want %#x", got, want)
	}
}

func TestScanAllBusBridgeRecursion(t *testing.T) {
	cs := newFakeConfigSpace()
	cs.addFunction(0, 0, 0, 0x00, 0x8086)
	cs.addBridge(0, 1, 1)
	cs.addFunction(1, 0, 0, 0x00, 0x1af4)

	s := NewScanner(cs)
	if err := s.ScanAllBus(); err != nil {
		t.Fatalf("ScanAllBus() error = %v, want nil", err)
	}
	if s.NumDevice != 3 {
		t.Fatalf("NumDevice = %d, want 3", s.NumDevice)
	}

	want := []struct{ bus, device uint8 }{{0, 0}, {0, 1}, {1, 0}}
	for i, w := range want {
		d := s.Devices[i]
		if d.Bus != w.bus || d.Device != w.device || d.Function != 0 {
			t.Fatalf("Devices[%d] = %02x:%02x.%d, want %02x:%02x.0",
				i, d.Bus, d.Device, d.Function, w.bus, w.device)
		}
	}
}

func TestScanAllBusMultiFunction(t *testing.T) {
	cs := newFakeConfigSpace()
	cs.addFunction(0, 0, 0, 0x80, 0x8086) // multi-function
	cs.addFunction(0, 0, 3, 0x00, 0x8086)

	s := NewScanner(cs)
	if err := s.ScanAllBus(); err != nil {
		t.Fatalf("ScanAllBus() error = %v, want nil", err)
	}
	if s.NumDevice != 2 {
		t.Fatalf("NumDevice = %d, want 2", s.NumDevice)
	}
	if s.Devices[1].Function != 3 {
		t.Fatalf("Devices[1].Function = %d, want 3", s.Devices[1].Function)
	}
}

func TestScanAllBusCapsAtMaxDevices(t *testing.T) {
	cs := newFakeConfigSpace()
	cs.addFunction(0, 0, 0, 0x00, 0x8086)
	for d := uint8(0); d < 32; d++ {
		cs.addFunction(1, d, 0, 0x00, 0x8086)
	}
	// A bridge makes it 1 + 1 + 32 > MaxDevices.
	cs.addBridge(0, 1, 1)

	s := NewScanner(cs)
	if err := s.ScanAllBus(); !errors.Is(err, kerror.Full) {
		t.Fatalf("ScanAllBus() error = %v, want %v", err, kerror.Full)
	}
	if s.NumDevice != MaxDevices {
		t.Fatalf("NumDevice = %d, want %d", s.NumDevice, MaxDevices)
	}
}

func TestReadBar(t *testing.T) {
	cs := newFakeConfigSpace()
	cs.addFunction(0, 0, 0, 0x00, 0x8086)
	cs.put(0, 0, 0, 0x10, 0xfebf0004) // 64-bit memory BAR, low half
	cs.put(0, 0, 0, 0x14, 0x00000012) // high half
	cs.put(0, 0, 0, 0x18, 0x0000c001) // 32-bit I/O BAR

	s := NewScanner(cs)
	dev := Device{Bus: 0, Device: 0, Function: 0}

	got, err := s.ReadBar(dev, 0)
	if err != nil {
		t.Fatalf("ReadBar(0) error = %v, want nil", err)
	}
	if want := uint64(0x12_febf0000); got != want {
		t.Fatalf("ReadBar(0) = %#x, want %#x", got, want)
	}

	got, err = s.ReadBar(dev, 2)
	if err != nil {
		t.Fatalf("ReadBar(2) error = %v, want nil", err)
	}
	if want := uint64(0xc000); got != want {
		t.Fatalf("ReadBar(2) = %#x, want %#x", got, want)
	}

	if _, err := s.ReadBar(dev, 6); !errors.Is(err, kerror.IndexOutOfRange) {
		t.Fatalf("ReadBar(6) error = %v, want %v", err, kerror.IndexOutOfRange)
	}
	cs.put(0, 0, 0, 0x24, 0xfebf0004) // 64-bit BAR in the last slot
	if _, err := s.ReadBar(dev, 5); !errors.Is(err, kerror.IndexOutOfRange) {
		t.Fatalf("ReadBar(5) error = %v, want %v", err, kerror.IndexOutOfRange)
	}
}

func TestConfigureMSIFixedDestination(t *testing.T) {
	cs := newFakeConfigSpace()
	cs.addFunction(0, 1, 0, 0x00, 0x8086)
	cs.put(0, 1, 0, 0x34, 0x50)
	// MSI capability: 64-bit capable, multi_msg_capable = 2 (4 vectors).
	cs.put(0, 1, 0, 0x50, 1<<23|2<<17|0x05)
	cs.put(0, 1, 0, 0x54, 0)
	cs.put(0, 1, 0, 0x58, 0)
	cs.put(0, 1, 0, 0x5c, 0)

	s := NewScanner(cs)
	dev := Device{Bus: 0, Device: 1, Function: 0}

	err := s.ConfigureMSIFixedDestination(dev, 0x0b, MSITriggerLevel, MSIDeliveryFixed, 0x40, 0)
	if err != nil {
		t.Fatalf("ConfigureMSIFixedDestination() error = %v, want nil", err)
	}

	header := CapabilityHeader(cs.get(0, 1, 0, 0x50))
	if !header.MSIEnable() {
		t.Fatalf("MSIEnable() = false, want true")
	}
	// multi_msg_enable = min(capable=2, requested exponent=0).
	if got := header.MultiMsgEnable(); got != 0 {
		t.Fatalf("MultiMsgEnable() = %d, want 0", got)
	}

	if got, want := cs.get(0, 1, 0, 0x54), uint32(0xfee0b000); got != want {
		t.Fatalf("msg_addr = %#x, want %#x", got, want)
	}
	if got := cs.get(0, 1, 0, 0x58); got != 0 {
		t.Fatalf("msg_upper_addr = %#x, want 0", got)
	}
	// 64-bit capable: data lives at +12.
	wantData := uint32(MSIDeliveryFixed)<<8 | uint32(MSITriggerLevel)<<15 | 0x40
	if got := cs.get(0, 1, 0, 0x5c); got != wantData {
		t.Fatalf("msg_data = %#x, want %#x", got, wantData)
	}
}

func TestConfigureMSI32BitVariant(t *testing.T) {
	cs := newFakeConfigSpace()
	cs.addFunction(0, 1, 0, 0x00, 0x8086)
	cs.put(0, 1, 0, 0x34, 0x60)
	cs.put(0, 1, 0, 0x60, 0x05) // MSI, not 64-bit capable
	cs.put(0, 1, 0, 0x64, 0)
	cs.put(0, 1, 0, 0x68, 0)

	s := NewScanner(cs)
	dev := Device{Bus: 0, Device: 1, Function: 0}

	if err := s.ConfigureMSI(dev, 0xfee00000, 0x4041, 0); err != nil {
		t.Fatalf("ConfigureMSI() error = %v, want nil", err)
	}
	// 32-bit variant: data lives at +8.
	if got := cs.get(0, 1, 0, 0x68); got != 0x4041 {
		t.Fatalf("msg_data = %#x, want 0x4041", got)
	}
}

func TestConfigureMSINoCapability(t *testing.T) {
	cs := newFakeConfigSpace()
	cs.addFunction(0, 1, 0, 0x00, 0x8086)
	cs.put(0, 1, 0, 0x34, 0x00)

	s := NewScanner(cs)
	dev := Device{Bus: 0, Device: 1, Function: 0}
	if err := s.ConfigureMSI(dev, 0, 0, 0); !errors.Is(err, kerror.IndexOutOfRange) {
		t.Fatalf("ConfigureMSI() error = %v, want %v", err, kerror.IndexOutOfRange)
	}
}
