// Package pci enumerates the PCI bus and programs MSI capabilities.
//
// Configuration space is reached through the ConfigSpace interface; the HAL
// binds it to the legacy 0x0CF8/0x0CFC port pair on metal and to an
// in-memory topology on the host.
package pci

import "ember/emberos/kerror"

// ConfigSpace is the CONFIG_ADDRESS / CONFIG_DATA register pair.
type ConfigSpace interface {
	WriteAddress(addr uint32)
	WriteData(v uint32)
	ReadData() uint32
}

// MaxDevices bounds the device table; scanning stops with kFull beyond it.
const MaxDevices = 32

// ClassCode is the 3-byte PCI class of a function.
type ClassCode struct {
	Base, Sub, Interface uint8
}

// Match reports whether base (and optionally sub, interface) match.
func (c ClassCode) Match(base uint8) bool { return c.Base == base }
func (c ClassCode) MatchSub(base, sub uint8) bool {
	return c.Match(base) && c.Sub == sub
}
func (c ClassCode) MatchInterface(base, sub, iface uint8) bool {
	return c.MatchSub(base, sub) && c.Interface == iface
}

// Device identifies one discovered PCI function.
type Device struct {
	Bus, Device, Function, HeaderType uint8
	Class                             ClassCode
}

// MakeAddress encodes a CONFIG_ADDRESS value: enable bit, bus, device,
// function and a 4-byte-aligned register offset.
func MakeAddress(bus, device, function, reg uint8) uint32 {
	return 1<<31 |
		uint32(bus)<<16 |
		uint32(device)<<11 |
		uint32(function)<<8 |
		uint32(reg&0xfc)
}

// Scanner walks configuration space and records discovered functions.
type Scanner struct {
	cs ConfigSpace

	Devices   [MaxDevices]Device
	NumDevice int
}

// NewScanner returns a scanner over the given configuration space.
func NewScanner(cs ConfigSpace) *Scanner {
	return &Scanner{cs: cs}
}

func (s *Scanner) readConf(bus, device, function, reg uint8) uint32 {
	s.cs.WriteAddress(MakeAddress(bus, device, function, reg))
	return s.cs.ReadData()
}

func (s *Scanner) writeConf(bus, device, function, reg uint8, v uint32) {
	s.cs.WriteAddress(MakeAddress(bus, device, function, reg))
	s.cs.WriteData(v)
}

// ReadVendorID reads the vendor id register; 0xFFFF means no function.
func (s *Scanner) ReadVendorID(bus, device, function uint8) uint16 {
	return uint16(s.readConf(bus, device, function, 0x00))
}

// ReadDeviceID reads the device id register.
func (s *Scanner) ReadDeviceID(bus, device, function uint8) uint16 {
	return uint16(s.readConf(bus, device, function, 0x00) >> 16)
}

// ReadHeaderType reads the header type byte; bit 7 marks multi-function.
func (s *Scanner) ReadHeaderType(bus, device, function uint8) uint8 {
	return uint8(s.readConf(bus, device, function, 0x0c) >> 16)
}

// ReadClassCode reads the class code register.
func (s *Scanner) ReadClassCode(bus, device, function uint8) ClassCode {
	v := s.readConf(bus, device, function, 0x08)
	return ClassCode{
		Base:      uint8(v >> 24),
		Sub:       uint8(v >> 16),
		Interface: uint8(v >> 8),
	}
}

// ReadBusNumbers reads the bus-numbers register of a type-1 header:
// bits 15:8 hold the secondary bus number.
func (s *Scanner) ReadBusNumbers(bus, device, function uint8) uint32 {
	return s.readConf(bus, device, function, 0x18)
}

// ReadConfReg reads a 32-bit configuration register of a known device.
func (s *Scanner) ReadConfReg(dev Device, reg uint8) uint32 {
	return s.readConf(dev.Bus, dev.Device, dev.Function, reg)
}

// WriteConfReg writes a 32-bit configuration register of a known device.
func (s *Scanner) WriteConfReg(dev Device, reg uint8, v uint32) {
	s.writeConf(dev.Bus, dev.Device, dev.Function, reg, v)
}

// IsSingleFunction reports whether the header type says single-function.
func IsSingleFunction(headerType uint8) bool { return headerType&0x80 == 0 }

func (s *Scanner) addDevice(dev Device) error {
	if s.NumDevice >= MaxDevices {
		return kerror.Full
	}
	s.Devices[s.NumDevice] = dev
	s.NumDevice++
	return nil
}

func (s *Scanner) scanFunction(bus, device, function uint8) error {
	headerType := s.ReadHeaderType(bus, device, function)
	class := s.ReadClassCode(bus, device, function)
	err := s.addDevice(Device{
		Bus: bus, Device: device, Function: function,
		HeaderType: headerType, Class: class,
	})
	if err != nil {
		return err
	}

	// PCI-to-PCI bridge: follow the secondary bus.
	if headerType&0x7f == 0x01 {
		busNumbers := s.ReadBusNumbers(bus, device, function)
		secondary := uint8(busNumbers >> 8)
		return s.scanBus(secondary)
	}
	return nil
}

func (s *Scanner) scanDevice(bus, device uint8) error {
	if err := s.scanFunction(bus, device, 0); err != nil {
		return err
	}
	if IsSingleFunction(s.ReadHeaderType(bus, device, 0)) {
		return nil
	}
	for function := uint8(1); function < 8; function++ {
		if s.ReadVendorID(bus, device, function) == 0xffff {
			continue
		}
		if err := s.scanFunction(bus, device, function); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) scanBus(bus uint8) error {
	for device := uint8(0); device < 32; device++ {
		if s.ReadVendorID(bus, device, 0) == 0xffff {
			continue
		}
		if err := s.scanDevice(bus, device); err != nil {
			return err
		}
	}
	return nil
}

// ScanAllBus discovers every function reachable from bus 0 and records it in
// Devices. Bridges are followed recursively; the table caps at MaxDevices
// and the scan stops with kFull once it is exceeded.
func (s *Scanner) ScanAllBus() error {
	s.NumDevice = 0

	headerType := s.ReadHeaderType(0, 0, 0)
	if IsSingleFunction(headerType) {
		return s.scanBus(0)
	}
	// Multiple host controllers: function n of the host bridge serves bus n.
	for function := uint8(0); function < 8; function++ {
		if s.ReadVendorID(0, 0, function) == 0xffff {
			continue
		}
		if err := s.scanBus(function); err != nil {
			return err
		}
	}
	return nil
}
