package pci

import "ember/emberos/kerror"

// Capability ids found while walking the list at the status/cap pointer.
const (
	CapabilityMSI  = 0x05
	CapabilityMSIX = 0x11

	capabilityPointerReg = 0x34
)

// CapabilityHeader is the first 32 bits of any capability: id, next pointer
// and a 16-bit payload. For MSI the payload is the message control word.
type CapabilityHeader uint32

func (h CapabilityHeader) CapID() uint8   { return uint8(h) }
func (h CapabilityHeader) NextPtr() uint8 { return uint8(h >> 8) }

// MSI message control accessors (bits 16.. of the capability dword).
func (h CapabilityHeader) MSIEnable() bool         { return h>>16&1 != 0 }
func (h CapabilityHeader) MultiMsgCapable() uint8  { return uint8(h >> 17 & 0x7) }
func (h CapabilityHeader) MultiMsgEnable() uint8   { return uint8(h >> 20 & 0x7) }
func (h CapabilityHeader) Addr64Capable() bool     { return h>>23&1 != 0 }
func (h CapabilityHeader) PerVectorMaskable() bool { return h>>24&1 != 0 }

func (h *CapabilityHeader) SetMSIEnable(on bool) {
	if on {
		*h |= 1 << 16
	} else {
		*h &^= 1 << 16
	}
}

func (h *CapabilityHeader) SetMultiMsgEnable(exp uint8) {
	*h = *h&^(0x7<<20) | CapabilityHeader(exp&0x7)<<20
}

// MSICapability is the full MSI capability structure. Which registers exist
// (and at which offsets) depends on Addr64Capable and PerVectorMaskable; the
// read/write helpers pick the right variant.
type MSICapability struct {
	Header       CapabilityHeader
	MsgAddr      uint32
	MsgUpperAddr uint32
	MsgData      uint32
	MaskBits     uint32
	PendingBits  uint32
}

// ReadCapabilityHeader reads the capability header at addr.
func (s *Scanner) ReadCapabilityHeader(dev Device, addr uint8) CapabilityHeader {
	return CapabilityHeader(s.ReadConfReg(dev, addr))
}

// ReadMSICapability reads the MSI capability at addr, using the variant
// selected by the control bits.
func (s *Scanner) ReadMSICapability(dev Device, addr uint8) MSICapability {
	var c MSICapability
	c.Header = s.ReadCapabilityHeader(dev, addr)
	c.MsgAddr = s.ReadConfReg(dev, addr+4)

	msgDataAddr := addr + 8
	if c.Header.Addr64Capable() {
		c.MsgUpperAddr = s.ReadConfReg(dev, addr+8)
		msgDataAddr = addr + 12
	}
	c.MsgData = s.ReadConfReg(dev, msgDataAddr)

	if c.Header.PerVectorMaskable() {
		c.MaskBits = s.ReadConfReg(dev, msgDataAddr+4)
		c.PendingBits = s.ReadConfReg(dev, msgDataAddr+8)
	}
	return c
}

// WriteMSICapability writes the capability back with the same variant logic.
func (s *Scanner) WriteMSICapability(dev Device, addr uint8, c MSICapability) {
	s.WriteConfReg(dev, addr, uint32(c.Header))
	s.WriteConfReg(dev, addr+4, c.MsgAddr)

	msgDataAddr := addr + 8
	if c.Header.Addr64Capable() {
		s.WriteConfReg(dev, addr+8, c.MsgUpperAddr)
		msgDataAddr = addr + 12
	}
	s.WriteConfReg(dev, msgDataAddr, c.MsgData)

	if c.Header.PerVectorMaskable() {
		s.WriteConfReg(dev, msgDataAddr+4, c.MaskBits)
		s.WriteConfReg(dev, msgDataAddr+8, c.PendingBits)
	}
}

func (s *Scanner) configureMSIRegister(dev Device, capAddr uint8, msgAddr, msgData uint32, numVectorExponent int) error {
	c := s.ReadMSICapability(dev, capAddr)

	exp := c.Header.MultiMsgCapable()
	if int(exp) > numVectorExponent {
		exp = uint8(numVectorExponent)
	}
	c.Header.SetMultiMsgEnable(exp)
	c.Header.SetMSIEnable(true)

	c.MsgAddr = msgAddr
	c.MsgUpperAddr = 0
	c.MsgData = msgData

	s.WriteMSICapability(dev, capAddr, c)
	return nil
}

// ConfigureMSI walks the capability list and programs the first MSI
// capability with the given address and data. MSI-X-only devices are not
// programmed; a device with neither capability yields kIndexOutOfRange.
func (s *Scanner) ConfigureMSI(dev Device, msgAddr, msgData uint32, numVectorExponent int) error {
	capAddr := uint8(s.ReadConfReg(dev, capabilityPointerReg))
	var msiCapAddr, msixCapAddr uint8
	for capAddr != 0 {
		header := s.ReadCapabilityHeader(dev, capAddr)
		switch header.CapID() {
		case CapabilityMSI:
			msiCapAddr = capAddr
		case CapabilityMSIX:
			msixCapAddr = capAddr
		}
		if msiCapAddr != 0 || msixCapAddr != 0 {
			break
		}
		capAddr = header.NextPtr()
	}

	if msiCapAddr != 0 {
		return s.configureMSIRegister(dev, msiCapAddr, msgAddr, msgData, numVectorExponent)
	}
	return kerror.IndexOutOfRange
}

// MSITriggerMode selects edge or level triggering in the message data.
type MSITriggerMode uint8

const (
	MSITriggerEdge  MSITriggerMode = 0
	MSITriggerLevel MSITriggerMode = 1
)

// MSIDeliveryMode is the delivery mode field of the message data.
type MSIDeliveryMode uint8

const (
	MSIDeliveryFixed          MSIDeliveryMode = 0b000
	MSIDeliveryLowestPriority MSIDeliveryMode = 0b001
	MSIDeliverySMI            MSIDeliveryMode = 0b010
	MSIDeliveryNMI            MSIDeliveryMode = 0b100
	MSIDeliveryInit           MSIDeliveryMode = 0b101
	MSIDeliveryExtINT         MSIDeliveryMode = 0b111
)

// ConfigureMSIFixedDestination programs MSI for fixed delivery to one local
// APIC: address 0xFEE0_0000 | apicID<<12, data composed from delivery mode,
// trigger mode and vector.
func (s *Scanner) ConfigureMSIFixedDestination(
	dev Device, apicID uint8,
	trigger MSITriggerMode, delivery MSIDeliveryMode,
	vector uint8, numVectorExponent int,
) error {
	msgAddr := uint32(0xfee00000) | uint32(apicID)<<12
	msgData := uint32(delivery)<<8 | uint32(trigger)<<15 | uint32(vector)
	return s.ConfigureMSI(dev, msgAddr, msgData, numVectorExponent)
}
