package pci

import "ember/emberos/kerror"

// barAddress returns the register offset of BAR index (0..5).
func barAddress(index int) uint8 { return uint8(0x10 + 4*index) }

// ReadBar reads base address register index, combining the following BAR
// when bits 2:1 request a 64-bit address. The low 4 flag bits are masked off.
func (s *Scanner) ReadBar(dev Device, index int) (uint64, error) {
	if index > 5 {
		return 0, kerror.IndexOutOfRange
	}
	low := s.ReadConfReg(dev, barAddress(index))

	// Bits 2:1 == 0b10 marks a 64-bit memory BAR.
	if low&0x4 == 0 {
		return uint64(low &^ 0xf), nil
	}
	if index > 4 {
		return 0, kerror.IndexOutOfRange
	}
	high := s.ReadConfReg(dev, barAddress(index+1))
	return uint64(high)<<32 | uint64(low&^0xf), nil
}
