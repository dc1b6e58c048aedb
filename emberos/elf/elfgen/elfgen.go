// Package elfgen emits the minimal ELF64 executables the kernel can load.
//
// It is host-side tooling: the mkapp command and tests use it to produce
// ET_EXEC images whose entry point is the fixed return stub the machine's
// Exec hook understands (mov eax, imm32; ret).
package elfgen

import "encoding/binary"

const (
	headerSize = 64
	phentSize  = 56

	// Base is where generated programs load, in the upper half.
	Base = 0xffff_8000_0000_0000
)

// Segment is one PT_LOAD to place in the image.
type Segment struct {
	VAddr uint64
	Data  []byte
	MemSz uint64 // >= len(Data); the excess is bss
}

// Build assembles an ET_EXEC image with the given segments and entry point.
func Build(entry uint64, segs []Segment) []byte {
	le := binary.LittleEndian

	offset := uint64(headerSize + phentSize*len(segs))
	// Keep file offsets page-congruent with vaddrs so loaders that check
	// alignment stay happy.
	offsets := make([]uint64, len(segs))
	for i, s := range segs {
		offset = alignUp(offset, 16)
		offsets[i] = offset
		offset += uint64(len(s.Data))
	}

	img := make([]byte, offset)
	img[0] = 0x7f
	copy(img[1:4], "ELF")
	img[4] = 2 // ELFCLASS64
	img[5] = 1 // little endian
	img[6] = 1 // EV_CURRENT
	le.PutUint16(img[16:], 2)          // ET_EXEC
	le.PutUint16(img[18:], 0x3e)       // EM_X86_64
	le.PutUint32(img[20:], 1)          // EV_CURRENT
	le.PutUint64(img[24:], entry)      // e_entry
	le.PutUint64(img[32:], headerSize) // e_phoff
	le.PutUint16(img[52:], headerSize) // e_ehsize
	le.PutUint16(img[54:], phentSize)  // e_phentsize
	le.PutUint16(img[56:], uint16(len(segs)))

	for i, s := range segs {
		p := img[headerSize+phentSize*i:]
		le.PutUint32(p[0:], 1)   // PT_LOAD
		le.PutUint32(p[4:], 0x7) // rwx
		le.PutUint64(p[8:], offsets[i])
		le.PutUint64(p[16:], s.VAddr)
		le.PutUint64(p[24:], s.VAddr)
		le.PutUint64(p[32:], uint64(len(s.Data)))
		memsz := s.MemSz
		if memsz < uint64(len(s.Data)) {
			memsz = uint64(len(s.Data))
		}
		le.PutUint64(p[40:], memsz)
		le.PutUint64(p[48:], 0x1000)
		copy(img[offsets[i]:], s.Data)
	}
	return img
}

// ReturnStub is the 6-byte program body the host executor interprets:
// mov eax, imm32; ret.
func ReturnStub(ret int32) []byte {
	b := make([]byte, 6)
	b[0] = 0xb8
	binary.LittleEndian.PutUint32(b[1:], uint32(ret))
	b[5] = 0xc3
	return b
}

// BuildReturnApp is the common case: one text segment holding the return
// stub, entry at its start.
func BuildReturnApp(ret int32) []byte {
	return Build(Base, []Segment{{VAddr: Base, Data: ReturnStub(ret)}})
}

func alignUp(v, a uint64) uint64 { return (v + a - 1) &^ (a - 1) }
