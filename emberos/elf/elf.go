// Package elf loads ELF64 executables into a paging.Space.
package elf

import (
	"encoding/binary"

	"ember/emberos/kerror"
	"ember/emberos/paging"
)

const (
	headerSize     = 64
	phentSize      = 56
	typeExecutable = 2
	classELF64     = 2

	// PTLoad marks a loadable program segment.
	PTLoad = 1

	// CanonicalBase is the lowest virtual address an executable may load at;
	// user programs live in the upper half.
	CanonicalBase = 0xffff_8000_0000_0000
)

// ProgramHeader is one ELF64 program header.
type ProgramHeader struct {
	Type   uint32
	Flags  uint32
	Offset uint64
	VAddr  uint64
	PAddr  uint64
	FileSz uint64
	MemSz  uint64
	Align  uint64
}

// Image is a parsed in-memory ELF64 executable.
type Image struct {
	data  []byte
	entry uint64
	phdrs []ProgramHeader
}

// Parse validates the image: ELF magic, 64-bit class, ET_EXEC type. Anything
// else is kInvalidFormat.
func Parse(data []byte) (*Image, error) {
	if len(data) < headerSize {
		return nil, kerror.InvalidFormat
	}
	if data[0] != 0x7f || data[1] != 'E' || data[2] != 'L' || data[3] != 'F' {
		return nil, kerror.InvalidFormat
	}
	if data[4] != classELF64 {
		return nil, kerror.InvalidFormat
	}
	le := binary.LittleEndian
	if le.Uint16(data[16:]) != typeExecutable {
		return nil, kerror.InvalidFormat
	}

	im := &Image{
		data:  data,
		entry: le.Uint64(data[24:]),
	}
	phoff := le.Uint64(data[32:])
	phentsize := uint64(le.Uint16(data[54:]))
	phnum := uint64(le.Uint16(data[56:]))
	if phentsize < phentSize {
		return nil, kerror.InvalidFormat
	}
	for i := uint64(0); i < phnum; i++ {
		off := phoff + i*phentsize
		if off+phentSize > uint64(len(data)) {
			return nil, kerror.InvalidFormat
		}
		p := data[off:]
		im.phdrs = append(im.phdrs, ProgramHeader{
			Type:   le.Uint32(p[0:]),
			Flags:  le.Uint32(p[4:]),
			Offset: le.Uint64(p[8:]),
			VAddr:  le.Uint64(p[16:]),
			PAddr:  le.Uint64(p[24:]),
			FileSz: le.Uint64(p[32:]),
			MemSz:  le.Uint64(p[40:]),
			Align:  le.Uint64(p[48:]),
		})
	}
	return im, nil
}

// Entry returns the entry-point virtual address.
func (im *Image) Entry() uint64 { return im.entry }

// ProgramHeaders returns the parsed program headers.
func (im *Image) ProgramHeaders() []ProgramHeader { return im.phdrs }

// LoadRange computes the lowest and one-past-highest virtual addresses over
// all PT_LOAD segments. The segments need not be contiguous.
func (im *Image) LoadRange() (first, last uint64) {
	first = ^uint64(0)
	for _, p := range im.phdrs {
		if p.Type != PTLoad {
			continue
		}
		if p.VAddr < first {
			first = p.VAddr
		}
		if p.VAddr+p.MemSz > last {
			last = p.VAddr + p.MemSz
		}
	}
	return first, last
}

// Loaded describes a successfully loaded executable.
type Loaded struct {
	Entry uint64
	First uint64
	Last  uint64
}

// Load maps the image's load range into the space, copies every PT_LOAD
// segment and zero-fills the bss tails.
//
// On error nothing is released: whatever pages were already mapped stay
// mapped, and the caller tears them down with CleanPageMaps at the first
// load address.
func Load(im *Image, space *paging.Space) (*Loaded, error) {
	first, last := im.LoadRange()
	if first >= last {
		return nil, kerror.InvalidFormat
	}
	if first < CanonicalBase {
		return nil, kerror.InvalidFormat
	}

	numPages := (last - first + paging.PageSize - 1) / paging.PageSize
	if err := space.SetupPageMaps(paging.LinearAddress(first), numPages); err != nil {
		return nil, err
	}

	for _, p := range im.phdrs {
		if p.Type != PTLoad {
			continue
		}
		if p.Offset+p.FileSz > uint64(len(im.data)) || p.FileSz > p.MemSz {
			return nil, kerror.InvalidFormat
		}
		seg := im.data[p.Offset : p.Offset+p.FileSz]
		if err := space.WriteVirtual(paging.LinearAddress(p.VAddr), seg); err != nil {
			return nil, err
		}
		if tail := p.MemSz - p.FileSz; tail > 0 {
			if err := space.ZeroVirtual(paging.LinearAddress(p.VAddr+p.FileSz), tail); err != nil {
				return nil, err
			}
		}
	}
	return &Loaded{Entry: im.entry, First: first, Last: last}, nil
}
