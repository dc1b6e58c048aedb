// Package paging builds and tears down 4-level x86-64 page maps.
//
// Tables live in physical frames obtained from the bitmap manager; entries
// are read and written through the owning Space so the same code serves a
// simulated RAM image on the host and real memory on metal.
package paging

import "ember/emberos/memory"

// PageSize is the size of a PT-level page.
const PageSize = memory.BytesPerFrame

// Entry is one 64-bit page-map entry at any of the four levels.
type Entry uint64

const (
	FlagPresent  Entry = 1 << 0
	FlagWritable Entry = 1 << 1
	FlagUser     Entry = 1 << 2

	// FlagPageSize marks a PD entry that maps a 2 MiB page directly.
	FlagPageSize Entry = 1 << 7

	addrMask Entry = 0x000f_ffff_ffff_f000
)

func (e Entry) Present() bool  { return e&FlagPresent != 0 }
func (e Entry) Writable() bool { return e&FlagWritable != 0 }

// MapsLargePage reports whether the entry maps a 2 MiB page (PD level only).
func (e Entry) MapsLargePage() bool { return e&FlagPageSize != 0 }

// Frame returns the physical frame the entry points at.
func (e Entry) Frame() memory.FrameID {
	return memory.FrameID(uint64(e&addrMask) / memory.BytesPerFrame)
}

// SetFrame points the entry at a physical frame, keeping its flags.
func (e *Entry) SetFrame(f memory.FrameID) {
	*e = (*e &^ addrMask) | (Entry(f.Addr()) & addrMask)
}

// SetFlags ors flag bits into the entry.
func (e *Entry) SetFlags(flags Entry) { *e |= flags }

// ClearFlags removes flag bits from the entry.
func (e *Entry) ClearFlags(flags Entry) { *e &^= flags }
