package paging

import (
	"encoding/binary"

	"ember/emberos/kerror"
	"ember/emberos/memory"
)

const entriesPerTable = 512

// Space is one 4-level page map: a root (PML4) frame plus the allocator and
// the physical memory it grows into. The root frame is what CR3 would hold.
type Space struct {
	ram  []byte
	mgr  *memory.BitmapManager
	root memory.FrameID
}

// New allocates a zeroed PML4 and returns the space rooted at it.
func New(ram []byte, mgr *memory.BitmapManager) (*Space, error) {
	s := &Space{ram: ram, mgr: mgr}
	root, err := s.allocTable()
	if err != nil {
		return nil, err
	}
	s.root = root
	return s, nil
}

// Root returns the PML4 frame.
func (s *Space) Root() memory.FrameID { return s.root }

// FrameBytes returns the RAM backing one frame.
func (s *Space) FrameBytes(f memory.FrameID) []byte {
	off := f.Addr()
	return s.ram[off : off+memory.BytesPerFrame]
}

func (s *Space) entry(table memory.FrameID, index int) Entry {
	off := table.Addr() + uint64(index)*8
	return Entry(binary.LittleEndian.Uint64(s.ram[off:]))
}

func (s *Space) setEntry(table memory.FrameID, index int, e Entry) {
	off := table.Addr() + uint64(index)*8
	binary.LittleEndian.PutUint64(s.ram[off:], uint64(e))
}

// allocTable allocates one frame and zeroes it.
func (s *Space) allocTable() (memory.FrameID, error) {
	f, err := s.mgr.Allocate(1)
	if err != nil {
		return memory.NullFrame, err
	}
	b := s.FrameBytes(f)
	for i := range b {
		b[i] = 0
	}
	return f, nil
}

// ensureChild makes the entry present, allocating a zeroed frame for it if
// needed, and returns the frame it points at.
func (s *Space) ensureChild(table memory.FrameID, index int) (memory.FrameID, error) {
	e := s.entry(table, index)
	if e.Present() {
		return e.Frame(), nil
	}
	child, err := s.allocTable()
	if err != nil {
		return memory.NullFrame, err
	}
	e = 0
	e.SetFrame(child)
	e.SetFlags(FlagPresent | FlagWritable | FlagUser)
	s.setEntry(table, index, e)
	return child, nil
}

// setupPageMap maps pages under the given table. It returns how many of the
// requested pages are still unmapped; on error the partial work is left in
// place for the caller to report and clean.
func (s *Space) setupPageMap(table memory.FrameID, level int, addr LinearAddress, n uint64) (uint64, LinearAddress, error) {
	for n > 0 {
		index := addr.Part(level)
		child, err := s.ensureChild(table, index)
		if err != nil {
			return n, addr, err
		}
		e := s.entry(table, index)
		e.SetFlags(FlagWritable)
		s.setEntry(table, index, e)

		if level == 1 {
			n--
		} else {
			var err error
			n, addr, err = s.setupPageMap(child, level-1, addr, n)
			if err != nil {
				return n, addr, err
			}
		}

		if index == entriesPerTable-1 {
			break
		}
		addr = addr.SetPart(level, index+1)
		for l := level - 1; l >= 1; l-- {
			addr = addr.SetPart(l, 0)
		}
	}
	return n, addr, nil
}

// SetupPageMaps maps n 4 KiB pages starting at addr, allocating page-table
// frames and data frames as needed and marking the whole path writable.
func (s *Space) SetupPageMaps(addr LinearAddress, n uint64) error {
	remain, _, err := s.setupPageMap(s.root, 4, addr, n)
	if err != nil {
		return err
	}
	if remain > 0 {
		return kerror.NoEnoughMemory
	}
	return nil
}

// cleanPageMap frees every present subtree of the table, clearing entries.
func (s *Space) cleanPageMap(table memory.FrameID, level int) error {
	for i := 0; i < entriesPerTable; i++ {
		e := s.entry(table, i)
		if !e.Present() {
			continue
		}
		if level > 1 && !e.MapsLargePage() {
			if err := s.cleanPageMap(e.Frame(), level-1); err != nil {
				return err
			}
		}
		if !e.MapsLargePage() {
			if err := s.mgr.Free(e.Frame(), 1); err != nil {
				return err
			}
		}
		s.setEntry(table, i, 0)
	}
	return nil
}

// CleanPageMaps tears down the subtree that serves addr: the PML4 entry is
// cleared, the PDP below it is recursively freed, and the PDP frame itself
// is returned to the allocator. Sibling PML4 entries are untouched.
func (s *Space) CleanPageMaps(addr LinearAddress) error {
	i4 := addr.Part(4)
	e := s.entry(s.root, i4)
	if !e.Present() {
		return nil
	}
	pdp := e.Frame()
	s.setEntry(s.root, i4, 0)
	if err := s.cleanPageMap(pdp, 3); err != nil {
		return err
	}
	return s.mgr.Free(pdp, 1)
}

// Translate walks the map and returns the physical byte address backing the
// virtual address, honoring 2 MiB PD entries.
func (s *Space) Translate(addr LinearAddress) (uint64, error) {
	table := s.root
	for level := 4; level >= 1; level-- {
		e := s.entry(table, addr.Part(level))
		if !e.Present() {
			return 0, kerror.IndexOutOfRange
		}
		if level == 2 && e.MapsLargePage() {
			base := e.Frame().Addr()
			return base + uint64(addr.Part(1))*memory.BytesPerFrame + uint64(addr.Part(0)), nil
		}
		if level == 1 {
			return e.Frame().Addr() + uint64(addr.Part(0)), nil
		}
		table = e.Frame()
	}
	return 0, kerror.IndexOutOfRange
}

// WriteVirtual copies b to the virtual address, page by page.
func (s *Space) WriteVirtual(addr LinearAddress, b []byte) error {
	for len(b) > 0 {
		phys, err := s.Translate(addr)
		if err != nil {
			return err
		}
		room := memory.BytesPerFrame - int(phys%memory.BytesPerFrame)
		n := len(b)
		if n > room {
			n = room
		}
		copy(s.ram[phys:], b[:n])
		b = b[n:]
		addr += LinearAddress(n)
	}
	return nil
}

// ReadVirtual fills b from the virtual address, page by page.
func (s *Space) ReadVirtual(addr LinearAddress, b []byte) error {
	for len(b) > 0 {
		phys, err := s.Translate(addr)
		if err != nil {
			return err
		}
		room := memory.BytesPerFrame - int(phys%memory.BytesPerFrame)
		n := len(b)
		if n > room {
			n = room
		}
		copy(b[:n], s.ram[phys:])
		b = b[n:]
		addr += LinearAddress(n)
	}
	return nil
}

// ZeroVirtual clears n bytes starting at the virtual address.
func (s *Space) ZeroVirtual(addr LinearAddress, n uint64) error {
	for n > 0 {
		phys, err := s.Translate(addr)
		if err != nil {
			return err
		}
		room := uint64(memory.BytesPerFrame - int(phys%memory.BytesPerFrame))
		c := n
		if c > room {
			c = room
		}
		b := s.ram[phys : phys+c]
		for i := range b {
			b[i] = 0
		}
		n -= c
		addr += LinearAddress(c)
	}
	return nil
}
