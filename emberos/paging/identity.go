package paging

import "ember/emberos/memory"

// PageDirectoryCount is how many GiB the boot identity map covers: one page
// directory of 512 two-MiB entries per GiB.
const PageDirectoryCount = 64

// MapIdentity installs an identity mapping for the first gibs GiB using
// 2 MiB page-directory entries, the shape the boot path loads into CR3.
func (s *Space) MapIdentity(gibs int) error {
	if gibs <= 0 || gibs > PageDirectoryCount {
		gibs = PageDirectoryCount
	}
	pdp, err := s.ensureChild(s.root, 0)
	if err != nil {
		return err
	}
	for g := 0; g < gibs; g++ {
		pd, err := s.ensureChild(pdp, g)
		if err != nil {
			return err
		}
		for i := 0; i < entriesPerTable; i++ {
			var e Entry
			e.SetFrame(frameFor2MiB(g, i))
			e.SetFlags(FlagPresent | FlagWritable | FlagPageSize)
			s.setEntry(pd, i, e)
		}
	}
	return nil
}

// frameFor2MiB returns the 4 KiB frame id at which the 2 MiB page starts.
func frameFor2MiB(gib, index int) memory.FrameID {
	return memory.FrameID(uint64(gib)<<18 | uint64(index)<<9)
}
