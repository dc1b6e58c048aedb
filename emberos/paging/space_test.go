package paging

import (
	"testing"

	"ember/emberos/memory"
)

const testBase = LinearAddress(0xffff_8000_0000_0000)

func newTestSpace(t *testing.T, ramFrames uint64) (*Space, *memory.BitmapManager) {
	t.Helper()
	ram := make([]byte, ramFrames*memory.BytesPerFrame)
	mgr := memory.NewBitmapManager()
	mgr.SetMemoryRange(memory.FrameID(0), memory.FrameID(ramFrames))
	s, err := New(ram, mgr)
	if err != nil {
		t.Fatalf("New() error = %v, want nil", err)
	}
	return s, mgr
}

func TestLinearAddressParts(t *testing.T) {
	a := LinearAddress(0)
	a = a.SetPart(4, 256).SetPart(3, 1).SetPart(2, 2).SetPart(1, 3).SetPart(0, 0x123)

	if got := a.Part(4); got != 256 {
		t.Fatalf("Part(4) = %d, want 256", got)
	}
	if got := a.Part(3); got != 1 {
		t.Fatalf("Part(3) = %d, want 1", got)
	}
	if got := a.Part(2); got != 2 {
		t.Fatalf("Part(2) = %d, want 2", got)
	}
	if got := a.Part(1); got != 3 {
		t.Fatalf("Part(1) = %d, want 3", got)
	}
	if got := a.Part(0); got != 0x123 {
		t.Fatalf("Part(0) = %#x, want 0x123", got)
	}
	want := LinearAddress(256)<<39 | 1<<30 | 2<<21 | 3<<12 | 0x123
	if a != want {
		t.Fatalf("composed address = %#x, want %#x", uint64(a), uint64(want))
	}
}

func TestSetupPageMapsThenTranslate(t *testing.T) {
	s, _ := newTestSpace(t, 64)

	if err := s.SetupPageMaps(testBase, 3); err != nil {
		t.Fatalf("SetupPageMaps() error = %v, want nil", err)
	}

	for i := uint64(0); i < 3; i++ {
		phys, err := s.Translate(testBase + LinearAddress(i*PageSize+7))
		if err != nil {
			t.Fatalf("Translate(page %d) error = %v, want nil", i, err)
		}
		if phys%memory.BytesPerFrame != 7 {
			t.Fatalf("Translate(page %d) offset = %d, want 7", i, phys%memory.BytesPerFrame)
		}
	}
	if _, err := s.Translate(testBase + LinearAddress(3*PageSize)); err == nil {
		t.Fatalf("Translate(unmapped) error = nil, want error")
	}
}

func TestSetupCleanNoLeaks(t *testing.T) {
	s, mgr := newTestSpace(t, 128)
	before := mgr.Stat()

	// Crosses a PT boundary: 600 pages need two PTs plus PD/PDP.
	if err := s.SetupPageMaps(testBase, 600); err != nil {
		t.Fatalf("SetupPageMaps() error = %v, want nil", err)
	}
	mid := mgr.Stat()
	if mid.Allocated <= before.Allocated {
		t.Fatalf("Stat().Allocated = %d after setup, want > %d", mid.Allocated, before.Allocated)
	}

	if err := s.CleanPageMaps(testBase); err != nil {
		t.Fatalf("CleanPageMaps() error = %v, want nil", err)
	}
	after := mgr.Stat()
	if after.Allocated != before.Allocated {
		t.Fatalf("Stat().Allocated = %d after clean, want %d", after.Allocated, before.Allocated)
	}
}

func TestSetupPageMapsExhaustion(t *testing.T) {
	s, _ := newTestSpace(t, 8)

	// 8 frames minus the PML4 cannot back 600 pages of tables + data.
	if err := s.SetupPageMaps(testBase, 600); err == nil {
		t.Fatalf("SetupPageMaps() error = nil, want exhaustion")
	}
	// Partial state must still be tearable.
	if err := s.CleanPageMaps(testBase); err != nil {
		t.Fatalf("CleanPageMaps() after failure error = %v, want nil", err)
	}
}

func TestWriteReadVirtual(t *testing.T) {
	s, _ := newTestSpace(t, 64)
	if err := s.SetupPageMaps(testBase, 2); err != nil {
		t.Fatalf("SetupPageMaps() error = %v, want nil", err)
	}

	msg := make([]byte, PageSize+32)
	for i := range msg {
		msg[i] = byte(i)
	}
	// Spans the page boundary.
	if err := s.WriteVirtual(testBase+100, msg); err != nil {
		t.Fatalf("WriteVirtual() error = %v, want nil", err)
	}
	got := make([]byte, len(msg))
	if err := s.ReadVirtual(testBase+100, got); err != nil {
		t.Fatalf("ReadVirtual() error = %v, want nil", err)
	}
	for i := range msg {
		if got[i] != msg[i] {
			t.Fatalf("ReadVirtual()[%d] = %d, want %d", i, got[i], msg[i])
		}
	}
}

func TestMapIdentityTranslate(t *testing.T) {
	s, _ := newTestSpace(t, 64)
	if err := s.MapIdentity(1); err != nil {
		t.Fatalf("MapIdentity() error = %v, want nil", err)
	}

	for _, addr := range []uint64{0, 0x1000, 0x200000 + 0x345, 0x3fffffff} {
		phys, err := s.Translate(LinearAddress(addr))
		if err != nil {
			t.Fatalf("Translate(%#x) error = %v, want nil", addr, err)
		}
		if phys != addr {
			t.Fatalf("Translate(%#x) = %#x, want identity", addr, phys)
		}
	}
}

func TestEntryBits(t *testing.T) {
	var e Entry
	e.SetFrame(memory.FrameID(0x1234))
	e.SetFlags(FlagPresent | FlagWritable)

	if !e.Present() || !e.Writable() {
		t.Fatalf("flags lost: present=%v writable=%v", e.Present(), e.Writable())
	}
	if got := e.Frame(); got != 0x1234 {
		t.Fatalf("Frame() = %#x, want 0x1234", got)
	}
	e.ClearFlags(FlagWritable)
	if e.Writable() {
		t.Fatalf("Writable() = true after clear, want false")
	}
}
