package memory

import (
	"errors"
	"testing"

	"ember/emberos/kerror"
)

func newTestManager(frames uint64) *BitmapManager {
	m := NewBitmapManager()
	m.SetMemoryRange(FrameID(0), FrameID(frames))
	return m
}

func TestAllocateFirstFit(t *testing.T) {
	m := newTestManager(64)

	f, err := m.Allocate(3)
	if err != nil {
		t.Fatalf("Allocate(3) error = %v, want nil", err)
	}
	if f != 0 {
		t.Fatalf("Allocate(3) = %d, want 0", f)
	}

	f, err = m.Allocate(2)
	if err != nil {
		t.Fatalf("Allocate(2) error = %v, want nil", err)
	}
	if f != 3 {
		t.Fatalf("Allocate(2) = %d, want 3", f)
	}
}

func TestFreeMiddleThenReallocate(t *testing.T) {
	m := newTestManager(64)

	start, err := m.Allocate(3)
	if err != nil {
		t.Fatalf("Allocate(3) error = %v, want nil", err)
	}
	if err := m.Free(start+1, 1); err != nil {
		t.Fatalf("Free() error = %v, want nil", err)
	}

	f, err := m.Allocate(1)
	if err != nil {
		t.Fatalf("Allocate(1) error = %v, want nil", err)
	}
	if f != start+1 {
		t.Fatalf("Allocate(1) = %d, want %d (the freed frame)", f, start+1)
	}
}

func TestAllocateFreeRestoresBitmap(t *testing.T) {
	m := newTestManager(128)
	before := m.Stat()

	f, err := m.Allocate(17)
	if err != nil {
		t.Fatalf("Allocate(17) error = %v, want nil", err)
	}
	if err := m.Free(f, 17); err != nil {
		t.Fatalf("Free() error = %v, want nil", err)
	}

	after := m.Stat()
	if before != after {
		t.Fatalf("Stat() after free = %+v, want %+v", after, before)
	}
	for i := FrameID(0); i < 128; i++ {
		if m.getBit(i) {
			t.Fatalf("getBit(%d) = true, want false", i)
		}
	}
}

func TestAllocateExhaustion(t *testing.T) {
	m := newTestManager(8)

	if _, err := m.Allocate(9); !errors.Is(err, kerror.NoEnoughMemory) {
		t.Fatalf("Allocate(9) error = %v, want %v", err, kerror.NoEnoughMemory)
	}
	if _, err := m.Allocate(8); err != nil {
		t.Fatalf("Allocate(8) error = %v, want nil", err)
	}
	if _, err := m.Allocate(1); !errors.Is(err, kerror.NoEnoughMemory) {
		t.Fatalf("Allocate(1) error = %v, want %v", err, kerror.NoEnoughMemory)
	}
}

func TestAllocateSkipsMarkedRegions(t *testing.T) {
	m := newTestManager(32)
	m.MarkAllocated(0, 4)

	f, err := m.Allocate(2)
	if err != nil {
		t.Fatalf("Allocate(2) error = %v, want nil", err)
	}
	if f != 4 {
		t.Fatalf("Allocate(2) = %d, want 4", f)
	}
}

func TestAllocateStaysInsideWindow(t *testing.T) {
	m := NewBitmapManager()
	m.SetMemoryRange(FrameID(10), FrameID(20))

	f, err := m.Allocate(5)
	if err != nil {
		t.Fatalf("Allocate(5) error = %v, want nil", err)
	}
	if f != 10 {
		t.Fatalf("Allocate(5) = %d, want 10", f)
	}
	if _, err := m.Allocate(6); !errors.Is(err, kerror.NoEnoughMemory) {
		t.Fatalf("Allocate(6) error = %v, want %v", err, kerror.NoEnoughMemory)
	}
}

func TestInitFromMap(t *testing.T) {
	entries := []MapEntry{
		{Type: 0, PhysStart: 0, NumPages: 16},
		{Type: TypeBootServicesCode, PhysStart: 16 * BytesPerFrame, NumPages: 16},
		// Hole: [32, 40) pages missing from the map.
		{Type: TypeConventional, PhysStart: 40 * BytesPerFrame, NumPages: 24},
	}
	m := NewBitmapManager()
	m.InitFromMap(entries)

	// Reserved region and the hole are pre-marked.
	for _, f := range []FrameID{0, 15, 32, 39} {
		if !m.getBit(f) {
			t.Fatalf("getBit(%d) = false, want true", f)
		}
	}
	for _, f := range []FrameID{16, 31, 40, 63} {
		if m.getBit(f) {
			t.Fatalf("getBit(%d) = true, want false", f)
		}
	}
	if m.rangeEnd != FrameID(64) {
		t.Fatalf("rangeEnd = %d, want 64", m.rangeEnd)
	}
}
