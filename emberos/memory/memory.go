// Package memory owns physical frame accounting.
//
// Physical memory is a flat array of 4 KiB frames. A FrameID is an index into
// that array; the HAL decides what backs it (real RAM on metal, a byte slice
// on the host).
package memory

const (
	// BytesPerFrame is the physical allocation granularity.
	BytesPerFrame = 4 * 1024

	// MaxPhysicalMemoryBytes bounds the bitmap: one bit per frame up to here.
	MaxPhysicalMemoryBytes = 128 * 1024 * 1024 * 1024

	// FrameCount is the number of frames the bitmap can describe.
	FrameCount = MaxPhysicalMemoryBytes / BytesPerFrame

	bitsPerMapLine = 64
)

// FrameID indexes a physical 4 KiB frame.
type FrameID uint64

// NullFrame is the invalid frame sentinel.
const NullFrame FrameID = ^FrameID(0)

// Addr returns the physical byte address of the frame.
func (f FrameID) Addr() uint64 { return uint64(f) * BytesPerFrame }

// FrameContaining returns the frame that holds the physical address.
func FrameContaining(addr uint64) FrameID { return FrameID(addr / BytesPerFrame) }
