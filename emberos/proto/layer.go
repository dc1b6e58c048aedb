package proto

import "encoding/binary"

// LayerOp selects the compositor operation a layer message requests.
type LayerOp uint8

const (
	LayerMove LayerOp = iota + 1
	LayerMoveRelative
	LayerDraw
	LayerDrawArea
)

func (op LayerOp) String() string {
	switch op {
	case LayerMove:
		return "move"
	case LayerMoveRelative:
		return "move_relative"
	case LayerDraw:
		return "draw"
	case LayerDrawArea:
		return "draw_area"
	default:
		return "unknown"
	}
}

// LayerPayload addresses one layer and carries the op arguments.
//
// Layout (little-endian): u32 layer id, u8 op, i32 x, i32 y, i32 w, i32 h.
type LayerPayload struct {
	LayerID uint32
	Op      LayerOp
	X, Y    int32
	W, H    int32
}

// EncodeLayer writes the payload into b and returns the encoded length.
func EncodeLayer(b []byte, p LayerPayload) int {
	le := binary.LittleEndian
	le.PutUint32(b[0:4], p.LayerID)
	b[4] = uint8(p.Op)
	le.PutUint32(b[5:9], uint32(p.X))
	le.PutUint32(b[9:13], uint32(p.Y))
	le.PutUint32(b[13:17], uint32(p.W))
	le.PutUint32(b[17:21], uint32(p.H))
	return 21
}

// DecodeLayer parses a layer payload.
func DecodeLayer(b []byte) (LayerPayload, bool) {
	if len(b) < 21 {
		return LayerPayload{}, false
	}
	le := binary.LittleEndian
	return LayerPayload{
		LayerID: le.Uint32(b[0:4]),
		Op:      LayerOp(b[4]),
		X:       int32(le.Uint32(b[5:9])),
		Y:       int32(le.Uint32(b[9:13])),
		W:       int32(le.Uint32(b[13:17])),
		H:       int32(le.Uint32(b[17:21])),
	}, true
}
