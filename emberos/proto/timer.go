package proto

import "encoding/binary"

// TimerPayload carries the tick count at which a timer fired.
//
// Layout (little-endian): u64 tick.
type TimerPayload struct {
	Tick uint64
}

// EncodeTimer writes the payload into b and returns the encoded length.
func EncodeTimer(b []byte, p TimerPayload) int {
	binary.LittleEndian.PutUint64(b[0:8], p.Tick)
	return 8
}

// DecodeTimer parses a timer payload.
func DecodeTimer(b []byte) (TimerPayload, bool) {
	if len(b) < 8 {
		return TimerPayload{}, false
	}
	return TimerPayload{Tick: binary.LittleEndian.Uint64(b[0:8])}, true
}
