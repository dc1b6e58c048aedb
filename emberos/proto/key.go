package proto

// KeyPayload is a keyboard event.
//
// Layout: u8 modifier, u8 keycode, u8 ascii.
type KeyPayload struct {
	Modifier uint8
	Keycode  uint8
	ASCII    uint8
}

// EncodeKey writes the payload into b and returns the encoded length.
func EncodeKey(b []byte, p KeyPayload) int {
	b[0] = p.Modifier
	b[1] = p.Keycode
	b[2] = p.ASCII
	return 3
}

// DecodeKey parses a keyboard payload.
func DecodeKey(b []byte) (KeyPayload, bool) {
	if len(b) < 3 {
		return KeyPayload{}, false
	}
	return KeyPayload{Modifier: b[0], Keycode: b[1], ASCII: b[2]}, true
}
