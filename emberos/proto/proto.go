// Package proto defines the message kinds and payload encodings that travel
// through task mailboxes.
//
// Payloads are fixed little-endian layouts so a message is one flat copy;
// senders in interrupt context never allocate.
package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgTimerTimeout Kind = iota + 1
	MsgKeyPush
	MsgLayer
	MsgLayerFinish
)

func (k Kind) String() string {
	switch k {
	case MsgTimerTimeout:
		return "timer_timeout"
	case MsgKeyPush:
		return "key_push"
	case MsgLayer:
		return "layer"
	case MsgLayerFinish:
		return "layer_finish"
	default:
		return "unknown"
	}
}

// MaxPayload is the size of a message's inline payload.
const MaxPayload = 24
