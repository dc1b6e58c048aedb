// Package kernel is the cooperative task core: per-task mailboxes and the
// round-robin scheduler.
//
// Tasks run one at a time on the kernel loop. Interrupt context (HAL
// goroutines) may only call Manager.SendMessage; the mailbox's lock-free
// producer path stands in for the interrupt-disable bracket a bare-metal
// build would use.
package kernel

import (
	"sync/atomic"

	"ember/emberos/proto"
)

// TaskID identifies a task. The render task is always RenderTaskID.
type TaskID uint16

// RenderTaskID is the task that owns the layer manager and the screen.
const RenderTaskID TaskID = 1

// Message is a fixed-size envelope delivered through a mailbox.
type Message struct {
	Src  TaskID
	Kind proto.Kind
	Len  uint16
	Data [proto.MaxPayload]byte
}

// Payload returns the encoded payload bytes.
func (m *Message) Payload() []byte { return m.Data[:m.Len] }

const mailboxSlots = 32

// Mailbox is a fixed-size multi-producer, single-consumer queue. Producers
// may run in interrupt context; the consumer is the owning task.
type Mailbox struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	slots [mailboxSlots]Message
}

// TrySend attempts to enqueue a message, returning false if the mailbox is
// full.
func (mb *Mailbox) TrySend(msg Message) bool {
	for {
		head := mb.head.Load()
		tail := mb.tail.Load()
		if head-tail >= mailboxSlots {
			return false
		}
		if mb.head.CompareAndSwap(head, head+1) {
			mb.slots[head%mailboxSlots] = msg
			return true
		}
	}
}

// TryRecv attempts to dequeue one message, returning false if empty.
func (mb *Mailbox) TryRecv() (Message, bool) {
	tail := mb.tail.Load()
	head := mb.head.Load()
	if tail == head {
		return Message{}, false
	}
	msg := mb.slots[tail%mailboxSlots]
	mb.tail.Store(tail + 1)
	return msg, true
}
