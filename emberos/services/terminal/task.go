package terminal

import (
	"ember/emberos/graphics"
	"ember/emberos/kernel"
	"ember/emberos/proto"
)

// Task adapts a Terminal to the cooperative scheduler: it consumes timer
// and keyboard messages and asks the render task to repaint the dirty area.
type Task struct {
	term *Terminal
}

// NewTask wraps a terminal as a schedulable task.
func NewTask(term *Terminal) *Task {
	return &Task{term: term}
}

// Step drains one message; with nothing queued the task sleeps.
func (s *Task) Step(ctx *kernel.Context) {
	msg, ok := ctx.ReceiveMessage()
	if !ok {
		ctx.Sleep()
		return
	}

	switch msg.Kind {
	case proto.MsgTimerTimeout:
		s.requestDraw(ctx, s.term.BlinkCursor())
	case proto.MsgKeyPush:
		key, ok := proto.DecodeKey(msg.Payload())
		if !ok {
			return
		}
		s.requestDraw(ctx, s.term.InputKey(key.Modifier, key.Keycode, key.ASCII))
	}
}

func (s *Task) requestDraw(ctx *kernel.Context, area graphics.Rect) {
	var msg kernel.Message
	msg.Kind = proto.MsgLayer
	msg.Len = uint16(proto.EncodeLayer(msg.Data[:], proto.LayerPayload{
		LayerID: s.term.LayerID(),
		Op:      proto.LayerDrawArea,
		X:       int32(area.Pos.X),
		Y:       int32(area.Pos.Y),
		W:       int32(area.Size.X),
		H:       int32(area.Size.Y),
	}))
	_ = ctx.Send(kernel.RenderTaskID, msg)
}
