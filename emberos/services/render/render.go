// Package render is the compositor task. It is the single writer of the
// screen: every other task requests drawing by layer message.
package render

import (
	"ember/emberos/kernel"
	"ember/emberos/layer"
	"ember/emberos/proto"
)

// Service runs the layer manager as task 1.
type Service struct {
	m *layer.Manager

	// Present flushes the screen to the display, if the HAL needs one.
	Present func()
}

// New wraps a layer manager as the render task body.
func New(m *layer.Manager) *Service {
	return &Service{m: m}
}

// Step processes one layer message; with nothing queued the task sleeps.
func (s *Service) Step(ctx *kernel.Context) {
	msg, ok := ctx.ReceiveMessage()
	if !ok {
		ctx.Sleep()
		return
	}
	if msg.Kind != proto.MsgLayer {
		return
	}
	p, ok := proto.DecodeLayer(msg.Payload())
	if !ok {
		return
	}
	s.m.ProcessMessage(p)
	if s.Present != nil {
		s.Present()
	}

	if msg.Src != 0 {
		var done kernel.Message
		done.Kind = proto.MsgLayerFinish
		_ = ctx.Send(msg.Src, done)
	}
}
