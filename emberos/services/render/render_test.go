package render

import (
	"testing"

	"ember/emberos/graphics"
	"ember/emberos/kernel"
	"ember/emberos/layer"
	"ember/emberos/proto"
	"ember/emberos/window"
)

// sink collects messages delivered to a task.
type sink struct {
	got []kernel.Message
}

func (s *sink) Step(ctx *kernel.Context) {
	msg, ok := ctx.ReceiveMessage()
	if !ok {
		ctx.Sleep()
		return
	}
	s.got = append(s.got, msg)
}

func TestRenderTaskProcessesLayerMessages(t *testing.T) {
	screen, err := graphics.New(graphics.Config{Width: 16, Height: 16, Format: graphics.PixelRGB8})
	if err != nil {
		t.Fatalf("graphics.New() error = %v, want nil", err)
	}
	lm, err := layer.NewManager(screen)
	if err != nil {
		t.Fatalf("layer.NewManager() error = %v, want nil", err)
	}
	win, err := window.New(4, 4, graphics.PixelRGB8)
	if err != nil {
		t.Fatalf("window.New() error = %v, want nil", err)
	}
	l := lm.NewLayer().SetWindow(win)
	lm.UpDown(l.ID(), 0)

	presented := 0
	svc := New(lm)
	svc.Present = func() { presented++ }

	tm := kernel.NewManager()
	renderTask, err := tm.NewTask(svc)
	if err != nil {
		t.Fatalf("NewTask() error = %v, want nil", err)
	}
	if renderTask.ID() != kernel.RenderTaskID {
		t.Fatalf("render task id = %d, want %d", renderTask.ID(), kernel.RenderTaskID)
	}
	client := &sink{}
	clientTask, _ := tm.NewTask(client)

	var msg kernel.Message
	msg.Src = clientTask.ID()
	msg.Kind = proto.MsgLayer
	msg.Len = uint16(proto.EncodeLayer(msg.Data[:], proto.LayerPayload{
		LayerID: l.ID(),
		Op:      proto.LayerMove,
		X:       5, Y: 6,
	}))
	if err := tm.SendMessage(kernel.RenderTaskID, msg); err != nil {
		t.Fatalf("SendMessage() error = %v, want nil", err)
	}

	for tm.Step() {
	}

	if got := l.Position(); got != (graphics.Point{X: 5, Y: 6}) {
		t.Fatalf("Position() = %+v, want (5,6)", got)
	}
	if presented != 1 {
		t.Fatalf("Present called %d times, want 1", presented)
	}
	if len(client.got) != 1 || client.got[0].Kind != proto.MsgLayerFinish {
		t.Fatalf("client messages = %+v, want one layer_finish", client.got)
	}
	if client.got[0].Src != kernel.RenderTaskID {
		t.Fatalf("layer_finish Src = %d, want %d", client.got[0].Src, kernel.RenderTaskID)
	}
}
