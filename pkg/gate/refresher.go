package gate

import (
	"context"

	"github.com/golang/glog"

	fx "github.com/robotalks/relay.go/pkg/framework"
)

// RenderSink turns a snapshot into visible output. It may be slow.
type RenderSink interface {
	Render(context.Context, Snapshot) error
}

// RenderFunc is the func form of RenderSink.
type RenderFunc func(context.Context, Snapshot) error

// Render implements RenderSink.
func (f RenderFunc) Render(ctx context.Context, s Snapshot) error {
	return f(ctx, s)
}

// FieldUpdate is the message form of Gate.SetField.
type FieldUpdate struct {
	Index int
	Value interface{}
}

// NewMessage implements Message.
func (m *FieldUpdate) NewMessage() fx.Message { return &FieldUpdate{} }

// Refresher polls a Gate once per loop iteration and hands released
// snapshots to a RenderSink.
type Refresher struct {
	Gate *Gate
	Sink RenderSink
}

// NewRefresher creates a Refresher.
func NewRefresher(g *Gate, sink RenderSink) *Refresher {
	return &Refresher{Gate: g, Sink: sink}
}

// AddToLoop implements LoopAdder.
func (r *Refresher) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvRender, r)
}

// Control implements Controller.
func (r *Refresher) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if upd, ok := mctx.CurrentMessage().(*FieldUpdate); ok {
			mctx.MessageTaken()
			if err := r.Gate.SetField(upd.Index, upd.Value); err != nil {
				glog.Errorf("drop field update: %v", err)
			}
		}
	}))
	snapshot, ok := r.Gate.Poll(cc.Time())
	if !ok {
		return nil
	}
	if err := r.Sink.Render(cc.Context(), snapshot); err != nil {
		glog.Warningf("render #%d failed: %v", snapshot.Seq, err)
	}
	return nil
}
