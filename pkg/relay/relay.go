// Package relay parses radio frames and forwards the records to
// transport sinks.
package relay

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/relay.go/pkg/frame"
	fx "github.com/robotalks/relay.go/pkg/framework"
	"github.com/robotalks/relay.go/pkg/relay/msgs"
)

// FrameMsg carries a raw frame from a source into the loop.
type FrameMsg struct {
	Raw        []byte
	ReceivedAt time.Time
}

// NewMessage implements Message.
func (m *FrameMsg) NewMessage() fx.Message { return &FrameMsg{} }

// Relay parses every frame posted to the loop and forwards the records.
// Malformed frames are counted and dropped.
type Relay struct {
	ID     string
	Parser frame.Parser
	// Overrides replaces field values by index before forwarding.
	Overrides map[int]string
	Sink      Sink

	stats Stats
}

// New creates a Relay using the field node protocol.
func New(id string, sink Sink) *Relay {
	return &Relay{ID: id, Parser: frame.NewParser(), Sink: sink}
}

// Stats returns the counters.
func (r *Relay) Stats() *Stats {
	return &r.stats
}

// AddToLoop implements LoopAdder.
func (r *Relay) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvControl, r)
}

// HandleFrame implements link.FrameHandler. It must be called with a
// context from a Runnable started by the loop.
func (r *Relay) HandleFrame(ctx context.Context, raw []byte) {
	ctl := fx.LoopCtlFrom(ctx)
	ctl.PostMessage(&FrameMsg{Raw: raw, ReceivedAt: time.Now()})
	ctl.TriggerNext()
}

// Control implements Controller.
func (r *Relay) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if msg, ok := mctx.CurrentMessage().(*FrameMsg); ok {
			mctx.MessageTaken()
			r.Process(cc.Context(), msg.Raw, msg.ReceivedAt)
		}
	}))
	return nil
}

// Process parses one frame and forwards it. The returned record is nil
// when the frame was dropped.
func (r *Relay) Process(ctx context.Context, raw []byte, receivedAt time.Time) *msgs.Record {
	r.stats.frames.Add(1)
	rec, err := r.Parser.Parse(raw)
	if err != nil {
		r.stats.malformed.Add(1)
		glog.V(1).Infof("drop frame %q: %v", raw, err)
		return nil
	}
	for index, value := range r.Overrides {
		if index >= 0 && index < len(rec) {
			rec[index] = value
		}
	}
	if glog.V(1) {
		for n, field := range rec {
			glog.Infof("field %d: %s", n+1, field)
		}
	}
	m := msgs.NewRecord(r.ID, rec, raw, receivedAt)
	r.stats.records.Add(1)
	if r.Sink == nil {
		return m
	}
	if err := r.Sink.Send(ctx, m); err != nil {
		r.stats.sinkErrors.Add(1)
		glog.Warningf("forward record %s: %v", m.ID, err)
	}
	return m
}
