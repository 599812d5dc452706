package mqtt

import (
	"context"

	"github.com/robotalks/relay.go/pkg/link"
)

// Source delivers each payload published on Topic as one frame.
type Source struct {
	Queue   *Queue
	Topic   string
	Handler link.FrameHandler
}

// NewSource creates a Source.
func NewSource(q *Queue, topic string, h link.FrameHandler) *Source {
	return &Source{Queue: q, Topic: topic, Handler: h}
}

// Run implements Runnable.
func (s *Source) Run(ctx context.Context) error {
	sub := s.Queue.Sub(s.Topic, func(_ string, payload []byte) {
		frame := make([]byte, len(payload))
		copy(frame, payload)
		s.Handler.HandleFrame(ctx, frame)
	})
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}
