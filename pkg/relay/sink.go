package relay

import (
	"context"
	"io"
	"sync"

	"github.com/robotalks/relay.go/pkg/frame"
	fx "github.com/robotalks/relay.go/pkg/framework"
	"github.com/robotalks/relay.go/pkg/relay/msgs"
)

// Sink forwards records. Delivery is best effort: failures are reported
// but never retried by the relay.
type Sink interface {
	Send(context.Context, *msgs.Record) error
}

// SendFunc is the func form of Sink.
type SendFunc func(context.Context, *msgs.Record) error

// Send implements Sink.
func (f SendFunc) Send(ctx context.Context, m *msgs.Record) error {
	return f(ctx, m)
}

// WriterSink writes the text encoding of records to a byte stream, e.g.
// a Bluetooth serial port.
type WriterSink struct {
	Writer     io.Writer
	Separator  string
	Terminator string

	lock sync.Mutex
}

// NewWriterSink creates a WriterSink with the default encoding.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{
		Writer:     w,
		Separator:  frame.DefaultSeparator,
		Terminator: frame.DefaultTerminator,
	}
}

// Send implements Sink.
func (s *WriterSink) Send(ctx context.Context, m *msgs.Record) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	_, err := frame.Record(m.Fields).WriteFields(s.Writer, s.Separator, s.Terminator)
	return err
}

// Close closes the writer if it is a Closer.
func (s *WriterSink) Close() error {
	if closer, ok := s.Writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// SinkMux sends every record to all sinks.
type SinkMux struct {
	Sinks []Sink
}

// Add adds more sinks.
func (m *SinkMux) Add(sinks ...Sink) {
	m.Sinks = append(m.Sinks, sinks...)
}

// Send implements Sink. All sinks are tried.
func (m *SinkMux) Send(ctx context.Context, rec *msgs.Record) error {
	var errs fx.AggregatedError
	for _, sink := range m.Sinks {
		errs.Add(sink.Send(ctx, rec))
	}
	return errs.Aggregate()
}
