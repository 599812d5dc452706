package relay

import (
	"sync/atomic"

	"github.com/robotalks/relay.go/pkg/relay/msgs"
)

// Stats counts relay activity. Safe to read from any goroutine.
type Stats struct {
	frames     atomic.Uint64
	records    atomic.Uint64
	malformed  atomic.Uint64
	sinkErrors atomic.Uint64
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() *msgs.Stats {
	return &msgs.Stats{
		Frames:     s.frames.Load(),
		Records:    s.records.Load(),
		Malformed:  s.malformed.Load(),
		SinkErrors: s.sinkErrors.Load(),
	}
}
