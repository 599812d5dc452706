// Package gate provides a rate-limited, edge-triggered refresh gate.
package gate

// A Gate collects field updates from producers and releases at most one
// snapshot per interval, and only when something changed since the last
// one. Slow render sinks (character displays, e-paper, remote dashboards)
// are then driven by the poll cadence instead of by the input rate,
// while the latest value of every field is always the one rendered.
//
// Gate is not safe for concurrent use. In a framework.Loop, producers
// either own the Gate and call SetField from a controller, or post
// FieldUpdate messages which the Refresher applies before polling.
