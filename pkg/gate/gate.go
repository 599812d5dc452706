package gate

import (
	"time"
)

// Snapshot is a copy of all fields taken when a render is released.
type Snapshot struct {
	// Seq counts renders, starting from 1.
	Seq    uint64
	Time   time.Time
	Fields []interface{}
}

// Field returns the value of field index, nil if out of range.
func (s Snapshot) Field(index int) interface{} {
	if index < 0 || index >= len(s.Fields) {
		return nil
	}
	return s.Fields[index]
}

// Gate is the rate-limited, edge-triggered state holder.
type Gate struct {
	Interval time.Duration

	fields       []interface{}
	triggered    bool
	nextEligible time.Time
	seq          uint64
}

// New creates a Gate with fieldCount fields. The first Poll renders
// immediately.
func New(fieldCount int, interval time.Duration) *Gate {
	g := &Gate{
		Interval: interval,
		fields:   make([]interface{}, fieldCount),
	}
	g.ForceFirstTrigger()
	return g
}

// FieldCount returns the number of fields.
func (g *Gate) FieldCount() int {
	return len(g.fields)
}

// SetField updates one field and marks the gate triggered.
// It never renders.
func (g *Gate) SetField(index int, value interface{}) error {
	if index < 0 || index >= len(g.fields) {
		return &InvalidFieldError{Index: index, Count: len(g.fields)}
	}
	g.fields[index] = value
	g.triggered = true
	return nil
}

// MustSetField is SetField for callers whose indices are constants.
func (g *Gate) MustSetField(index int, value interface{}) {
	if err := g.SetField(index, value); err != nil {
		panic(err)
	}
}

// ForceFirstTrigger makes the next Poll render regardless of
// whether anything changed or how long ago the last render was.
func (g *Gate) ForceFirstTrigger() {
	g.triggered = true
	g.nextEligible = time.Time{}
}

// Pending reports whether a render is owed.
func (g *Gate) Pending() bool {
	return g.triggered
}

// Poll releases a snapshot if the gate is triggered and now is not
// before the next eligible time.
func (g *Gate) Poll(now time.Time) (Snapshot, bool) {
	if !g.triggered || now.Before(g.nextEligible) {
		return Snapshot{}, false
	}
	g.triggered = false
	g.nextEligible = now.Add(g.Interval)
	g.seq++
	fields := make([]interface{}, len(g.fields))
	copy(fields, g.fields)
	return Snapshot{Seq: g.seq, Time: now, Fields: fields}, true
}
