// Package input turns encoder-like devices into loop messages.
package input

import (
	fx "github.com/robotalks/relay.go/pkg/framework"
)

// ButtonState is the change of the push button, if any.
type ButtonState int

// Button states.
const (
	ButtonUnchanged ButtonState = iota
	ButtonPressed
	ButtonReleased
)

// Event is one input change: a rotation by Delta detents, a button
// change, or both.
type Event struct {
	Delta  int
	Button ButtonState
}

// NewMessage implements Message.
func (e *Event) NewMessage() fx.Message { return &Event{} }

// IsZero reports whether the event carries no change.
func (e *Event) IsZero() bool {
	return e.Delta == 0 && e.Button == ButtonUnchanged
}

func post(ctl fx.LoopControl, events ...*Event) {
	for _, ev := range events {
		if !ev.IsZero() {
			ctl.PostMessage(ev)
		}
	}
	ctl.TriggerNext()
}
