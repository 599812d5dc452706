// Package menu implements a knob-and-button menu rendered through a
// refresh gate.
package menu

import (
	"time"
	"unicode/utf8"

	fx "github.com/robotalks/relay.go/pkg/framework"
	"github.com/robotalks/relay.go/pkg/gate"
	"github.com/robotalks/relay.go/pkg/input"
)

// Gate fields published by the menu.
const (
	// FieldItem holds the current Item.
	FieldItem int = iota
	// FieldButton holds whether the button is down.
	FieldButton
	// FieldCursor holds the Cursor.
	FieldCursor

	FieldCount
)

// Cursor locates the selection.
type Cursor struct {
	Item      int
	Column    int
	Intention Intention
}

// Menu applies input events to its items and publishes the visible
// state into its Gate.
type Menu struct {
	Items []Item
	Gate  *gate.Gate
	Sink  gate.RenderSink

	cursor Cursor
}

// New creates a Menu. All fields are published so the first render
// shows the complete state.
func New(items []Item, interval time.Duration, sink gate.RenderSink) *Menu {
	m := &Menu{
		Items: items,
		Gate:  gate.New(FieldCount, interval),
		Sink:  sink,
	}
	m.publishItem()
	m.Gate.MustSetField(FieldButton, false)
	m.Gate.MustSetField(FieldCursor, m.cursor)
	return m
}

// Cursor returns the current cursor.
func (m *Menu) Cursor() Cursor {
	return m.cursor
}

// Current returns the selected item.
func (m *Menu) Current() Item {
	return m.Items[m.cursor.Item]
}

// AddToLoop implements LoopAdder.
func (m *Menu) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvControl, m)
	l.Add(gate.NewRefresher(m.Gate, m.Sink))
}

// Control implements Controller.
func (m *Menu) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if ev, ok := mctx.CurrentMessage().(*input.Event); ok {
			mctx.MessageTaken()
			m.Apply(ev)
		}
	}))
	return nil
}

// Apply handles one input event.
func (m *Menu) Apply(ev *input.Event) {
	switch ev.Button {
	case input.ButtonPressed:
		m.cursor.Intention = m.cursor.Intention.Next()
		m.Gate.MustSetField(FieldButton, true)
		m.Gate.MustSetField(FieldCursor, m.cursor)
	case input.ButtonReleased:
		m.Gate.MustSetField(FieldButton, false)
	}
	if ev.Delta != 0 && len(m.Items) > 0 {
		m.rotate(ev.Delta)
	}
}

func (m *Menu) rotate(delta int) {
	switch m.cursor.Intention {
	case ChangeValue:
		item := m.Current().Add(delta)
		if item.Value != m.Current().Value {
			m.Items[m.cursor.Item] = item
			m.publishItem()
		}
		return
	case ScrollItems:
		n := len(m.Items)
		m.cursor.Item = ((m.cursor.Item+delta)%n + n) % n
		m.cursor.Column = 0
		m.publishItem()
	case ScrollSideways:
		col := m.cursor.Column + delta
		if last := utf8.RuneCountInString(m.Current().Label) - 1; col > last {
			col = last
		}
		if col < 0 {
			col = 0
		}
		m.cursor.Column = col
	}
	m.Gate.MustSetField(FieldCursor, m.cursor)
}

func (m *Menu) publishItem() {
	if len(m.Items) > 0 {
		m.Gate.MustSetField(FieldItem, m.Current())
	}
}
