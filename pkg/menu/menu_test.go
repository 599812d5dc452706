package menu

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/relay.go/pkg/framework"
	"github.com/robotalks/relay.go/pkg/gate"
	"github.com/robotalks/relay.go/pkg/input"
)

func testItems() []Item {
	return []Item{
		{Label: "Volume", Value: 5, Min: 0, Max: 10},
		{Label: "Bass", Value: 0, Min: -3, Max: 3},
	}
}

func TestIntentionNext(t *testing.T) {
	require.Equal(t, ScrollItems, ChangeValue.Next())
	require.Equal(t, ScrollSideways, ScrollItems.Next())
	require.Equal(t, ChangeValue, ScrollSideways.Next())
	require.Equal(t, "sideways", ScrollSideways.String())
	require.Equal(t, byte('*'), ChangeValue.Marker())
}

func TestMenuRotate(t *testing.T) {
	m := New(testItems(), 0, nil)
	m.Apply(&input.Event{Delta: 3})
	require.Equal(t, 8, m.Current().Value)
	m.Apply(&input.Event{Delta: 10})
	require.Equal(t, 10, m.Current().Value, "clamped to max")

	m.Apply(&input.Event{Button: input.ButtonPressed})
	m.Apply(&input.Event{Button: input.ButtonReleased})
	require.Equal(t, ScrollItems, m.Cursor().Intention)
	m.Apply(&input.Event{Delta: 1})
	require.Equal(t, "Bass", m.Current().Label)
	m.Apply(&input.Event{Delta: 1})
	require.Equal(t, "Volume", m.Current().Label, "wraps")
	m.Apply(&input.Event{Delta: -1})
	require.Equal(t, "Bass", m.Current().Label, "wraps backward")

	m.Apply(&input.Event{Button: input.ButtonPressed})
	require.Equal(t, ScrollSideways, m.Cursor().Intention)
	m.Apply(&input.Event{Delta: 10})
	require.Equal(t, 3, m.Cursor().Column, "clamped to label")
	m.Apply(&input.Event{Delta: -10})
	require.Equal(t, 0, m.Cursor().Column)

	m.Apply(&input.Event{Button: input.ButtonPressed})
	require.Equal(t, ChangeValue, m.Cursor().Intention)
	m.Apply(&input.Event{Delta: -5})
	require.Equal(t, -3, m.Current().Value, "clamped to min")
}

func TestMenuRendersThroughGate(t *testing.T) {
	now := time.Unix(0, 0)
	var snapshots []gate.Snapshot
	sink := gate.RenderFunc(func(ctx context.Context, s gate.Snapshot) error {
		snapshots = append(snapshots, s)
		return nil
	})
	m := New(testItems(), 50*time.Millisecond, sink)
	loop := fx.NewLoop()
	loop.Clock = func() time.Time { return now }
	loop.Add(m)
	ctx := context.Background()

	loop.RunIteration(ctx)
	require.Len(t, snapshots, 1)
	require.Equal(t, testItems()[0], snapshots[0].Field(FieldItem))
	require.Equal(t, false, snapshots[0].Field(FieldButton))
	require.Equal(t, Cursor{}, snapshots[0].Field(FieldCursor))

	for i := 0; i < 4; i++ {
		loop.PostMessage(&input.Event{Delta: 1})
		now = now.Add(10 * time.Millisecond)
		loop.RunIteration(ctx)
	}
	require.Len(t, snapshots, 1, "coalesced until interval elapses")
	now = now.Add(10 * time.Millisecond)
	loop.RunIteration(ctx)
	require.Len(t, snapshots, 2)
	require.Equal(t, 9, snapshots[1].Field(FieldItem).(Item).Value)
}

func TestParseItems(t *testing.T) {
	items, err := ParseItems([]byte(`
items:
  - label: Gain
    value: 3
    min: 0
    max: 9
  - label: Mode
    value: 1
    min: 0
    max: 2
    step: 1
`))
	require.NoError(t, err)
	require.Equal(t, []Item{
		{Label: "Gain", Value: 3, Max: 9},
		{Label: "Mode", Value: 1, Max: 2, Step: 1},
	}, items)

	_, err = ParseItems([]byte(`items: []`))
	require.Error(t, err)
	_, err = ParseItems([]byte("items:\n  - label: X\n    value: 5\n    max: 2\n"))
	require.Error(t, err)
}

func TestItemStep(t *testing.T) {
	it := Item{Label: "x", Value: 50, Min: 0, Max: 100, Step: 5}
	require.Equal(t, 60, it.Add(2).Value)
	require.Equal(t, 0, it.Add(-20).Value)
}

func TestMenuClampedRotationDoesNotTrigger(t *testing.T) {
	m := New([]Item{{Label: "Volume", Value: 10, Max: 10}}, 0, nil)
	_, ok := m.Gate.Poll(time.Unix(1, 0))
	require.True(t, ok)

	m.Apply(&input.Event{Delta: 1})
	require.False(t, m.Gate.Pending(), "value already at max")
	m.Apply(&input.Event{Delta: -1})
	require.True(t, m.Gate.Pending())
	require.Equal(t, 9, m.Current().Value)
}

func TestMenuSidewaysClampCountsRunes(t *testing.T) {
	m := New([]Item{{Label: "Été", Max: 1}}, 0, nil)
	m.Apply(&input.Event{Button: input.ButtonPressed})
	m.Apply(&input.Event{Button: input.ButtonPressed})
	require.Equal(t, ScrollSideways, m.Cursor().Intention)
	m.Apply(&input.Event{Delta: 10})
	require.Equal(t, 2, m.Cursor().Column)
}
