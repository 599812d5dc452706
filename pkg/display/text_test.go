package display

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/relay.go/pkg/gate"
	"github.com/robotalks/relay.go/pkg/menu"
)

func snapshot(item menu.Item, pressed bool, cursor menu.Cursor) gate.Snapshot {
	fields := make([]interface{}, menu.FieldCount)
	fields[menu.FieldItem] = item
	fields[menu.FieldButton] = pressed
	fields[menu.FieldCursor] = cursor
	return gate.Snapshot{Seq: 1, Fields: fields}
}

func TestTextLines(t *testing.T) {
	d := NewText(nil)
	item := menu.Item{Label: "Refresh interval (ms)", Value: 100, Min: 20, Max: 1000}
	lines := d.Lines(snapshot(item, false, menu.Cursor{}))
	require.Equal(t, []string{
		"*Refresh interva",
		"  100 [20..1000]",
	}, lines)

	lines = d.Lines(snapshot(item, true, menu.Cursor{Column: 8, Intention: menu.ScrollSideways}))
	require.Equal(t, "<interval (ms)  ", lines[0])
	require.Equal(t, "# 100 [20..1000]", lines[1])
}

func TestTextLinesEmptySnapshot(t *testing.T) {
	d := NewText(nil)
	d.Rows, d.Cols = 3, 4
	lines := d.Lines(gate.Snapshot{})
	require.Equal(t, []string{"*   ", "  0 ", "    "}, lines)
}

func TestTextRenderPlain(t *testing.T) {
	var buf bytes.Buffer
	d := NewText(&buf)
	d.Plain = true
	err := d.Render(context.Background(), snapshot(menu.Item{Label: "Gain", Value: 3, Max: 9}, false, menu.Cursor{}))
	require.NoError(t, err)
	require.Equal(t, "*Gain           \n  3 [0..9]      \n", buf.String())
}

func TestTextRenderFramed(t *testing.T) {
	var buf bytes.Buffer
	d := NewText(&buf)
	err := d.Render(context.Background(), snapshot(menu.Item{Label: "Gain"}, false, menu.Cursor{}))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "*Gain")
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte(clearScreen)))
}

func TestTextLinesUTF8(t *testing.T) {
	d := NewText(nil)
	d.Cols = 8
	item := menu.Item{Label: "Température", Value: 21, Max: 40}
	lines := d.Lines(snapshot(item, false, menu.Cursor{}))
	require.Equal(t, "*Tempéra", lines[0])

	lines = d.Lines(snapshot(item, false, menu.Cursor{Column: 5, Intention: menu.ScrollSideways}))
	require.Equal(t, "<rature ", lines[0])
}

func TestTextGeometry(t *testing.T) {
	d := NewText(nil)
	require.NoError(t, d.Validate())
	d.Rows, d.Cols = -1, 16
	require.Error(t, d.Validate())
	require.Nil(t, d.Lines(gate.Snapshot{}))
	require.Error(t, d.Render(context.Background(), gate.Snapshot{}))
	d.Rows, d.Cols = 2, -3
	require.Error(t, d.Validate())
	require.Equal(t, []string{"", ""}, d.Lines(gate.Snapshot{}))
}
