// Package display renders menu snapshots on a character display.
package display

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robotalks/relay.go/pkg/gate"
	"github.com/robotalks/relay.go/pkg/menu"
)

// Default geometry of the emulated display.
const (
	DefaultRows = 2
	DefaultCols = 16
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

// Text emulates a rows x cols character display on a terminal.
type Text struct {
	Writer io.Writer
	Rows   int
	Cols   int
	// Plain disables the terminal control sequences and the frame.
	Plain bool

	frame lipgloss.Style
}

// NewText creates a Text with default geometry.
func NewText(w io.Writer) *Text {
	return &Text{
		Writer: w,
		Rows:   DefaultRows,
		Cols:   DefaultCols,
		frame:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()),
	}
}

// Validate checks the geometry.
func (t *Text) Validate() error {
	if t.Rows < 1 || t.Cols < 1 {
		return fmt.Errorf("invalid display geometry %dx%d", t.Rows, t.Cols)
	}
	return nil
}

// Lines formats a menu snapshot into display rows, each exactly Cols wide.
func (t *Text) Lines(s gate.Snapshot) []string {
	if t.Rows < 1 {
		return nil
	}
	lines := make([]string, t.Rows)
	item, _ := s.Field(menu.FieldItem).(menu.Item)
	cursor, _ := s.Field(menu.FieldCursor).(menu.Cursor)
	pressed, _ := s.Field(menu.FieldButton).(bool)

	label := ""
	if runes := []rune(item.Label); cursor.Column >= 0 && cursor.Column < len(runes) {
		label = string(runes[cursor.Column:])
	}
	if len(lines) > 0 {
		lines[0] = string(cursor.Intention.Marker()) + label
	}
	if len(lines) > 1 {
		button := ' '
		if pressed {
			button = '#'
		}
		lines[1] = fmt.Sprintf("%c %d [%d..%d]", button, item.Value, item.Min, item.Max)
	}
	for n, line := range lines {
		lines[n] = fit(line, t.Cols)
	}
	return lines
}

// Render implements gate.RenderSink.
func (t *Text) Render(ctx context.Context, s gate.Snapshot) error {
	if err := t.Validate(); err != nil {
		return err
	}
	content := strings.Join(t.Lines(s), "\n")
	if t.Plain {
		_, err := io.WriteString(t.Writer, content+"\n")
		return err
	}
	_, err := io.WriteString(t.Writer, clearScreen+t.frame.Render(content)+"\n")
	return err
}

// fit pads or truncates s to width characters.
func fit(s string, width int) string {
	if width < 0 {
		width = 0
	}
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}
