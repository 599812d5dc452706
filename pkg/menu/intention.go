package menu

// Intention decides what a knob rotation does.
type Intention int

// Intentions in button cycling order.
const (
	ChangeValue Intention = iota
	ScrollItems
	ScrollSideways

	intentionCount
)

// Next returns the intention selected by the next button press.
func (i Intention) Next() Intention {
	return (i + 1) % intentionCount
}

// String implements fmt.Stringer.
func (i Intention) String() string {
	switch i {
	case ChangeValue:
		return "value"
	case ScrollItems:
		return "items"
	case ScrollSideways:
		return "sideways"
	}
	return "unknown"
}

// Marker is the single-character cursor indicator for a display.
func (i Intention) Marker() byte {
	switch i {
	case ChangeValue:
		return '*'
	case ScrollItems:
		return '>'
	case ScrollSideways:
		return '<'
	}
	return '?'
}
