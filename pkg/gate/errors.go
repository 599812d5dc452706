package gate

import "fmt"

// InvalidFieldError indicates a field index out of range.
type InvalidFieldError struct {
	Index int
	Count int
}

// Error implements error.
func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %d, gate has %d fields", e.Index, e.Count)
}
