package frame

import (
	"io"
	"strings"
)

// Output encoding used by the Bluetooth side.
const (
	DefaultSeparator  = ";"
	DefaultTerminator = "\r\n"
)

// Record is an ordered list of fields parsed from one frame.
type Record []string

// String joins the fields with the default separator.
func (r Record) String() string {
	return strings.Join(r, DefaultSeparator)
}

// WriteFields writes every field followed by sep, then term, one write each.
// A failed write stops the sequence; what was written stays written.
func (r Record) WriteFields(w io.Writer, sep, term string) (n int64, err error) {
	write := func(s string) error {
		if s == "" {
			return nil
		}
		written, err := io.WriteString(w, s)
		n += int64(written)
		return err
	}
	for _, field := range r {
		if err = write(field); err != nil {
			return
		}
		if err = write(sep); err != nil {
			return
		}
	}
	err = write(term)
	return
}

// Encode returns the bytes WriteFields would produce.
func (r Record) Encode(sep, term string) []byte {
	var sb strings.Builder
	r.WriteFields(&sb, sep, term)
	return []byte(sb.String())
}
