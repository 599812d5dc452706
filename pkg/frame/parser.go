package frame

import (
	"bytes"
	"errors"
)

var (
	// ErrMalformed indicates the frame has fewer delimiters than required.
	// The frame should be dropped; it says nothing about the next one.
	ErrMalformed = errors.New("malformed frame")
	// ErrInvalidFieldCount indicates a field count less than 1.
	ErrInvalidFieldCount = errors.New("invalid field count")
)

// Defaults for the field node protocol.
const (
	DefaultDelimiter  byte = ','
	DefaultFieldCount int  = 3
)

// Parse splits raw into exactly fieldCount fields separated by delim.
func Parse(raw []byte, delim byte, fieldCount int) (Record, error) {
	if fieldCount < 1 {
		return nil, ErrInvalidFieldCount
	}
	rec := make(Record, fieldCount)
	rest := raw
	for i := 0; i < fieldCount-1; i++ {
		pos := bytes.IndexByte(rest, delim)
		if pos < 0 {
			return nil, ErrMalformed
		}
		rec[i], rest = string(rest[:pos]), rest[pos+1:]
	}
	rec[fieldCount-1] = string(rest)
	return rec, nil
}

// Parser binds a delimiter and field count.
type Parser struct {
	Delimiter  byte
	FieldCount int
}

// NewParser creates a Parser for the field node protocol.
func NewParser() Parser {
	return Parser{Delimiter: DefaultDelimiter, FieldCount: DefaultFieldCount}
}

// Parse parses one frame.
func (p Parser) Parse(raw []byte) (Record, error) {
	return Parse(raw, p.Delimiter, p.FieldCount)
}
