// Package link provides raw frame sources and byte transports.
package link

// A frame source delivers complete frames; everything that turns a byte
// stream into frames (terminators, idle gaps, length limits) happens
// here so the parser only ever sees one frame at a time.
