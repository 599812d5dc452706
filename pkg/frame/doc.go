// Package frame parses delimiter-separated text frames into records.
package frame

// Wire format as emitted by the LoRa field nodes: ASCII text, one frame
// per radio packet, fields separated by a single byte (comma by default).
// Fields are not escaped. A delimiter embedded in any field but the last
// shifts the following boundaries; the last field takes whatever is left,
// delimiters included.
//
// Producer: field node firmware
// Consumer: relay
