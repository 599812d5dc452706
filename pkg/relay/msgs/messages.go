// Package msgs defines the messages a relay publishes.
package msgs

import (
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/google/uuid"

	"github.com/robotalks/relay.go/pkg/frame"
)

// Record is a parsed frame as published by the relay.
type Record struct {
	ID         string   `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Relay      string   `protobuf:"bytes,2,opt,name=relay,proto3" json:"relay,omitempty"`
	Fields     []string `protobuf:"bytes,3,rep,name=fields,proto3" json:"fields,omitempty"`
	ReceivedAt int64    `protobuf:"varint,4,opt,name=received_at,json=receivedAt,proto3" json:"received_at,omitempty"`
	Raw        []byte   `protobuf:"bytes,5,opt,name=raw,proto3" json:"raw,omitempty"`
}

// NewRecord wraps a parsed record with a fresh ID.
func NewRecord(relay string, rec frame.Record, raw []byte, receivedAt time.Time) *Record {
	return &Record{
		ID:         uuid.New().String(),
		Relay:      relay,
		Fields:     rec,
		ReceivedAt: receivedAt.UnixNano(),
		Raw:        raw,
	}
}

// Time returns ReceivedAt as time.Time.
func (m *Record) Time() time.Time {
	return time.Unix(0, m.ReceivedAt)
}

// ProtoMessage implements proto.Message.
func (m *Record) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Record) Reset() { *m = Record{} }

// String implements proto.Message.
func (m *Record) String() string { return proto.CompactTextString(m) }

// Encode marshals the record.
func (m *Record) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeRecord unmarshals a record.
func DecodeRecord(data []byte) (*Record, error) {
	var m Record
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Stats reports relay counters.
type Stats struct {
	Frames     uint64 `protobuf:"varint,1,opt,name=frames,proto3" json:"frames"`
	Records    uint64 `protobuf:"varint,2,opt,name=records,proto3" json:"records"`
	Malformed  uint64 `protobuf:"varint,3,opt,name=malformed,proto3" json:"malformed"`
	SinkErrors uint64 `protobuf:"varint,4,opt,name=sink_errors,json=sinkErrors,proto3" json:"sink_errors"`
}

// ProtoMessage implements proto.Message.
func (m *Stats) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Stats) Reset() { *m = Stats{} }

// String implements proto.Message.
func (m *Stats) String() string { return proto.CompactTextString(m) }

// Encode marshals the stats.
func (m *Stats) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeStats unmarshals stats.
func DecodeStats(data []byte) (*Stats, error) {
	var m Stats
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
