package msgs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/relay.go/pkg/frame"
)

func TestRecordEncodeDecode(t *testing.T) {
	at := time.Unix(1700000000, 42)
	rec := NewRecord("relay-1", frame.Record{"25.4", "", "ok,late"}, []byte("25.4,,ok,late"), at)
	require.Len(t, rec.ID, 36)

	data, err := rec.Encode()
	require.NoError(t, err)
	decoded, err := DecodeRecord(data)
	require.NoError(t, err)
	require.Equal(t, rec.ID, decoded.ID)
	require.Equal(t, []string{"25.4", "", "ok,late"}, decoded.Fields)
	require.Equal(t, at, decoded.Time())
	require.Equal(t, rec.Raw, decoded.Raw)

	require.NotEqual(t, rec.ID, NewRecord("relay-1", nil, nil, at).ID)
}

func TestStatsEncodeDecode(t *testing.T) {
	stats := &Stats{Frames: 10, Records: 7, Malformed: 3, SinkErrors: 1}
	data, err := stats.Encode()
	require.NoError(t, err)
	decoded, err := DecodeStats(data)
	require.NoError(t, err)
	require.Equal(t, stats, decoded)

	_, err = DecodeStats([]byte{0xff})
	require.Error(t, err)
}
