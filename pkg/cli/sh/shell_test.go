package sh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/relay.go/pkg/relay"
	"github.com/robotalks/relay.go/pkg/relay/msgs"
)

func TestTopicPrefix(t *testing.T) {
	require.Equal(t, "", topicPrefix(""))
	require.Equal(t, "farm/", topicPrefix("farm"))
	require.Equal(t, "farm/", topicPrefix("farm/"))
}

func TestMQTTSink(t *testing.T) {
	s := &Shell{Config: &relay.Config{Sinks: relay.StringList{"file:-", "mqtt://broker:1883/farm"}}}
	sinkURL, err := s.MQTTSink()
	require.NoError(t, err)
	require.Equal(t, "mqtt://broker:1883/farm", sinkURL)

	s.Config.Sinks = relay.StringList{"sqlite:///tmp/r.db"}
	_, err = s.MQTTSink()
	require.Error(t, err)
}

func TestFormatStats(t *testing.T) {
	require.Equal(t, "node: frames=5 records=4 malformed=1 sink-errors=2",
		FormatStats("node", &msgs.Stats{Frames: 5, Records: 4, Malformed: 1, SinkErrors: 2}))
}
