package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/relay.go/pkg/link/mqtt"
	"github.com/robotalks/relay.go/pkg/relay/msgs"
)

// Topic suffixes under <prefix><relay>/.
const (
	RecordTopic = "record"
	StatsTopic  = "stats"
)

// DefaultStatsInterval is how often counters are published.
const DefaultStatsInterval = 10 * time.Second

// PublishFunc publishes a payload on a topic relative to the queue prefix.
type PublishFunc func(topic string, payload []byte) error

// QueuePublisher publishes on q without waiting for the broker ack and
// fails while q is disconnected.
func QueuePublisher(q *mqtt.Queue) PublishFunc {
	return func(topic string, payload []byte) error {
		if !q.Client.IsConnected() {
			return fmt.Errorf("mqtt not connected")
		}
		q.Pub(topic, payload)
		return nil
	}
}

// MQTTSink publishes protobuf encoded records on <prefix><relay>/record.
type MQTTSink struct {
	Publish PublishFunc
	Topic   string
}

// NewMQTTSink creates an MQTTSink for relay id.
func NewMQTTSink(q *mqtt.Queue, id string) *MQTTSink {
	return &MQTTSink{Publish: QueuePublisher(q), Topic: id + "/" + RecordTopic}
}

// Send implements Sink.
func (s *MQTTSink) Send(ctx context.Context, m *msgs.Record) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	return s.Publish(s.Topic, data)
}

// StatsPublisher publishes relay counters on <prefix><relay>/stats.
type StatsPublisher struct {
	Stats    *Stats
	Topic    string
	Interval time.Duration
	Publish  PublishFunc
}

// NewStatsPublisher creates a StatsPublisher for r.
func NewStatsPublisher(r *Relay, interval time.Duration, publish PublishFunc) *StatsPublisher {
	return &StatsPublisher{
		Stats:    r.Stats(),
		Topic:    r.ID + "/" + StatsTopic,
		Interval: interval,
		Publish:  publish,
	}
}

// PublishOnce publishes the current counters.
func (p *StatsPublisher) PublishOnce() error {
	data, err := p.Stats.Snapshot().Encode()
	if err != nil {
		return err
	}
	return p.Publish(p.Topic, data)
}

// Run implements Runnable. Publish failures are logged and retried on
// the next tick.
func (p *StatsPublisher) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultStatsInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.PublishOnce(); err != nil {
				glog.V(1).Infof("publish stats: %v", err)
			}
		}
	}
}
