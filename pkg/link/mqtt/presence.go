package mqtt

import (
	"encoding/json"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// MetaTopic is the suffix of the retained presence topic.
const MetaTopic = "meta"

// Meta is announced while the relay is online.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Source      string            `json:"source,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Presence publishes Meta retained on <prefix><name>/meta after every
// connect and has the broker clear it when the connection drops.
type Presence struct {
	Name string
	Meta Meta
}

// SetWill must be applied to the client options before the Queue is
// created.
func (p *Presence) SetWill(opts *paho.ClientOptions, topicPrefix string) {
	opts.SetBinaryWill(topicPrefix+p.Topic(), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("relay:" + p.Name)
	}
}

// Topic is the presence topic relative to the prefix.
func (p *Presence) Topic() string {
	return p.Name + "/" + MetaTopic
}

// Payload encodes the meta as announced.
func (p *Presence) Payload() []byte {
	data, err := json.Marshal(&p.Meta)
	if err != nil {
		panic(err)
	}
	return data
}

// Announce publishes the meta. Install it as Queue.OnConnect.
func (p *Presence) Announce(q *Queue) {
	q.PubWith(p.Topic(), p.Payload(), 1, true)
}

// Withdraw clears the retained meta before a clean disconnect.
func (p *Presence) Withdraw(q *Queue) {
	q.PubWith(p.Topic(), nil, 1, true).Wait()
}
