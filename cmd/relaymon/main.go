package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/relay.go/pkg/frame"
	"github.com/robotalks/relay.go/pkg/link/mqtt"
	"github.com/robotalks/relay.go/pkg/relay"
	"github.com/robotalks/relay.go/pkg/relay/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/relay/"
)

func init() {
	if val := os.Getenv("RELAY_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/"+mqtt.MetaTopic) {
			if len(payload) == 0 {
				log.Printf("%s: offline", topic)
				return
			}
			log.Printf("%s: %s", topic, string(payload))
			return
		}
		if strings.HasSuffix(topic, "/"+relay.StatsTopic) {
			stats, err := msgs.DecodeStats(payload)
			if err != nil {
				log.Printf("%s: bad stats: %v", topic, err)
				return
			}
			log.Printf("%s: %s", topic, stats)
			return
		}
		if !strings.HasSuffix(topic, "/"+relay.RecordTopic) {
			log.Printf("%s: %q", topic, payload)
			return
		}
		m, err := msgs.DecodeRecord(payload)
		if err != nil {
			log.Printf("%s: bad record: %v", topic, err)
			return
		}
		log.Printf("%s: [%s] %s", topic, m.ID, frame.Record(m.Fields))
	}))
	if err := q.Connect(); err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}
