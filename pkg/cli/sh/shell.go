// Package sh is an interactive shell to poke a running relay.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/relay.go/pkg/frame"
	"github.com/robotalks/relay.go/pkg/link/mqtt"
	"github.com/robotalks/relay.go/pkg/relay"
	"github.com/robotalks/relay.go/pkg/relay/msgs"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	// WatchFor bounds how long watch and relays collect messages.
	WatchFor time.Duration

	Shell  *ishell.Shell
	Config *relay.Config

	lock   sync.Mutex
	queues map[string]*mqtt.Queue
}

const (
	shellKey = "$shell"
	prompt   = "relay > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	watchFor   = 5 * time.Second

	// commands
	commands = []*ishell.Cmd{
		&ParseCmd,
		&InjectCmd,
		&WatchCmd,
		&RelaysCmd,
		&RecentCmd,
		&StatsCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.DurationVar(&watchFor, "watch-for", watchFor, "How long watch and relays listen.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *relay.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		WatchFor:    watchFor,

		Shell:  ishell.New(),
		Config: conf,
		queues: make(map[string]*mqtt.Queue),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Queue returns a connected queue for the broker of an mqtt URL. The
// URL path is returned as is.
func (s *Shell) Queue(brokerURL string) (*mqtt.Queue, string, error) {
	opts, path, err := mqtt.ParseURL(brokerURL)
	if err != nil {
		return nil, "", err
	}
	u, _ := url.Parse(brokerURL)
	s.lock.Lock()
	defer s.lock.Unlock()
	if q := s.queues[u.Host]; q != nil {
		return q, path, nil
	}
	q := mqtt.NewQueue(opts, "")
	if err := q.Connect(); err != nil {
		return nil, "", err
	}
	s.queues[u.Host] = q
	return q, path, nil
}

// MQTTSink finds the first mqtt sink URL in config.
func (s *Shell) MQTTSink() (string, error) {
	for _, sinkURL := range s.Config.Sinks {
		if strings.HasPrefix(sinkURL, "mqtt") {
			return sinkURL, nil
		}
	}
	return "", fmt.Errorf("no mqtt sink configured")
}

// Print prints a value as JSON or text.
func (s *Shell) Print(c *ishell.Context, v interface{}) {
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(v)
}

// Listen subscribes filter for WatchFor and calls fn for each message.
func (s *Shell) Listen(q *mqtt.Queue, filter string, fn mqtt.Handler) {
	var lock sync.Mutex
	sub := q.Sub(filter, func(topic string, payload []byte) {
		lock.Lock()
		defer lock.Unlock()
		fn(topic, payload)
	})
	time.Sleep(s.WatchFor)
	sub.Close()
}

// Close disconnects all queues.
func (s *Shell) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for host, q := range s.queues {
		q.Close()
		delete(s.queues, host)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Close()
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// FormatStats prints relay counters on one line.
func FormatStats(relayID string, stats *msgs.Stats) string {
	return fmt.Sprintf("%s: frames=%d records=%d malformed=%d sink-errors=%d",
		relayID, stats.Frames, stats.Records, stats.Malformed, stats.SinkErrors)
}

func topicPrefix(path string) string {
	if path != "" && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}

var (
	// ParseCmd parses frames with the configured parser.
	ParseCmd = ishell.Cmd{
		Name:    "parse",
		Aliases: []string{"p"},
		Help:    "FRAME...",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			parser, err := s.Config.Parser()
			if err != nil {
				c.Err(err)
				return
			}
			for _, raw := range c.Args {
				rec, err := parser.Parse([]byte(raw))
				if err != nil {
					c.Printf("%q: %v\n", raw, err)
					continue
				}
				if s.OutputJSON {
					s.Print(c, []string(rec))
					continue
				}
				for n, field := range rec {
					c.Printf("field %d: %s\n", n+1, field)
				}
			}
		},
	}

	// InjectCmd publishes raw frames to the relay's mqtt source topic.
	InjectCmd = ishell.Cmd{
		Name:    "inject",
		Aliases: []string{"i"},
		Help:    "FRAME...",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if !strings.HasPrefix(s.Config.Source, "mqtt") {
				c.Err(fmt.Errorf("source %q is not mqtt", s.Config.Source))
				return
			}
			q, topic, err := s.Queue(s.Config.Source)
			if err != nil {
				c.Err(err)
				return
			}
			for _, raw := range c.Args {
				token := q.Pub(topic, []byte(raw))
				token.Wait()
				if err := token.Error(); err != nil {
					c.Err(err)
					return
				}
			}
			c.Println("OK")
		},
	}

	// WatchCmd prints records published by relays.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "[RELAY]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			sinkURL, err := s.MQTTSink()
			if err != nil {
				c.Err(err)
				return
			}
			q, path, err := s.Queue(sinkURL)
			if err != nil {
				c.Err(err)
				return
			}
			relayID := "+"
			if len(c.Args) > 0 {
				relayID = c.Args[0]
			}
			s.Listen(q, topicPrefix(path)+relayID+"/"+relay.RecordTopic, func(topic string, payload []byte) {
				m, err := msgs.DecodeRecord(payload)
				if err != nil {
					c.Printf("%s: bad record: %v\n", topic, err)
					return
				}
				if s.OutputJSON {
					s.Print(c, m)
					return
				}
				c.Printf("%s %s %s\n", m.Time().Format(time.RFC3339), m.Relay, frame.Record(m.Fields))
			})
		},
	}

	// RelaysCmd lists online relays from their retained meta.
	RelaysCmd = ishell.Cmd{
		Name:    "relays",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			sinkURL, err := s.MQTTSink()
			if err != nil {
				c.Err(err)
				return
			}
			q, path, err := s.Queue(sinkURL)
			if err != nil {
				c.Err(err)
				return
			}
			prefix := topicPrefix(path)
			found := make(map[string]mqtt.Meta)
			s.Listen(q, prefix+"+/"+mqtt.MetaTopic, func(topic string, payload []byte) {
				if len(payload) == 0 {
					return
				}
				var meta mqtt.Meta
				if err := json.Unmarshal(payload, &meta); err != nil {
					return
				}
				name := strings.TrimSuffix(strings.TrimPrefix(topic, prefix), "/"+mqtt.MetaTopic)
				found[name] = meta
			})
			if s.OutputJSON {
				s.Print(c, found)
				return
			}
			if len(found) == 0 {
				c.Println("No relays found")
				return
			}
			names := make([]string, 0, len(found))
			for name := range found {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				c.Printf("%s: %s (%s)\n", name, found[name].Description, found[name].Source)
			}
		},
	}

	// StatsCmd prints counters published by relays.
	StatsCmd = ishell.Cmd{
		Name:    "stats",
		Aliases: []string{"s"},
		Help:    "[RELAY]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			sinkURL, err := s.MQTTSink()
			if err != nil {
				c.Err(err)
				return
			}
			q, path, err := s.Queue(sinkURL)
			if err != nil {
				c.Err(err)
				return
			}
			prefix := topicPrefix(path)
			relayID := "+"
			if len(c.Args) > 0 {
				relayID = c.Args[0]
			}
			s.Listen(q, prefix+relayID+"/"+relay.StatsTopic, func(topic string, payload []byte) {
				stats, err := msgs.DecodeStats(payload)
				if err != nil {
					c.Printf("%s: bad stats: %v\n", topic, err)
					return
				}
				if s.OutputJSON {
					s.Print(c, stats)
					return
				}
				name := strings.TrimSuffix(strings.TrimPrefix(topic, prefix), "/"+relay.StatsTopic)
				c.Println(FormatStats(name, stats))
			})
		},
	}

	// RecentCmd prints archived records.
	RecentCmd = ishell.Cmd{
		Name:    "recent",
		Aliases: []string{"r"},
		Help:    "[COUNT]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var path string
			for _, sinkURL := range s.Config.Sinks {
				if u, err := url.Parse(sinkURL); err == nil && u.Scheme == "sqlite" {
					path = u.Path
					if u.Opaque != "" {
						path = u.Opaque
					}
					break
				}
			}
			if path == "" {
				c.Err(fmt.Errorf("no sqlite sink configured"))
				return
			}
			limit := 10
			if len(c.Args) > 0 {
				n, err := strconv.Atoi(c.Args[0])
				if err != nil {
					c.Err(err)
					return
				}
				limit = n
			}
			ctx := context.Background()
			archive, err := relay.OpenSQLiteSink(ctx, path)
			if err != nil {
				c.Err(err)
				return
			}
			defer archive.Close()
			records, err := archive.Recent(ctx, limit)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if records == nil {
					records = []*msgs.Record{}
				}
				s.Print(c, records)
				return
			}
			for _, m := range records {
				c.Printf("%s %s %s\n", m.Time().Format(time.RFC3339), m.Relay, frame.Record(m.Fields))
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(relay.NewConfig()).Run(flag.Args()...)
}
