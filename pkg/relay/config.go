package relay

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/robotalks/relay.go/pkg/env"
	"github.com/robotalks/relay.go/pkg/frame"
	fx "github.com/robotalks/relay.go/pkg/framework"
	"github.com/robotalks/relay.go/pkg/link"
	"github.com/robotalks/relay.go/pkg/link/mqtt"
)

// Default serial speed when the URL has no baud query.
const DefaultBaudRate = 115200

// Config provides the options to build a relay.
type Config struct {
	ID          string
	Description string

	// Source is a URL: serial:///dev/ttyUSB0?baud=115200, file:-,
	// file:///path, mqtt://host:1883/topic or ws://host/path.
	Source string
	// Sinks are URLs: serial:///dev/rfcomm0?baud=9600, file:-,
	// mqtt://host:1883/prefix or sqlite:///path.db.
	Sinks StringList

	Delimiter  string
	FieldCount int
	// OutSeparator and OutTerminator accept Go escapes like \r\n.
	OutSeparator  string
	OutTerminator string
	Overrides     Overrides

	MaxFrameLength int
	IdleTimeout    time.Duration
	// StatsInterval is how often mqtt sinks publish counters, 0 disables.
	StatsInterval time.Duration
}

var defaultConfig = Config{
	Description:    "LoRa field node relay",
	Source:         "serial:///dev/ttyUSB0?baud=115200",
	Delimiter:      string(frame.DefaultDelimiter),
	FieldCount:     frame.DefaultFieldCount,
	OutSeparator:   frame.DefaultSeparator,
	OutTerminator:  `\r\n`,
	MaxFrameLength: link.DefaultMaxLength,
	StatsInterval:  DefaultStatsInterval,
}

func init() {
	if val := os.Getenv("RELAY_ID"); val != "" {
		defaultConfig.ID = val
	}
	if val := os.Getenv("RELAY_SOURCE"); val != "" {
		defaultConfig.Source = val
	}
	if val := os.Getenv("RELAY_SINKS"); val != "" {
		defaultConfig.Sinks = strings.Split(val, ",")
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Relay ID, defaults to the machine ID")
	flag.StringVar(&defaultConfig.Description, "desc", defaultConfig.Description, "Relay description")
	flag.StringVar(&defaultConfig.Source, "source", defaultConfig.Source, "Frame source URL")
	flag.Var(&defaultConfig.Sinks, "sink", "Record sink URL, repeatable (default file:-)")
	flag.StringVar(&defaultConfig.Delimiter, "delim", defaultConfig.Delimiter, "Field delimiter in frames")
	flag.IntVar(&defaultConfig.FieldCount, "fields", defaultConfig.FieldCount, "Number of fields per frame")
	flag.StringVar(&defaultConfig.OutSeparator, "out-sep", defaultConfig.OutSeparator, "Field separator written to byte stream sinks")
	flag.StringVar(&defaultConfig.OutTerminator, "out-term", defaultConfig.OutTerminator, "Record terminator written to byte stream sinks")
	flag.Var(&defaultConfig.Overrides, "override", "Replace a field, INDEX=VALUE with 0-based index, repeatable")
	flag.IntVar(&defaultConfig.MaxFrameLength, "max-frame", defaultConfig.MaxFrameLength, "Maximum frame length in bytes")
	flag.DurationVar(&defaultConfig.IdleTimeout, "idle-flush", defaultConfig.IdleTimeout, "Emit a partial frame after this much silence, 0 disables")
	flag.DurationVar(&defaultConfig.StatsInterval, "stats-interval", defaultConfig.StatsInterval, "Interval publishing counters to mqtt sinks, 0 disables")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Parser builds the frame parser.
func (c *Config) Parser() (frame.Parser, error) {
	if len(c.Delimiter) != 1 {
		return frame.Parser{}, fmt.Errorf("delimiter must be a single byte: %q", c.Delimiter)
	}
	if c.FieldCount < 1 {
		return frame.Parser{}, frame.ErrInvalidFieldCount
	}
	return frame.Parser{Delimiter: c.Delimiter[0], FieldCount: c.FieldCount}, nil
}

// Env is a relay with its sources and sinks.
type Env struct {
	Config *Config
	Relay  *Relay
	Sinks  *SinkMux

	runners []fx.Runnable
	closers []io.Closer
}

// NewEnv creates Env from config. Devices and files are opened here;
// network connections are made when the loop runs.
func (c *Config) NewEnv(ctx context.Context) (*Env, error) {
	parser, err := c.Parser()
	if err != nil {
		return nil, err
	}
	id := c.ID
	if id == "" {
		id = env.MachineID()
	}
	e := &Env{Config: c, Sinks: &SinkMux{}}
	e.Relay = &Relay{ID: id, Parser: parser, Overrides: c.Overrides, Sink: e.Sinks}

	sinks := c.Sinks
	if len(sinks) == 0 {
		sinks = []string{"file:-"}
	}
	for _, sinkURL := range sinks {
		if err := e.addSink(ctx, sinkURL); err != nil {
			e.Close()
			return nil, fmt.Errorf("sink %q: %v", sinkURL, err)
		}
	}
	if err := e.addSource(c.Source); err != nil {
		e.Close()
		return nil, fmt.Errorf("source %q: %v", c.Source, err)
	}
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv(ctx context.Context) *Env {
	e, err := c.NewEnv(ctx)
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

// AddToLoop implements LoopAdder.
func (e *Env) AddToLoop(l *fx.Loop) {
	l.Add(e.Relay)
	l.AddRunnable(e.runners...)
}

// Close releases opened devices, files and databases.
func (e *Env) Close() error {
	var errs fx.AggregatedError
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs.Add(e.closers[i].Close())
	}
	e.closers = nil
	return errs.Aggregate()
}

func (e *Env) addSource(sourceURL string) error {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "serial":
		baud, err := baudRate(u)
		if err != nil {
			return err
		}
		port, err := link.OpenSerial(urlPath(u), baud)
		if err != nil {
			return err
		}
		e.closers = append(e.closers, port)
		e.addFramer(port)
	case "file":
		if path := urlPath(u); path == "-" {
			e.addFramer(os.Stdin)
		} else {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			e.closers = append(e.closers, f)
			e.addFramer(f)
		}
	case "mqtt", "mqtts":
		opts, topic, err := mqtt.ParseURL(sourceURL)
		if err != nil {
			return err
		}
		if topic == "" {
			return fmt.Errorf("topic is required")
		}
		if opts.ClientID == "" {
			opts.SetClientID("relay:" + e.Relay.ID + ":source")
		}
		q := mqtt.NewQueue(opts, "")
		e.runners = append(e.runners,
			fx.NamedRun("mqtt-source", q),
			mqtt.NewSource(q, topic, e.Relay))
	case "ws", "wss":
		e.runners = append(e.runners, link.NewWebsocketSource(sourceURL, e.Relay))
	default:
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}

func (e *Env) addFramer(r io.Reader) {
	f := link.NewFramer(r, e.Relay)
	f.MaxLength = e.Config.MaxFrameLength
	f.IdleTimeout = e.Config.IdleTimeout
	e.runners = append(e.runners, fx.NamedRun("framer", f))
}

func (e *Env) addSink(ctx context.Context, sinkURL string) error {
	u, err := url.Parse(sinkURL)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "serial":
		baud, err := baudRate(u)
		if err != nil {
			return err
		}
		port, err := link.OpenSerial(urlPath(u), baud)
		if err != nil {
			return err
		}
		e.closers = append(e.closers, port)
		return e.addWriterSink(port)
	case "file":
		if path := urlPath(u); path != "-" {
			f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
			if err != nil {
				return err
			}
			e.closers = append(e.closers, f)
			return e.addWriterSink(f)
		}
		return e.addWriterSink(os.Stdout)
	case "mqtt", "mqtts":
		opts, prefix, err := mqtt.ParseURL(sinkURL)
		if err != nil {
			return err
		}
		if prefix != "" && !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		presence := &mqtt.Presence{
			Name: e.Relay.ID,
			Meta: mqtt.Meta{Description: e.Config.Description, Source: e.Config.Source},
		}
		presence.SetWill(opts, prefix)
		q := mqtt.NewQueue(opts, prefix)
		q.OnConnect = presence.Announce
		e.runners = append(e.runners, fx.NamedRun("mqtt-sink", &presenceRunner{queue: q, presence: presence}))
		e.Sinks.Add(NewMQTTSink(q, e.Relay.ID))
		if interval := e.Config.StatsInterval; interval > 0 {
			e.runners = append(e.runners, fx.NamedRun("mqtt-stats", NewStatsPublisher(e.Relay, interval, QueuePublisher(q))))
		}
	case "sqlite":
		path := urlPath(u)
		if path == "" {
			return fmt.Errorf("database path is required")
		}
		sink, err := OpenSQLiteSink(ctx, path)
		if err != nil {
			return err
		}
		e.closers = append(e.closers, sink)
		e.Sinks.Add(sink)
	default:
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}

func (e *Env) addWriterSink(w io.Writer) error {
	sep, err := unescape(e.Config.OutSeparator)
	if err != nil {
		return fmt.Errorf("out-sep: %v", err)
	}
	term, err := unescape(e.Config.OutTerminator)
	if err != nil {
		return fmt.Errorf("out-term: %v", err)
	}
	e.Sinks.Add(&WriterSink{Writer: w, Separator: sep, Terminator: term})
	return nil
}

type presenceRunner struct {
	queue    *mqtt.Queue
	presence *mqtt.Presence
}

func (r *presenceRunner) Run(ctx context.Context) error {
	if err := r.queue.Connect(); err != nil {
		return err
	}
	<-ctx.Done()
	r.presence.Withdraw(r.queue)
	r.queue.Close()
	return ctx.Err()
}

func urlPath(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}
	return u.Path
}

func baudRate(u *url.URL) (int, error) {
	val := u.Query().Get("baud")
	if val == "" {
		return DefaultBaudRate, nil
	}
	baud, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid baud %q", val)
	}
	return baud, nil
}

func unescape(s string) (string, error) {
	return strconv.Unquote(`"` + strings.Replace(s, `"`, `\"`, -1) + `"`)
}

// StringList is a repeatable string flag.
type StringList []string

// String implements flag.Value.
func (l *StringList) String() string {
	return strings.Join(*l, ",")
}

// Set implements flag.Value.
func (l *StringList) Set(val string) error {
	*l = append(*l, val)
	return nil
}

// Overrides maps 0-based field indices to replacement values.
type Overrides map[int]string

// String implements flag.Value.
func (o *Overrides) String() string {
	indices := make([]int, 0, len(*o))
	for index := range *o {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	pairs := make([]string, len(indices))
	for n, index := range indices {
		pairs[n] = strconv.Itoa(index) + "=" + (*o)[index]
	}
	return strings.Join(pairs, ",")
}

// Set implements flag.Value, accepting INDEX=VALUE.
func (o *Overrides) Set(val string) error {
	pos := strings.IndexByte(val, '=')
	if pos < 0 {
		return fmt.Errorf("expect INDEX=VALUE: %q", val)
	}
	index, err := strconv.Atoi(val[:pos])
	if err != nil || index < 0 {
		return fmt.Errorf("invalid field index %q", val[:pos])
	}
	if *o == nil {
		*o = make(Overrides)
	}
	(*o)[index] = val[pos+1:]
	return nil
}
