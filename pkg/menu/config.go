package menu

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	fx "github.com/robotalks/relay.go/pkg/framework"
	"github.com/robotalks/relay.go/pkg/gate"
	"github.com/robotalks/relay.go/pkg/input"
)

// DefaultRefreshInterval bounds how often the display is redrawn.
const DefaultRefreshInterval = 100 * time.Millisecond

// Input sources.
const (
	InputKeys     = "keys"
	InputJoystick = "joystick"
)

// Config defines the configurations for the menu.
type Config struct {
	ItemsFile       string
	RefreshInterval time.Duration
	Input           string
	DeviceIndex     int
	Axis            int
	Button          int
}

var defaultConfig = Config{
	RefreshInterval: DefaultRefreshInterval,
	Input:           InputKeys,
	DeviceIndex:     -1,
}

func init() {
	if val := os.Getenv("MENU_ITEMS"); val != "" {
		defaultConfig.ItemsFile = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ItemsFile, "items", defaultConfig.ItemsFile, "YAML file listing menu items.")
	flag.DurationVar(&defaultConfig.RefreshInterval, "refresh", defaultConfig.RefreshInterval, "Minimum interval between display refreshes.")
	flag.StringVar(&defaultConfig.Input, "input", defaultConfig.Input, "Input source: keys or joystick.")
	flag.IntVar(&defaultConfig.DeviceIndex, "device", defaultConfig.DeviceIndex, "Joystick device index, -1 for auto detection.")
	flag.IntVar(&defaultConfig.Axis, "axis", defaultConfig.Axis, "Joystick axis used as the knob.")
	flag.IntVar(&defaultConfig.Button, "button", defaultConfig.Button, "Joystick button used as the knob button.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewMenu creates the menu rendering to sink.
func (c *Config) NewMenu(sink gate.RenderSink) (*Menu, error) {
	items := DefaultItems()
	if c.ItemsFile != "" {
		loaded, err := LoadItems(c.ItemsFile)
		if err != nil {
			return nil, err
		}
		items = loaded
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no menu items")
	}
	return New(items, c.RefreshInterval, sink), nil
}

// NewInput creates the input source. Keys are read from stdin.
func (c *Config) NewInput() (fx.Runnable, error) {
	switch c.Input {
	case InputKeys:
		return input.NewKeys(os.Stdin), nil
	case InputJoystick:
		js := input.NewJoystick()
		js.DeviceIndex = c.DeviceIndex
		js.Axis = c.Axis
		js.Button = c.Button
		return js, nil
	}
	return nil, fmt.Errorf("unknown input %q", c.Input)
}

// MustNew creates the menu and its input, and fails on error.
func (c *Config) MustNew(sink gate.RenderSink) (*Menu, fx.Runnable) {
	m, err := c.NewMenu(sink)
	if err != nil {
		log.Fatalln(err)
	}
	in, err := c.NewInput()
	if err != nil {
		log.Fatalln(err)
	}
	return m, in
}
