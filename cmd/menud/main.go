package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/relay.go/pkg/display"
	fx "github.com/robotalks/relay.go/pkg/framework"
	"github.com/robotalks/relay.go/pkg/menu"
)

var (
	rows  = display.DefaultRows
	cols  = display.DefaultCols
	plain bool
)

func init() {
	menu.SetupFlags()
	flag.IntVar(&rows, "rows", rows, "Display rows.")
	flag.IntVar(&cols, "cols", cols, "Display columns.")
	flag.BoolVar(&plain, "plain", plain, "Print plain lines instead of drawing a frame.")
}

func main() {
	flag.Parse()

	screen := display.NewText(os.Stdout)
	screen.Rows, screen.Cols, screen.Plain = rows, cols, plain
	if err := screen.Validate(); err != nil {
		log.Fatalln(err)
	}
	m, in := menu.NewConfig().MustNew(screen)
	fx.NewLoop().Add(m).AddRunnable(in).RunOrFail()
}
