package main

import (
	"github.com/robotalks/relay.go/pkg/cli/sh"
	"github.com/robotalks/relay.go/pkg/relay"
)

//go-build: CGO_ENABLED=0

func init() {
	relay.SetupFlags()
}

func main() {
	sh.Main()
}
